package websocket

import (
	"encoding/json"
	"sync"

	"github.com/scentra/scentra-backend/pkg/logger"
)

// PaymentEvent is pushed to a buyer when the state of one of their
// payments changes
type PaymentEvent struct {
	Type          string `json:"type"` // payment_completed
	OrderID       uint   `json:"order_id"`
	PaymentID     string `json:"payment_id"`
	PaymentStatus string `json:"payment_status"`
}

// Client is a single WebSocket session
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub tracks connected clients and routes payment events to them
type Hub struct {
	// UserID -> sessions (one user may have several devices connected)
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *userMessage

	mu sync.RWMutex
}

type userMessage struct {
	UserID  uint
	Message []byte
}

// NewHub creates a Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *userMessage, 1024),
	}
}

// Run processes hub events. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			if clientList, ok := h.clients[message.UserID]; ok {
				for _, client := range clientList {
					select {
					case client.Send <- message.Message:
					default:
						// Send buffer full, drop the session
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": message.UserID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// NotifyPayment pushes a payment event to every session of a user.
// Delivery is best effort; the order record stays the source of truth.
func (h *Hub) NotifyPayment(userID uint, event PaymentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal payment event", err, nil)
		return err
	}

	select {
	case h.broadcast <- &userMessage{UserID: userID, Message: data}:
		return nil
	default:
		logger.Warn("Broadcast channel full, payment event dropped", map[string]interface{}{
			"user_id":  userID,
			"order_id": event.OrderID,
		})
		return nil
	}
}

// Register adds a client session
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client session
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline reports whether a user has at least one open session
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
