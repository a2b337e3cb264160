package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/scentra/scentra-backend/internal/app/service"
	apperrors "github.com/scentra/scentra-backend/internal/errors"
	"github.com/scentra/scentra-backend/internal/middleware"
	"github.com/scentra/scentra-backend/internal/websocket"
	"github.com/scentra/scentra-backend/pkg/payment/solstra"
)

type PaymentController struct {
	checkoutService service.CheckoutService
	hub             *websocket.Hub
	upgrader        gorillaws.Upgrader
}

func NewPaymentController(checkoutService service.CheckoutService, hub *websocket.Hub) *PaymentController {
	return &PaymentController{
		checkoutService: checkoutService,
		hub:             hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// CORS policy is enforced at the router level
				return true
			},
		},
	}
}

type CreatePaymentRequest struct {
	Currency string `json:"currency"`
}

// CreatePayment registers an order with the payment provider
// POST /api/v1/orders/:id/payment
func (ctrl *PaymentController) CreatePayment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	result, err := ctrl.checkoutService.CreatePayment(c.Request.Context(), userID, uint(orderID), req.Currency)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		case errors.Is(err, service.ErrPaymentAlreadyProcessed):
			apperrors.Conflict(c, apperrors.PaymentAlreadyProcessed, "This order is already paid")
		case errors.Is(err, service.ErrPaymentUpstream):
			log.Error("Payment provider unavailable", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.BadGateway(c, apperrors.PaymentUpstreamFailed, "Payment provider is unavailable, try again")
		default:
			log.Error("Failed to create payment", err, map[string]interface{}{
				"order_id": orderID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": result})
}

// CheckPayment polls the provider for settlement and finalizes the
// order if the funds arrived
// POST /api/v1/payments/:payment_id/check
func (ctrl *PaymentController) CheckPayment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	paymentID := c.Param("payment_id")

	order, err := ctrl.checkoutService.CheckPaymentStatus(c.Request.Context(), paymentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			apperrors.NotFound(c, apperrors.PaymentNotFound, "Payment not found")
		case errors.Is(err, service.ErrPaymentUpstream):
			apperrors.BadGateway(c, apperrors.PaymentUpstreamFailed, "Payment provider is unavailable, try again")
		default:
			log.Error("Failed to check payment", err, map[string]interface{}{
				"payment_id": paymentID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	if order.UserID != userID {
		apperrors.NotFound(c, apperrors.PaymentNotFound, "Payment not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// HandleWebhook receives settlement callbacks from the provider. The
// payment state is re-verified against the provider, so a forged body
// cannot mark an order paid.
// POST /api/v1/payments/webhook
func (ctrl *PaymentController) HandleWebhook(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var payload solstra.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.PaymentID == "" {
		log.Warn("Malformed payment webhook", nil)
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "paymentID is required")
		return
	}

	order, err := ctrl.checkoutService.HandleWebhook(c.Request.Context(), payload.PaymentID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			// Unknown payment, acknowledge so the provider stops retrying
			log.Warn("Webhook for unknown payment", map[string]interface{}{
				"payment_id": payload.PaymentID,
			})
			c.JSON(http.StatusOK, gin.H{"message": "ignored"})
			return
		}
		log.Error("Failed to process payment webhook", err, map[string]interface{}{
			"payment_id": payload.PaymentID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":       order.ID,
		"payment_status": order.PaymentStatus,
	})
}

// ServeWS upgrades the connection and streams payment events to the
// authenticated user
// GET /api/v1/payments/ws
func (ctrl *PaymentController) ServeWS(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &websocket.Client{
		Hub:    ctrl.hub,
		Conn:   &websocket.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 64),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
