package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/internal/app/repository"
	"github.com/scentra/scentra-backend/internal/websocket"
	"github.com/scentra/scentra-backend/pkg/logger"
	"github.com/scentra/scentra-backend/pkg/payment/solstra"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")
	ErrPaymentUpstream         = errors.New("payment provider request failed")
)

// PaymentResult is returned to the buyer after a payment is created
type PaymentResult struct {
	Order         *model.Order `json:"order"`
	PaymentID     string       `json:"payment_id"`
	WalletAddress string       `json:"wallet_address"`
	Currency      string       `json:"currency"`
	Amount        float64      `json:"amount"`
}

type CheckoutService interface {
	StartCheckout(userID uint, shippingAddress string) (*model.Order, error)
	CreatePayment(ctx context.Context, userID, orderID uint, currency string) (*PaymentResult, error)
	CheckPaymentStatus(ctx context.Context, paymentID string) (*model.Order, error)
	HandleWebhook(ctx context.Context, paymentID string) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
}

type checkoutService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	payClient *solstra.Client
	hub       *websocket.Hub
	db        *gorm.DB
}

func NewCheckoutService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	payClient *solstra.Client,
	hub *websocket.Hub,
	db *gorm.DB,
) CheckoutService {
	return &checkoutService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		payClient: payClient,
		hub:       hub,
		db:        db,
	}
}

// StartCheckout snapshots the cart into a pending order. The cart is
// left untouched until the payment is confirmed, so an abandoned
// checkout loses nothing.
func (s *checkoutService) StartCheckout(userID uint, shippingAddress string) (*model.Order, error) {
	logger.Info("Starting checkout", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		logger.Error("Failed to load cart for checkout", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	if len(cart.Items) == 0 {
		logger.Warn("Cannot start checkout: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	orderItems := make([]model.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		orderItems = append(orderItems, model.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}

	order := &model.Order{
		UserID:          userID,
		TotalAmount:     cartTotal(cart.Items),
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		ShippingAddress: shippingAddress,
		OrderItems:      orderItems,
	}

	if err := s.orderRepo.Create(s.db, order); err != nil {
		return nil, err
	}

	logger.Info("Checkout started", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
		"items_count":  len(orderItems),
	})
	return order, nil
}

// CreatePayment registers the order with the payment provider and
// stores the wallet address the buyer must transfer funds into.
func (s *checkoutService) CreatePayment(ctx context.Context, userID, orderID uint, currency string) (*PaymentResult, error) {
	logger.Info("Creating payment", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
		"currency": currency,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		logger.Warn("Payment creation denied: order belongs to another user", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, ErrOrderNotFound
	}
	if order.PaymentStatus == model.PaymentStatusCompleted {
		return nil, ErrPaymentAlreadyProcessed
	}

	resp, err := s.payClient.Create(ctx, solstra.CreateRequest{
		Currency: currency,
		Amount:   order.TotalAmount,
	})
	if err != nil {
		logger.Error("Payment provider create call failed", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, fmt.Errorf("%w: %v", ErrPaymentUpstream, err)
	}

	order.PaymentID = resp.Data.ID
	order.WalletAddress = resp.Data.WalletAddress
	order.PaymentCurrency = resp.Data.Currency
	order.PaymentCheckURL = resp.Data.CheckPaid
	now := time.Now()
	order.PaymentUpdatedAt = &now

	if err := s.orderRepo.Update(s.db, order); err != nil {
		return nil, err
	}

	logger.Info("Payment created", map[string]interface{}{
		"order_id":   orderID,
		"payment_id": order.PaymentID,
		"currency":   order.PaymentCurrency,
	})

	return &PaymentResult{
		Order:         order,
		PaymentID:     order.PaymentID,
		WalletAddress: order.WalletAddress,
		Currency:      order.PaymentCurrency,
		Amount:        order.TotalAmount,
	}, nil
}

// CheckPaymentStatus asks the provider whether the payment settled and
// finalizes the order when it did. Safe to call any number of times:
// an already confirmed payment is reported without side effects, so
// webhook delivery, buyer polling, and the reconciliation sweep can
// all race freely.
func (s *checkoutService) CheckPaymentStatus(ctx context.Context, paymentID string) (*model.Order, error) {
	logger.Info("Checking payment status", map[string]interface{}{
		"payment_id": paymentID,
	})

	order, err := s.orderRepo.FindByPaymentID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if order.PaymentStatus == model.PaymentStatusCompleted {
		logger.Debug("Payment already confirmed", map[string]interface{}{
			"payment_id": paymentID,
			"order_id":   order.ID,
		})
		return order, nil
	}

	resp, err := s.payClient.Check(ctx, paymentID)
	if err != nil {
		logger.Error("Payment provider check call failed", err, map[string]interface{}{
			"payment_id": paymentID,
		})
		return nil, fmt.Errorf("%w: %v", ErrPaymentUpstream, err)
	}

	if !resp.Data.IsPaid {
		logger.Debug("Payment not settled yet", map[string]interface{}{
			"payment_id": paymentID,
			"order_id":   order.ID,
		})
		return order, nil
	}

	return s.confirmPayment(order.ID, paymentID)
}

// confirmPayment marks the order paid and clears the buyer's cart in
// one transaction. The row lock makes concurrent confirmations of the
// same payment collapse into a single state change.
func (s *checkoutService) confirmPayment(orderID uint, paymentID string) (*model.Order, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during payment confirmation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"payment_id": paymentID,
			})
		}
	}()

	order, err := s.orderRepo.FindByIDForUpdate(tx, orderID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	// Another caller won the race
	if order.PaymentStatus == model.PaymentStatusCompleted {
		tx.Rollback()
		return order, nil
	}

	now := time.Now()
	order.Status = model.OrderStatusPaid
	order.PaymentStatus = model.PaymentStatusCompleted
	order.PaymentUpdatedAt = &now

	if err := s.orderRepo.Update(tx, order); err != nil {
		tx.Rollback()
		return nil, err
	}

	// The cart is only emptied once the money actually arrived
	cart, err := s.cartRepo.FindByUserIDForUpdate(tx, order.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return nil, err
	}
	if cart != nil {
		if err := s.cartRepo.DeleteAllItems(tx, cart.ID); err != nil {
			tx.Rollback()
			return nil, err
		}
		cart.TotalAmount = 0
		if err := s.cartRepo.Update(tx, cart); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit payment confirmation", err, map[string]interface{}{
			"payment_id": paymentID,
		})
		return nil, err
	}

	logger.Info("Payment confirmed, order paid", map[string]interface{}{
		"order_id":   order.ID,
		"payment_id": paymentID,
		"user_id":    order.UserID,
	})

	if s.hub != nil {
		s.hub.NotifyPayment(order.UserID, websocket.PaymentEvent{
			Type:          "payment_completed",
			OrderID:       order.ID,
			PaymentID:     paymentID,
			PaymentStatus: string(order.PaymentStatus),
		})
	}

	return order, nil
}

// HandleWebhook funnels provider callbacks through the same
// verification path as polling. The provider is re-queried instead of
// trusting the callback body.
func (s *checkoutService) HandleWebhook(ctx context.Context, paymentID string) (*model.Order, error) {
	logger.Info("Payment webhook received", map[string]interface{}{
		"payment_id": paymentID,
	})
	return s.CheckPaymentStatus(ctx, paymentID)
}

func (s *checkoutService) GetUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *checkoutService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	// Hide other users' orders rather than admit they exist
	if order.UserID != userID {
		logger.Warn("Order access denied", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
		})
		return nil, ErrOrderNotFound
	}

	return order, nil
}
