package repository

import (
	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByIDForUpdate(tx *gorm.DB, id uint) (*model.Order, error)
	FindByPaymentID(paymentID string) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindPendingPayments(limit int) ([]model.Order, error)
	Update(tx *gorm.DB, order *model.Order) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(tx *gorm.DB, order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
		"items_count":  len(order.OrderItems),
	})

	if err := tx.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id": order.UserID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	err := r.db.Preload("OrderItems").First(&order, id).Error
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// FindByIDForUpdate loads an order with a row lock inside the given
// transaction. Used to serialize concurrent payment confirmations.
func (r *orderRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*model.Order, error) {
	var order model.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("OrderItems").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByPaymentID(paymentID string) (*model.Order, error) {
	logger.Debug("Finding order by payment ID in database", map[string]interface{}{
		"payment_id": paymentID,
	})

	var order model.Order
	err := r.db.Preload("OrderItems").Where("payment_id = ?", paymentID).First(&order).Error
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	logger.Debug("Finding orders by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var orders []model.Order
	err := r.db.Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

// FindPendingPayments returns orders whose payment was created but not
// yet confirmed, oldest first.
func (r *orderRepository) FindPendingPayments(limit int) ([]model.Order, error) {
	var orders []model.Order
	query := r.db.Where("payment_id <> '' AND payment_status = ?", model.PaymentStatusPending).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&orders).Error; err != nil {
		logger.Error("Failed to find pending payments in database", err, nil)
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Update(tx *gorm.DB, order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id":       order.ID,
		"status":         order.Status,
		"payment_status": order.PaymentStatus,
	})

	if err := tx.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}

	return nil
}
