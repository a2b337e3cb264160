package repository

import (
	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	Create(cart *model.Cart) error
	FindByUserID(userID uint) (*model.Cart, error)
	FindByUserIDForUpdate(tx *gorm.DB, userID uint) (*model.Cart, error)
	Update(tx *gorm.DB, cart *model.Cart) error
	CreateItem(tx *gorm.DB, item *model.CartItem) error
	FindItem(tx *gorm.DB, cartID, productID uint) (*model.CartItem, error)
	FindItemByID(tx *gorm.DB, cartID, itemID uint) (*model.CartItem, error)
	UpdateItem(tx *gorm.DB, item *model.CartItem) error
	DeleteItem(tx *gorm.DB, itemID uint) error
	DeleteAllItems(tx *gorm.DB, cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id": cart.UserID,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Finding cart by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.id ASC")
	}).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

// FindByUserIDForUpdate loads a cart with a row lock inside the given
// transaction. Callers must commit or roll back the transaction.
func (r *cartRepository) FindByUserIDForUpdate(tx *gorm.DB, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id ASC")
		}).
		Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Update(tx *gorm.DB, cart *model.Cart) error {
	if err := tx.Model(&model.Cart{}).Where("id = ?", cart.ID).
		Update("total_amount", cart.TotalAmount).Error; err != nil {
		logger.Error("Failed to update cart in database", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) CreateItem(tx *gorm.DB, item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id":    item.CartID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})

	if err := tx.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}

	return nil
}

func (r *cartRepository) FindItem(tx *gorm.DB, cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindItemByID(tx *gorm.DB, cartID, itemID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := tx.Where("cart_id = ? AND id = ?", cartID, itemID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) UpdateItem(tx *gorm.DB, item *model.CartItem) error {
	if err := tx.Save(item).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItem(tx *gorm.DB, itemID uint) error {
	logger.Debug("Deleting cart item from database", map[string]interface{}{
		"cart_item_id": itemID,
	})

	if err := tx.Delete(&model.CartItem{}, itemID).Error; err != nil {
		logger.Error("Failed to delete cart item from database", err, map[string]interface{}{
			"cart_item_id": itemID,
		})
		return err
	}

	return nil
}

func (r *cartRepository) DeleteAllItems(tx *gorm.DB, cartID uint) error {
	logger.Debug("Deleting all cart items from database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items from database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}

	return nil
}
