package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/scentra/scentra-backend/internal/app/model"
	"github.com/scentra/scentra-backend/internal/app/repository"
	"github.com/scentra/scentra-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

type CartService interface {
	GetCart(userID uint) (*model.Cart, error)
	AddItem(userID, productID uint, quantity int) (*model.Cart, error)
	UpdateItem(userID, itemID uint, quantity int) (*model.Cart, error)
	RemoveItem(userID, itemID uint) (*model.Cart, error)
	ClearCart(userID uint) (*model.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		db:          db,
	}
}

// roundAmount keeps monetary totals at two decimal places
func roundAmount(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// cartTotal derives the total from unit price and quantity rather than
// the stored subtotals, so a stale subtotal can never corrupt it.
func cartTotal(items []model.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return roundAmount(total)
}

// GetCart returns the user's cart, creating an empty one for accounts
// that predate automatic cart provisioning.
func (s *cartService) GetCart(userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("No cart found, creating one", map[string]interface{}{
				"user_id": userID,
			})
			cart = &model.Cart{UserID: userID}
			if createErr := s.cartRepo.Create(cart); createErr != nil {
				return nil, createErr
			}
			return cart, nil
		}
		logger.Error("Failed to get cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return cart, nil
}

// AddItem puts a product into the cart. Adding a product that is
// already in the cart increments its quantity; the unit price stays
// the one captured at first add.
func (s *cartService) AddItem(userID, productID uint, quantity int) (*model.Cart, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	// Make sure the cart row exists before locking it
	if _, err := s.GetCart(userID); err != nil {
		return nil, err
	}

	err = s.withLockedCart(userID, func(tx *gorm.DB, cart *model.Cart) error {
		existing, err := s.cartRepo.FindItem(tx, cart.ID, productID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if existing != nil {
			existing.Quantity += quantity
			existing.Subtotal = roundAmount(existing.Price * float64(existing.Quantity))
			if err := s.cartRepo.UpdateItem(tx, existing); err != nil {
				return err
			}
		} else {
			item := &model.CartItem{
				CartID:    cart.ID,
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				Quantity:  quantity,
				Subtotal:  roundAmount(product.Price * float64(quantity)),
			}
			if err := s.cartRepo.CreateItem(tx, item); err != nil {
				return err
			}
		}

		return s.recalculateTotal(tx, cart)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindByUserID(userID)
}

// UpdateItem changes the quantity of a cart line. A quantity of zero
// or less removes the line.
func (s *cartService) UpdateItem(userID, itemID uint, quantity int) (*model.Cart, error) {
	logger.Info("Updating cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
		"quantity":     quantity,
	})

	err := s.withLockedCart(userID, func(tx *gorm.DB, cart *model.Cart) error {
		item, err := s.cartRepo.FindItemByID(tx, cart.ID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return err
		}

		if quantity <= 0 {
			if err := s.cartRepo.DeleteItem(tx, item.ID); err != nil {
				return err
			}
		} else {
			item.Quantity = quantity
			item.Subtotal = roundAmount(item.Price * float64(quantity))
			if err := s.cartRepo.UpdateItem(tx, item); err != nil {
				return err
			}
		}

		return s.recalculateTotal(tx, cart)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindByUserID(userID)
}

// RemoveItem deletes a cart line
func (s *cartService) RemoveItem(userID, itemID uint) (*model.Cart, error) {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": itemID,
	})

	err := s.withLockedCart(userID, func(tx *gorm.DB, cart *model.Cart) error {
		item, err := s.cartRepo.FindItemByID(tx, cart.ID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return err
		}

		if err := s.cartRepo.DeleteItem(tx, item.ID); err != nil {
			return err
		}

		return s.recalculateTotal(tx, cart)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindByUserID(userID)
}

// ClearCart removes every line and resets the total. Clearing an
// already empty or never-created cart succeeds.
func (s *cartService) ClearCart(userID uint) (*model.Cart, error) {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id": userID,
	})

	// Make sure the cart row exists before locking it
	if _, err := s.GetCart(userID); err != nil {
		return nil, err
	}

	err := s.withLockedCart(userID, func(tx *gorm.DB, cart *model.Cart) error {
		if err := s.cartRepo.DeleteAllItems(tx, cart.ID); err != nil {
			return err
		}
		cart.TotalAmount = 0
		return s.cartRepo.Update(tx, cart)
	})
	if err != nil {
		return nil, err
	}

	return s.cartRepo.FindByUserID(userID)
}

// withLockedCart runs fn inside a transaction holding a row lock on
// the user's cart, so concurrent mutations of the same cart serialize.
func (s *cartService) withLockedCart(userID uint, fn func(tx *gorm.DB, cart *model.Cart) error) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during cart mutation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	cart, err := s.cartRepo.FindByUserIDForUpdate(tx, userID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}

	if err := fn(tx, cart); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit cart mutation", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}
	return nil
}

// recalculateTotal derives the cart total from the current lines
// inside the transaction.
func (s *cartService) recalculateTotal(tx *gorm.DB, cart *model.Cart) error {
	var items []model.CartItem
	if err := tx.Where("cart_id = ?", cart.ID).Find(&items).Error; err != nil {
		return err
	}

	cart.TotalAmount = cartTotal(items)
	return s.cartRepo.Update(tx, cart)
}
