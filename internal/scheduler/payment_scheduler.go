package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/scentra/scentra-backend/internal/app/repository"
	"github.com/scentra/scentra-backend/internal/app/service"
	"github.com/scentra/scentra-backend/pkg/logger"
)

const (
	// pendingBatchSize caps how many orders one reconciliation pass touches.
	pendingBatchSize = 50
	checkTimeout     = 15 * time.Second
)

// PaymentScheduler periodically re-checks orders whose payment is still
// pending, so orders settle even when the provider webhook never arrives.
type PaymentScheduler struct {
	cron            *cron.Cron
	orderRepo       repository.OrderRepository
	checkoutService service.CheckoutService
	interval        time.Duration
}

func NewPaymentScheduler(
	orderRepo repository.OrderRepository,
	checkoutService service.CheckoutService,
	interval time.Duration,
) *PaymentScheduler {
	return &PaymentScheduler{
		cron:            cron.New(),
		orderRepo:       orderRepo,
		checkoutService: checkoutService,
		interval:        interval,
	}
}

func (s *PaymentScheduler) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)

	_, err := s.cron.AddFunc(spec, s.reconcile)
	if err != nil {
		logger.Error("Failed to schedule payment reconciliation", err)
		return err
	}

	s.cron.Start()
	logger.Info("Payment reconciliation scheduler started", map[string]interface{}{
		"interval": s.interval.String(),
	})

	return nil
}

func (s *PaymentScheduler) Stop() {
	logger.Info("Stopping payment reconciliation scheduler...", nil)
	s.cron.Stop()
	logger.Info("Payment reconciliation scheduler stopped", nil)
}

func (s *PaymentScheduler) reconcile() {
	orders, err := s.orderRepo.FindPendingPayments(pendingBatchSize)
	if err != nil {
		logger.Error("Failed to load pending payments", err)
		return
	}

	if len(orders) == 0 {
		return
	}

	logger.Info("Reconciling pending payments", map[string]interface{}{
		"count": len(orders),
	})

	settled := 0
	for _, order := range orders {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		updated, err := s.checkoutService.CheckPaymentStatus(ctx, order.PaymentID)
		cancel()

		if err != nil {
			logger.Warn("Payment reconciliation check failed", map[string]interface{}{
				"order_id":   order.ID,
				"payment_id": order.PaymentID,
				"error":      err.Error(),
			})
			continue
		}

		if updated.PaymentStatus == order.PaymentStatus {
			continue
		}
		settled++
	}

	if settled > 0 {
		logger.Info("Payment reconciliation settled orders", map[string]interface{}{
			"settled": settled,
		})
	}
}
