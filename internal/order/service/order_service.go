package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ridloal/mini-store/internal/order/domain"
	"github.com/ridloal/mini-store/internal/order/repository"
	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/platform/config"
	"github.com/ridloal/mini-store/internal/platform/database"
	"github.com/ridloal/mini-store/internal/platform/logger"
)

var (
	ErrAdminOnly      = apperr.New(apperr.ErrUnauthorized, "this operation requires the Admin role")
	ErrMissingCaller  = apperr.New(apperr.ErrUnauthenticated, "caller identity is required")
	ErrNotCancellable = apperr.New(apperr.ErrInvalidTransition, "only Pending or Processing orders can be cancelled")
	ErrNotDeletable   = apperr.New(apperr.ErrInvalidTransition, "only Cancelled or Completed orders can be deleted")
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req domain.CreateOrderRequest) (string, error)
	GetMyOrders(ctx context.Context, userID string) ([]domain.Order, error)
	CancelOrder(ctx context.Context, orderID, callerUserID string) error
	ListOrders(ctx context.Context, search string, callerRole auth.Role) ([]domain.Order, error)
	// UpdateStatus is an administrative override; it does not consult the transition table.
	UpdateStatus(ctx context.Context, orderID, newStatus string, callerRole auth.Role) (domain.OrderStatus, error)
	SoftDeleteOrder(ctx context.Context, orderID string, callerRole auth.Role) error
}

type orderServiceImpl struct {
	orderRepo    repository.OrderRepository
	reserveStock bool
}

func NewOrderService(or repository.OrderRepository, cfg config.OrderConfig) OrderService {
	return &orderServiceImpl{
		orderRepo:    or,
		reserveStock: cfg.ReserveStock,
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, userID string, req domain.CreateOrderRequest) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", ErrMissingCaller
	}
	items, err := req.Validate()
	if err != nil {
		return "", err
	}

	// Prices are the caller's snapshot from the cart, never re-read from the catalog.
	order := &domain.Order{
		UserID:      userID,
		Items:       items,
		TotalAmount: domain.ComputeTotal(items),
		Status:      domain.StatusPending,
	}
	if err := s.orderRepo.CreateOrderWithItems(ctx, order, s.reserveStock); err != nil {
		if apperr.KindOf(err) != nil {
			return "", err
		}
		return "", fmt.Errorf("could not save order: %w", err)
	}

	logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int("items", len(items)),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)
	return order.ID, nil
}

func (s *orderServiceImpl) GetMyOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingCaller
	}
	return s.orderRepo.ListOrdersByUserID(ctx, userID, false)
}

func (s *orderServiceImpl) CancelOrder(ctx context.Context, orderID, callerUserID string) error {
	return s.withLockedOrder(ctx, orderID, func(tx database.DBTX, o *domain.Order) error {
		// Someone else's order is reported as missing rather than forbidden.
		if o.UserID != callerUserID {
			return repository.ErrOrderNotFound
		}
		if !o.Status.CanTransitionTo(domain.StatusCancelled) {
			return fmt.Errorf("%w (current status %s)", ErrNotCancellable, o.Status)
		}
		return s.orderRepo.UpdateOrderStatus(ctx, tx, o.ID, domain.StatusCancelled)
	})
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, search string, callerRole auth.Role) ([]domain.Order, error) {
	if callerRole != auth.RoleAdmin {
		return nil, ErrAdminOnly
	}
	return s.orderRepo.ListOrders(ctx, domain.OrderFilter{Search: search})
}

func (s *orderServiceImpl) UpdateStatus(ctx context.Context, orderID, newStatus string, callerRole auth.Role) (domain.OrderStatus, error) {
	if callerRole != auth.RoleAdmin {
		return "", ErrAdminOnly
	}
	status, err := domain.ParseOrderStatus(newStatus)
	if err != nil {
		return "", err
	}

	err = s.withLockedOrder(ctx, orderID, func(tx database.DBTX, o *domain.Order) error {
		if o.Status != status {
			logger.Info("Order status overridden",
				zap.String("order_id", o.ID),
				zap.String("from", string(o.Status)),
				zap.String("to", string(status)),
			)
		}
		return s.orderRepo.UpdateOrderStatus(ctx, tx, o.ID, status)
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

func (s *orderServiceImpl) SoftDeleteOrder(ctx context.Context, orderID string, callerRole auth.Role) error {
	if callerRole != auth.RoleAdmin {
		return ErrAdminOnly
	}
	return s.withLockedOrder(ctx, orderID, func(tx database.DBTX, o *domain.Order) error {
		if !o.Status.IsTerminal() {
			return fmt.Errorf("%w (current status %s)", ErrNotDeletable, o.Status)
		}
		return s.orderRepo.MarkOrderDeleted(ctx, tx, o.ID)
	})
}

// withLockedOrder runs fn against the locked, non-deleted order and commits only if fn succeeds.
func (s *orderServiceImpl) withLockedOrder(ctx context.Context, orderID string, fn func(tx database.DBTX, o *domain.Order) error) error {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		logger.Error("Order transaction: failed to begin", err)
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	o, err := s.orderRepo.LockOrder(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if err := fn(tx, o); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		logger.Error("Order transaction: commit failed", err, zap.String("order_id", orderID))
		return fmt.Errorf("could not commit order change: %w", err)
	}
	return nil
}
