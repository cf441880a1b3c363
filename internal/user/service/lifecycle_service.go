package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/platform/logger"
	"github.com/ridloal/mini-store/internal/user/domain"
	"github.com/ridloal/mini-store/internal/user/repository"
)

var (
	ErrAdminOnly             = apperr.New(apperr.ErrUnauthorized, "only admins can manage accounts")
	ErrInvalidUserTransition = apperr.New(apperr.ErrInvalidTransition, "account status transition not allowed")
	ErrAlreadyDeactivated    = apperr.New(apperr.ErrInvalidTransition, "account is already deactivated")
)

// LifecycleService drives the account status state machine.
// Admin targets and self-deletion are refused through auth.CheckProtected.
type LifecycleService interface {
	ListNonAdmin(ctx context.Context, caller auth.Caller) ([]domain.User, error)
	Disable(ctx context.Context, userID string, caller auth.Caller) error
	Enable(ctx context.Context, userID string, caller auth.Caller) error
	SoftDelete(ctx context.Context, userID string, caller auth.Caller) error
	SelfDeactivate(ctx context.Context, callerUserID string) error
}

type lifecycleService struct {
	repo repository.UserRepository
	now  func() time.Time
}

func NewLifecycleService(repo repository.UserRepository) LifecycleService {
	return &lifecycleService{repo: repo, now: time.Now}
}

func (s *lifecycleService) ListNonAdmin(ctx context.Context, caller auth.Caller) ([]domain.User, error) {
	if !caller.IsAdmin() {
		return nil, ErrAdminOnly
	}
	return s.repo.ListUsersByRole(ctx, auth.RoleCustomer, true)
}

func (s *lifecycleService) Disable(ctx context.Context, userID string, caller auth.Caller) error {
	at := s.now().UTC()
	return s.transition(ctx, userID, caller, auth.OpDisable, domain.StatusDisabled, &at)
}

func (s *lifecycleService) Enable(ctx context.Context, userID string, caller auth.Caller) error {
	return s.transition(ctx, userID, caller, auth.OpEnable, domain.StatusActive, nil)
}

func (s *lifecycleService) SoftDelete(ctx context.Context, userID string, caller auth.Caller) error {
	if err := auth.CheckProtected(auth.Target{ID: userID}, caller, auth.OpDelete); err != nil {
		return err
	}
	at := s.now().UTC()
	return s.transition(ctx, userID, caller, auth.OpDelete, domain.StatusDeleted, &at)
}

// transition applies an admin-initiated status change. disable and enable are strict:
// only Active can be disabled and only Disabled can be enabled.
func (s *lifecycleService) transition(ctx context.Context, userID string, caller auth.Caller, op auth.Operation, to domain.Status, deletedAt *time.Time) error {
	if !caller.IsAdmin() {
		return ErrAdminOnly
	}
	user, err := s.repo.GetUserByID(ctx, userID, true)
	if err != nil {
		return err
	}
	if err := auth.CheckProtected(user.Target(), caller, op); err != nil {
		logger.Warn("Refused protected account change",
			zap.String("user_id", userID), zap.String("operation", op.String()), zap.String("caller_id", caller.UserID))
		return err
	}
	if !user.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: cannot move account from %s to %s", ErrInvalidUserTransition, user.Status, to)
	}
	if err := s.repo.UpdateUserStatus(ctx, user.ID, user.Status, to, deletedAt); err != nil {
		return err
	}
	logger.Info("Account status changed",
		zap.String("user_id", user.ID), zap.String("from", string(user.Status)), zap.String("to", string(to)))
	return nil
}

func (s *lifecycleService) SelfDeactivate(ctx context.Context, callerUserID string) error {
	user, err := s.repo.GetUserByID(ctx, callerUserID, false)
	if err != nil {
		return err
	}
	if err := auth.CheckProtected(user.Target(), user.Caller(), auth.OpSelfDeactivate); err != nil {
		return err
	}
	if user.Status != domain.StatusActive {
		return ErrAlreadyDeactivated
	}
	if err := s.repo.DeactivateUser(ctx, user.ID, s.now().UTC()); err != nil {
		return err
	}
	logger.Info("Account self-deactivated", zap.String("user_id", user.ID))
	return nil
}
