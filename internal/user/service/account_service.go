package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/platform/config"
	"github.com/ridloal/mini-store/internal/platform/logger"
	"github.com/ridloal/mini-store/internal/user/domain"
	"github.com/ridloal/mini-store/internal/user/repository"
)

var (
	ErrInvalidCredentials  = apperr.New(apperr.ErrUnauthenticated, "invalid username or password")
	ErrInvalidRefreshToken = apperr.New(apperr.ErrUnauthenticated, "invalid or expired refresh token")
	ErrPasswordTooLong     = apperr.New(apperr.ErrValidation, "password is too long")
	ErrUserNameRequired    = apperr.New(apperr.ErrValidation, "username is required")
)

const (
	saltBytes         = 16
	refreshTokenBytes = 32
	// bcrypt ignores input beyond 72 bytes.
	maxHashInput = 72
)

type TokenIssuer interface {
	Issue(caller auth.Caller) (string, time.Time, error)
}

type AccountService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenResponse, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	// EnsureAdmin creates an Admin account when none exists. It reports whether one was created.
	EnsureAdmin(ctx context.Context, userName, password string) (bool, error)
}

type accountService struct {
	repo       repository.UserRepository
	tokens     TokenIssuer
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAccountService(repo repository.UserRepository, tokens TokenIssuer, cfg config.AuthConfig) AccountService {
	return &accountService{
		repo:       repo,
		tokens:     tokens,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
	}
}

func (s *accountService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	return s.createUser(ctx, req.UserName, req.FullName, req.Password, auth.RoleCustomer)
}

func (s *accountService) createUser(ctx context.Context, userName, fullName, password string, role auth.Role) (*domain.User, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return nil, ErrUserNameRequired
	}

	salt, err := randomToken(saltBytes)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(salt, password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		UserName:     userName,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         role,
		Status:       domain.StatusActive,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserConflict) {
			return nil, err
		}
		logger.Error("createUser: failed to save user", err, zap.String("user_name", userName))
		return nil, fmt.Errorf("could not save user: %w", err)
	}
	return user, nil
}

func (s *accountService) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	user, err := s.repo.GetUserByUserName(ctx, strings.TrimSpace(req.UserName), false)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Status != domain.StatusActive {
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(user, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, user)
}

func (s *accountService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenResponse, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	user, err := s.repo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if user.Status != domain.StatusActive ||
		user.RefreshTokenExpiry == nil || !s.now().Before(*user.RefreshTokenExpiry) {
		return nil, ErrInvalidRefreshToken
	}
	return s.issueTokens(ctx, user)
}

func (s *accountService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.GetUserByID(ctx, userID, false)
}

func (s *accountService) EnsureAdmin(ctx context.Context, userName, password string) (bool, error) {
	n, err := s.repo.CountByRole(ctx, auth.RoleAdmin)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	user, err := s.createUser(ctx, userName, "Administrator", password, auth.RoleAdmin)
	if err != nil {
		return false, err
	}
	logger.Info("Seeded admin account", zap.String("user_name", user.UserName))
	return true, nil
}

// issueTokens signs a new access token and rotates the stored refresh token.
func (s *accountService) issueTokens(ctx context.Context, user *domain.User) (*domain.TokenResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.Caller())
	if err != nil {
		logger.Error("issueTokens: failed to sign access token", err, zap.String("user_id", user.ID))
		return nil, err
	}
	refresh, err := randomToken(refreshTokenBytes)
	if err != nil {
		return nil, err
	}
	refreshExpiry := s.now().Add(s.refreshTTL)
	if err := s.repo.UpdateRefreshToken(ctx, user.ID, &refresh, &refreshExpiry); err != nil {
		logger.Error("issueTokens: failed to store refresh token", err, zap.String("user_id", user.ID))
		return nil, err
	}
	user.RefreshToken = &refresh
	user.RefreshTokenExpiry = &refreshExpiry

	return &domain.TokenResponse{
		Token:                 token,
		ExpiresAt:             expiresAt,
		RefreshToken:          refresh,
		RefreshTokenExpiresAt: refreshExpiry,
		User:                  *user,
	}, nil
}

func hashPassword(salt, password string) (string, error) {
	if len(salt)+len(password) > maxHashInput {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(salt+password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hashPassword: bcrypt failed", err)
		return "", fmt.Errorf("could not process password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(user *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(user.PasswordSalt+password)) == nil
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
