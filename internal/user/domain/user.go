package domain

import (
	"time"

	"github.com/ridloal/mini-store/internal/platform/auth"
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusDisabled Status = "Disabled"
	StatusDeleted  Status = "Deleted"
)

// CanTransitionTo reports whether the account lifecycle allows moving from s to next.
// Deleted is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusActive:
		return next == StatusDisabled || next == StatusDeleted
	case StatusDisabled:
		return next == StatusActive || next == StatusDeleted
	case StatusDeleted:
		return false
	default:
		return false
	}
}

type User struct {
	ID                 string     `json:"id"`
	UserName           string     `json:"userName"`
	FullName           string     `json:"fullName"`
	PasswordHash       string     `json:"-"`
	PasswordSalt       string     `json:"-"`
	Role               auth.Role  `json:"role"`
	Status             Status     `json:"status"`
	RefreshToken       *string    `json:"-"`
	RefreshTokenExpiry *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"createdAt"`
	DeletedAt          *time.Time `json:"deletedAt"`
}

func (u User) Target() auth.Target {
	return auth.Target{ID: u.ID, Role: u.Role}
}

func (u User) Caller() auth.Caller {
	return auth.Caller{UserID: u.ID, UserName: u.UserName, Role: u.Role}
}

type RegisterRequest struct {
	UserName string `json:"userName" binding:"required,min=3,max=50"`
	FullName string `json:"fullName" binding:"max=100"`
	Password string `json:"password" binding:"required,min=6,max=48"`
}

type LoginRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type TokenResponse struct {
	Token                 string    `json:"token"`
	ExpiresAt             time.Time `json:"expiresAt"`
	RefreshToken          string    `json:"refreshToken"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
	User                  User      `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
