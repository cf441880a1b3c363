package auth

import (
	"strings"

	"github.com/ridloal/mini-store/internal/platform/apperr"
)

type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleCustomer Role = "Customer"
)

var ErrUnknownRole = apperr.New(apperr.ErrValidation, "unknown role")

// ParseRole accepts the role name in any letter case.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "customer":
		return RoleCustomer, nil
	default:
		return "", ErrUnknownRole
	}
}

// Caller is the verified identity attached to a request.
type Caller struct {
	UserID   string
	UserName string
	Role     Role
}

func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }
