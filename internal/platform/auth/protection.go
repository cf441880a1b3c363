package auth

import "github.com/ridloal/mini-store/internal/platform/apperr"

// Operation is a lifecycle action subject to identity protection.
type Operation int

const (
	OpDisable Operation = iota
	OpEnable
	OpDelete
	OpSelfDeactivate
)

func (o Operation) String() string {
	switch o {
	case OpDisable:
		return "disable"
	case OpEnable:
		return "enable"
	case OpDelete:
		return "delete"
	case OpSelfDeactivate:
		return "deactivate"
	default:
		return "unknown"
	}
}

var (
	ErrAdminProtected      = apperr.New(apperr.ErrProtected, "admin accounts are protected from lifecycle changes")
	ErrSelfDeleteForbidden = apperr.New(apperr.ErrProtected, "you cannot delete your own account")
)

// Target is the account an operation acts on.
type Target struct {
	ID   string
	Role Role
}

// CheckProtected is the single protected-identity predicate. Admin accounts are immune to
// every lifecycle operation, and nobody may delete the account they are signed in with.
func CheckProtected(target Target, caller Caller, op Operation) error {
	if op == OpDelete && target.ID != "" && target.ID == caller.UserID {
		return ErrSelfDeleteForbidden
	}
	switch op {
	case OpDisable, OpEnable, OpDelete, OpSelfDeactivate:
		if target.Role == RoleAdmin {
			return ErrAdminProtected
		}
		return nil
	default:
		return apperr.New(apperr.ErrValidation, "unknown lifecycle operation")
	}
}
