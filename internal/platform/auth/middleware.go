package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/platform/httperr"
)

const callerKey = "auth.caller"

var (
	ErrMissingToken = apperr.New(apperr.ErrUnauthenticated, "missing bearer token")
	ErrForbidden    = apperr.New(apperr.ErrUnauthorized, "insufficient role for this operation")
)

type Verifier interface {
	Verify(token string) (Caller, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the Caller on the
// context for downstream handlers.
func RequireAuth(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			httperr.Respond(c, ErrMissingToken, "")
			return
		}
		caller, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			httperr.Respond(c, err, "")
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			httperr.Respond(c, ErrMissingToken, "")
			return
		}
		for _, r := range roles {
			if caller.Role == r {
				c.Next()
				return
			}
		}
		httperr.Respond(c, ErrForbidden, "")
	}
}

func CallerFrom(c *gin.Context) (Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return Caller{}, false
	}
	caller, ok := v.(Caller)
	return caller, ok
}
