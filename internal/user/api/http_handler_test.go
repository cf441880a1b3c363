package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/platform/config"
	"github.com/ridloal/mini-store/internal/user/domain"
	"github.com/ridloal/mini-store/internal/user/repository"
	"github.com/ridloal/mini-store/internal/user/service"
	"github.com/ridloal/mini-store/internal/user/service/mocks"
)

const (
	adminID    = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	customerID = "cccccccc-cccc-4ccc-8ccc-cccccccccccc"
)

type fixture struct {
	router    *gin.Engine
	accounts  *mocks.MockAccountService
	lifecycle *mocks.MockLifecycleService
	tokens    *auth.TokenManager
}

func setup(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := fixture{
		router:    gin.New(),
		accounts:  new(mocks.MockAccountService),
		lifecycle: new(mocks.MockLifecycleService),
		tokens: auth.NewTokenManager(config.AuthConfig{
			SecretKey: []byte("test"), Issuer: "iss", Audience: "aud", AccessTokenTTL: time.Hour,
		}),
	}
	NewUserHandler(f.accounts, f.lifecycle, f.tokens).RegisterRoutes(f.router.Group("/api/v1"))
	return f
}

func (f fixture) bearer(t *testing.T, id string, role auth.Role) string {
	t.Helper()
	token, _, err := f.tokens.Issue(auth.Caller{UserID: id, UserName: "someone", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func (f fixture) do(method, path, authHeader, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func callerWithID(id string) any {
	return mock.MatchedBy(func(c auth.Caller) bool { return c.UserID == id })
}

func TestUserHandler_Auth(t *testing.T) {
	f := setup(t)

	f.accounts.On("Register", mock.Anything, domain.RegisterRequest{UserName: "alice", FullName: "Alice", Password: "secret1"}).
		Return(&domain.User{ID: customerID, UserName: "alice", PasswordHash: "hash", Status: domain.StatusActive}, nil).Once()
	w := f.do(http.MethodPost, "/api/v1/auth/register", "", `{"userName":"alice","fullName":"Alice","password":"secret1"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"userName":"alice"`)
	assert.NotContains(t, w.Body.String(), "hash")

	w = f.do(http.MethodPost, "/api/v1/auth/register", "", `{"userName":"al","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.accounts.On("Register", mock.Anything, mock.Anything).Return(nil, repository.ErrUserConflict).Once()
	w = f.do(http.MethodPost, "/api/v1/auth/register", "", `{"userName":"alice","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	f.accounts.On("Login", mock.Anything, domain.LoginRequest{UserName: "alice", Password: "bad"}).
		Return(nil, service.ErrInvalidCredentials).Once()
	w = f.do(http.MethodPost, "/api/v1/auth/login", "", `{"userName":"alice","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"unauthenticated"`)

	f.accounts.On("Refresh", mock.Anything, "r1").
		Return(&domain.TokenResponse{Token: "t2", RefreshToken: "r2"}, nil).Once()
	w = f.do(http.MethodPost, "/api/v1/auth/refresh", "", `{"refreshToken":"r1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"refreshToken":"r2"`)

	w = f.do(http.MethodGet, "/api/v1/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	f.accounts.On("GetProfile", mock.Anything, customerID).Return(&domain.User{ID: customerID, UserName: "alice"}, nil).Once()
	w = f.do(http.MethodGet, "/api/v1/auth/me", f.bearer(t, customerID, auth.RoleCustomer), "")
	assert.Equal(t, http.StatusOK, w.Code)

	f.accounts.AssertExpectations(t)
}

func TestUserHandler_SelfDeactivate(t *testing.T) {
	f := setup(t)
	customer := f.bearer(t, customerID, auth.RoleCustomer)

	f.lifecycle.On("SelfDeactivate", mock.Anything, customerID).Return(nil).Once()
	w := f.do(http.MethodPut, "/api/v1/users/me/deactivate", customer, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Account deactivated"}`, w.Body.String())

	f.lifecycle.On("SelfDeactivate", mock.Anything, customerID).Return(service.ErrAlreadyDeactivated).Once()
	w = f.do(http.MethodPut, "/api/v1/users/me/deactivate", customer, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	f.lifecycle.On("SelfDeactivate", mock.Anything, adminID).Return(auth.ErrAdminProtected).Once()
	w = f.do(http.MethodPut, "/api/v1/users/me/deactivate", f.bearer(t, adminID, auth.RoleAdmin), "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"protection_violation"`)
}

func TestUserHandler_AdminRoutes(t *testing.T) {
	f := setup(t)
	admin := f.bearer(t, adminID, auth.RoleAdmin)

	w := f.do(http.MethodGet, "/api/v1/admin/users", f.bearer(t, customerID, auth.RoleCustomer), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	f.lifecycle.AssertNotCalled(t, "ListNonAdmin", mock.Anything, mock.Anything)

	f.lifecycle.On("ListNonAdmin", mock.Anything, callerWithID(adminID)).
		Return([]domain.User{{ID: customerID, Status: domain.StatusDeleted}}, nil).Once()
	w = f.do(http.MethodGet, "/api/v1/admin/users", admin, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Deleted"`)

	f.lifecycle.On("Disable", mock.Anything, customerID, callerWithID(adminID)).Return(nil).Once()
	w = f.do(http.MethodPut, "/api/v1/admin/users/"+customerID+"/disable", admin, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	f.lifecycle.On("Enable", mock.Anything, customerID, callerWithID(adminID)).Return(service.ErrInvalidUserTransition).Once()
	w = f.do(http.MethodPut, "/api/v1/admin/users/"+customerID+"/enable", admin, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"invalid_state_transition"`)

	f.lifecycle.On("SoftDelete", mock.Anything, adminID, callerWithID(adminID)).Return(auth.ErrSelfDeleteForbidden).Once()
	w = f.do(http.MethodDelete, "/api/v1/admin/users/"+adminID, admin, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	f.lifecycle.On("SoftDelete", mock.Anything, "missing", callerWithID(adminID)).Return(repository.ErrUserNotFound).Once()
	w = f.do(http.MethodDelete, "/api/v1/admin/users/missing", admin, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	f.lifecycle.AssertExpectations(t)
}
