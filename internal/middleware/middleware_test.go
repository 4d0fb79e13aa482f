package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"green-basket/internal/auth"
	"green-basket/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetOrCreateByTelegram(ctx context.Context, telegramID int64, profile model.UserProfile) (*model.User, error) {
	args := m.Called(ctx, telegramID, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ListAddresses(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Address), args.Error(1)
}

func (m *MockUserService) CreateAddress(ctx context.Context, userID int64, data model.AddressCreate) (*model.Address, error) {
	args := m.Called(ctx, userID, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Address), args.Error(1)
}

func (m *MockUserService) UpdateAddress(ctx context.Context, userID, addressID int64, data model.AddressUpdate) (*model.Address, error) {
	args := m.Called(ctx, userID, addressID, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Address), args.Error(1)
}

func (m *MockUserService) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

func okHandler(captured *model.AuthUser) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := UserFromContext(r.Context()); ok && captured != nil {
			*captured = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_BearerToken(t *testing.T) {
	logger := zerolog.Nop()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	users := new(MockUserService)

	authUser := model.AuthUser{ID: 7, TelegramID: 100, Role: model.RoleCustomer}
	token, _, err := tokens.Issue(authUser)
	require.NoError(t, err)

	var captured model.AuthUser
	handler := Authenticate(tokens, users, logger)(okHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, authUser, captured)
	users.AssertNotCalled(t, "GetOrCreateByTelegram")
}

func TestAuthenticate_InvalidBearerToken(t *testing.T) {
	logger := zerolog.Nop()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	users := new(MockUserService)

	handler := Authenticate(tokens, users, logger)(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_TelegramIDHeader(t *testing.T) {
	logger := zerolog.Nop()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	users := new(MockUserService)

	u := &model.User{ID: 3, TelegramID: 555, Role: model.RoleCustomer}
	users.On("GetOrCreateByTelegram", mock.Anything, int64(555), model.UserProfile{}).Return(u, nil)

	var captured model.AuthUser
	handler := Authenticate(tokens, users, logger)(okHandler(&captured))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("X-Telegram-Id", "555")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.AuthUser{ID: 3, TelegramID: 555, Role: model.RoleCustomer}, captured)
	users.AssertExpectations(t)
}

func TestAuthenticate_MissingCredentials(t *testing.T) {
	logger := zerolog.Nop()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	users := new(MockUserService)

	handler := Authenticate(tokens, users, logger)(okHandler(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_PublicPaths(t *testing.T) {
	logger := zerolog.Nop()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	users := new(MockUserService)

	handler := Authenticate(tokens, users, logger)(okHandler(nil))

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/health"},
		{http.MethodPost, "/api/tg/webapp/auth"},
		{http.MethodPost, "/api/payments/yookassa/callback"},
		{http.MethodGet, "/api/products"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "%s %s should be public", tt.method, tt.path)
	}

	// Mutating the catalogue is not public.
	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("generated when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))
	})

	t.Run("propagated when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("X-Request-Id", "abc-123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
	})
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the next handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Telegram-Id")
}

func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()
	handler := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
