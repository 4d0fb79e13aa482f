package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"green-basket/internal/middleware"
	"green-basket/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, userID int64) (*model.CartView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartView), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID, productID int64, qty int) error {
	args := m.Called(ctx, userID, productID, qty)
	return args.Error(0)
}

func (m *MockCartService) UpdateItem(ctx context.Context, userID, productID int64, qty int) error {
	args := m.Called(ctx, userID, productID, qty)
	return args.Error(0)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, productID int64) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartService) Clear(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartService) Checkout(ctx context.Context, user model.AuthUser, req model.CheckoutRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func authedRequest(method, target, body string, user model.AuthUser) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithUser(req.Context(), user))
}

func TestCartHandler_Get(t *testing.T) {
	logger := zerolog.Nop()
	user := model.AuthUser{ID: 7, Role: model.RoleCustomer}

	price := 3.40
	lineTotal := 6.80
	cart := &model.CartView{
		Items: []model.CartLine{
			{ProductID: 1, Quantity: 2, Name: "Tomatoes", UnitSymbol: "kg", Price: &price, LineTotal: &lineTotal},
		},
		Total: 6.80,
	}

	mockCart := new(MockCartService)
	h := NewCartHandler(mockCart, logger)

	mockCart.On("GetCart", mock.Anything, user.ID).Return(cart, nil)

	rec := httptest.NewRecorder()
	h.Get(rec, authedRequest(http.MethodGet, "/api/cart", "", user))

	require.Equal(t, http.StatusOK, rec.Code)

	var got model.CartView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got.Items, 1)
	assert.Equal(t, 6.80, got.Total)
}

func TestCartHandler_Get_Unauthenticated(t *testing.T) {
	logger := zerolog.Nop()
	mockCart := new(MockCartService)
	h := NewCartHandler(mockCart, logger)

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	mockCart.AssertNotCalled(t, "GetCart")
}

func TestCartHandler_AddItem(t *testing.T) {
	logger := zerolog.Nop()
	user := model.AuthUser{ID: 7, Role: model.RoleCustomer}

	mockCart := new(MockCartService)
	h := NewCartHandler(mockCart, logger)

	mockCart.On("AddItem", mock.Anything, user.ID, int64(3), 2).Return(nil)
	mockCart.On("GetCart", mock.Anything, user.ID).Return(&model.CartView{Items: []model.CartLine{}}, nil)

	rec := httptest.NewRecorder()
	h.AddItem(rec, authedRequest(http.MethodPost, "/api/cart/items", `{"productId":3,"quantity":2}`, user))

	assert.Equal(t, http.StatusOK, rec.Code)
	mockCart.AssertExpectations(t)
}

func TestCartHandler_AddItem_InvalidBody(t *testing.T) {
	logger := zerolog.Nop()
	user := model.AuthUser{ID: 7, Role: model.RoleCustomer}

	mockCart := new(MockCartService)
	h := NewCartHandler(mockCart, logger)

	rec := httptest.NewRecorder()
	h.AddItem(rec, authedRequest(http.MethodPost, "/api/cart/items", `{not json`, user))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockCart.AssertNotCalled(t, "AddItem")
}

func TestCartHandler_UpdateItem_MissingLine(t *testing.T) {
	logger := zerolog.Nop()
	user := model.AuthUser{ID: 7, Role: model.RoleCustomer}

	mockCart := new(MockCartService)
	h := NewCartHandler(mockCart, logger)

	mockCart.On("UpdateItem", mock.Anything, user.ID, int64(9), 5).Return(model.ErrCartItemNotFound)

	req := authedRequest(http.MethodPatch, "/api/cart/items/9", `{"quantity":5}`, user)
	req.SetPathValue("productId", "9")
	rec := httptest.NewRecorder()
	h.UpdateItem(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, model.ErrCodeCartItemNotFound, resp.Error)
}

func TestCartHandler_Checkout(t *testing.T) {
	logger := zerolog.Nop()
	user := model.AuthUser{ID: 7, Role: model.RoleCustomer}

	orderResp := &model.OrderResponse{
		Order: model.Order{ID: uuid.New(), UserID: user.ID, TotalAmount: 10.00, DeliveryType: model.DeliveryTypePickup},
	}

	mockCart := new(MockCartService)
	h := NewCartHandler(mockCart, logger)

	mockCart.On("Checkout", mock.Anything, user, model.CheckoutRequest{DeliveryType: model.DeliveryTypePickup}).
		Return(orderResp, nil)

	rec := httptest.NewRecorder()
	h.Checkout(rec, authedRequest(http.MethodPost, "/api/cart/checkout", `{"deliveryType":"pickup"}`, user))

	require.Equal(t, http.StatusCreated, rec.Code)

	var got model.OrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, orderResp.ID, got.ID)
}

func TestCartHandler_Checkout_DomainErrors(t *testing.T) {
	logger := zerolog.Nop()
	user := model.AuthUser{ID: 7, Role: model.RoleCustomer}

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"empty cart", model.ErrEmptyCart, http.StatusBadRequest, model.ErrCodeEmptyCart},
		{"insufficient stock", model.ErrInsufficientStock, http.StatusConflict, model.ErrCodeInsufficientStock},
		{"price unavailable", model.ErrPriceUnavailable, http.StatusConflict, model.ErrCodePriceUnavailable},
		{"bad delivery type", model.ErrInvalidDeliveryType, http.StatusBadRequest, model.ErrCodeInvalidDelivery},
		{"address required", model.ErrAddressRequired, http.StatusBadRequest, model.ErrCodeAddressRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCart := new(MockCartService)
			h := NewCartHandler(mockCart, logger)

			mockCart.On("Checkout", mock.Anything, user, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			h.Checkout(rec, authedRequest(http.MethodPost, "/api/cart/checkout", `{"deliveryType":"pickup"}`, user))

			require.Equal(t, tt.expectedStatus, rec.Code)

			var resp model.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.expectedCode, resp.Error)
		})
	}
}
