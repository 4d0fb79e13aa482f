package service

import (
	"context"
	"testing"

	"green-basket/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserService_GetOrCreateByTelegram_CreatesOnFirstContact(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	profile := model.UserProfile{FirstName: strPtr("Ann"), Username: strPtr("ann")}
	created := &model.User{ID: 1, TelegramID: 100, FirstName: strPtr("Ann"), Role: model.RoleCustomer}

	mockUserRepo := new(MockUserRepository)
	service := NewUserService(mockUserRepo, logger)

	mockUserRepo.On("GetByTelegramID", ctx, int64(100)).Return(nil, model.ErrUserNotFound)
	mockUserRepo.On("Create", ctx, int64(100), profile).Return(created, nil)

	u, err := service.GetOrCreateByTelegram(ctx, 100, profile)

	require.NoError(t, err)
	assert.Equal(t, created, u)
	assert.Equal(t, model.RoleCustomer, u.Role)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_GetOrCreateByTelegram_MergesProfile(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	existing := &model.User{ID: 1, TelegramID: 100, FirstName: strPtr("Ann"), Role: model.RoleCustomer}
	profile := model.UserProfile{Username: strPtr("ann_new")}
	updated := &model.User{ID: 1, TelegramID: 100, FirstName: strPtr("Ann"), Username: strPtr("ann_new"), Role: model.RoleCustomer}

	mockUserRepo := new(MockUserRepository)
	service := NewUserService(mockUserRepo, logger)

	mockUserRepo.On("GetByTelegramID", ctx, int64(100)).Return(existing, nil)
	mockUserRepo.On("Update", ctx, int64(1), profile).Return(updated, nil)

	u, err := service.GetOrCreateByTelegram(ctx, 100, profile)

	require.NoError(t, err)
	assert.Equal(t, updated, u)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_GetOrCreateByTelegram_EmptyProfileSkipsUpdate(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	existing := &model.User{ID: 1, TelegramID: 100, FirstName: strPtr("Ann"), Role: model.RoleManager}

	mockUserRepo := new(MockUserRepository)
	service := NewUserService(mockUserRepo, logger)

	mockUserRepo.On("GetByTelegramID", ctx, int64(100)).Return(existing, nil)

	u, err := service.GetOrCreateByTelegram(ctx, 100, model.UserProfile{})

	require.NoError(t, err)
	assert.Equal(t, existing, u)
	// An empty contact event must not touch the stored profile or role.
	mockUserRepo.AssertNotCalled(t, "Update")
	mockUserRepo.AssertNotCalled(t, "Create")
}

func TestUserService_AddressPassThrough(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	addresses := []model.Address{
		{ID: 1, UserID: 7, AddressLine: "12 Main St", IsDefault: true},
		{ID: 2, UserID: 7, AddressLine: "3 Side Rd"},
	}

	mockUserRepo := new(MockUserRepository)
	service := NewUserService(mockUserRepo, logger)

	mockUserRepo.On("ListAddresses", ctx, int64(7)).Return(addresses, nil)
	mockUserRepo.On("DeleteAddress", ctx, int64(7), int64(2)).Return(nil)

	got, err := service.ListAddresses(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, addresses, got)

	require.NoError(t, service.DeleteAddress(ctx, 7, 2))
	mockUserRepo.AssertExpectations(t)
}
