package service

import (
	"context"
	"errors"

	"green-basket/internal/model"
	"green-basket/internal/repository"

	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	users  repository.UserRepository
	logger zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		users:  users,
		logger: logger.With().Str("service", "user").Logger(),
	}
}

// GetOrCreateByTelegram resolves the internal user for a Telegram identity.
// First contact creates a customer; later contacts merge whatever profile
// fields the event carried, leaving absent fields untouched.
func (s *userService) GetOrCreateByTelegram(ctx context.Context, telegramID int64, profile model.UserProfile) (*model.User, error) {
	u, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return s.users.Create(ctx, telegramID, profile)
		}
		return nil, err
	}

	if profile.Empty() {
		return u, nil
	}
	return s.users.Update(ctx, u.ID, profile)
}

func (s *userService) ListAddresses(ctx context.Context, userID int64) ([]model.Address, error) {
	return s.users.ListAddresses(ctx, userID)
}

func (s *userService) CreateAddress(ctx context.Context, userID int64, data model.AddressCreate) (*model.Address, error) {
	return s.users.CreateAddress(ctx, userID, data)
}

func (s *userService) UpdateAddress(ctx context.Context, userID, addressID int64, data model.AddressUpdate) (*model.Address, error) {
	return s.users.UpdateAddress(ctx, userID, addressID, data)
}

func (s *userService) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	return s.users.DeleteAddress(ctx, userID, addressID)
}
