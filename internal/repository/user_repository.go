package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"green-basket/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const userColumns = `id, telegram_id, name, username, first_name, last_name, is_bot,
	language_code, is_premium, phone_email, role, subscribe_news, created_at`

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.TelegramID, &u.Name, &u.Username, &u.FirstName, &u.LastName,
		&u.IsBot, &u.LanguageCode, &u.IsPremium, &u.PhoneEmail, &u.Role,
		&u.SubscribeNews, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByTelegramID resolves a user by external Telegram ID.
func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE telegram_id = $1`, userColumns)
	u, err := scanUser(r.pool.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		r.logger.Error().Err(err).Int64("telegram_id", telegramID).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by internal ID.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		r.logger.Error().Err(err).Int64("user_id", id).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// Create inserts a new customer for the given Telegram ID. Absent boolean
// profile fields default to false.
func (r *userRepository) Create(ctx context.Context, telegramID int64, profile model.UserProfile) (*model.User, error) {
	isBot := profile.IsBot != nil && *profile.IsBot
	isPremium := profile.IsPremium != nil && *profile.IsPremium

	query := fmt.Sprintf(`
		INSERT INTO users (telegram_id, name, username, first_name, last_name, is_bot, language_code, is_premium, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query,
		telegramID, profile.Name, profile.Username, profile.FirstName, profile.LastName,
		isBot, profile.LanguageCode, isPremium, model.RoleCustomer,
	))
	if err != nil {
		r.logger.Error().Err(err).Int64("telegram_id", telegramID).Msg("failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info().
		Int64("telegram_id", telegramID).
		Int64("user_id", u.ID).
		Msg("user created")

	return u, nil
}

// Update applies only the non-nil profile fields; everything else is left
// untouched.
func (r *userRepository) Update(ctx context.Context, id int64, profile model.UserProfile) (*model.User, error) {
	var set []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if profile.Name != nil {
		add("name", *profile.Name)
	}
	if profile.Username != nil {
		add("username", *profile.Username)
	}
	if profile.FirstName != nil {
		add("first_name", *profile.FirstName)
	}
	if profile.LastName != nil {
		add("last_name", *profile.LastName)
	}
	if profile.IsBot != nil {
		add("is_bot", *profile.IsBot)
	}
	if profile.LanguageCode != nil {
		add("language_code", *profile.LanguageCode)
	}
	if profile.IsPremium != nil {
		add("is_premium", *profile.IsPremium)
	}

	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		r.logger.Error().Err(err).Int64("user_id", id).Msg("failed to update user")
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// ListAddresses retrieves all addresses of a user.
func (r *userRepository) ListAddresses(ctx context.Context, userID int64) ([]model.Address, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, address_line, city, comment, is_default
		FROM addresses
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to query addresses")
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	var addresses []model.Address
	for rows.Next() {
		var a model.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.AddressLine, &a.City, &a.Comment, &a.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

// GetAddress retrieves an address owned by the user.
func (r *userRepository) GetAddress(ctx context.Context, userID, addressID int64) (*model.Address, error) {
	var a model.Address
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, address_line, city, comment, is_default
		FROM addresses
		WHERE id = $1 AND user_id = $2
	`, addressID, userID).Scan(&a.ID, &a.UserID, &a.AddressLine, &a.City, &a.Comment, &a.IsDefault)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAddressNotFound
		}
		r.logger.Error().Err(err).Int64("address_id", addressID).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}
	return &a, nil
}

// CreateAddress inserts an address. When the new address is the default,
// the previous default is unset in the same transaction so at most one
// default per user survives.
func (r *userRepository) CreateAddress(ctx context.Context, userID int64, data model.AddressCreate) (*model.Address, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if data.IsDefault {
		if _, err := tx.Exec(ctx,
			`UPDATE addresses SET is_default = false WHERE user_id = $1 AND is_default`, userID); err != nil {
			return nil, fmt.Errorf("failed to unset default address: %w", err)
		}
	}

	a := model.Address{
		UserID:      userID,
		AddressLine: data.AddressLine,
		City:        data.City,
		Comment:     data.Comment,
		IsDefault:   data.IsDefault,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO addresses (user_id, address_line, city, comment, is_default)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, userID, data.AddressLine, data.City, data.Comment, data.IsDefault).Scan(&a.ID)
	if err != nil {
		r.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to create address")
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit address: %w", err)
	}

	return &a, nil
}

// UpdateAddress applies the non-nil fields of data to an address owned by
// the user, preserving default exclusivity.
func (r *userRepository) UpdateAddress(ctx context.Context, userID, addressID int64, data model.AddressUpdate) (*model.Address, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx,
		`SELECT id FROM addresses WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		addressID, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to lock address: %w", err)
	}

	if data.IsDefault != nil && *data.IsDefault {
		if _, err := tx.Exec(ctx,
			`UPDATE addresses SET is_default = false WHERE user_id = $1 AND is_default AND id <> $2`,
			userID, addressID); err != nil {
			return nil, fmt.Errorf("failed to unset default address: %w", err)
		}
	}

	var set []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if data.AddressLine != nil {
		add("address_line", *data.AddressLine)
	}
	if data.City != nil {
		add("city", *data.City)
	}
	if data.Comment != nil {
		add("comment", *data.Comment)
	}
	if data.IsDefault != nil {
		add("is_default", *data.IsDefault)
	}

	var a model.Address
	if len(set) == 0 {
		err = tx.QueryRow(ctx, `
			SELECT id, user_id, address_line, city, comment, is_default
			FROM addresses WHERE id = $1
		`, addressID).Scan(&a.ID, &a.UserID, &a.AddressLine, &a.City, &a.Comment, &a.IsDefault)
	} else {
		args = append(args, addressID)
		query := fmt.Sprintf(`
			UPDATE addresses SET %s
			WHERE id = $%d
			RETURNING id, user_id, address_line, city, comment, is_default
		`, strings.Join(set, ", "), len(args))
		err = tx.QueryRow(ctx, query, args...).Scan(&a.ID, &a.UserID, &a.AddressLine, &a.City, &a.Comment, &a.IsDefault)
	}
	if err != nil {
		r.logger.Error().Err(err).Int64("address_id", addressID).Msg("failed to update address")
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit address update: %w", err)
	}

	return &a, nil
}

// DeleteAddress removes an address owned by the user.
func (r *userRepository) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err != nil {
		r.logger.Error().Err(err).Int64("address_id", addressID).Msg("failed to delete address")
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAddressNotFound
	}
	return nil
}
