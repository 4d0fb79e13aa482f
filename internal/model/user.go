package model

import "time"

// Role is the access tier of a user. Lower values carry more privilege.
type Role int

const (
	RoleAdmin    Role = 1
	RoleManager  Role = 2
	RoleCustomer Role = 9
)

// AtMost reports whether the role is at least as privileged as ceiling.
func (r Role) AtMost(ceiling Role) bool {
	return r <= ceiling
}

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCustomer:
		return true
	}
	return false
}

// User is an application user identified by their Telegram ID.
type User struct {
	ID            int64     `json:"id" db:"id"`
	TelegramID    int64     `json:"telegramId" db:"telegram_id"`
	Name          *string   `json:"name,omitempty" db:"name"`
	Username      *string   `json:"username,omitempty" db:"username"`
	FirstName     *string   `json:"firstName,omitempty" db:"first_name"`
	LastName      *string   `json:"lastName,omitempty" db:"last_name"`
	IsBot         bool      `json:"isBot" db:"is_bot"`
	LanguageCode  *string   `json:"languageCode,omitempty" db:"language_code"`
	IsPremium     bool      `json:"isPremium" db:"is_premium"`
	PhoneEmail    *string   `json:"phoneEmail,omitempty" db:"phone_email"`
	Role          Role      `json:"role" db:"role"`
	SubscribeNews bool      `json:"subscribeNews" db:"subscribe_news"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// UserProfile carries the profile attributes observed in a single Telegram
// contact event. Nil fields were not present in the event and must not
// overwrite stored values.
type UserProfile struct {
	Name         *string
	Username     *string
	FirstName    *string
	LastName     *string
	IsBot        *bool
	LanguageCode *string
	IsPremium    *bool
}

// Empty reports whether the profile carries no fields at all.
func (p UserProfile) Empty() bool {
	return p.Name == nil && p.Username == nil && p.FirstName == nil &&
		p.LastName == nil && p.IsBot == nil && p.LanguageCode == nil && p.IsPremium == nil
}

// AuthUser is the resolved caller identity attached to each request.
type AuthUser struct {
	ID         int64 `json:"userId"`
	TelegramID int64 `json:"telegramId"`
	Role       Role  `json:"role"`
}

// Address is a delivery address belonging to one user. At most one address
// per user has IsDefault set.
type Address struct {
	ID          int64   `json:"id" db:"id"`
	UserID      int64   `json:"-" db:"user_id"`
	AddressLine string  `json:"addressLine" db:"address_line"`
	City        *string `json:"city,omitempty" db:"city"`
	Comment     *string `json:"comment,omitempty" db:"comment"`
	IsDefault   bool    `json:"isDefault" db:"is_default"`
}

// AddressCreate is the payload for creating an address.
type AddressCreate struct {
	AddressLine string  `json:"addressLine"`
	City        *string `json:"city,omitempty"`
	Comment     *string `json:"comment,omitempty"`
	IsDefault   bool    `json:"isDefault"`
}

// AddressUpdate is a partial update; nil fields are left untouched.
type AddressUpdate struct {
	AddressLine *string `json:"addressLine,omitempty"`
	City        *string `json:"city,omitempty"`
	Comment     *string `json:"comment,omitempty"`
	IsDefault   *bool   `json:"isDefault,omitempty"`
}
