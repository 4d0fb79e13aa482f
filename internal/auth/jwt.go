package auth

import (
	"errors"
	"strconv"
	"time"

	"green-basket/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken means the token failed parsing, signature or claim checks.
var ErrInvalidToken = errors.New("invalid token")

const tokenIssuer = "green-basket"

type customClaims struct {
	TelegramID int64      `json:"tgId"`
	Role       model.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates the short-lived access tokens handed to
// Mini App clients after init data verification.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer signing with HS256.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for the resolved user. The subject is the internal
// user ID; the Telegram ID and role travel as custom claims.
func (t *TokenIssuer) Issue(user model.AuthUser) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)

	claims := customClaims{
		TelegramID: user.TelegramID,
		Role:       user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	return signed, exp, err
}

// Parse validates a token and returns the caller identity it carries.
func (t *TokenIssuer) Parse(token string) (*model.AuthUser, error) {
	parsed, err := jwt.ParseWithClaims(token, &customClaims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	cc, ok := parsed.Claims.(*customClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(cc.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !cc.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return &model.AuthUser{ID: userID, TelegramID: cc.TelegramID, Role: cc.Role}, nil
}
