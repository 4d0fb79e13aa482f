package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidInitData means the payload failed signature or shape checks.
	ErrInvalidInitData = errors.New("invalid init data")

	// ErrExpiredInitData means the signature was valid but auth_date is too old.
	ErrExpiredInitData = errors.New("init data expired")
)

// TelegramUser is the user object embedded in Mini App init data.
type TelegramUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
	IsBot        bool   `json:"is_bot"`
	IsPremium    bool   `json:"is_premium"`
}

// InitDataVerifier validates Telegram Mini App init data signatures.
type InitDataVerifier struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewInitDataVerifier derives the verification secret from the bot token.
// The secret is HMAC-SHA256 of the token keyed with the literal "WebAppData",
// per the Mini App signing scheme.
func NewInitDataVerifier(botToken string, ttl time.Duration) *InitDataVerifier {
	mac := hmac.New(sha256.New, []byte("WebAppData"))
	mac.Write([]byte(botToken))

	return &InitDataVerifier{
		secret: mac.Sum(nil),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Verify checks the signature and freshness of raw init data (the
// query-string payload the Mini App receives) and returns the embedded user.
func (v *InitDataVerifier) Verify(raw string) (*TelegramUser, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed query string", ErrInvalidInitData)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, fmt.Errorf("%w: missing hash", ErrInvalidInitData)
	}

	// Data check string: every pair except hash, sorted by key, one k=v per line.
	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(strings.Join(pairs, "\n")))
	wantHash := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(wantHash), []byte(gotHash)) {
		return nil, fmt.Errorf("%w: hash mismatch", ErrInvalidInitData)
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad auth_date", ErrInvalidInitData)
	}
	if v.now().Sub(time.Unix(authDate, 0)) > v.ttl {
		return nil, ErrExpiredInitData
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, fmt.Errorf("%w: missing user", ErrInvalidInitData)
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("%w: bad user payload", ErrInvalidInitData)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidInitData)
	}

	return &user, nil
}
