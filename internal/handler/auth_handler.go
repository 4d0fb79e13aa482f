package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"green-basket/internal/auth"
	"green-basket/internal/model"
	"green-basket/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler exchanges verified Mini App init data for an access token.
type AuthHandler struct {
	verifier *auth.InitDataVerifier
	tokens   *auth.TokenIssuer
	users    service.UserService
	logger   zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(verifier *auth.InitDataVerifier, tokens *auth.TokenIssuer, users service.UserService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		verifier: verifier,
		tokens:   tokens,
		users:    users,
		logger:   logger.With().Str("handler", "auth").Logger(),
	}
}

type webAppAuthRequest struct {
	InitData string `json:"initData"`
}

type webAppAuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

// Authenticate handles POST /api/tg/webapp/auth requests. The init data
// signature proves the Telegram identity; the user is created on first
// contact and their profile merged on every later one.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req webAppAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.InitData == "" {
		writeBadRequest(w, r, "initData is required")
		return
	}

	tgUser, err := h.verifier.Verify(req.InitData)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredInitData) {
			h.logger.Warn().Msg("expired init data")
		} else {
			h.logger.Warn().Msg("init data verification failed")
		}
		writeError(w, r, model.ErrUnauthorized, h.logger)
		return
	}

	user, err := h.users.GetOrCreateByTelegram(r.Context(), tgUser.ID, profileFromTelegram(tgUser))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	token, expiresAt, err := h.tokens.Issue(model.AuthUser{
		ID:         user.ID,
		TelegramID: user.TelegramID,
		Role:       user.Role,
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to sign token")
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, webAppAuthResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// profileFromTelegram lifts the init data user into a partial profile.
// Empty strings were absent from the payload and stay nil so they never
// erase stored values.
func profileFromTelegram(u *auth.TelegramUser) model.UserProfile {
	p := model.UserProfile{
		IsBot:     &u.IsBot,
		IsPremium: &u.IsPremium,
	}
	if u.Username != "" {
		p.Username = &u.Username
	}
	if u.FirstName != "" {
		p.FirstName = &u.FirstName
	}
	if u.LastName != "" {
		p.LastName = &u.LastName
	}
	if u.LanguageCode != "" {
		p.LanguageCode = &u.LanguageCode
	}
	return p
}
