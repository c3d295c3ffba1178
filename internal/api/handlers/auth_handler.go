package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/vaashuyko/wishlist-api/internal/apierr"
	"github.com/vaashuyko/wishlist-api/internal/auth"
	"github.com/vaashuyko/wishlist-api/internal/services"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	users  services.UserServiceProvider
	tokens *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the login success body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		apierr.WriteHTTP(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.CreateUser(payload.Email, payload.Username, payload.Password)
	if err != nil {
		if apierr.From(err) == nil {
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		}
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles authentication. The form is URL-encoded with `username`
// matching either the email or the username of the account; success issues
// a bearer token for the matched user's id.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		apierr.WriteHTTP(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	identifier := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.users.AuthenticateUser(identifier, password)
	if err != nil {
		log.Warn().Str("identifier", identifier).Msg("Failed authentication attempt")
		apierr.Write(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to sign token")
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}
