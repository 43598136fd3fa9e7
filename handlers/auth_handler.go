package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/config"
	"github.com/worldpop/worldpop-api/middleware"
	"github.com/worldpop/worldpop-api/models"
	"github.com/worldpop/worldpop-api/services"
	"github.com/worldpop/worldpop-api/utils"
)

// AuthHandler serves the login/register/logout/me endpoints.
type AuthHandler struct {
	service *services.AuthService
	cfg     config.AuthConfig
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *services.AuthService, cfg config.AuthConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, cfg: cfg, logger: logger}
}

// Login verifies credentials and sets the session cookie alongside the JSON
// response, so both browser and header-based clients are served.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		RespondError(w, h.logger, err)
		return
	}

	resp, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    resp.Token,
		Path:     "/",
		MaxAge:   int(h.cfg.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	_ = utils.WriteOK(w, resp)
}

// Register creates a new account. The password is never echoed back.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		RespondError(w, h.logger, err)
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		RespondError(w, h.logger, err)
		return
	}

	_ = utils.WriteCreated(w, user.PublicProfile())
}

// Logout clears the session cookie. The token itself stays valid until its
// natural expiry; there is no server-side revocation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	_ = utils.WriteOK(w, map[string]string{"message": "logged out"})
}

// Me returns the authenticated principal's identity and role.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{
		"username": principal.Username,
		"role":     principal.Role,
	})
}
