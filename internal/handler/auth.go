package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/audit"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/middleware"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/service"
)

var validate = validator.New()

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthHandler struct {
	authService      *service.AuthService
	authMiddleware   func(http.Handler) http.Handler
	loginRateLimiter *middleware.LoginRateLimiter
	sessionTTL       time.Duration
	isProduction     bool
}

func NewAuthHandler(
	authService *service.AuthService,
	authMiddleware func(http.Handler) http.Handler,
	sessionTTL time.Duration,
	isProduction bool,
) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		authMiddleware:   authMiddleware,
		loginRateLimiter: middleware.NewLoginRateLimiter(),
		sessionTTL:       sessionTTL,
		isProduction:     isProduction,
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(h.loginRateLimiter.Handler).Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Get("/me", h.Me)
	})

	return r
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Error().Err(err).Msg("admin login error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Login failed"})
		return
	}

	if token == "" {
		audit.LogFromRequest(r, audit.Event{
			Type:    audit.EventLoginFailure,
			Details: map[string]interface{}{"email": req.Email},
		})
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventLoginSuccess,
		Details: map[string]interface{}{"email": req.Email},
	})

	middleware.SetAuthCookie(w, token, h.sessionTTL, h.isProduction)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout})

	middleware.ClearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	writeJSON(w, http.StatusOK, identity)
}
