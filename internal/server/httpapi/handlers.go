// Package httpapi exposes the auth service over HTTP with JSON bodies and a
// cookie-borne session token.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/okulov/chatter/internal/apperror"
	"github.com/okulov/chatter/internal/common"
	"github.com/okulov/chatter/internal/logging"
	"github.com/okulov/chatter/internal/server/models"
	"github.com/okulov/chatter/internal/server/services"
)

// Handlers wraps the AuthService with HTTP contracts. Input validation
// happens here, at the endpoint boundary, before storage is touched.
type Handlers struct {
	service    *services.AuthService
	logger     logging.Logger
	sessionTTL time.Duration
}

func NewHandlers(service *services.AuthService, logger logging.Logger, sessionTTL time.Duration) *Handlers {
	return &Handlers{
		service:    service,
		logger:     logger.With("module", "httpapi"),
		sessionTTL: sessionTTL,
	}
}

// RegisterRequest is the /auth/register payload. Field names mirror the
// frontend form exactly.
type RegisterRequest struct {
	FirstName            string `json:"firstName"`
	LastName             string `json:"lastName"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

// LoginRequest is the /auth/login payload. Username doubles as the email
// identifier.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	User *models.PublicAccount `json:"user"`
}

type usersResponse struct {
	Count int                     `json:"count"`
	Users []*models.PublicAccount `json:"users"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HandleHealth reports liveness on the root route.
func (h *Handlers) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, http.StatusOK, healthResponse{
			Message:   "Hello World!",
			Status:    "running",
			Timestamp: time.Now().UTC(),
		})
	}
}

// HandleRegister creates an account and establishes a session.
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if req.FirstName == "" || req.LastName == "" || req.Username == "" ||
			req.Email == "" || req.Password == "" || req.PasswordConfirmation == "" {
			h.writeError(w, r, apperror.NewBadRequestError("all fields are required", nil))
			return
		}
		if req.Password != req.PasswordConfirmation {
			h.writeError(w, r, apperror.NewBadRequestError("passwords do not match", nil))
			return
		}
		if utf8.RuneCountInString(req.Password) < 6 {
			h.writeError(w, r, apperror.NewBadRequestError("password must be at least 6 characters", nil))
			return
		}

		account, session, err := h.service.Register(r.Context(), services.RegisterParams{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		h.setSessionCookie(w, session.Token)
		h.writeJSON(w, http.StatusCreated, userResponse{User: account.Public()})
	}
}

// HandleLogin verifies credentials and establishes a session.
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if req.Username == "" || req.Password == "" {
			h.writeError(w, r, apperror.NewBadRequestError("username and password are required", nil))
			return
		}

		account, session, err := h.service.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		h.setSessionCookie(w, session.Token)
		h.writeJSON(w, http.StatusOK, userResponse{User: account.Public()})
	}
}

// HandleLogout destroys the session regardless of prior state and always
// reports success.
func (h *Handlers) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.Logout(r.Context(), sessionToken(r)); err != nil {
			h.writeError(w, r, err)
			return
		}

		h.clearSessionCookie(w)
		h.writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
	}
}

// HandleProfile returns the outward-facing record for the session's account.
func (h *Handlers) HandleProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := h.service.Profile(r.Context(), sessionToken(r))
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		h.writeJSON(w, http.StatusOK, userResponse{User: account.Public()})
	}
}

// HandleListUsers returns the user directory for an authenticated caller.
func (h *Handlers) HandleListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.service.ListUsers(r.Context(), sessionToken(r))
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		users := make([]*models.PublicAccount, 0, len(list))
		for _, a := range list {
			users = append(users, a.Public())
		}
		h.writeJSON(w, http.StatusOK, usersResponse{Count: len(users), Users: users})
	}
}

// sessionToken extracts the opaque session token from the request cookie.
// Returns "" when the cookie is absent.
func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// setSessionCookie transports the session token as an HTTP-only,
// same-site-lax cookie. Not marked Secure: a known hardening gap carried
// over from the original deployment behind plain HTTP.
func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.Error(context.Background(), "response encode failed", "error", err.Error())
		}
	}
}

// writeError converts any error into the uniform JSON error payload. Errors
// that are not AppErrors are downgraded to a generic internal response so no
// detail leaks to the client.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("internal server error", err)
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", appErr.Error())
	}

	h.writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
