package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ayushd/todo-list/backend/internal/httpx"
	"github.com/ayushd/todo-list/backend/internal/models"
	"github.com/ayushd/todo-list/backend/internal/store"
)

// UserStore defines the interface for account persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash, name string) (*models.Account, error)
	GetUserByUsername(ctx context.Context, username string) (*models.Account, error)
	GetUserByID(ctx context.Context, id string) (*models.Account, error)
}

// Handler holds the auth-related HTTP handlers.
type Handler struct {
	users        UserStore
	sessions     SessionStore
	ttl          time.Duration
	cookieSecure bool
	log          *slog.Logger
}

func NewHandler(users UserStore, sessions SessionStore, ttl time.Duration, cookieSecure bool, log *slog.Logger) *Handler {
	return &Handler{users: users, sessions: sessions, ttl: ttl, cookieSecure: cookieSecure, log: log}
}

type loginResponse struct {
	httpx.Response
	User models.PublicUser `json:"user"`
}

type checkAuthResponse struct {
	Authenticated bool               `json:"authenticated"`
	User          *models.PublicUser `json:"user,omitempty"`
}

// Register creates a new account. No session is created; the client
// logs in afterwards.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" || req.Name == "" {
		httpx.Fail(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if req.Password != req.Confirm {
		httpx.Fail(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		h.log.Error("hash password", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Internal error")
		return
	}

	// No pre-read for duplicates: the unique constraint on username is
	// the authoritative guard, so concurrent registrations resolve to
	// exactly one winner.
	if _, err := h.users.CreateUser(r.Context(), req.Username, hash, req.Name); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			httpx.Fail(w, http.StatusConflict, "Username already exists")
			return
		}
		h.log.Error("create user", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Database error")
		return
	}

	httpx.OK(w, http.StatusCreated, "Registered successfully")
}

// Login verifies credentials and issues a session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.log.Error("lookup user", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Database error")
		return
	}

	if user == nil {
		// Burn a comparison against a dummy digest so an unknown
		// username costs the same as a wrong password.
		CheckPassword(req.Password, dummyHash)
		httpx.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !CheckPassword(req.Password, user.PasswordHash) {
		httpx.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.log.Error("create session", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Session creation failed")
		return
	}

	http.SetCookie(w, h.sessionCookie(token, int(h.ttl/time.Second)))
	httpx.JSON(w, http.StatusOK, loginResponse{
		Response: httpx.Response{Success: true, Message: "Login successful"},
		User:     models.PublicUser{Name: user.Name},
	})
}

// Logout destroys the current session. Logging out without one is fine.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			h.log.Error("destroy session", "err", err)
			httpx.Fail(w, http.StatusInternalServerError, "Logout failed")
			return
		}
	}
	http.SetCookie(w, h.sessionCookie("", -1))
	httpx.OK(w, http.StatusOK, "Logged out")
}

// CheckAuth reports whether the request carries a live session. Always
// responds 200 so the frontend can probe without error handling.
func (h *Handler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	resp := checkAuthResponse{}
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		httpx.JSON(w, http.StatusOK, resp)
		return
	}
	userID, err := h.sessions.Validate(r.Context(), cookie.Value)
	if err != nil {
		h.log.Error("validate session", "err", err)
		httpx.JSON(w, http.StatusOK, resp)
		return
	}
	if userID == "" {
		httpx.JSON(w, http.StatusOK, resp)
		return
	}
	// The session may outlive its account; report unauthenticated if
	// the account is gone.
	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		httpx.JSON(w, http.StatusOK, resp)
		return
	}
	resp.Authenticated = true
	resp.User = &models.PublicUser{Name: user.Name}
	httpx.JSON(w, http.StatusOK, resp)
}

// sessionCookie builds the session cookie. Cross-origin deployments
// need SameSite=None, which browsers only accept with Secure set.
func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.cookieSecure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: sameSite,
		MaxAge:   maxAge,
	}
}
