// Package todo implements the list and item CRUD endpoints. Every
// operation is scoped to the authenticated owner inside the store, so a
// resource that exists but belongs to someone else is indistinguishable
// from one that does not exist.
package todo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayushd/todo-list/backend/internal/httpx"
	"github.com/ayushd/todo-list/backend/internal/middleware"
	"github.com/ayushd/todo-list/backend/internal/models"
	"github.com/ayushd/todo-list/backend/internal/store"
)

// TodoStore defines the interface for list/item persistence. Every
// method takes the owner id and embeds it in the operation's predicate.
type TodoStore interface {
	CreateList(ctx context.Context, ownerID, title string) (*models.List, error)
	ListsWithItems(ctx context.Context, ownerID string) ([]models.List, error)
	UpdateList(ctx context.Context, ownerID, listID, title, status string) error
	DeleteList(ctx context.Context, ownerID, listID string) error
	CreateItem(ctx context.Context, ownerID, listID, description string) (*models.Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID, description, status string) error
	DeleteItem(ctx context.Context, ownerID, itemID string) error
}

// Handler holds the list/item HTTP handlers.
type Handler struct {
	todos TodoStore
	log   *slog.Logger
}

func NewHandler(todos TodoStore, log *slog.Logger) *Handler {
	return &Handler{todos: todos, log: log}
}

// GetLists returns the caller's lists with their items.
func (h *Handler) GetLists(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserID(r.Context())
	lists, err := h.todos.ListsWithItems(r.Context(), ownerID)
	if err != nil {
		h.log.Error("get lists", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Database error")
		return
	}
	httpx.JSON(w, http.StatusOK, lists)
}

// AddList creates a list owned by the caller.
func (h *Handler) AddList(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserID(r.Context())

	var req models.AddListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		httpx.Fail(w, http.StatusBadRequest, "Title is required")
		return
	}

	if _, err := h.todos.CreateList(r.Context(), ownerID, req.Title); err != nil {
		h.log.Error("add list", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Database error")
		return
	}
	httpx.OK(w, http.StatusOK, "Title added successfully")
}

// EditList updates a list the caller owns.
func (h *Handler) EditList(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserID(r.Context())
	listID := chi.URLParam(r, "id")

	var req models.EditListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.Status == "" {
		httpx.Fail(w, http.StatusBadRequest, "Title and status are required")
		return
	}

	if err := h.todos.UpdateList(r.Context(), ownerID, listID, req.Title, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "List not found")
			return
		}
		h.log.Error("edit list", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Database error")
		return
	}
	httpx.OK(w, http.StatusOK, "List updated successfully")
}

// DeleteList removes a list the caller owns, along with its items.
func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserID(r.Context())
	listID := chi.URLParam(r, "id")

	if err := h.todos.DeleteList(r.Context(), ownerID, listID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "List not found")
			return
		}
		h.log.Error("delete list", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Database error")
		return
	}
	httpx.OK(w, http.StatusOK, "List deleted successfully")
}

// AddItem creates an item in one of the caller's lists.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserID(r.Context())

	var req models.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ListID == "" || req.Description == "" {
		httpx.Fail(w, http.StatusBadRequest, "List id and description are required")
		return
	}

	if _, err := h.todos.CreateItem(r.Context(), ownerID, req.ListID, req.Description); err != nil {
		if errors.Is(err, store.ErrForbidden) {
			httpx.Fail(w, http.StatusForbidden, "List not owned by caller")
			return
		}
		h.log.Error("add item", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Database error")
		return
	}
	httpx.OK(w, http.StatusOK, "Item added successfully")
}

// EditItem updates an item whose parent list the caller owns.
func (h *Handler) EditItem(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserID(r.Context())
	itemID := chi.URLParam(r, "id")

	var req models.EditItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Description == "" || req.Status == "" {
		httpx.Fail(w, http.StatusBadRequest, "Description and status are required")
		return
	}

	if err := h.todos.UpdateItem(r.Context(), ownerID, itemID, req.Description, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Item not found")
			return
		}
		h.log.Error("edit item", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Database error")
		return
	}
	httpx.OK(w, http.StatusOK, "Item updated successfully")
}

// DeleteItem removes an item whose parent list the caller owns.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.UserID(r.Context())
	itemID := chi.URLParam(r, "id")

	if err := h.todos.DeleteItem(r.Context(), ownerID, itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Item not found")
			return
		}
		h.log.Error("delete item", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "Database error")
		return
	}
	httpx.OK(w, http.StatusOK, "Item deleted successfully")
}
