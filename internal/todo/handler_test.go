package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayushd/todo-list/backend/internal/auth"
	"github.com/ayushd/todo-list/backend/internal/middleware"
	"github.com/ayushd/todo-list/backend/internal/models"
	"github.com/ayushd/todo-list/backend/internal/store"
)

// --- helpers ---

// fakeTodoStore mirrors the postgres store's owner-embedded predicates:
// a row that exists but belongs to someone else behaves exactly like a
// row that does not exist.
type fakeTodoStore struct {
	mu    sync.Mutex
	lists map[string]*models.List
	items map[string]*models.Item
}

func newFakeTodoStore() *fakeTodoStore {
	return &fakeTodoStore{
		lists: make(map[string]*models.List),
		items: make(map[string]*models.Item),
	}
}

func (f *fakeTodoStore) CreateList(_ context.Context, ownerID, title string) (*models.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := &models.List{ID: uuid.NewString(), Title: title, Status: models.StatusPending, OwnerID: ownerID}
	f.lists[l.ID] = l
	return l, nil
}

func (f *fakeTodoStore) ListsWithItems(_ context.Context, ownerID string) ([]models.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.List{}
	for _, l := range f.lists {
		if l.OwnerID != ownerID {
			continue
		}
		copied := *l
		copied.Items = []models.Item{}
		for _, it := range f.items {
			if it.ListID == l.ID {
				copied.Items = append(copied.Items, *it)
			}
		}
		out = append(out, copied)
	}
	return out, nil
}

func (f *fakeTodoStore) UpdateList(_ context.Context, ownerID, listID, title, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lists[listID]
	if !ok || l.OwnerID != ownerID {
		return store.ErrNotFound
	}
	l.Title, l.Status = title, status
	return nil
}

func (f *fakeTodoStore) DeleteList(_ context.Context, ownerID, listID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lists[listID]
	if !ok || l.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(f.lists, listID)
	for id, it := range f.items {
		if it.ListID == listID {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeTodoStore) CreateItem(_ context.Context, ownerID, listID, description string) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lists[listID]
	if !ok || l.OwnerID != ownerID {
		return nil, store.ErrForbidden
	}
	it := &models.Item{ID: uuid.NewString(), ListID: listID, Description: description, Status: models.StatusPending}
	f.items[it.ID] = it
	return it, nil
}

func (f *fakeTodoStore) UpdateItem(_ context.Context, ownerID, itemID, description, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return store.ErrNotFound
	}
	l, ok := f.lists[it.ListID]
	if !ok || l.OwnerID != ownerID {
		return store.ErrNotFound
	}
	it.Description, it.Status = description, status
	return nil
}

func (f *fakeTodoStore) DeleteItem(_ context.Context, ownerID, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return store.ErrNotFound
	}
	l, ok := f.lists[it.ListID]
	if !ok || l.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(f.items, itemID)
	return nil
}

type testEnv struct {
	router   chi.Router
	todos    *fakeTodoStore
	sessions *auth.MemorySessionStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	todos := newFakeTodoStore()
	sessions := auth.NewMemorySessionStore(24 * time.Hour)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(todos, log)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))
		r.Get("/get-lists", h.GetLists)
		r.Post("/add-list", h.AddList)
		r.Put("/edit-list/{id}", h.EditList)
		r.Delete("/delete-list/{id}", h.DeleteList)
		r.Post("/add-items", h.AddItem)
		r.Put("/edit-item/{id}", h.EditItem)
		r.Delete("/delete-item/{id}", h.DeleteItem)
	})
	return &testEnv{router: r, todos: todos, sessions: sessions}
}

// loginAs issues a session for the given user id and returns its cookie.
func (e *testEnv) loginAs(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	token, err := e.sessions.Create(context.Background(), userID)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.SessionCookie, Value: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) getLists(t *testing.T, cookie *http.Cookie) []models.List {
	t.Helper()
	rec := e.do(t, http.MethodGet, "/get-lists", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var lists []models.List
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lists))
	return lists
}

// --- tests ---

func TestRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/get-lists"},
		{http.MethodPost, "/add-list"},
		{http.MethodPut, "/edit-list/some-id"},
		{http.MethodDelete, "/delete-list/some-id"},
		{http.MethodPost, "/add-items"},
		{http.MethodPut, "/edit-item/some-id"},
		{http.MethodDelete, "/delete-item/some-id"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, nil, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			// A destroyed session is just as unauthenticated as none.
			cookie := env.loginAs(t, "user-1")
			require.NoError(t, env.sessions.Destroy(context.Background(), cookie.Value))
			rec = env.do(t, tt.method, tt.path, nil, cookie)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAddListThenGetLists(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "alice")

	rec := env.do(t, http.MethodPost, "/add-list", models.AddListRequest{Title: "groceries"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	lists := env.getLists(t, cookie)
	require.Len(t, lists, 1)
	assert.Equal(t, "groceries", lists[0].Title)
	assert.Equal(t, models.StatusPending, lists[0].Status)
	require.NotNil(t, lists[0].Items)
	assert.Empty(t, lists[0].Items)
}

func TestAddListEmptyTitle(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "alice")

	rec := env.do(t, http.MethodPost, "/add-list", models.AddListRequest{}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditAndDeleteList(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "alice")

	l, err := env.todos.CreateList(context.Background(), "alice", "groceries")
	require.NoError(t, err)

	rec := env.do(t, http.MethodPut, "/edit-list/"+l.ID,
		models.EditListRequest{Title: "errands", Status: "done"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	lists := env.getLists(t, cookie)
	require.Len(t, lists, 1)
	assert.Equal(t, "errands", lists[0].Title)
	assert.Equal(t, "done", lists[0].Status)

	rec = env.do(t, http.MethodDelete, "/delete-list/"+l.ID, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.getLists(t, cookie))

	// Deleting again: the list is gone, so not found.
	rec = env.do(t, http.MethodDelete, "/delete-list/"+l.ID, nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemLifecycle(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.loginAs(t, "alice")

	l, err := env.todos.CreateList(context.Background(), "alice", "groceries")
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/add-items",
		models.AddItemRequest{ListID: l.ID, Description: "milk"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	lists := env.getLists(t, cookie)
	require.Len(t, lists, 1)
	require.Len(t, lists[0].Items, 1)
	item := lists[0].Items[0]
	assert.Equal(t, "milk", item.Description)
	assert.Equal(t, models.StatusPending, item.Status)

	rec = env.do(t, http.MethodPut, "/edit-item/"+item.ID,
		models.EditItemRequest{Description: "oat milk", Status: "done"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/delete-item/"+item.ID, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	lists = env.getLists(t, cookie)
	require.Len(t, lists, 1)
	assert.Empty(t, lists[0].Items)
}

func TestOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	aliceCookie := env.loginAs(t, "alice")
	bobCookie := env.loginAs(t, "bob")

	l, err := env.todos.CreateList(context.Background(), "alice", "groceries")
	require.NoError(t, err)
	item, err := env.todos.CreateItem(context.Background(), "alice", l.ID, "milk")
	require.NoError(t, err)

	// Bob never sees Alice's list.
	assert.Empty(t, env.getLists(t, bobCookie))

	// Editing or deleting someone else's resource is a plain not
	// found, never a distinguishable forbidden.
	rec := env.do(t, http.MethodPut, "/edit-list/"+l.ID,
		models.EditListRequest{Title: "stolen", Status: "done"}, bobCookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodDelete, "/delete-list/"+l.ID, nil, bobCookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodPut, "/edit-item/"+item.ID,
		models.EditItemRequest{Description: "stolen", Status: "done"}, bobCookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodDelete, "/delete-item/"+item.ID, nil, bobCookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Same responses as for ids that never existed.
	rec = env.do(t, http.MethodPut, "/edit-list/"+uuid.NewString(),
		models.EditListRequest{Title: "x", Status: "done"}, bobCookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Adding an item to a foreign list is refused outright.
	rec = env.do(t, http.MethodPost, "/add-items",
		models.AddItemRequest{ListID: l.ID, Description: "gum"}, bobCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Alice's view is untouched.
	lists := env.getLists(t, aliceCookie)
	require.Len(t, lists, 1)
	assert.Equal(t, "groceries", lists[0].Title)
	require.Len(t, lists[0].Items, 1)
	assert.Equal(t, "milk", lists[0].Items[0].Description)
}
