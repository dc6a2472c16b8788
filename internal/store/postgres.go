package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayushd/todo-list/backend/internal/models"
)

const uniqueViolation = "23505"

// PostgresStore handles account, list, and item CRUD against PostgreSQL.
// Every owner-scoped statement carries the ownership predicate inside
// the statement itself, so there is no window between an authorization
// check and the guarded read or write.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the schema if it doesn't exist. Statements run one
// at a time; pgx's extended protocol rejects multi-statement batches.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id         UUID PRIMARY KEY,
			username   VARCHAR(50)  UNIQUE NOT NULL,
			password   VARCHAR(255) NOT NULL,
			name       VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ  DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS lists (
			id       UUID PRIMARY KEY,
			title    TEXT NOT NULL,
			status   VARCHAR(20) NOT NULL,
			owner_id UUID NOT NULL REFERENCES accounts(id)
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id          UUID PRIMARY KEY,
			list_id     UUID NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
			description TEXT NOT NULL,
			status      VARCHAR(20) NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ── accounts ─────────────────────────────────────────────

func (s *PostgresStore) CreateUser(ctx context.Context, username, passwordHash, name string) (*models.Account, error) {
	u := models.Account{ID: uuid.NewString(), Username: username, PasswordHash: passwordHash, Name: name}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO accounts (id, username, password, name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		u.ID, u.Username, u.PasswordHash, u.Name,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.Account, error) {
	var u models.Account
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, password, name, created_at FROM accounts WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.Account, error) {
	var u models.Account
	err := s.pool.QueryRow(ctx,
		`SELECT id, username, name, created_at FROM accounts WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Name, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

// ── lists ────────────────────────────────────────────────

func (s *PostgresStore) CreateList(ctx context.Context, ownerID, title string) (*models.List, error) {
	l := models.List{
		ID:      uuid.NewString(),
		Title:   title,
		Status:  models.StatusPending,
		OwnerID: ownerID,
		Items:   []models.Item{},
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO lists (id, title, status, owner_id) VALUES ($1, $2, $3, $4)`,
		l.ID, l.Title, l.Status, l.OwnerID,
	)
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	return &l, nil
}

// ListsWithItems returns the caller's lists, each with its items.
func (s *PostgresStore) ListsWithItems(ctx context.Context, ownerID string) ([]models.List, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, status, owner_id FROM lists WHERE owner_id = $1 ORDER BY id`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	lists := []models.List{}
	index := map[string]int{}
	for rows.Next() {
		var l models.List
		if err := rows.Scan(&l.ID, &l.Title, &l.Status, &l.OwnerID); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		l.Items = []models.Item{}
		index[l.ID] = len(lists)
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lists: %w", err)
	}
	if len(lists) == 0 {
		return lists, nil
	}

	itemRows, err := s.pool.Query(ctx,
		`SELECT i.id, i.list_id, i.description, i.status
		 FROM items i
		 JOIN lists l ON l.id = i.list_id
		 WHERE l.owner_id = $1
		 ORDER BY i.id`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it models.Item
		if err := itemRows.Scan(&it.ID, &it.ListID, &it.Description, &it.Status); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if idx, ok := index[it.ListID]; ok {
			lists[idx].Items = append(lists[idx].Items, it)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return lists, nil
}

func (s *PostgresStore) UpdateList(ctx context.Context, ownerID, listID, title, status string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE lists SET title = $1, status = $2 WHERE id = $3 AND owner_id = $4`,
		title, status, listID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteList(ctx context.Context, ownerID, listID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM lists WHERE id = $1 AND owner_id = $2`, listID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ── items ────────────────────────────────────────────────

// CreateItem inserts an item only if the caller owns the parent list.
// The ownership check is part of the insert, so a list handed to
// another account between check and insert cannot slip through.
func (s *PostgresStore) CreateItem(ctx context.Context, ownerID, listID, description string) (*models.Item, error) {
	it := models.Item{
		ID:          uuid.NewString(),
		ListID:      listID,
		Description: description,
		Status:      models.StatusPending,
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO items (id, list_id, description, status)
		 SELECT $1, $2, $3, $4
		 WHERE EXISTS (SELECT 1 FROM lists WHERE id = $2 AND owner_id = $5)`,
		it.ID, it.ListID, it.Description, it.Status, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrForbidden
	}
	return &it, nil
}

func (s *PostgresStore) UpdateItem(ctx context.Context, ownerID, itemID, description, status string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE items SET description = $1, status = $2
		 WHERE id = $3
		   AND list_id IN (SELECT id FROM lists WHERE owner_id = $4)`,
		description, status, itemID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM items
		 WHERE id = $1
		   AND list_id IN (SELECT id FROM lists WHERE owner_id = $2)`,
		itemID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
