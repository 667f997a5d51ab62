package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Item, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]Item, error)
	ListAvailable(ctx context.Context, businessID uuid.UUID) ([]Item, error)
	Create(ctx context.Context, item Item) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextPosition(ctx context.Context, businessID uuid.UUID) (int, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db dbtx
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const itemColumns = `id, business_id, name, description, price, available, position, created_at, updated_at`

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	query := fmt.Sprintf("SELECT %s FROM menu_items WHERE id = $1", itemColumns)
	var item Item
	err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.BusinessID, &item.Name, &item.Description,
		&item.Price, &item.Available, &item.Position, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) list(ctx context.Context, query string, args ...interface{}) ([]Item, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.BusinessID, &item.Name, &item.Description,
			&item.Price, &item.Available, &item.Position, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]Item, error) {
	query := fmt.Sprintf("SELECT %s FROM menu_items WHERE business_id = $1 ORDER BY position", itemColumns)
	return r.list(ctx, query, businessID)
}

func (r *repository) ListAvailable(ctx context.Context, businessID uuid.UUID) ([]Item, error) {
	query := fmt.Sprintf("SELECT %s FROM menu_items WHERE business_id = $1 AND available ORDER BY position", itemColumns)
	return r.list(ctx, query, businessID)
}

func (r *repository) Create(ctx context.Context, item Item) error {
	const query = `
		INSERT INTO menu_items (id, business_id, name, description, price, available, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		item.ID, item.BusinessID, item.Name, item.Description, item.Price, item.Available, item.Position,
	)
	return err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	setClauses := make([]string, 0, len(updates)+1)
	args := make([]interface{}, 0, len(updates)+1)
	argPos := 1
	for _, col := range []string{"name", "description", "price", "available", "position"} {
		if val, ok := updates[col]; ok {
			setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, argPos))
			args = append(args, val)
			argPos++
		}
	}
	if len(setClauses) == 0 {
		return nil
	}
	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE menu_items SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argPos)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) NextPosition(ctx context.Context, businessID uuid.UUID) (int, error) {
	var max int
	err := r.db.QueryRow(ctx, "SELECT COALESCE(MAX(position), 0) FROM menu_items WHERE business_id = $1", businessID).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
