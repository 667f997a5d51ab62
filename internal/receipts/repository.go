package receipts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/receiptly/receiptly/internal/platform/db"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id uuid.UUID) (*Receipt, error)
	List(ctx context.Context, businessID uuid.UUID, req ListReceiptsRequest) ([]Receipt, int, error)
	ListForRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]Receipt, error)
	Create(ctx context.Context, r Receipt) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplaceItems(ctx context.Context, receiptID uuid.UUID, items []LineItem) error
	SetImageURL(ctx context.Context, id uuid.UUID, url string) error
	NextNumber(ctx context.Context, businessID uuid.UUID, date time.Time) (string, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const receiptColumns = `id, business_id, receipt_number, customer_name, issue_date, status,
	shipping_fee, discount_amount, template_variant, image_url, created_at, updated_at`

func (r *repository) scanReceipt(row pgx.Row) (*Receipt, error) {
	var rec Receipt
	err := row.Scan(
		&rec.ID, &rec.BusinessID, &rec.ReceiptNumber, &rec.CustomerName,
		&rec.IssueDate, &rec.Status, &rec.ShippingFee, &rec.DiscountAmount,
		&rec.Variant, &rec.ImageURL, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	query := fmt.Sprintf("SELECT %s FROM receipts WHERE id = $1", receiptColumns)
	rec, err := r.scanReceipt(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	items, err := r.itemsFor(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	rec.Items = items
	return rec, nil
}

func (r *repository) itemsFor(ctx context.Context, receiptID uuid.UUID) ([]LineItem, error) {
	const query = `
		SELECT id, receipt_id, name, quantity, unit_price, position
		FROM receipt_items WHERE receipt_id = $1 ORDER BY position`
	rows, err := r.db.Query(ctx, query, receiptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.ID, &item.ReceiptID, &item.Name, &item.Quantity, &item.UnitPrice, &item.Position); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) List(ctx context.Context, businessID uuid.UUID, req ListReceiptsRequest) ([]Receipt, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	conditions = append(conditions, fmt.Sprintf("business_id = $%d", argPos))
	args = append(args, businessID)
	argPos++

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *req.Status)
		argPos++
	}
	if req.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("issue_date >= $%d", argPos))
		args = append(args, *req.DateFrom)
		argPos++
	}
	if req.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("issue_date <= $%d", argPos))
		args = append(args, *req.DateTo)
		argPos++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM receipts " + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	perPage := req.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}

	query := fmt.Sprintf(
		"SELECT %s FROM receipts %s ORDER BY issue_date DESC, created_at DESC LIMIT $%d OFFSET $%d",
		receiptColumns, whereClause, argPos, argPos+1,
	)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []Receipt
	for rows.Next() {
		var rec Receipt
		if err := rows.Scan(
			&rec.ID, &rec.BusinessID, &rec.ReceiptNumber, &rec.CustomerName,
			&rec.IssueDate, &rec.Status, &rec.ShippingFee, &rec.DiscountAmount,
			&rec.Variant, &rec.ImageURL, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range results {
		items, err := r.itemsFor(ctx, results[i].ID)
		if err != nil {
			return nil, 0, err
		}
		results[i].Items = items
	}
	return results, total, nil
}

// ListForRange returns all receipts issued inside [from, to] with their
// items, ordered by issue date. Used by the dashboard aggregation.
func (r *repository) ListForRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]Receipt, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM receipts WHERE business_id = $1 AND issue_date >= $2 AND issue_date <= $3 ORDER BY issue_date",
		receiptColumns,
	)
	rows, err := r.db.Query(ctx, query, businessID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Receipt
	for rows.Next() {
		var rec Receipt
		if err := rows.Scan(
			&rec.ID, &rec.BusinessID, &rec.ReceiptNumber, &rec.CustomerName,
			&rec.IssueDate, &rec.Status, &rec.ShippingFee, &rec.DiscountAmount,
			&rec.Variant, &rec.ImageURL, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range results {
		items, err := r.itemsFor(ctx, results[i].ID)
		if err != nil {
			return nil, err
		}
		results[i].Items = items
	}
	return results, nil
}

func (r *repository) Create(ctx context.Context, rec Receipt) error {
	const query = `
		INSERT INTO receipts (id, business_id, receipt_number, customer_name, issue_date,
			status, shipping_fee, discount_amount, template_variant)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.BusinessID, rec.ReceiptNumber, rec.CustomerName, rec.IssueDate,
		rec.Status, rec.ShippingFee, rec.DiscountAmount, rec.Variant,
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
	for _, col := range []string{"customer_name", "issue_date", "status", "shipping_fee", "discount_amount", "template_variant"} {
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
	query := fmt.Sprintf("UPDATE receipts SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argPos)

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
	tag, err := r.db.Exec(ctx, "DELETE FROM receipts WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ReplaceItems(ctx context.Context, receiptID uuid.UUID, items []LineItem) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM receipt_items WHERE receipt_id = $1", receiptID); err != nil {
		return err
	}
	const query = `
		INSERT INTO receipt_items (id, receipt_id, name, quantity, unit_price, position)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, item := range items {
		if _, err := r.db.Exec(ctx, query, item.ID, item.ReceiptID, item.Name, item.Quantity, item.UnitPrice, item.Position); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) SetImageURL(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := r.db.Exec(ctx, "UPDATE receipts SET image_url = $1, updated_at = now() WHERE id = $2", url, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// NextNumber produces a per-business sequential document number such as
// RCP-202608-0042.
func (r *repository) NextNumber(ctx context.Context, businessID uuid.UUID, date time.Time) (string, error) {
	prefix := fmt.Sprintf("RCP-%s-", date.Format("200601"))
	const query = `
		SELECT COUNT(*) FROM receipts
		WHERE business_id = $1 AND receipt_number LIKE $2`
	var count int
	if err := r.db.QueryRow(ctx, query, businessID, prefix+"%").Scan(&count); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}
