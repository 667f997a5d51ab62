package business

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

var (
	ErrNotFound      = errors.New("record not found")
	ErrSlugTaken     = errors.New("slug already in use")
	ErrAlreadyExists = errors.New("record already exists")
)

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Business, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*Business, error)
	GetBySlug(ctx context.Context, slug string) (*Business, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	Create(ctx context.Context, b Business) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	SetLogoURL(ctx context.Context, id uuid.UUID, url string) error
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

const businessColumns = `id, owner_id, name, tagline, phone, footer_message, currency,
	accent_color, show_logo, template_variant, logo_url, slug, created_at, updated_at`

func (r *repository) scanBusiness(row pgx.Row) (*Business, error) {
	var b Business
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Tagline, &b.Phone, &b.FooterMessage,
		&b.Currency, &b.AccentColor, &b.ShowLogo, &b.Variant, &b.LogoURL,
		&b.Slug, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Business, error) {
	query := fmt.Sprintf("SELECT %s FROM businesses WHERE id = $1", businessColumns)
	return r.scanBusiness(r.db.QueryRow(ctx, query, id))
}

func (r *repository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*Business, error) {
	query := fmt.Sprintf("SELECT %s FROM businesses WHERE owner_id = $1", businessColumns)
	return r.scanBusiness(r.db.QueryRow(ctx, query, ownerID))
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Business, error) {
	query := fmt.Sprintf("SELECT %s FROM businesses WHERE slug = $1", businessColumns)
	return r.scanBusiness(r.db.QueryRow(ctx, query, slug))
}

func (r *repository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, "SELECT id FROM businesses ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *repository) Create(ctx context.Context, b Business) error {
	const query = `
		INSERT INTO businesses (id, owner_id, name, tagline, phone, footer_message,
			currency, accent_color, show_logo, template_variant, logo_url, slug)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		b.ID, b.OwnerID, b.Name, b.Tagline, b.Phone, b.FooterMessage,
		b.Currency, b.AccentColor, b.ShowLogo, b.Variant, b.LogoURL, b.Slug,
	)
	if isUniqueViolation(err) {
		return classifyUnique(err)
	}
	return err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	setClauses := make([]string, 0, len(updates)+1)
	args := make([]interface{}, 0, len(updates)+1)
	argPos := 1
	for _, col := range []string{"name", "tagline", "phone", "footer_message", "currency", "accent_color", "show_logo", "template_variant", "slug"} {
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
	query := fmt.Sprintf("UPDATE businesses SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argPos)

	tag, err := r.db.Exec(ctx, query, args...)
	if isUniqueViolation(err) {
		return classifyUnique(err)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SetLogoURL(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := r.db.Exec(ctx, "UPDATE businesses SET logo_url = $1, updated_at = now() WHERE id = $2", url, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func classifyUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.Contains(pgErr.ConstraintName, "slug") {
		return ErrSlugTaken
	}
	return ErrAlreadyExists
}
