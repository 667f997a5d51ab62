package business

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/receiptly/receiptly/internal/blob"
	"github.com/receiptly/receiptly/internal/receipts"
)

// Service wraps business-profile rules around the repository and blob store.
type Service struct {
	repo  Repository
	blobs blob.Uploader
}

// NewService constructs a Service.
func NewService(repo Repository, blobs blob.Uploader) *Service {
	return &Service{repo: repo, blobs: blobs}
}

// ProvisionDefaults creates the initial profile for a new vendor account.
func (s *Service) ProvisionDefaults(ctx context.Context, ownerID uuid.UUID, name string) (*Business, error) {
	b := Business{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Currency:    receipts.DefaultCurrencySymbol + " (NGN)",
		AccentColor: "#1a73e8",
		ShowLogo:    true,
		Variant:     receipts.VariantSimple,
		Slug:        defaultSlug(name, ownerID),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}
	return s.repo.Get(ctx, b.ID)
}

// GetByOwner loads the vendor's business profile.
func (s *Service) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*Business, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}

// GetBySlug resolves a public menu slug. Used by unauthenticated lookups.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Business, error) {
	return s.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

// Get loads a profile by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Business, error) {
	return s.repo.Get(ctx, id)
}

// ListIDs returns every business ID, used by cache warmup jobs.
func (s *Service) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.repo.ListIDs(ctx)
}

// Update applies the provided profile changes.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateBusinessRequest) (*Business, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Tagline != nil {
		updates["tagline"] = strings.TrimSpace(*req.Tagline)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.FooterMessage != nil {
		updates["footer_message"] = *req.FooterMessage
	}
	if req.Currency != nil {
		updates["currency"] = strings.TrimSpace(*req.Currency)
	}
	if req.AccentColor != nil {
		updates["accent_color"] = *req.AccentColor
	}
	if req.ShowLogo != nil {
		updates["show_logo"] = *req.ShowLogo
	}
	if req.Variant != nil {
		updates["template_variant"] = receipts.TemplateVariant(*req.Variant)
	}
	if req.Slug != nil {
		updates["slug"] = strings.ToLower(strings.TrimSpace(*req.Slug))
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update business: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// UploadLogo pushes the image to the blob store and records the public URL.
func (s *Service) UploadLogo(ctx context.Context, id uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	name := fmt.Sprintf("logos/%s-%s", id, sanitizeFilename(filename))
	url, err := s.blobs.Upload(ctx, name, contentType, body)
	if err != nil {
		return "", fmt.Errorf("upload logo: %w", err)
	}
	if err := s.repo.SetLogoURL(ctx, id, url); err != nil {
		return "", fmt.Errorf("store logo url: %w", err)
	}
	return url, nil
}

func defaultSlug(name string, ownerID uuid.UUID) string {
	base := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "vendor"
	}
	// Owner prefix keeps generated slugs unique without a retry loop.
	return fmt.Sprintf("%s-%s", slug, ownerID.String()[:8])
}

func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	if name == "" {
		name = "logo"
	}
	return name
}
