package business

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID map[uuid.UUID]*Business
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[uuid.UUID]*Business)}
}

func (f *fakeRepo) Get(ctx context.Context, id uuid.UUID) (*Business, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*Business, error) {
	for _, b := range f.byID {
		if b.OwnerID == ownerID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) GetBySlug(ctx context.Context, slug string) (*Business, error) {
	for _, b := range f.byID {
		if b.Slug == slug {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeRepo) Create(ctx context.Context, b Business) error {
	for _, existing := range f.byID {
		if existing.Slug == b.Slug {
			return ErrSlugTaken
		}
		if existing.OwnerID == b.OwnerID {
			return ErrAlreadyExists
		}
	}
	cp := b
	f.byID[b.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	b, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "name":
			b.Name = v.(string)
		case "tagline":
			b.Tagline = v.(string)
		case "currency":
			b.Currency = v.(string)
		case "accent_color":
			b.AccentColor = v.(string)
		case "show_logo":
			b.ShowLogo = v.(bool)
		case "slug":
			slug := v.(string)
			for _, other := range f.byID {
				if other.ID != id && other.Slug == slug {
					return ErrSlugTaken
				}
			}
			b.Slug = slug
		}
	}
	return nil
}

func (f *fakeRepo) SetLogoURL(ctx context.Context, id uuid.UUID, url string) error {
	b, ok := f.byID[id]
	if !ok {
		return ErrNotFound
	}
	b.LogoURL = &url
	return nil
}

type fakeUploader struct {
	names []string
}

func (f *fakeUploader) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	f.names = append(f.names, name)
	return "http://blobs.local/" + name, nil
}

func TestProvisionDefaults(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeUploader{})
	ownerID := uuid.New()

	b, err := svc.ProvisionDefaults(context.Background(), ownerID, "Mama Nkechi Kitchen")
	require.NoError(t, err)
	require.Equal(t, ownerID, b.OwnerID)
	require.True(t, b.ShowLogo)
	require.Equal(t, "#1a73e8", b.AccentColor)
	require.True(t, strings.HasPrefix(b.Slug, "mama-nkechi-kitchen-"))

	got, err := svc.GetByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Equal(t, b.ID, got.ID)
}

func TestProvisionDefaultsUnusableName(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeUploader{})

	b, err := svc.ProvisionDefaults(context.Background(), uuid.New(), "北京烤鸭")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(b.Slug, "vendor-"))
}

func TestUpdateRejectsTakenSlug(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &fakeUploader{})

	first, err := svc.ProvisionDefaults(context.Background(), uuid.New(), "First Shop")
	require.NoError(t, err)
	second, err := svc.ProvisionDefaults(context.Background(), uuid.New(), "Second Shop")
	require.NoError(t, err)

	slug := first.Slug
	_, err = svc.Update(context.Background(), second.ID, UpdateBusinessRequest{Slug: &slug})
	require.ErrorIs(t, err, ErrSlugTaken)
}

func TestGetBySlugNormalizesInput(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeUploader{})
	b, err := svc.ProvisionDefaults(context.Background(), uuid.New(), "Suya Spot")
	require.NoError(t, err)

	got, err := svc.GetBySlug(context.Background(), "  "+strings.ToUpper(b.Slug)+" ")
	require.NoError(t, err)
	require.Equal(t, b.ID, got.ID)
}

func TestUploadLogoStoresURL(t *testing.T) {
	repo := newFakeRepo()
	uploader := &fakeUploader{}
	svc := NewService(repo, uploader)

	b, err := svc.ProvisionDefaults(context.Background(), uuid.New(), "Logo Shop")
	require.NoError(t, err)

	url, err := svc.UploadLogo(context.Background(), b.ID, "../logo.png", "image/png", strings.NewReader("fake image"))
	require.NoError(t, err)
	require.NotContains(t, uploader.names[0], "/../")

	got, err := svc.Get(context.Background(), b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LogoURL)
	require.Equal(t, url, *got.LogoURL)
}
