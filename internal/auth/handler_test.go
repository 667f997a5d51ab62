package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/receiptly/receiptly/internal/app"
	"github.com/receiptly/receiptly/internal/auth"
	"github.com/receiptly/receiptly/internal/shared"
)

type stubRepo struct {
	byEmail map[string]*auth.User
	created []auth.User
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	for i := range s.created {
		if s.created[i].ID == id {
			return &s.created[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) Create(ctx context.Context, user auth.User) error {
	if _, ok := s.byEmail[user.Email]; ok {
		return auth.ErrEmailTaken
	}
	s.created = append(s.created, user)
	return nil
}

func newHandler(t *testing.T, repo auth.Repository) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
	provisioner := auth.ProvisionerFunc(func(ctx context.Context, ownerID uuid.UUID, name string) error {
		return nil
	})
	handler := auth.NewHandler(app.NewLogger(nil), auth.NewService(repo, provisioner), sessions, validator.New())
	return handler, sessions
}

func seededRepo(t *testing.T, password string) *stubRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &auth.User{
		ID:           uuid.New(),
		Email:        "vendor@test.local",
		PasswordHash: string(hash),
		Name:         "Vendor",
		IsActive:     true,
	}
	return &stubRepo{byEmail: map[string]*auth.User{user.Email: user}}
}

func TestLoginSuccess(t *testing.T) {
	handler, sessions := newHandler(t, seededRepo(t, "correct horse"))

	body := `{"email":"vendor@test.local","password":"correct horse"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(body)))
	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	handler.LoginForTest(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.True(t, sess.Authenticated())

	var got auth.User
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &got))
	require.Equal(t, "vendor@test.local", got.Email)
	require.Empty(t, got.PasswordHash)
}

func TestLoginWrongPassword(t *testing.T) {
	handler, sessions := newHandler(t, seededRepo(t, "correct horse"))

	body := `{"email":"vendor@test.local","password":"battery staple"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(body)))
	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	handler.LoginForTest(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.False(t, sess.Authenticated())
}

func TestRegisterCreatesAccountAndSignsIn(t *testing.T) {
	repo := &stubRepo{byEmail: map[string]*auth.User{}}
	handler, sessions := newHandler(t, repo)

	body := `{"name":"Mama Put Kitchen","email":"Owner@Example.COM","password":"longenough"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte(body)))
	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	handler.RegisterForTest(res, req)

	require.Equal(t, http.StatusCreated, res.Code)
	require.Len(t, repo.created, 1)
	require.Equal(t, "owner@example.com", repo.created[0].Email)
	require.True(t, sess.Authenticated())
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	repo := &stubRepo{byEmail: map[string]*auth.User{}}
	handler, sessions := newHandler(t, repo)

	body := `{"name":"Shop","email":"owner@example.com","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte(body)))
	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	res := httptest.NewRecorder()
	handler.RegisterForTest(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Empty(t, repo.created)
}
