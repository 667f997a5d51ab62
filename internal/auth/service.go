package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/receiptly/receiptly/internal/shared"
)

// Provisioner creates the default business profile for a new account.
type Provisioner interface {
	Provision(ctx context.Context, ownerID uuid.UUID, name string) error
}

// ProvisionerFunc adapts a function to the Provisioner interface.
type ProvisionerFunc func(ctx context.Context, ownerID uuid.UUID, name string) error

// Provision implements Provisioner.
func (f ProvisionerFunc) Provision(ctx context.Context, ownerID uuid.UUID, name string) error {
	return f(ctx, ownerID, name)
}

// Service wraps authentication business rules.
type Service struct {
	repo        Repository
	provisioner Provisioner
}

// NewService constructs a new Service.
func NewService(repo Repository, provisioner Provisioner) *Service {
	return &Service{repo: repo, provisioner: provisioner}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Register creates a vendor account together with its default business profile.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.New(),
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.provisioner.Provision(ctx, user.ID, user.Name); err != nil {
		return nil, fmt.Errorf("provision business: %w", err)
	}
	return s.repo.FindByID(ctx, user.ID)
}

// GetUser loads a user by primary key.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
