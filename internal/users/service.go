package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mannuking/Project-Radius/internal/platform/httpx"
	"github.com/mannuking/Project-Radius/internal/policy"
)

// RepositoryPort is the persistence contract the service depends on.
type RepositoryPort interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context, role string, offset, limit int) ([]User, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service implements account management.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService builds a users Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// CreateInput registers a new account.
type CreateInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=128"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

// Create registers an account with a hashed password.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	if err := s.validate.Struct(in); err != nil {
		return User{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	role, ok := policy.ParseRole(in.Role)
	if !ok {
		return User{}, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, in.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		Role:         role,
		IsActive:     true,
		PasswordHash: string(hash),
	})
	if err != nil {
		return User{}, err
	}
	s.logger.Info("user created", "user_id", created.ID, "role", created.Role)
	return created, nil
}

// Get returns one account. Anyone may read themselves; reading others is an
// operations task enforced at the route.
func (s *Service) Get(ctx context.Context, p policy.Principal, id uuid.UUID) (User, error) {
	if id != p.ID && !p.FullVisibility() {
		return User{}, httpx.ErrForbidden
	}
	return s.repo.GetByID(ctx, id)
}

// List returns accounts, optionally narrowed to one role.
func (s *Service) List(ctx context.Context, role string, offset, limit int) ([]User, error) {
	if role != "" {
		if _, ok := policy.ParseRole(role); !ok {
			return nil, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, role)
		}
	}
	return s.repo.List(ctx, role, offset, limit)
}

// UpdateInput rewrites account fields. Empty fields keep their value.
type UpdateInput struct {
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	FullName string `json:"full_name,omitempty" validate:"omitempty,max=128"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8"`
	Role     string `json:"role,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// Update applies a partial account update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (User, error) {
	if err := s.validate.Struct(in); err != nil {
		return User{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if in.Role != "" {
		role, ok := policy.ParseRole(in.Role)
		if !ok {
			return User{}, fmt.Errorf("%w: unknown role %q", httpx.ErrValidation, in.Role)
		}
		u.Role = role
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Delete removes an account. Principals cannot delete themselves.
func (s *Service) Delete(ctx context.Context, p policy.Principal, id uuid.UUID) error {
	if id == p.ID {
		return fmt.Errorf("%w: cannot delete own account", httpx.ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id, "by", p.ID)
	return nil
}
