package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/leminhha/salespipe/internal/models"
	apperrors "github.com/leminhha/salespipe/pkg/errors"
)

// UserService provides the credential-store operations the authorization
// layer consumes: password verification for login and user lookups for role
// assignment checks. Full user management lives outside this subsystem.
type UserService struct {
	db *gorm.DB
}

// NewUserService constructs a UserService using the provided database handle.
func NewUserService(db *gorm.DB) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{db: db}, nil
}

// Authenticate verifies the email/password pair against the stored bcrypt
// hash. All failures (unknown email, wrong password, deactivated or archived
// account) collapse into ErrInvalidCredentials so responses never
// reveal whether an identity exists.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	if !user.IsActive || user.IsArchived {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("user service: record login: %w", err)
	}
	user.LastLoginAt = &now

	return &user, nil
}

// HashPassword produces a bcrypt hash for seeding and account provisioning.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("user service: password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("user service: hash password: %w", err)
	}
	return string(hash), nil
}

// EnsureBootstrapSuperAdmin provisions an initial SUPERADMIN account when no
// account with the given email exists. Existing accounts are left untouched,
// so a stale bootstrap password in config never overwrites a rotated one.
func (s *UserService) EnsureBootstrapSuperAdmin(ctx context.Context, email, password string) error {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return errors.New("user service: bootstrap email and password are required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("user service: check bootstrap account: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:    email,
		Name:     "Bootstrap Admin",
		Password: hash,
		Role:     "SUPERADMIN",
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("user service: create bootstrap account: %w", err)
	}
	return nil
}

// FindByID returns the user with custom role permissions preloaded.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	if err := s.db.WithContext(ctx).Preload("CustomRole.Permissions").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user not found")
		}
		return nil, fmt.Errorf("user service: load user: %w", err)
	}
	return &user, nil
}
