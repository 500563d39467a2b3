package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mountainthreads/rental-ops/internal/auth"
	"github.com/mountainthreads/rental-ops/internal/constants"
	"github.com/mountainthreads/rental-ops/internal/models"
	"github.com/mountainthreads/rental-ops/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrAdminEmailRequired   = errors.New("admin email is required")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrUnauthenticated      = errors.New("not authenticated")
)

// AuthService handles admin authentication.
type AuthService struct {
	adminRepo repository.AdminRepository
	tokens    *auth.TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(adminRepo repository.AdminRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		tokens:    tokens,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the authenticated admin and its session token.
type LoginResult struct {
	Admin *models.Admin
	Token string
}

// SeedAdminInput creates or resets an admin account.
type SeedAdminInput struct {
	Email    string
	Password string
	Name     string
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	admin, err := s.adminRepo.FindByEmail(normalizeAdminEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(admin)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Admin: admin, Token: token}, nil
}

// Authenticate resolves a session token to its admin.
func (s *AuthService) Authenticate(token string) (*models.Admin, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	admin, err := s.GetAdmin(claims.AdminID)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return admin, nil
}

// ValidToken reports whether a token is well formed, signed and unexpired,
// without touching the database.
func (s *AuthService) ValidToken(token string) bool {
	_, err := s.tokens.Validate(token)
	return err == nil
}

// TokenMaxAge is the cookie lifetime in seconds.
func (s *AuthService) TokenMaxAge() int {
	return int(s.tokens.Duration().Seconds())
}

// GetAdmin retrieves an admin by ID.
func (s *AuthService) GetAdmin(id string) (*models.Admin, error) {
	admin, err := s.adminRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	return admin, nil
}

// SeedAdmin creates an admin, or resets the password and name of an existing one.
func (s *AuthService) SeedAdmin(input SeedAdminInput) (*models.Admin, error) {
	email := normalizeAdminEmail(input.Email)
	if email == "" {
		return nil, ErrAdminEmailRequired
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	admin, err := s.adminRepo.FindByEmail(email)
	switch {
	case err == nil:
		admin.PasswordHash = string(hashedPassword)
		if name := strings.TrimSpace(input.Name); name != "" {
			admin.Name = name
		}
		if err := s.adminRepo.Update(admin); err != nil {
			return nil, fmt.Errorf("failed to update admin: %w", err)
		}
		return admin, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		admin = &models.Admin{
			Email:        email,
			PasswordHash: string(hashedPassword),
			Name:         strings.TrimSpace(input.Name),
		}
		if err := s.adminRepo.Create(admin); err != nil {
			return nil, fmt.Errorf("failed to create admin: %w", err)
		}
		return admin, nil
	default:
		return nil, fmt.Errorf("failed to check admin: %w", err)
	}
}

func normalizeAdminEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
