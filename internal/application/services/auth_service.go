package services

import (
	"errors"
	"time"

	"github.com/teampulsehq/teampulse-go/internal/domain/user"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/observability/logging"
	"github.com/teampulsehq/teampulse-go/internal/infrastructure/security"
	"github.com/teampulsehq/teampulse-go/pkg/config"
)

// ErrInvalidCredentials is returned on any login failure. The cause (unknown
// email vs wrong password) is deliberately not distinguished to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrEmailTaken is returned when creating a user with an existing email.
var ErrEmailTaken = errors.New("email already registered")

// AuthService handles login, token issuance, and account creation.
type AuthService struct {
	users  user.Repository
	logger *logging.ChanneledLogger
}

// NewAuthService creates the auth service.
func NewAuthService(users user.Repository, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{users: users, logger: logger}
}

// Login validates credentials and returns a signed token plus the account.
func (s *AuthService) Login(email, password string) (string, *user.User, error) {
	u, err := s.users.FindByEmail(email)
	if err != nil {
		return "", nil, err
	}
	if u == nil || !security.CheckPassword(u.PasswordHash, password) {
		s.logger.Auth().Warn("Login failed", "email", email)
		return "", nil, ErrInvalidCredentials
	}

	token, err := security.GenerateToken(u, config.JWTSecret, config.TokenTTL)
	if err != nil {
		return "", nil, err
	}

	s.logger.Auth().Info("Login succeeded", "email", email, "role", u.Role)
	return token, u, nil
}

// CreateUserInput carries the fields for account creation.
type CreateUserInput struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role"`
	SheetName string `json:"sheetName"`
}

// CreateUser registers a new account. Unknown roles default to team_member.
func (s *AuthService) CreateUser(input CreateUserInput) (*user.User, error) {
	existing, err := s.users.FindByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &user.User{
		ID:           security.GenerateULID(),
		Name:         input.Name,
		Email:        input.Email,
		Role:         user.ParseRole(input.Role),
		SheetName:    input.SheetName,
		PasswordHash: hash,
		CreatedAt:    now,
		Changed:      now,
	}
	if err := s.users.Store(u); err != nil {
		return nil, err
	}

	s.logger.Auth().Info("User created", "email", u.Email, "role", u.Role)
	return u, nil
}

// RefreshToken issues a fresh token for an already-authenticated account,
// restarting the TTL.
func (s *AuthService) RefreshToken(u *user.User) (string, error) {
	return security.GenerateToken(u, config.JWTSecret, config.TokenTTL)
}

// FindByID resolves a token subject to its account.
func (s *AuthService) FindByID(id string) (*user.User, error) {
	return s.users.FindByID(id)
}

// ListUsers returns every account.
func (s *AuthService) ListUsers() ([]*user.User, error) {
	return s.users.List()
}

// SeedAdmin creates the bootstrap project manager account when the user
// table is empty and seed credentials are configured.
func (s *AuthService) SeedAdmin() error {
	count, err := s.users.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if config.SeedAdminEmail == "" || config.SeedAdminPassword == "" {
		s.logger.Startup().Warn("User table empty and no seed admin configured")
		return nil
	}

	_, err = s.CreateUser(CreateUserInput{
		Name:     config.SeedAdminName,
		Email:    config.SeedAdminEmail,
		Password: config.SeedAdminPassword,
		Role:     string(user.RoleProjectManager),
	})
	if err != nil {
		return err
	}
	s.logger.Startup().Info("Seed admin account created", "email", config.SeedAdminEmail)
	return nil
}
