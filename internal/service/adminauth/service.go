package adminauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"atelier-storefront/internal/domain"
	adminrepo "atelier-storefront/internal/repository/admin"
	tokenrepo "atelier-storefront/internal/repository/token"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

const tokenKindAccess = "access"

// Service handles admin login and token validation for the back office.
type Service struct {
	admins    adminrepo.Repository
	tokens    tokenrepo.Repository
	accessTTL time.Duration
}

func New(admins adminrepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		admins:    admins,
		tokens:    tokens,
		accessTTL: 12 * time.Hour,
	}
}

// LoginResult carries the issued token and its expiry.
type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Admin     domain.AdminUser `json:"admin"`
}

// Login checks credentials and issues an access token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.accessTTL)
	token, err := s.issue(ctx, admin.ID, expiresAt)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, Admin: *admin}, nil
}

// Logout revokes the token. Revoking an unknown token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	err := s.tokens.Delete(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// Authenticate resolves a bearer token to its admin user. Expired tokens are
// deleted on sight.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.AdminUser, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	rec, err := s.tokens.Get(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if rec.Kind != tokenKindAccess {
		return nil, ErrInvalidToken
	}
	if time.Now().After(rec.ExpiresAt) {
		_ = s.tokens.Delete(ctx, token)
		return nil, ErrInvalidToken
	}
	admin, err := s.admins.GetByID(ctx, rec.AdminID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return admin, nil
}

// Register creates an admin account with a bcrypt password hash. Used by the
// seeder and by ops tooling, not exposed over HTTP.
func (s *Service) Register(ctx context.Context, email, password string) (*domain.AdminUser, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errors.New("email required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.admins.Create(ctx, domain.AdminUser{Email: email, PasswordHash: string(hashed)})
}

func (s *Service) issue(ctx context.Context, adminID string, expiresAt time.Time) (string, error) {
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = s.tokens.Create(ctx, tokenrepo.Token{
			Token:     token,
			AdminID:   adminID,
			Kind:      tokenKindAccess,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("token collision")
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
