package adminauth

import (
	"context"
	"testing"
	"time"

	"atelier-storefront/internal/domain"
	tokenrepo "atelier-storefront/internal/repository/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memAdmins struct{ byEmail map[string]*domain.AdminUser }

func (m *memAdmins) GetByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (m *memAdmins) GetByID(_ context.Context, id string) (*domain.AdminUser, error) {
	for _, a := range m.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memAdmins) Create(_ context.Context, u domain.AdminUser) (*domain.AdminUser, error) {
	if _, ok := m.byEmail[u.Email]; ok {
		return nil, domain.ErrAlreadyExists
	}
	u.ID = "adm-" + u.Email
	m.byEmail[u.Email] = &u
	return &u, nil
}

type memTokens struct{ byToken map[string]tokenrepo.Token }

func (m *memTokens) Create(_ context.Context, t tokenrepo.Token) error {
	if _, ok := m.byToken[t.Token]; ok {
		return domain.ErrAlreadyExists
	}
	m.byToken[t.Token] = t
	return nil
}

func (m *memTokens) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	t, ok := m.byToken[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (m *memTokens) Delete(_ context.Context, token string) error {
	if _, ok := m.byToken[token]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byToken, token)
	return nil
}

func newFixture(t *testing.T) (*Service, *memTokens) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	require.NoError(t, err)
	admins := &memAdmins{byEmail: map[string]*domain.AdminUser{
		"admin@atelier.local": {ID: "adm-1", Email: "admin@atelier.local", PasswordHash: string(hash)},
	}}
	tokens := &memTokens{byToken: map[string]tokenrepo.Token{}}
	return New(admins, tokens), tokens
}

func TestLoginIssuesToken(t *testing.T) {
	svc, tokens := newFixture(t)

	res, err := svc.Login(context.Background(), "  Admin@Atelier.local ", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "adm-1", res.Admin.ID)
	assert.Contains(t, tokens.byToken, res.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newFixture(t)
	_, err := svc.Login(context.Background(), "admin@atelier.local", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _ := newFixture(t)
	_, err := svc.Login(context.Background(), "ghost@atelier.local", "s3cretpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRoundTrip(t *testing.T) {
	svc, _ := newFixture(t)
	res, err := svc.Login(context.Background(), "admin@atelier.local", "s3cretpass")
	require.NoError(t, err)

	admin, err := svc.Authenticate(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, "adm-1", admin.ID)
}

func TestAuthenticateExpiredTokenIsDeleted(t *testing.T) {
	svc, tokens := newFixture(t)
	tokens.byToken["stale"] = tokenrepo.Token{
		Token: "stale", AdminID: "adm-1", Kind: "access",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	_, err := svc.Authenticate(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.NotContains(t, tokens.byToken, "stale")
}

func TestAuthenticateRejectsEmptyAndUnknown(t *testing.T) {
	svc, _ := newFixture(t)
	_, err := svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Authenticate(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesAndIsIdempotent(t *testing.T) {
	svc, tokens := newFixture(t)
	res, err := svc.Login(context.Background(), "admin@atelier.local", "s3cretpass")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), res.Token))
	assert.NotContains(t, tokens.byToken, res.Token)
	assert.NoError(t, svc.Logout(context.Background(), res.Token))
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, _ := newFixture(t)
	admin, err := svc.Register(context.Background(), "New@Atelier.local", "longenough")
	require.NoError(t, err)
	assert.Equal(t, "new@atelier.local", admin.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("longenough")))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newFixture(t)
	_, err := svc.Register(context.Background(), "x@atelier.local", "short")
	assert.Error(t, err)
}
