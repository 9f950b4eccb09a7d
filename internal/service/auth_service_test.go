package service

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/demand-queue/internal/config"
	"github.com/spec-kit/demand-queue/internal/domain"
	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

type fakeAdminRepo struct {
	mu      sync.Mutex
	nextID  int
	admins  map[string]domain.AdminUser
	creates int
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[string]domain.AdminUser)}
}

func (f *fakeAdminRepo) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, admin := range f.admins {
		if admin.ID == id {
			return &admin, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAdminRepo) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	admin, ok := f.admins[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &admin, nil
}

func (f *fakeAdminRepo) Create(ctx context.Context, admin *domain.AdminUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.creates++
	admin.ID = "admin-" + strconv.Itoa(f.nextID)
	f.admins[admin.Username] = *admin
	return nil
}

func (f *fakeAdminRepo) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

func authConfig(username, password string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            4,
		AdminUsername:         username,
		AdminPassword:         password,
	}
}

func TestEnsureAdminSeedsInitialAccount(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAuthService(authConfig("chefe", "senha-forte"), repo)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx))

	admin, err := repo.GetByUsername(ctx, "chefe")
	require.NoError(t, err)
	assert.True(t, admin.Active)
	assert.NotEqual(t, "senha-forte", admin.PasswordHash)

	token, _, err := svc.Login(ctx, "chefe", "senha-forte")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAuthService(authConfig("chefe", "senha-forte"), repo)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx))
	require.NoError(t, svc.EnsureAdmin(ctx))
	assert.Equal(t, 1, repo.createCount())
}

func TestEnsureAdminSkipsWhenUnconfigured(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAuthService(authConfig("", ""), repo)

	require.NoError(t, svc.EnsureAdmin(context.Background()))
	assert.Equal(t, 0, repo.createCount())
}

func TestEnsureAdminRejectsWeakPassword(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAuthService(authConfig("chefe", "curta"), repo)

	err := svc.EnsureAdmin(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
	assert.Equal(t, 0, repo.createCount())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewAuthService(authConfig("chefe", "senha-forte"), repo)
	ctx := context.Background()
	require.NoError(t, svc.EnsureAdmin(ctx))

	_, _, err := svc.Login(ctx, "chefe", "senha-errada")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAuthDenied))

	_, _, err = svc.Login(ctx, "desconhecido", "senha-forte")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeAuthDenied))
}
