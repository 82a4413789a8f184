package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/config"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/identity"
)

type fakeUserRepo struct {
	users []domain.AppUser
	err   error
}

func (f *fakeUserRepo) ListAll(context.Context) ([]domain.AppUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.AppUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.AppUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].Username == username {
			return &f.users[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeRoleRepo struct {
	roles map[int64]bool
	err   error
}

func (f *fakeRoleRepo) ListAll(context.Context) ([]domain.Role, error) { return nil, nil }

func (f *fakeRoleRepo) GetByID(_ context.Context, id int64) (*domain.Role, error) {
	if f.roles[id] {
		return &domain.Role{ID: id}, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeRoleRepo) Exists(_ context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.roles[id], nil
}

var testCfg = config.IdentityConfig{DefaultRoleID: 1}

func testUsers() *fakeUserRepo {
	return &fakeUserRepo{users: []domain.AppUser{
		{ID: 1, Username: "jsmith", FirstName: "Jane", LastName: "Smith", RoleID: 2},
		{ID: 2, Username: "bmiller", FirstName: "Bob", LastName: "Miller", RoleID: 3},
	}}
}

func TestEffectiveKnownPrincipal(t *testing.T) {
	r := identity.NewResolver(testUsers(), &fakeRoleRepo{}, testCfg, zap.NewNop())

	ident := r.Effective(context.Background(), "jsmith", identity.Overrides{})
	assert.Equal(t, identity.Identity{Username: "jsmith", AppUserID: 1, RoleID: 2}, ident)
}

func TestEffectiveUnknownPrincipalGetsDefaultRole(t *testing.T) {
	r := identity.NewResolver(testUsers(), &fakeRoleRepo{}, testCfg, zap.NewNop())

	ident := r.Effective(context.Background(), "stranger", identity.Overrides{})
	assert.Equal(t, identity.Identity{Username: "stranger", AppUserID: 0, RoleID: 1}, ident)
}

func TestEffectiveEmptyPrincipal(t *testing.T) {
	r := identity.NewResolver(testUsers(), &fakeRoleRepo{}, testCfg, zap.NewNop())

	ident := r.Effective(context.Background(), "", identity.Overrides{})
	assert.Equal(t, int64(1), ident.RoleID)
	assert.Empty(t, ident.Username)
}

func TestEffectiveCatalogFailureDegradesToDefaultRole(t *testing.T) {
	users := &fakeUserRepo{err: errors.New("connection refused")}
	r := identity.NewResolver(users, &fakeRoleRepo{}, testCfg, zap.NewNop())

	ident := r.Effective(context.Background(), "jsmith", identity.Overrides{})
	assert.Equal(t, identity.Identity{Username: "jsmith", RoleID: 1}, ident)
}

func TestEffectiveActAsUser(t *testing.T) {
	r := identity.NewResolver(testUsers(), &fakeRoleRepo{}, testCfg, zap.NewNop())

	ident := r.Effective(context.Background(), "jsmith", identity.Overrides{ActAsUserID: 2})
	assert.Equal(t, identity.Identity{Username: "bmiller", AppUserID: 2, RoleID: 3}, ident)
}

func TestEffectiveActAsUnknownUserIgnored(t *testing.T) {
	r := identity.NewResolver(testUsers(), &fakeRoleRepo{}, testCfg, zap.NewNop())

	ident := r.Effective(context.Background(), "jsmith", identity.Overrides{ActAsUserID: 99})
	assert.Equal(t, identity.Identity{Username: "jsmith", AppUserID: 1, RoleID: 2}, ident)
}

func TestEffectiveRolePin(t *testing.T) {
	roles := &fakeRoleRepo{roles: map[int64]bool{5: true}}
	r := identity.NewResolver(testUsers(), roles, testCfg, zap.NewNop())

	// the pin changes permissions without changing who is reported
	ident := r.Effective(context.Background(), "jsmith", identity.Overrides{ActAsRoleID: 5})
	assert.Equal(t, identity.Identity{Username: "jsmith", AppUserID: 1, RoleID: 5}, ident)
}

func TestEffectiveRolePinUnknownRoleIgnored(t *testing.T) {
	roles := &fakeRoleRepo{roles: map[int64]bool{}}
	r := identity.NewResolver(testUsers(), roles, testCfg, zap.NewNop())

	ident := r.Effective(context.Background(), "jsmith", identity.Overrides{ActAsRoleID: 99})
	assert.Equal(t, int64(2), ident.RoleID)
}

func TestEffectiveRolePinLookupFailureIgnored(t *testing.T) {
	roles := &fakeRoleRepo{err: errors.New("connection refused")}
	r := identity.NewResolver(testUsers(), roles, testCfg, zap.NewNop())

	ident := r.Effective(context.Background(), "jsmith", identity.Overrides{ActAsRoleID: 5})
	assert.Equal(t, int64(2), ident.RoleID)
}

func TestEffectiveCombinedOverrides(t *testing.T) {
	roles := &fakeRoleRepo{roles: map[int64]bool{7: true}}
	r := identity.NewResolver(testUsers(), roles, testCfg, zap.NewNop())

	ident := r.Effective(context.Background(), "jsmith", identity.Overrides{ActAsUserID: 2, ActAsRoleID: 7})
	assert.Equal(t, identity.Identity{Username: "bmiller", AppUserID: 2, RoleID: 7}, ident)
}

func TestTokenRoundTrip(t *testing.T) {
	m := identity.NewTokenManager("test-secret", time.Minute)

	token, err := m.Issue(identity.Overrides{ActAsUserID: 2, ActAsRoleID: 5})
	require.NoError(t, err)

	ov, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, identity.Overrides{ActAsUserID: 2, ActAsRoleID: 5}, ov)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := identity.NewTokenManager("secret-a", time.Minute).Issue(identity.Overrides{ActAsRoleID: 5})
	require.NoError(t, err)

	_, err = identity.NewTokenManager("secret-b", time.Minute).Parse(token)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	m := identity.NewTokenManager("test-secret", -time.Minute)

	token, err := m.Issue(identity.Overrides{ActAsRoleID: 5})
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestTokenNormalizesNegativeIDs(t *testing.T) {
	m := identity.NewTokenManager("test-secret", time.Minute)

	token, err := m.Issue(identity.Overrides{ActAsUserID: -3, ActAsRoleID: -1})
	require.NoError(t, err)

	ov, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, identity.Overrides{}, ov)
}

func TestTokenRejectsGarbage(t *testing.T) {
	m := identity.NewTokenManager("test-secret", time.Minute)

	_, err := m.Parse("not.a.token")
	assert.Error(t, err)
}
