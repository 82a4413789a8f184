// Package identity determines the acting principal and their workflow
// role, with act-as overrides for impersonation and permission testing.
package identity

import (
	"context"

	"go.uber.org/zap"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/config"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/repository"
)

// Overrides carries the optional act-as signals read once at the start of
// request handling. Zero means absent.
type Overrides struct {
	ActAsUserID int64
	ActAsRoleID int64
}

// Identity is the effective acting principal for one request.
type Identity struct {
	Username  string
	AppUserID int64 // 0 when the principal is not in the user catalog
	RoleID    int64
}

// Resolver resolves principals to identities. Every failure path degrades
// to the default role rather than erroring: an unknown caller can still
// view tickets, they just get no actions.
type Resolver struct {
	users  repository.AppUserRepository
	roles  repository.RoleRepository
	cfg    config.IdentityConfig
	logger *zap.Logger
}

// NewResolver constructs the resolver.
func NewResolver(users repository.AppUserRepository, roles repository.RoleRepository, cfg config.IdentityConfig, logger *zap.Logger) *Resolver {
	return &Resolver{users: users, roles: roles, cfg: cfg, logger: logger}
}

// Effective resolves the identity for a request. principal is the
// externally supplied username; overrides may substitute the user or pin
// the role. Invalid overrides are ignored, not rejected.
func (r *Resolver) Effective(ctx context.Context, principal string, ov Overrides) Identity {
	ident := r.defaultIdentity(ctx, principal)

	if ov.ActAsUserID > 0 {
		user, err := r.users.GetByID(ctx, ov.ActAsUserID)
		if err != nil {
			r.logger.Debug("act-as user not resolvable", zap.Int64("user_id", ov.ActAsUserID), zap.Error(err))
		} else {
			ident = Identity{Username: user.Username, AppUserID: user.ID, RoleID: user.RoleID}
		}
	}

	if ov.ActAsRoleID > 0 {
		// role pin changes permissions without changing the reported
		// identity, and only when the role actually exists
		exists, err := r.roles.Exists(ctx, ov.ActAsRoleID)
		if err != nil {
			r.logger.Debug("role pin lookup failed", zap.Int64("role_id", ov.ActAsRoleID), zap.Error(err))
		} else if exists {
			ident.RoleID = ov.ActAsRoleID
		}
	}

	return ident
}

func (r *Resolver) defaultIdentity(ctx context.Context, principal string) Identity {
	ident := Identity{Username: principal, RoleID: r.cfg.DefaultRoleID}
	if principal == "" {
		return ident
	}
	user, err := r.users.GetByUsername(ctx, principal)
	if err != nil {
		return ident
	}
	ident.AppUserID = user.ID
	ident.RoleID = user.RoleID
	return ident
}
