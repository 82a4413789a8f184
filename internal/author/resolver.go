// Package author maps the raw free-text author strings recorded on
// historical comments to canonical display names and initials.
package author

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/salsus-balsus/ticket-tool-sub002/internal/domain"
	"github.com/salsus-balsus/ticket-tool-sub002/internal/repository"
)

// Placeholders shown when the raw author is blank.
const (
	placeholderDisplay  = "—"
	placeholderInitials = "?"
)

// NoComment disables the per-comment override lookup.
const NoComment int64 = 0

// userIndex is a memoized view over the user catalog. Username and
// full-name keys are case-sensitive; the initials key is upper-cased on
// both sides.
type userIndex struct {
	byUsername map[string]domain.AppUser
	byInitials map[string]domain.AppUser
	byFullName map[string]domain.AppUser
}

// Resolver resolves author display names through an ordered chain:
// per-comment override, user catalog match, alias map, identity fallback.
// Lookup tables are built lazily once per process behind a single-flight
// guard and kept until Invalidate is called.
type Resolver struct {
	users    repository.AppUserRepository
	aliases  repository.AuthorAliasRepository
	comments repository.CommentRepository
	logger   *zap.Logger

	group    singleflight.Group
	mu       sync.RWMutex
	idx      *userIndex
	aliasMap map[string]string
}

// NewResolver constructs the resolver. The comments repository may be nil
// when no per-comment overrides are in play.
func NewResolver(users repository.AppUserRepository, aliases repository.AuthorAliasRepository, comments repository.CommentRepository, logger *zap.Logger) *Resolver {
	return &Resolver{users: users, aliases: aliases, comments: comments, logger: logger}
}

// DisplayName resolves raw to a display name. commentID enables the
// per-comment override lookup; pass NoComment to skip it. Resolution never
// fails: every miss or store error falls through to the next strategy,
// ending at the raw string itself.
func (r *Resolver) DisplayName(ctx context.Context, raw string, commentID int64) string {
	if name, ok := r.overrideFor(ctx, commentID); ok {
		return name
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return placeholderDisplay
	}
	if user, ok := r.matchUser(ctx, raw); ok {
		if name := strings.TrimSpace(strings.TrimSpace(user.FirstName) + " " + strings.TrimSpace(user.LastName)); name != "" {
			return name
		}
	}
	if mapped, ok := r.aliasFor(ctx, raw); ok {
		return mapped
	}
	return raw
}

// Initials resolves raw to display initials. A matched catalog user
// contributes their maintained initials when present; everything else
// derives initials from the resolved display name.
func (r *Resolver) Initials(ctx context.Context, raw string, commentID int64) string {
	if name, ok := r.overrideFor(ctx, commentID); ok {
		return deriveInitials(name)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return placeholderInitials
	}
	if user, ok := r.matchUser(ctx, raw); ok {
		if initials := userInitials(user); initials != "" {
			return initials
		}
	}
	if mapped, ok := r.aliasFor(ctx, raw); ok {
		return deriveInitials(mapped)
	}
	return deriveInitials(raw)
}

// Invalidate drops the memoized tables so the next call rebuilds them.
// Called after administrative edits to users or aliases.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.idx = nil
	r.aliasMap = nil
	r.mu.Unlock()
}

func (r *Resolver) overrideFor(ctx context.Context, commentID int64) (string, bool) {
	if commentID <= 0 || r.comments == nil {
		return "", false
	}
	name, err := r.comments.GetAuthorOverride(ctx, commentID)
	if err != nil {
		// overrides are optional data; a miss or a missing table both
		// continue down the chain
		return "", false
	}
	name = strings.TrimSpace(name)
	return name, name != ""
}

func (r *Resolver) matchUser(ctx context.Context, raw string) (domain.AppUser, bool) {
	idx := r.userIdx(ctx)
	if idx == nil {
		return domain.AppUser{}, false
	}
	if user, ok := idx.byUsername[raw]; ok {
		return user, true
	}
	if user, ok := idx.byInitials[strings.ToUpper(raw)]; ok {
		return user, true
	}
	if user, ok := idx.byFullName[raw]; ok {
		return user, true
	}
	return domain.AppUser{}, false
}

func (r *Resolver) aliasFor(ctx context.Context, raw string) (string, bool) {
	aliases := r.aliasTable(ctx)
	mapped, ok := aliases[raw]
	return mapped, ok && mapped != ""
}

func (r *Resolver) userIdx(ctx context.Context) *userIndex {
	r.mu.RLock()
	idx := r.idx
	r.mu.RUnlock()
	if idx != nil {
		return idx
	}

	v, err, _ := r.group.Do("users", func() (any, error) {
		users, err := r.users.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		built := buildUserIndex(users)
		r.mu.Lock()
		r.idx = built
		r.mu.Unlock()
		return built, nil
	})
	if err != nil {
		r.logger.Debug("user index build failed", zap.Error(err))
		return nil
	}
	return v.(*userIndex)
}

func (r *Resolver) aliasTable(ctx context.Context) map[string]string {
	r.mu.RLock()
	table := r.aliasMap
	r.mu.RUnlock()
	if table != nil {
		return table
	}

	v, _, _ := r.group.Do("aliases", func() (any, error) {
		merged := make(map[string]string, len(staticAliases))
		for raw, name := range staticAliases {
			merged[raw] = name
		}
		if r.aliases != nil {
			rows, err := r.aliases.ListAll(ctx)
			if err != nil {
				// the table is optional; serve the static entries now but
				// do not memoize, so the next call retries the merge like
				// the user index does
				r.logger.Debug("author alias table unavailable", zap.Error(err))
				return merged, nil
			}
			// database entries merged last so they win on collision
			for _, alias := range rows {
				merged[alias.AuthorRaw] = alias.DisplayName
			}
		}
		r.mu.Lock()
		r.aliasMap = merged
		r.mu.Unlock()
		return merged, nil
	})
	return v.(map[string]string)
}

func buildUserIndex(users []domain.AppUser) *userIndex {
	idx := &userIndex{
		byUsername: make(map[string]domain.AppUser, len(users)),
		byInitials: make(map[string]domain.AppUser, len(users)),
		byFullName: make(map[string]domain.AppUser, len(users)),
	}
	for _, user := range users {
		if user.Username != "" {
			idx.byUsername[user.Username] = user
		}
		if initials := userInitials(user); initials != "" {
			idx.byInitials[strings.ToUpper(initials)] = user
		}
		first := strings.TrimSpace(user.FirstName)
		last := strings.TrimSpace(user.LastName)
		if first != "" || last != "" {
			idx.byFullName[strings.TrimSpace(first+" "+last)] = user
			idx.byFullName[strings.TrimSpace(last+" "+first)] = user
		}
	}
	return idx
}

func userInitials(user domain.AppUser) string {
	if initials := strings.TrimSpace(user.Initials); initials != "" {
		return initials
	}
	var b strings.Builder
	if first := strings.TrimSpace(user.FirstName); first != "" {
		r, _ := utf8.DecodeRuneInString(first)
		b.WriteRune(r)
	}
	if last := strings.TrimSpace(user.LastName); last != "" {
		r, _ := utf8.DecodeRuneInString(last)
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// deriveInitials takes up to two whitespace-separated parts and uppercases
// their first letters; a single part contributes its first two characters.
func deriveInitials(display string) string {
	parts := strings.Fields(display)
	switch {
	case len(parts) == 0:
		return placeholderInitials
	case len(parts) == 1:
		part := parts[0]
		first, size := utf8.DecodeRuneInString(part)
		out := string(first)
		if second, _ := utf8.DecodeRuneInString(part[size:]); second != utf8.RuneError {
			out += string(second)
		}
		return strings.ToUpper(out)
	default:
		a, _ := utf8.DecodeRuneInString(parts[0])
		b, _ := utf8.DecodeRuneInString(parts[1])
		return strings.ToUpper(string(a) + string(b))
	}
}
