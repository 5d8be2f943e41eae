// Package principal describes the authenticated caller handed to services.
package principal

import (
	"context"
	"slices"
	"strings"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleOEM   Role = "OEM"
)

// ParseRole accepts the closed role set, case-insensitively.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleOEM:
		return RoleOEM, true
	default:
		return "", false
	}
}

// Principal is the identity and role set of an authenticated caller.
// For OEM callers ID is the OEM id.
type Principal struct {
	ID    snowflake.ID
	Roles []Role
}

func (p Principal) HasRole(role Role) bool {
	return slices.Contains(p.Roles, role)
}

// HasAnyRole reports whether p holds one of roles. An empty list matches.
func (p Principal) HasAnyRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

func (p Principal) RoleNames() []string {
	names := make([]string, 0, len(p.Roles))
	for _, role := range p.Roles {
		names = append(names, string(role))
	}
	return names
}

type contextKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
