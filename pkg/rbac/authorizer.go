package rbac

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/bookspace/pkg/scopes"
)

// Authorizer answers permission checks against a resolved role table.
type Authorizer interface {
	// Can checks role against permission, including inherited grants.
	Can(role, permission string) error
	// CanAny succeeds if role holds at least one of permissions.
	CanAny(role string, permissions ...string) error
	// CanFromContext checks the role stored in ctx.
	CanFromContext(ctx context.Context, permission string) error
	// VerifyRole returns ErrInvalidRole for unknown roles.
	VerifyRole(role string) error
	// Roles lists role names with base roles first.
	Roles() []string
}

type authorizer struct {
	// resolved permissions per role, read-only after construction
	permissions map[string][]string
	ordered     []string
}

// NewAuthorizer loads the role table and resolves inheritance once.
func NewAuthorizer(ctx context.Context, source RoleSource) (Authorizer, error) {
	roles, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	for name, r := range roles {
		for _, p := range r.Permissions {
			if !scopes.Valid(p) {
				return nil, errors.Join(ErrInvalidPermission, fmt.Errorf("role %q: %q", name, p))
			}
		}
	}

	depths := make(map[string]int, len(roles))
	for name := range roles {
		if _, err := resolveDepth(name, roles, depths, map[string]bool{}); err != nil {
			return nil, err
		}
	}

	a := &authorizer{permissions: make(map[string][]string, len(roles))}
	for name := range roles {
		a.permissions[name] = scopes.Normalize(collect(name, roles, map[string]bool{}))
		a.ordered = append(a.ordered, name)
	}
	slices.SortFunc(a.ordered, func(x, y string) int {
		return cmp.Or(depths[x]-depths[y], strings.Compare(x, y))
	})
	return a, nil
}

func (a *authorizer) Can(role, permission string) error {
	granted, ok := a.permissions[role]
	if !ok {
		return ErrInvalidRole
	}
	if !scopes.Has(granted, permission) {
		return ErrInsufficientPermissions
	}
	return nil
}

func (a *authorizer) CanAny(role string, permissions ...string) error {
	granted, ok := a.permissions[role]
	if !ok {
		return ErrInvalidRole
	}
	if !scopes.HasAny(granted, permissions) {
		return ErrInsufficientPermissions
	}
	return nil
}

func (a *authorizer) CanFromContext(ctx context.Context, permission string) error {
	role, ok := RoleFromContext(ctx)
	if !ok {
		return errors.Join(ErrRoleNotInContext, ErrInsufficientPermissions)
	}
	return a.Can(role, permission)
}

func (a *authorizer) VerifyRole(role string) error {
	if _, ok := a.permissions[role]; !ok {
		return ErrInvalidRole
	}
	return nil
}

func (a *authorizer) Roles() []string {
	return slices.Clone(a.ordered)
}

// resolveDepth returns the inheritance depth of name, failing on cycles,
// unknown parents and chains deeper than MaxInheritanceDepth.
func resolveDepth(name string, roles map[string]Role, depths map[string]int, onPath map[string]bool) (int, error) {
	if d, ok := depths[name]; ok {
		return d, nil
	}
	if onPath[name] {
		return 0, errors.Join(ErrCircularInheritance, fmt.Errorf("role %q inherits itself", name))
	}
	role, ok := roles[name]
	if !ok {
		return 0, errors.Join(ErrInvalidRole, fmt.Errorf("unknown parent role %q", name))
	}

	onPath[name] = true
	defer delete(onPath, name)

	depth := 0
	for _, parent := range role.Inherits {
		d, err := resolveDepth(parent, roles, depths, onPath)
		if err != nil {
			return 0, err
		}
		depth = max(depth, d+1)
	}
	if depth > MaxInheritanceDepth {
		return 0, errors.Join(ErrCircularInheritance,
			fmt.Errorf("role %q exceeds inheritance depth %d", name, MaxInheritanceDepth))
	}
	depths[name] = depth
	return depth, nil
}

func collect(name string, roles map[string]Role, seen map[string]bool) []string {
	if seen[name] {
		return nil
	}
	seen[name] = true
	role := roles[name]
	out := slices.Clone(role.Permissions)
	for _, parent := range role.Inherits {
		out = append(out, collect(parent, roles, seen)...)
	}
	return out
}
