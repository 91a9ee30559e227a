package rbac

import "errors"

var (
	ErrInvalidRole             = errors.New("rbac: invalid role")
	ErrInsufficientPermissions = errors.New("rbac: insufficient permissions")
	ErrRoleNotInContext        = errors.New("rbac: role not in context")
	ErrCircularInheritance     = errors.New("rbac: circular inheritance")
	ErrInvalidPermission       = errors.New("rbac: invalid permission")
	ErrFailedToLoadRoles       = errors.New("rbac: failed to load roles")
)
