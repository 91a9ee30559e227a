// Package rbac maps roles to dotted permission patterns with inheritance.
//
// Role tables come from memory or from YAML:
//
//	roles:
//	  guest:
//	    permissions: [amenities.read, messages.*]
//	  admin:
//	    inherits: [guest]
//	    permissions: ["*"]
//
// NewAuthorizer resolves inheritance once and rejects cycles, unknown
// parents and malformed permissions. Checks return ErrInvalidRole or
// ErrInsufficientPermissions.
package rbac
