// Package access turns verified credentials into a caller identity and
// enforces the role table on routes.
package access

import (
	"context"
	_ "embed"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/handler"
	"github.com/dmitrymomot/bookspace/pkg/jwt"
	"github.com/dmitrymomot/bookspace/pkg/rbac"
)

// Permissions checked by the API routes.
const (
	AmenitiesRead       = "amenities.read"
	AmenitiesWrite      = "amenities.write"
	EventTypesRead      = "event_types.read"
	EventTypesWrite     = "event_types.write"
	SubCategoriesRead   = "subcategories.read"
	SubCategoriesWrite  = "subcategories.write"
	MessagesRead        = "messages.read"
	MessagesWrite       = "messages.write"
	ReactionsRead       = "reactions.read"
	ReactionsWrite      = "reactions.write"
	NotificationsRead   = "notifications.read"
	NotificationsCreate = "notifications.create"
)

//go:embed roles.yaml
var defaultRoles []byte

// NewAuthorizer loads the role table from path, or the embedded default
// when path is empty.
func NewAuthorizer(ctx context.Context, path string) (rbac.Authorizer, error) {
	src := rbac.NewYAMLRoleSource(defaultRoles)
	if path != "" {
		src = rbac.NewFileRoleSource(path)
	}
	return rbac.NewAuthorizer(ctx, src)
}

// Authenticate verifies the bearer credential from the Authorization or
// X-Auth-Token header and stores its claims and role in the request context.
func Authenticate(svc *jwt.Service, onError handler.ErrorHandler) func(http.Handler) http.Handler {
	verify := jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
		Service: svc,
		Extractor: jwt.ChainExtractors(
			jwt.BearerTokenExtractor,
			jwt.HeaderTokenExtractor(jwt.AuthTokenHeader),
		),
		OnError: func(w http.ResponseWriter, r *http.Request, err error) {
			onError(w, r, errors.Join(handler.ErrUnauthorized, err))
		},
	})

	return func(next http.Handler) http.Handler {
		withRole := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := jwt.GetClaims(r.Context())
			next.ServeHTTP(w, r.WithContext(rbac.WithRole(r.Context(), claims.Role)))
		})
		return verify(withRole)
	}
}

// Require rejects callers whose role lacks permission: 401 without a role,
// 403 otherwise.
func Require(authz rbac.Authorizer, permission string, onError handler.ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authz.CanFromContext(r.Context(), permission); err != nil {
				if errors.Is(err, rbac.ErrRoleNotInContext) {
					onError(w, r, errors.Join(handler.ErrUnauthorized, err))
					return
				}
				onError(w, r, errors.Join(handler.ErrForbidden, err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ErrNoSubject is returned by CurrentUser when the verified token carries
// no usable subject.
var ErrNoSubject = errors.New("access: token subject is not a user id")

// CurrentUser returns the caller's user id from the verified claims.
func CurrentUser(ctx context.Context) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(jwt.SubjectFromContext(ctx))
	if err != nil || id.IsZero() {
		return bson.NilObjectID, errors.Join(handler.ErrUnauthorized, ErrNoSubject)
	}
	return id, nil
}
