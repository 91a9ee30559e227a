package realtime

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/bookspace/internal/user"
	"github.com/dmitrymomot/bookspace/pkg/jwt"
)

// Authenticator verifies the handshake credential of a connecting client.
type Authenticator struct {
	tokens  *jwt.Service
	users   user.Finder
	extract jwt.TokenExtractorFunc
}

// NewAuthenticator looks for the credential in the "token" query parameter,
// then X-Auth-Token, then Authorization.
func NewAuthenticator(tokens *jwt.Service, users user.Finder) *Authenticator {
	return &Authenticator{
		tokens: tokens,
		users:  users,
		extract: jwt.ChainExtractors(
			jwt.QueryTokenExtractor(jwt.TokenQueryParam),
			jwt.HeaderTokenExtractor(jwt.AuthTokenHeader),
			jwt.BearerTokenExtractor,
		),
	}
}

// Authenticate returns the user behind r's credential. Failures wrap
// ErrMissingCredential, a jwt verification error, or ErrUnknownUser.
func (a *Authenticator) Authenticate(r *http.Request) (*user.User, error) {
	token, err := a.extract(r)
	if err != nil {
		return nil, errors.Join(ErrMissingCredential, err)
	}

	var claims jwt.Claims
	if err := a.tokens.Parse(token, &claims); err != nil {
		return nil, err
	}

	id, err := bson.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, errors.Join(ErrUnknownUser, err)
	}
	u, err := a.users.FindByID(r.Context(), id)
	if err != nil {
		return nil, errors.Join(ErrUnknownUser, err)
	}
	return u, nil
}
