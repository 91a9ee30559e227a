package jwt

import (
	"net/http"
	"strings"
)

// Well-known credential locations.
const (
	AuthorizationHeader = "Authorization"
	AuthTokenHeader     = "X-Auth-Token"
	TokenQueryParam     = "token"
)

// TokenExtractorFunc pulls a raw token out of a request.
type TokenExtractorFunc func(r *http.Request) (string, error)

// StripScheme removes an optional "Bearer " prefix (any case) and surrounding spaces.
func StripScheme(v string) string {
	v = strings.TrimSpace(v)
	const scheme = "bearer "
	if strings.EqualFold(v, strings.TrimSpace(scheme)) {
		return ""
	}
	if len(v) >= len(scheme) && strings.EqualFold(v[:len(scheme)], scheme) {
		v = strings.TrimSpace(v[len(scheme):])
	}
	return v
}

// BearerTokenExtractor reads the standard Authorization header.
func BearerTokenExtractor(r *http.Request) (string, error) {
	return HeaderTokenExtractor(AuthorizationHeader)(r)
}

// HeaderTokenExtractor reads a token from a custom header.
func HeaderTokenExtractor(name string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		if token := StripScheme(r.Header.Get(name)); token != "" {
			return token, nil
		}
		return "", ErrMissingToken
	}
}

// QueryTokenExtractor reads a token from a query parameter. Browsers cannot
// set headers on WebSocket handshakes, so the gateway accepts this location.
func QueryTokenExtractor(name string) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		if token := StripScheme(r.URL.Query().Get(name)); token != "" {
			return token, nil
		}
		return "", ErrMissingToken
	}
}

// ChainExtractors returns the first token found by extractors, in order.
func ChainExtractors(extractors ...TokenExtractorFunc) TokenExtractorFunc {
	return func(r *http.Request) (string, error) {
		for _, ex := range extractors {
			if token, err := ex(r); err == nil && token != "" {
				return token, nil
			}
		}
		return "", ErrMissingToken
	}
}
