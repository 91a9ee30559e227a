package jwt

import "net/http"

// MiddlewareConfig configures the HTTP middleware.
type MiddlewareConfig struct {
	Service *Service
	// Extractor defaults to BearerTokenExtractor.
	Extractor TokenExtractorFunc
	// OnError defaults to a plain-text 401.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
	Skip    func(r *http.Request) bool
}

// Middleware verifies the bearer token and stores Claims in the request context.
func Middleware(service *Service) func(http.Handler) http.Handler {
	return MiddlewareWithConfig(MiddlewareConfig{Service: service})
}

// MiddlewareWithConfig is Middleware with custom extraction and error rendering.
func MiddlewareWithConfig(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	if cfg.Extractor == nil {
		cfg.Extractor = BearerTokenExtractor
	}
	if cfg.OnError == nil {
		cfg.OnError = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			token, err := cfg.Extractor(r)
			if err != nil {
				cfg.OnError(w, r, err)
				return
			}

			var claims Claims
			if err := cfg.Service.Parse(token, &claims); err != nil {
				cfg.OnError(w, r, err)
				return
			}

			ctx := SetClaims(SetToken(r.Context(), token), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
