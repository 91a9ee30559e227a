package binder

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// Query binds fields tagged `query:"name"` from the URL query string.
// Untagged fields are left alone so one struct can mix sources.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}

// Path binds fields tagged `path:"name"` from chi route parameters.
func Path() func(r *http.Request, v any) error {
	return PathWith(chi.URLParam)
}

// PathWith binds path parameters using a router-specific extractor.
func PathWith(extract func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		values := url.Values{}
		for _, name := range taggedNames(v, "path") {
			if s := extract(r, name); s != "" {
				values.Set(name, s)
			}
		}
		return bindToStruct(v, "path", values, ErrFailedToParsePath)
	}
}
