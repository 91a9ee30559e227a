// Package clientip resolves the originating client address of a request
// served behind reverse proxies and keeps it in the request context.
//
// Proxy headers are consulted in the configured order; the first header
// holding a parseable address wins. X-Forwarded-For contributes its
// left-most valid entry. RemoteAddr is the fallback.
//
//	r.Use(clientip.Middleware(clientip.DefaultHeaders...))
//	ip := clientip.FromContext(ctx)
package clientip
