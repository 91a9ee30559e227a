// Package binder fills request structs from the JSON body, the query string
// and chi path parameters. Each binder only touches fields carrying its own
// struct tag (`json`, `query`, `path`), so several binders can run over one
// struct. All failures wrap ErrInvalidRequest.
package binder
