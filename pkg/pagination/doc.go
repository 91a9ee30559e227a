// Package pagination clamps page requests and shapes paginated responses.
package pagination
