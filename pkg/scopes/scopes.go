package scopes

import (
	"slices"
	"strings"
)

const (
	// Wildcard matches every scope.
	Wildcard = "*"
	// Delimiter separates scope segments, as in "notifications.read".
	Delimiter = "."
)

// Matches reports whether scope is granted by pattern. A pattern ending in
// ".*" grants every scope below that prefix but not the prefix itself.
func Matches(scope, pattern string) bool {
	if scope == pattern || pattern == Wildcard {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, Delimiter+Wildcard); ok {
		return strings.HasPrefix(scope, prefix+Delimiter)
	}
	return false
}

// Has reports whether any granted pattern matches scope.
func Has(granted []string, scope string) bool {
	return slices.ContainsFunc(granted, func(p string) bool { return Matches(scope, p) })
}

// HasAny reports whether at least one of required is granted.
// An empty required list is trivially satisfied.
func HasAny(granted, required []string) bool {
	if len(required) == 0 {
		return true
	}
	return slices.ContainsFunc(required, func(s string) bool { return Has(granted, s) })
}

// HasAll reports whether every required scope is granted.
func HasAll(granted, required []string) bool {
	for _, s := range required {
		if !Has(granted, s) {
			return false
		}
	}
	return true
}

// Valid reports whether scope is non-empty, has no blank segments and uses
// the wildcard only as a whole final segment.
func Valid(scope string) bool {
	if scope == "" {
		return false
	}
	parts := strings.Split(scope, Delimiter)
	for i, p := range parts {
		if p == "" {
			return false
		}
		if strings.Contains(p, Wildcard) && (p != Wildcard || i != len(parts)-1) {
			return false
		}
	}
	return true
}

// Normalize trims, sorts and deduplicates scopes. A global wildcard collapses
// the list to just "*".
func Normalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if s == Wildcard {
			return []string{Wildcard}
		}
		out = append(out, s)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
