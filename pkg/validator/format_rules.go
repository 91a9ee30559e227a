package validator

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// ValidEmail accepts a bare RFC 5322 address whose domain has a dot.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != strings.TrimSpace(value) {
				return false
			}
			local, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || local == "" {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}
			return strings.Contains(domain, ".")
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
			Key:     "validation.email",
		},
	}
}

// ValidURL requires an absolute URL with scheme and host.
func ValidURL(field, value string) Rule {
	return Rule{
		Check: func() bool {
			u, err := url.ParseRequestURI(value)
			return err == nil && u.Scheme != "" && u.Host != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid URL",
			Key:     "validation.url",
		},
	}
}

// ValidURLWithScheme is ValidURL restricted to the given schemes.
func ValidURLWithScheme(field, value string, schemes []string) Rule {
	return Rule{
		Check: func() bool {
			u, err := url.ParseRequestURI(value)
			return err == nil && u.Host != "" && slices.Contains(schemes, u.Scheme)
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be a valid URL with scheme: %s", strings.Join(schemes, ", ")),
			Key:     "validation.url_scheme",
			Params:  map[string]any{"schemes": schemes},
		},
	}
}

var relativePathRegex = regexp.MustCompile(`^/[A-Za-z0-9\-._~!$&'()*+,;=:@/%?#]*$`)

// ValidLink accepts an absolute http(s) URL or an application-relative path
// starting with "/".
func ValidLink(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if relativePathRegex.MatchString(value) && !strings.HasPrefix(value, "//") {
				return true
			}
			u, err := url.ParseRequestURI(value)
			return err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https")
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be an http(s) URL or a path starting with /",
			Key:     "validation.link",
		},
	}
}
