package validator

import (
	"regexp"
	"unicode/utf8"
)

var objectIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// ValidObjectID requires a 24-character hex document identifier.
func ValidObjectID(field, value string) Rule {
	return Rule{
		Check: func() bool { return objectIDRegex.MatchString(value) },
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid identifier",
			Key:     "validation.object_id",
		},
	}
}

// ValidEmoji accepts a short grapheme sequence without ASCII letters or digits,
// such as a single emoji with optional modifiers.
func ValidEmoji(field, value string) Rule {
	return Rule{
		Check: func() bool {
			n := utf8.RuneCountInString(value)
			if n == 0 || n > 8 {
				return false
			}
			for _, r := range value {
				if r < 0x80 {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be an emoji",
			Key:     "validation.emoji",
		},
	}
}
