package validator

import (
	"fmt"
	"slices"
)

// OneOf fails unless value is one of allowed.
func OneOf[T comparable](field string, value T, allowed []T) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(allowed, value) },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %v", allowed),
			Key:     "validation.one_of",
			Params:  map[string]any{"allowed": allowed},
		},
	}
}
