package validator

import "fmt"

// MaxItems fails when value holds more than max elements.
func MaxItems[T any](field string, value []T, max int) Rule {
	return Rule{
		Check: func() bool { return len(value) <= max },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must contain at most %d items", max),
			Key:     "validation.max_items",
			Params:  map[string]any{"max": max},
		},
	}
}
