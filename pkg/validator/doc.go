// Package validator builds declarative validation from small Rule values.
//
// Every helper returns a Rule pairing a check with a field-level error.
// Apply evaluates them all and aggregates failures into ValidationErrors,
// which satisfies error and matches ErrValidationFailed under errors.Is:
//
//	err := validator.Apply(
//		validator.Required("name", in.Name),
//		validator.MaxLen("name", in.Name, 120),
//		validator.When(in.Link != "", validator.ValidLink("link", in.Link)),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//		// verrs.Map() groups messages by field
//	}
package validator
