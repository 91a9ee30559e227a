package binder

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is wrapped by every binding failure; callers map it to 400.
var ErrInvalidRequest = errors.New("binder: invalid request")

var (
	ErrMissingContentType   = fmt.Errorf("%w: missing content type", ErrInvalidRequest)
	ErrUnsupportedMediaType = fmt.Errorf("%w: unsupported media type", ErrInvalidRequest)
	ErrFailedToParseJSON    = fmt.Errorf("%w: failed to parse JSON body", ErrInvalidRequest)
	ErrFailedToParseQuery   = fmt.Errorf("%w: failed to parse query parameters", ErrInvalidRequest)
	ErrFailedToParsePath    = fmt.Errorf("%w: failed to parse path parameters", ErrInvalidRequest)
)
