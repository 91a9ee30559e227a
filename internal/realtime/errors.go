package realtime

import "errors"

var (
	ErrMissingCredential = errors.New("realtime: missing credential")
	ErrUnknownUser       = errors.New("realtime: unknown user")
	ErrConnClosed        = errors.New("realtime: connection closed")
	ErrSendBufferFull    = errors.New("realtime: send buffer full")
)
