package notification

import "errors"

var (
	ErrNotFound = errors.New("notification: not found")
	ErrNoTarget = errors.New("notification: no target")
)
