package mongo

import "errors"

var (
	ErrFailedToConnect   = errors.New("mongo: failed to connect")
	ErrHealthcheckFailed = errors.New("mongo: healthcheck failed")
	ErrInvalidObjectID   = errors.New("mongo: invalid object id")
)
