package contract

import "errors"

var (
	ErrUnknownAgent = errors.New("unknown agent variant")
	ErrValidation   = errors.New("validation failed")
	ErrBackend      = errors.New("reasoning backend failed")
	ErrSessionEnded = errors.New("session has ended")
)
