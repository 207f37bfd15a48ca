package core

import (
	"errors"
)

var (
	ErrUnknown         = errors.New("unknown")
	ErrNotInitialized  = errors.New("system not initialized")
	ErrAlreadyShutdown = errors.New("system already shut down")
)
