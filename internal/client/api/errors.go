package api

import "errors"

var (
	ErrUnavailable = errors.New("service unavailable")
	ErrNoSession   = errors.New("no active session")
)
