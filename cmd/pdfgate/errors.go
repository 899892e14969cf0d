package main

import "errors"

// Sentinel errors for CLI operations.
var (
	ErrUsage      = errors.New("invalid usage")
	ErrInvalidEnv = errors.New("invalid environment variable")
	ErrListen     = errors.New("cannot listen")
	ErrStaticDir  = errors.New("static directory unavailable")
	ErrTempDir    = errors.New("temporary directory unavailable")
)
