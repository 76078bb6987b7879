package model

import "errors"

var (
	ErrUnknownOutcome = errors.New("unknown outcome")
	ErrNoSnapshot     = errors.New("snapshot not found")
)
