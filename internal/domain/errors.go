package domain

import "errors"

var (
	ErrKeyNotFound      = errors.New("key not found")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrEmptyPayload     = errors.New("empty payload")
	ErrSessionAbsent    = errors.New("session absent")
	ErrHorseNotFound    = errors.New("horse not found")
	ErrUnknownListKey   = errors.New("unknown list key")
)
