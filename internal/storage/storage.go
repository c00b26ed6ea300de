package storage

import "errors"

var (
	ErrPinExists   = errors.New("pin already exists")
	ErrPinNotFound = errors.New("pin not found")
	ErrInvalidPin  = errors.New("invalid pin")
)
