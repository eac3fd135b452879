package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrValidation    = errors.New("validation failed")
	ErrEmailTaken    = errors.New("email already registered")
	ErrAlreadyPaid   = errors.New("already paid")
	ErrNoSuchPayment = errors.New("no payment record")
)
