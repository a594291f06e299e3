package domain

import "errors"

var (
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownUser        = errors.New("user not found")
	ErrUnknownSession     = errors.New("session not found")
	ErrUnknownService     = errors.New("service not found")
	ErrUnknownBooking     = errors.New("booking not found")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrAlreadyConfirmed   = errors.New("booking is already confirmed")
)
