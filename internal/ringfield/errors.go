package ringfield

import "errors"

var (
	// ErrUnknownMode is returned when parsing a mode name fails.
	ErrUnknownMode = errors.New("ringfield: unknown mode")

	// ErrUnknownVariant is returned when parsing a rotation variant fails.
	ErrUnknownVariant = errors.New("ringfield: unknown variant")

	// ErrUnknownPulse is returned when parsing a pulse shape fails.
	ErrUnknownPulse = errors.New("ringfield: unknown pulse shape")
)
