package content

import "errors"

var (
	// ErrInvalidCategory is returned by a strict catalog for keys outside the fixed category set.
	ErrInvalidCategory = errors.New("invalid project category")

	// ErrUnknownField is returned when setting a contact field other than name, email or message.
	ErrUnknownField = errors.New("unknown contact field")

	// ErrSubmitFailure wraps every delivery failure of the contact form.
	ErrSubmitFailure = errors.New("contact submit failed")
)
