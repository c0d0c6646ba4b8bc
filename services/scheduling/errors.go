package scheduling

import "errors"

// Sentinel errors for the booking pipeline. Handlers map these to HTTP
// responses once, at the boundary.
var (
	// ErrValidation covers malformed dates, times and request fields.
	ErrValidation = errors.New("invalid request")
	// ErrSlotUnavailable means the requested slot was taken by the time
	// the commit ran; the client should re-fetch availability.
	ErrSlotUnavailable = errors.New("selected time slot is no longer available")
	// ErrNotFound covers unknown records. Foreign records surface as the
	// same generic denial, never confirming existence.
	ErrNotFound = errors.New("record not found")
	// ErrAccessDenied covers records the caller may not touch.
	ErrAccessDenied = errors.New("access denied")
)
