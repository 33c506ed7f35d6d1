package models

import "errors"

var (
	// ErrAccessDenied means the bot lacks the platform permission for the call.
	ErrAccessDenied = errors.New("access denied")
	// ErrUnavailable means guild or member data could not be fetched.
	ErrUnavailable = errors.New("unavailable")
)
