package stats

import "errors"

// Fatal report errors. Anything else degrades to zero-valued fields
// rather than failing the whole report.
var (
	// ErrUserNotFound indicates the target user has no session log tree.
	ErrUserNotFound = errors.New("user not found")
	// ErrClusterNotFound indicates a location filter referenced an
	// unknown cluster.
	ErrClusterNotFound = errors.New("cluster not found")
	// ErrWindowTooLarge indicates the requested window exceeds the
	// six-month cap. Raised before any lookup is issued.
	ErrWindowTooLarge = errors.New("time window cannot be greater than 6 months")
)
