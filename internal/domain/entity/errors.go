package entity

import "errors"

var (
	// ErrTransport marks network failures and non-success server responses.
	ErrTransport = errors.New("transport failure")
	// ErrBadPayload marks a server response that decoded to the wrong shape.
	ErrBadPayload = errors.New("malformed server payload")
	// ErrInvalidState marks a coordinator precondition violation.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidTransition marks a transition rejected by store validation.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrConcurrentOperation marks a transition attempted while a different
	// operation owns the busy flag.
	ErrConcurrentOperation = errors.New("concurrent operation in flight")
	// ErrAlreadyBusy marks an operation attempted while another is in flight.
	ErrAlreadyBusy = errors.New("operation already in progress")
	// ErrFeaturesNotReady marks a similarity search on a frame whose feature
	// vector the server has not computed yet.
	ErrFeaturesNotReady = errors.New("frame features not ready")
	// ErrStaleResponse marks a result arriving for an operation that is no
	// longer active, e.g. after a reset. Stale results are discarded,
	// never committed.
	ErrStaleResponse = errors.New("stale operation response")
)
