package booking

// ValidationError reports a malformed request: bad datetime format,
// non-positive party size, missing required text.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError reports a reference to an entity that does not exist.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string { return e.Reason }

// RejectionError reports a well-formed request refused by a business rule,
// such as modifying or cancelling an already-cancelled reservation.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string { return e.Reason }
