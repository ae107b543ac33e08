package simulate

import "errors"

var (
	ErrUnhealthy  = errors.New("service unhealthy")
	ErrMismatch   = errors.New("totals mismatch")
	ErrNotSettled = errors.New("totals did not settle")
)
