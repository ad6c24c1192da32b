package weborder

import "errors"

// ErrStatusConflict is returned when a status change finds the order no
// longer in the expected state, typically two admins acting on the same
// order at once. The losing request must re-read and retry.
var ErrStatusConflict = errors.New("order status changed concurrently")
