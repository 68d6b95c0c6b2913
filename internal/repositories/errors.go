package repositories

import "errors"

// ErrNotFound is returned when a referenced record does not exist. Handlers
// map it to a 404; the orchestrator aborts before persisting anything.
var ErrNotFound = errors.New("record not found")
