package orchestrate

import "errors"

// ErrRunInFlight is returned when a run or branch fetch is requested
// while another one is still executing.
var ErrRunInFlight = errors.New("another operation is already running")

// ErrRunnerClosed is returned when an operation is requested after the
// runner has been shut down.
var ErrRunnerClosed = errors.New("runner is closed")
