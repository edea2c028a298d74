package orchestrator

import "fmt"

// InFlightError indicates a generation for the same request signature
// is already running. The caller should wait for it instead of piling
// on a second one.
type InFlightError struct {
	Signature string
}

func (e *InFlightError) Error() string {
	return fmt.Sprintf("generation already in flight for %s", e.Signature)
}

// ExhaustedError indicates the circuit breaker tripped: too many
// consecutive failed attempts for the same request signature.
type ExhaustedError struct {
	Signature string
	Failures  int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("generation for %s failed %d times in a row, giving up", e.Signature, e.Failures)
}
