package business

import (
	"errors"
	"fmt"
)

// ErrAttemptInFlight means a retried deployment maps onto a row whose earlier
// submission has not confirmed yet. Nothing is resubmitted; the attempt
// settles once its receipt is available.
var ErrAttemptInFlight = errors.New("an earlier deployment attempt is still confirming")

// PreconditionError is detected before any network write: malformed input,
// missing balance, nothing to withdraw. Reported immediately, never retried.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string {
	return e.Msg
}

func preconditionf(format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{Msg: fmt.Sprintf(format, args...)}
}
