package pipeline

import (
	"time"

	apperrors "luis-provisioner/internal/common/errors"
)

// Decision tells the runner what to do after a step failed.
type Decision int

const (
	Abort Decision = iota
	Continue
	Retry
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Retry:
		return "retry"
	default:
		return "abort"
	}
}

// Policy decides the fate of a failed step. attempt starts at 1.
type Policy func(step string, err error, attempt int) Decision

// AbortOnError stops the run at the first failing step.
func AbortOnError(string, error, int) Decision {
	return Abort
}

// RetryRetryable re-runs a step whose error is marked retryable, up to
// maxAttempts in total, and aborts otherwise. There is no backoff.
func RetryRetryable(maxAttempts int) Policy {
	return func(_ string, err error, attempt int) Decision {
		if attempt < maxAttempts && apperrors.IsRetryable(err) {
			return Retry
		}
		return Abort
	}
}

// StepResult is the outcome of one step, after any retries.
type StepResult struct {
	Step     string        `json:"step"`
	Err      error         `json:"-"`
	Attempts int           `json:"attempts"`
	Duration time.Duration `json:"duration"`
}

func (r StepResult) Succeeded() bool {
	return r.Err == nil
}
