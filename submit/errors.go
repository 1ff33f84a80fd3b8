package submit

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTx indicates Submit was called without transaction bytes.
	ErrEmptyTx = errors.New("submit: empty transaction")

	// ErrInvalidMode indicates an unknown submission mode.
	ErrInvalidMode = errors.New("submit: invalid mode")

	// ErrNoSimulator indicates a dry run on a coordinator built without a simulator.
	ErrNoSimulator = errors.New("submit: no simulator configured")
)

// Stage names the step of a submission that failed.
type Stage string

const (
	StageDial        Stage = "dial"
	StageSubscribe   Stage = "subscribe"
	StageBroadcast   Stage = "broadcast"
	StageConfirm     Stage = "confirm"
	StageUnsubscribe Stage = "unsubscribe"
	StageClose       Stage = "close"
	StageDryRun      Stage = "dry-run"
)

// StageError reports which step of a submission failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("submit: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// stageErr wraps err for stage, adding sentinel to the chain when err does
// not already carry it.
func stageErr(stage Stage, sentinel, err error) *StageError {
	if sentinel != nil && !errors.Is(err, sentinel) {
		err = fmt.Errorf("%w: %w", sentinel, err)
	}
	return &StageError{Stage: stage, Err: err}
}
