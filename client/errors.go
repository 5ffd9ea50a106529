package client

import (
	"errors"
	"fmt"

	"github.com/tindev/tindev-app/internal/entity"
)

var (
	// ErrEmptyQueue is returned when popping or dispatching on an
	// exhausted queue. The queue stays empty until an explicit Load.
	ErrEmptyQueue = errors.New("candidate queue is empty")

	// ErrNoSession is returned when an operation needs an identifier
	// and the session store holds none.
	ErrNoSession = errors.New("no active session")

	// ErrTargetNotFound is the cause inside an ActionError when the
	// swiped profile no longer exists server-side.
	ErrTargetNotFound = errors.New("target profile not found")
)

// FetchError reports a failed queue load. The queue is left unchanged;
// the caller may retry or surface an error state.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch candidates: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ActionError reports a failed swipe dispatch. The candidate stays at
// its queue position; retrying the same action is safe because the
// server treats an identical repeat as a no-op.
type ActionError struct {
	Candidate entity.Candidate
	Action    entity.Action
	Err       error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("dispatch %s on candidate %d: %v", e.Action, e.Candidate.ID, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
