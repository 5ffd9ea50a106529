package client

import (
	"context"

	"github.com/tindev/tindev-app/internal/entity"
)

// Actioner records one swipe remotely.
type Actioner interface {
	RecordAction(ctx context.Context, targetID uint, action entity.Action) error
}

// Dispatcher turns a swipe on the current front candidate into a
// remote call with an optimistic local mutation: the candidate leaves
// the queue only after the server confirms, and leaves by identity so
// overlapping dispatches or a concurrent reload cannot drop the wrong
// entry.
type Dispatcher struct {
	actioner Actioner
	queue    *Queue
}

func NewDispatcher(actioner Actioner, queue *Queue) *Dispatcher {
	return &Dispatcher{
		actioner: actioner,
		queue:    queue,
	}
}

func (d *Dispatcher) Like(ctx context.Context) (entity.Candidate, error) {
	return d.dispatch(ctx, entity.ActionLike)
}

func (d *Dispatcher) Dislike(ctx context.Context) (entity.Candidate, error) {
	return d.dispatch(ctx, entity.ActionDislike)
}

func (d *Dispatcher) dispatch(ctx context.Context, action entity.Action) (entity.Candidate, error) {
	// Capture the candidate before the call; the queue may move
	// underneath us while the request is in flight.
	candidate, ok := d.queue.PeekFront()
	if !ok {
		return entity.Candidate{}, ErrEmptyQueue
	}

	if err := d.actioner.RecordAction(ctx, candidate.ID, action); err != nil {
		// The candidate stays where it is; the caller may retry the
		// same action or skip.
		return entity.Candidate{}, &ActionError{
			Candidate: candidate,
			Action:    action,
			Err:       err,
		}
	}

	d.queue.Remove(candidate.ID)
	return candidate, nil
}
