package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tindev/tindev-app/internal/entity"
)

type fakeActioner struct {
	err   error
	calls []uint
}

func (f *fakeActioner) RecordAction(ctx context.Context, targetID uint, action entity.Action) error {
	f.calls = append(f.calls, targetID)
	return f.err
}

func loadedQueue(t *testing.T, candidates ...entity.Candidate) *Queue {
	t.Helper()
	q := NewQueue(&fakeFetcher{candidates: candidates})
	assert.NoError(t, q.Load(context.Background()))
	return q
}

func TestDispatchSuccessRemovesCandidate(t *testing.T) {
	q := loadedQueue(t, entity.Candidate{ID: 1, Name: "Ana"}, entity.Candidate{ID: 2, Name: "Bo"})
	actioner := &fakeActioner{}
	d := NewDispatcher(actioner, q)

	liked, err := d.Like(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, uint(1), liked.ID)
	assert.Equal(t, []uint{1}, actioner.calls)

	front, _ := q.PeekFront()
	assert.Equal(t, uint(2), front.ID)
}

// Failed dispatch, candidate stays put, retry succeeds: the front moves
// only after the server confirms.
func TestDispatchFailureKeepsCandidateForRetry(t *testing.T) {
	q := loadedQueue(t, entity.Candidate{ID: 1, Name: "Ana"}, entity.Candidate{ID: 2, Name: "Bo"})
	actioner := &fakeActioner{err: errors.New("network timeout")}
	d := NewDispatcher(actioner, q)

	_, err := d.Like(context.Background())

	var actionErr *ActionError
	assert.ErrorAs(t, err, &actionErr)
	assert.Equal(t, uint(1), actionErr.Candidate.ID)
	assert.Equal(t, entity.ActionLike, actionErr.Action)

	front, ok := q.PeekFront()
	assert.True(t, ok)
	assert.Equal(t, uint(1), front.ID)

	actioner.err = nil
	liked, err := d.Like(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint(1), liked.ID)

	front, _ = q.PeekFront()
	assert.Equal(t, uint(2), front.ID)
}

func TestDispatchEmptyQueue(t *testing.T) {
	q := NewQueue(&fakeFetcher{})
	d := NewDispatcher(&fakeActioner{}, q)

	_, err := d.Dislike(context.Background())
	assert.ErrorIs(t, err, ErrEmptyQueue)
}

// A reload that lands while a dispatch is in flight must not make the
// confirmation drop whichever candidate happens to sit at the front.
type reloadingActioner struct {
	queue   *Queue
	fetcher *fakeFetcher
}

func (f *reloadingActioner) RecordAction(ctx context.Context, targetID uint, action entity.Action) error {
	f.fetcher.candidates = []entity.Candidate{{ID: 10}, {ID: 11}}
	return f.queue.Load(ctx)
}

func TestDispatchSurvivesConcurrentReload(t *testing.T) {
	fetcher := &fakeFetcher{candidates: []entity.Candidate{{ID: 1}, {ID: 2}}}
	q := NewQueue(fetcher)
	assert.NoError(t, q.Load(context.Background()))

	d := NewDispatcher(&reloadingActioner{queue: q, fetcher: fetcher}, q)

	liked, err := d.Like(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, uint(1), liked.ID)

	// The reloaded queue is intact: candidate 1 is simply absent from
	// it, and nothing else was removed in its place.
	assert.Equal(t, 2, q.Len())
	front, _ := q.PeekFront()
	assert.Equal(t, uint(10), front.ID)
}

func TestDislikeDispatch(t *testing.T) {
	q := loadedQueue(t, entity.Candidate{ID: 5, Name: "Eve"})
	actioner := &fakeActioner{}
	d := NewDispatcher(actioner, q)

	disliked, err := d.Dislike(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, uint(5), disliked.ID)
	assert.Equal(t, 0, q.Len())
}
