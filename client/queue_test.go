package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tindev/tindev-app/internal/entity"
)

type fakeFetcher struct {
	candidates []entity.Candidate
	err        error
}

func (f *fakeFetcher) Candidates(ctx context.Context) ([]entity.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func TestQueueFIFO(t *testing.T) {
	fetcher := &fakeFetcher{candidates: []entity.Candidate{
		{ID: 1, Name: "Ana"},
		{ID: 2, Name: "Bo"},
		{ID: 3, Name: "Cy"},
	}}
	q := NewQueue(fetcher)

	assert.NoError(t, q.Load(context.Background()))
	assert.Equal(t, 3, q.Len())

	for _, want := range []uint{1, 2, 3} {
		front, ok := q.PeekFront()
		assert.True(t, ok)
		assert.Equal(t, want, front.ID)

		popped, err := q.PopFront()
		assert.NoError(t, err)
		assert.Equal(t, want, popped.ID)
	}

	_, err := q.PopFront()
	assert.ErrorIs(t, err, ErrEmptyQueue)

	// Exhausted queues stay empty until an explicit reload.
	_, ok := q.PeekFront()
	assert.False(t, ok)
}

func TestQueueLoadFailureLeavesQueueUntouched(t *testing.T) {
	fetcher := &fakeFetcher{candidates: []entity.Candidate{{ID: 1, Name: "Ana"}}}
	q := NewQueue(fetcher)
	assert.NoError(t, q.Load(context.Background()))

	fetcher.err = errors.New("service unavailable")

	err := q.Load(context.Background())

	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 1, q.Len())

	front, ok := q.PeekFront()
	assert.True(t, ok)
	assert.Equal(t, uint(1), front.ID)
}

func TestQueueLoadReplacesContents(t *testing.T) {
	fetcher := &fakeFetcher{candidates: []entity.Candidate{{ID: 1}, {ID: 2}}}
	q := NewQueue(fetcher)
	assert.NoError(t, q.Load(context.Background()))

	fetcher.candidates = []entity.Candidate{{ID: 7}, {ID: 8}, {ID: 9}}
	assert.NoError(t, q.Load(context.Background()))

	assert.Equal(t, 3, q.Len())
	front, _ := q.PeekFront()
	assert.Equal(t, uint(7), front.ID)
}

func TestQueueLoadDropsDuplicateIDs(t *testing.T) {
	fetcher := &fakeFetcher{candidates: []entity.Candidate{{ID: 1}, {ID: 2}, {ID: 1}}}
	q := NewQueue(fetcher)

	assert.NoError(t, q.Load(context.Background()))
	assert.Equal(t, 2, q.Len())
}

func TestQueueRemoveByIdentity(t *testing.T) {
	fetcher := &fakeFetcher{candidates: []entity.Candidate{{ID: 1}, {ID: 2}, {ID: 3}}}
	q := NewQueue(fetcher)
	assert.NoError(t, q.Load(context.Background()))

	// Removing from the middle must not disturb the rest of the order.
	assert.True(t, q.Remove(2))
	assert.False(t, q.Remove(2))

	front, _ := q.PopFront()
	assert.Equal(t, uint(1), front.ID)
	front, _ = q.PopFront()
	assert.Equal(t, uint(3), front.ID)
}
