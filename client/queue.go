package client

import (
	"context"
	"sync"

	"github.com/tindev/tindev-app/internal/entity"
)

// Fetcher loads a fresh ordered candidate feed.
type Fetcher interface {
	Candidates(ctx context.Context) ([]entity.Candidate, error)
}

// Queue is the client-held candidate queue, consumed strictly from the
// front. It never refetches on its own: once exhausted it stays empty
// until the caller asks for a Load.
type Queue struct {
	mu      sync.Mutex
	fetcher Fetcher
	items   []entity.Candidate
}

func NewQueue(fetcher Fetcher) *Queue {
	return &Queue{
		fetcher: fetcher,
	}
}

// Load replaces the queue's contents with a fresh fetch. On failure
// the queue is left exactly as it was and a FetchError is returned.
// Duplicate IDs from the server are dropped, keeping the first.
func (q *Queue) Load(ctx context.Context) error {
	candidates, err := q.fetcher.Candidates(ctx)
	if err != nil {
		return &FetchError{Err: err}
	}

	seen := make(map[uint]bool, len(candidates))
	items := make([]entity.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		items = append(items, c)
	}

	q.mu.Lock()
	q.items = items
	q.mu.Unlock()

	return nil
}

func (q *Queue) PeekFront() (entity.Candidate, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return entity.Candidate{}, false
	}
	return q.items[0], true
}

func (q *Queue) PopFront() (entity.Candidate, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return entity.Candidate{}, ErrEmptyQueue
	}

	front := q.items[0]
	q.items = q.items[1:]
	return front, nil
}

// Remove deletes the candidate with the given ID wherever it sits.
// Removal is keyed by identity, not position, so a reload racing an
// in-flight swipe cannot make the wrong entry disappear.
func (q *Queue) Remove(id uint) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i := range q.items {
		if q.items[i].ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
