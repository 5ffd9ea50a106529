package realtime

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/tindev/tindev-app/internal/entity"
	"github.com/tindev/tindev-app/pkg/logx"
)

// Registry maps a user ID to the one channel that currently receives
// their match notifications. At most one channel per user is the
// delivery target at any time.
type Registry struct {
	mu       sync.Mutex
	channels map[int]*Channel
	logger   zerolog.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[int]*Channel),
		logger:   logx.Component("registry"),
	}
}

// Register makes ch the delivery target for userID. A previously
// registered channel is superseded, not force-closed: if it is still
// open it simply stops receiving this user's matches.
func (r *Registry) Register(userID int, ch *Channel) {
	r.mu.Lock()
	prev := r.channels[userID]
	r.channels[userID] = ch
	r.mu.Unlock()

	if prev != nil {
		r.logger.Info().Int("user_id", userID).Str("superseded", prev.ID()).Msg("channel superseded")
	}
}

// Unregister removes the mapping only while ch is still the channel on
// record. A disconnect racing a newer registration for the same user
// must not clobber it.
func (r *Registry) Unregister(userID int, ch *Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.channels[userID]; ok && current.ID() == ch.ID() {
		delete(r.channels, userID)
	}
}

// Deliver pushes ev to userID's registered channel. It reports false
// when no channel is registered or its buffer is full; a dropped
// delivery is final, there is no retry or replay.
func (r *Registry) Deliver(userID int, ev entity.MatchEvent) bool {
	r.mu.Lock()
	ch, ok := r.channels[userID]
	r.mu.Unlock()

	if !ok {
		return false
	}

	return ch.trySend(ev)
}
