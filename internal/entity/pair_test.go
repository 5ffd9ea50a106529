package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceMutualLike(t *testing.T) {
	pair := NewPairState(2, 1)

	assert.Equal(t, uint(1), pair.UserA)
	assert.Equal(t, uint(2), pair.UserB)

	assert.Equal(t, OutcomeLiked, pair.Advance(1, ActionLike))
	assert.Equal(t, PairOneSided, pair.State)
	assert.Equal(t, uint(1), pair.LikerID)

	assert.Equal(t, OutcomeMatch, pair.Advance(2, ActionLike))
	assert.Equal(t, PairMatched, pair.State)
}

func TestAdvanceMutualLikeEitherOrder(t *testing.T) {
	a := NewPairState(1, 2)
	a.Advance(1, ActionLike)
	assert.Equal(t, OutcomeMatch, a.Advance(2, ActionLike))

	b := NewPairState(1, 2)
	b.Advance(2, ActionLike)
	assert.Equal(t, OutcomeMatch, b.Advance(1, ActionLike))
}

func TestAdvanceRepeatLikeIsNoOp(t *testing.T) {
	pair := NewPairState(1, 2)

	assert.Equal(t, OutcomeLiked, pair.Advance(1, ActionLike))
	assert.Equal(t, OutcomeDuplicate, pair.Advance(1, ActionLike))
	assert.Equal(t, PairOneSided, pair.State)

	// The reverse like still produces exactly one match.
	assert.Equal(t, OutcomeMatch, pair.Advance(2, ActionLike))
	assert.Equal(t, OutcomeDuplicate, pair.Advance(2, ActionLike))
	assert.Equal(t, OutcomeDuplicate, pair.Advance(1, ActionLike))
}

func TestAdvanceDislikeNeverMatches(t *testing.T) {
	pair := NewPairState(1, 2)

	assert.Equal(t, OutcomeSkipped, pair.Advance(1, ActionDislike))
	assert.Equal(t, PairSkipped, pair.State)

	// A later like from the other side restarts the pair one-sided,
	// it must not combine with anything into a match.
	assert.Equal(t, OutcomeLiked, pair.Advance(2, ActionLike))
	assert.Equal(t, PairOneSided, pair.State)
	assert.Equal(t, uint(2), pair.LikerID)
}

func TestAdvanceDislikeVoidsPendingLike(t *testing.T) {
	pair := NewPairState(1, 2)

	// User 1 liked, user 2 disliked back: the pending like is gone.
	assert.Equal(t, OutcomeLiked, pair.Advance(1, ActionLike))
	assert.Equal(t, OutcomeSkipped, pair.Advance(2, ActionDislike))
	assert.Equal(t, PairSkipped, pair.State)
	assert.Equal(t, uint(0), pair.LikerID)

	// User 2 changes their mind: a fresh one-sided like, a new cycle,
	// and still no match out of user 1's stale like.
	assert.Equal(t, OutcomeLiked, pair.Advance(2, ActionLike))
	assert.Equal(t, PairOneSided, pair.State)
	assert.Equal(t, uint(2), pair.LikerID)
	assert.Equal(t, uint(1), pair.Cycle)
}

func TestAdvanceMatchedIsTerminal(t *testing.T) {
	pair := NewPairState(1, 2)
	pair.Advance(1, ActionLike)
	pair.Advance(2, ActionLike)

	assert.Equal(t, OutcomeDuplicate, pair.Advance(1, ActionDislike))
	assert.Equal(t, OutcomeDuplicate, pair.Advance(2, ActionLike))
	assert.Equal(t, PairMatched, pair.State)
}
