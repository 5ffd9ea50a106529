package entity

import "time"

type PairCode uint

const (
	PairNone     PairCode = iota // Neither side has acted yet
	PairOneSided                 // LikerID likes the other side, waiting on them
	PairMatched                  // Both sides liked; terminal
	PairSkipped                  // A dislike voided the pair for this cycle
)

// PairState is the materialized swipe state for one unordered user pair.
// UserA always holds the lower of the two IDs so a pair maps to exactly
// one row. All transitions go through Advance; writers must hold the
// pair's lock so two near-simultaneous opposite likes cannot both read
// PairNone and lose the match.
type PairState struct {
	UserA     uint      `gorm:"column:user_a;not null;primaryKey"`
	UserB     uint      `gorm:"column:user_b;not null;primaryKey"`
	State     PairCode  `gorm:"column:state;type:smallint;not null"`
	LikerID   uint      `gorm:"column:liker_id;not null"`
	Cycle     uint      `gorm:"column:cycle;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// NewPairState returns the initial state row for two user IDs, in
// canonical (lower, higher) order.
func NewPairState(x, y uint) PairState {
	if x > y {
		x, y = y, x
	}
	return PairState{UserA: x, UserB: y, State: PairNone}
}

// Advance applies one recorded action from actorID to the pair and
// reports the outcome.
//
//   - PairMatched is terminal: a matched pair is never re-evaluated,
//     later actions are no-ops.
//   - A dislike always lands in PairSkipped, even when the other side
//     had already liked: their pending like is voided, not banked.
//   - A like out of PairSkipped starts a fresh cycle as PairOneSided.
//     The stale pre-skip like from the other side must not combine with
//     it into a match.
func (p *PairState) Advance(actorID uint, action Action) Outcome {
	if p.State == PairMatched {
		return OutcomeDuplicate
	}

	if action == ActionDislike {
		p.State = PairSkipped
		p.LikerID = 0
		return OutcomeSkipped
	}

	switch p.State {
	case PairOneSided:
		if p.LikerID == actorID {
			return OutcomeDuplicate
		}
		p.State = PairMatched
		p.LikerID = 0
		return OutcomeMatch
	case PairSkipped:
		p.Cycle++
		p.State = PairOneSided
		p.LikerID = actorID
		return OutcomeLiked
	default:
		p.State = PairOneSided
		p.LikerID = actorID
		return OutcomeLiked
	}
}
