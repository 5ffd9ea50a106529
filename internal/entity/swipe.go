package entity

import "time"

// Swipe is one recorded like/dislike from user_id towards to_id.
// Rows are append-only: re-liking a profile after a prior dislike starts a
// new cycle and lands as a new row, never an update.
type Swipe struct {
	ID     uint      `gorm:"primaryKey;column:id"`
	UserID uint      `gorm:"column:user_id;not null;index:idx_swipes_user_to"`
	ToID   uint      `gorm:"column:to_id;not null;index:idx_swipes_user_to"`
	Cycle  uint      `gorm:"column:cycle;not null"`
	Action Action    `gorm:"column:action;type:smallint;not null"`
	Time   time.Time `gorm:"column:timestamp;type:timestamp;not null"`
}

type Action uint

const (
	ActionLike Action = iota + 1
	ActionDislike
)

func (a Action) String() string {
	switch a {
	case ActionLike:
		return "Like"
	case ActionDislike:
		return "Dislike"
	default:
		return "Unknown"
	}
}

type Outcome uint

const (
	OutcomeMatch     Outcome = iota + 1 // Both users like each other
	OutcomeLiked                        // Like recorded, no reverse like yet
	OutcomeSkipped                      // Dislike recorded, pair is skipped
	OutcomeDuplicate                    // Repeat of an already-recorded action, no-op
	OutcomeNotFound                     // Target profile does not exist
	OutcomeLimitReached
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatch:
		return "Match"
	case OutcomeLiked:
		return "Liked"
	case OutcomeSkipped:
		return "Skipped"
	case OutcomeDuplicate:
		return "Duplicate"
	case OutcomeNotFound:
		return "Not Found"
	case OutcomeLimitReached:
		return "Limit Reached"
	default:
		return "Unknown"
	}
}
