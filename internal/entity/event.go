package entity

const EventTypeMatch = "match"

// MatchEvent is the realtime notification pushed to each side of a new
// match. Payload carries the other party's profile as seen by the
// recipient. Events are ephemeral: delivered at most once per connected
// channel, never persisted or replayed.
type MatchEvent struct {
	Type    string    `json:"type"`
	MatchID string    `json:"match_id"`
	Payload Candidate `json:"payload"`
}
