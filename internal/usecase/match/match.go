package match

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tindev/tindev-app/internal/entity"
	swipeRepo "github.com/tindev/tindev-app/internal/repository/swipe"
	userRepo "github.com/tindev/tindev-app/internal/repository/user"
	"github.com/tindev/tindev-app/pkg/logx"
)

const dailyLikeLimit = 10

// Notifier delivers a match event to one user's realtime channel.
// A false return means the event was dropped; dropped is final.
type Notifier interface {
	Deliver(userID int, ev entity.MatchEvent) bool
}

type IMatchUseCase interface {
	GetCandidates(ctx context.Context, userID int, limit int) ([]entity.Candidate, error)
	RecordSwipe(ctx context.Context, userID, toID int, action entity.Action) (entity.Outcome, error)
}

type matchUseCase struct {
	userRepo  userRepo.IUserRepo
	swipeRepo swipeRepo.ISwipeRepo
	notifier  Notifier
	logger    zerolog.Logger

	// pairLocks serializes state transitions per unordered user pair so
	// two near-simultaneous opposite likes cannot both observe the
	// pre-like state and lose the match.
	pairLocks [64]sync.Mutex
}

func NewMatchUseCase(userRepo userRepo.IUserRepo, swipeRepo swipeRepo.ISwipeRepo, notifier Notifier) IMatchUseCase {
	return &matchUseCase{
		userRepo:  userRepo,
		swipeRepo: swipeRepo,
		notifier:  notifier,
		logger:    logx.Component("match"),
	}
}

// GetCandidates returns the next batch of profiles for userID's queue,
// excluding everyone the user already swiped on or matched with.
func (m *matchUseCase) GetCandidates(ctx context.Context, userID int, limit int) ([]entity.Candidate, error) {
	swiped, err := m.swipeRepo.GetSwipedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	matched, err := m.swipeRepo.GetMatchedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	exclude := append(swiped, matched...)

	profiles, err := m.swipeRepo.GetCandidates(ctx, userID, exclude, limit)
	if err != nil {
		return nil, err
	}

	candidates := make([]entity.Candidate, 0, len(profiles))
	for i := range profiles {
		candidates = append(candidates, profiles[i].Candidate())
	}

	return candidates, nil
}

func (m *matchUseCase) RecordSwipe(ctx context.Context, userID, toID int, action entity.Action) (entity.Outcome, error) {
	if action == entity.ActionLike {
		likesCount, err := m.swipeRepo.GetTodayLikesCount(ctx, userID)
		if err != nil {
			return 0, err
		}

		if likesCount >= dailyLikeLimit {
			actor, err := m.userRepo.GetUserByID(ctx, userID)
			if err != nil {
				return 0, err
			}
			if !actor.Premium {
				return entity.OutcomeLimitReached, nil
			}
		}
	}

	lock := m.pairLock(userID, toID)
	lock.Lock()
	outcome, err := m.swipeRepo.CreateSwipe(ctx, userID, toID, action)
	lock.Unlock()

	if err != nil {
		return 0, err
	}

	if outcome == entity.OutcomeMatch {
		m.notifyMatch(ctx, userID, toID)
	}

	return outcome, nil
}

// notifyMatch pushes one event per side, each carrying the other
// party's profile. Delivery failures are logged, never surfaced: a
// user without a live channel simply misses the notification.
func (m *matchUseCase) notifyMatch(ctx context.Context, userID, toID int) {
	actor, err := m.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		m.logger.Error().Err(err).Int("user_id", userID).Msg("load profile for match event")
		return
	}

	target, err := m.userRepo.GetUserByID(ctx, toID)
	if err != nil {
		m.logger.Error().Err(err).Int("user_id", toID).Msg("load profile for match event")
		return
	}

	matchID := uuid.NewString()

	delivered := m.notifier.Deliver(userID, entity.MatchEvent{
		Type:    entity.EventTypeMatch,
		MatchID: matchID,
		Payload: target.Candidate(),
	})
	m.logger.Info().Str("match_id", matchID).Int("user_id", userID).Bool("delivered", delivered).Msg("match event")

	delivered = m.notifier.Deliver(toID, entity.MatchEvent{
		Type:    entity.EventTypeMatch,
		MatchID: matchID,
		Payload: actor.Candidate(),
	})
	m.logger.Info().Str("match_id", matchID).Int("user_id", toID).Bool("delivered", delivered).Msg("match event")
}

func (m *matchUseCase) pairLock(a, b int) *sync.Mutex {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return &m.pairLocks[(lo*31+hi)%len(m.pairLocks)]
}
