package swipeRepo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis"
	"github.com/tindev/tindev-app/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ISwipeRepo interface {
	// Records one like/dislike from userID towards toID by advancing the
	// pair's state row inside a transaction. A repeat of the actor's
	// latest identical action is a no-op returning OutcomeDuplicate.
	CreateSwipe(ctx context.Context, userID, toID int, action entity.Action) (entity.Outcome, error)

	// Candidate feed for userID, excluding the given IDs and the user itself.
	GetCandidates(ctx context.Context, userID int, excludeIDs []int, limit int) ([]entity.User, error)

	// IDs of every profile userID has already acted on, for feed exclusion.
	GetSwipedIDs(ctx context.Context, userID int) ([]int, error)

	// IDs of profiles userID is matched with.
	GetMatchedIDs(ctx context.Context, userID int) ([]int, error)

	GetTodayLikesCount(ctx context.Context, userID int) (int, error)

	// All swipe rows recorded by userID, newest last.
	GetSwipes(ctx context.Context, userID int) ([]entity.Swipe, error)
}

type SwipeRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewSwipeRepo(db *gorm.DB, rdb *redis.Client) ISwipeRepo {
	return &SwipeRepo{
		db:  db,
		rdb: rdb,
	}
}

// CreateSwipe assumes the caller serializes calls per unordered pair (the
// match usecase holds a keyed mutex); the SELECT ... FOR UPDATE on the
// pair row guards against writers outside this process.
func (r *SwipeRepo) CreateSwipe(ctx context.Context, userID, toID int, action entity.Action) (entity.Outcome, error) {
	var target entity.User
	res := r.db.WithContext(ctx).Where("id = ?", toID).First(&target)

	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return entity.OutcomeNotFound, nil
		}
		return 0, res.Error
	}

	var outcome entity.Outcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pair := entity.NewPairState(uint(userID), uint(toID))

		res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_a = ? AND user_b = ?", pair.UserA, pair.UserB).
			First(&pair)

		if res.Error != nil && !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return res.Error
		}

		// Idempotence guard: resending the actor's latest recorded
		// action must not create a second row or re-trigger a match.
		// Scoped to the current cycle so a like left over from before a
		// skip does not block the actor from answering a fresh like.
		var last entity.Swipe
		res = tx.Where("user_id = ? AND to_id = ?", userID, toID).
			Order("id DESC").
			First(&last)

		if res.Error != nil && !errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return res.Error
		}

		if last.ID != 0 && last.Cycle == pair.Cycle && last.Action == action {
			outcome = entity.OutcomeDuplicate
			return nil
		}

		outcome = pair.Advance(uint(userID), action)

		if outcome == entity.OutcomeDuplicate {
			return nil
		}

		swipe := entity.Swipe{
			UserID: uint(userID),
			ToID:   uint(toID),
			Cycle:  pair.Cycle,
			Action: action,
			Time:   time.Now(),
		}

		if res := tx.Create(&swipe); res.Error != nil {
			return res.Error
		}

		return tx.Save(&pair).Error
	})

	if err != nil {
		return 0, err
	}

	if outcome == entity.OutcomeDuplicate {
		return outcome, nil
	}

	r.appendSwipedCache(userID, toID)

	if action == entity.ActionLike {
		r.rdb.IncrBy(likesCountKey(userID), 1)
	}

	if outcome == entity.OutcomeMatch {
		r.appendMatchedCache(userID, toID)
		r.appendMatchedCache(toID, userID)
	}

	return outcome, nil
}

func (r *SwipeRepo) GetCandidates(ctx context.Context, userID int, excludeIDs []int, limit int) ([]entity.User, error) {
	var profiles []entity.User

	res := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id NOT IN ?", append(excludeIDs, userID)).
		Order("id").
		Limit(limit).
		Find(&profiles)

	return profiles, res.Error
}

func (r *SwipeRepo) GetSwipedIDs(ctx context.Context, userID int) ([]int, error) {
	key := swipedKey(userID)

	exists, err := r.rdb.Exists(key).Result()
	if err != nil {
		return nil, err
	}

	var ids []int

	if exists == 0 {
		res := r.db.WithContext(ctx).
			Model(&entity.Swipe{}).
			Distinct("to_id").
			Where("user_id = ?", userID).
			Find(&ids)

		if res.Error != nil {
			return nil, res.Error
		}

		for _, id := range ids {
			r.rdb.SAdd(key, id)
		}
		r.rdb.Expire(key, 30*24*time.Hour)

		return ids, nil
	}

	if err := r.rdb.SMembers(key).ScanSlice(&ids); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *SwipeRepo) GetMatchedIDs(ctx context.Context, userID int) ([]int, error) {
	key := matchedKey(userID)

	exists, err := r.rdb.Exists(key).Result()
	if err != nil {
		return nil, err
	}

	var ids []int

	if exists == 0 {
		var pairs []entity.PairState
		res := r.db.WithContext(ctx).
			Model(&entity.PairState{}).
			Where("state = ? AND (user_a = ? OR user_b = ?)", entity.PairMatched, userID, userID).
			Find(&pairs)

		if res.Error != nil {
			return nil, res.Error
		}

		for _, p := range pairs {
			partner := p.UserA
			if partner == uint(userID) {
				partner = p.UserB
			}
			ids = append(ids, int(partner))
			r.rdb.SAdd(key, int(partner))
		}
		r.rdb.Expire(key, 30*24*time.Hour)

		return ids, nil
	}

	if err := r.rdb.SMembers(key).ScanSlice(&ids); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *SwipeRepo) GetTodayLikesCount(ctx context.Context, userID int) (int, error) {
	key := likesCountKey(userID)

	exists, err := r.rdb.Exists(key).Result()
	if err != nil {
		return 0, err
	}

	if exists != 0 {
		return r.rdb.Get(key).Int()
	}

	var count int64
	res := r.db.WithContext(ctx).
		Model(&entity.Swipe{}).
		Where("user_id = ? AND action = ? AND timestamp >= ?", userID, entity.ActionLike, startOfToday()).
		Count(&count)

	if res.Error != nil {
		return 0, res.Error
	}

	r.rdb.Set(key, count, untilMidnight())

	return int(count), nil
}

func (r *SwipeRepo) GetSwipes(ctx context.Context, userID int) ([]entity.Swipe, error) {
	var swipes []entity.Swipe
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&swipes)

	return swipes, res.Error
}

// Private functions

func (r *SwipeRepo) appendSwipedCache(userID, toID int) {
	key := swipedKey(userID)
	r.rdb.SAdd(key, toID)
	r.rdb.Expire(key, 30*24*time.Hour)
}

func (r *SwipeRepo) appendMatchedCache(userID, partnerID int) {
	key := matchedKey(userID)
	r.rdb.SAdd(key, partnerID)
	r.rdb.Expire(key, 30*24*time.Hour)
}

func swipedKey(userID int) string {
	return "user:" + strconv.Itoa(userID) + ":swiped"
}

func matchedKey(userID int) string {
	return "user:" + strconv.Itoa(userID) + ":match:profiles"
}

func likesCountKey(userID int) string {
	return "user:" + strconv.Itoa(userID) + ":likes:count"
}

// Helper

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func untilMidnight() time.Duration {
	now := time.Now()
	midnight := startOfToday().Add(24 * time.Hour)
	return midnight.Sub(now)
}
