package badge

import (
	"errors"
	"time"
)

// Award is the persisted fact that a user satisfied a badge's requirement at
// a point in time. Awards are append-only: they are written exclusively by
// the award engine and never updated or deleted.
//
// For a fixed (UserID, BadgeID) pair at most one award ever exists. The
// store's uniqueness constraint is the single source of truth for this
// invariant; the engine performs no locking of its own.
type Award struct {
	UserID     string
	BadgeID    BadgeID
	AchievedAt time.Time
}

// NewAward creates an award fact with validation.
func NewAward(userID string, badgeID BadgeID, achievedAt time.Time) (*Award, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if !badgeID.IsValid() {
		return nil, ErrInvalidBadgeID
	}
	if achievedAt.IsZero() {
		return nil, errors.New("badge: achieved_at cannot be zero")
	}

	return &Award{
		UserID:     userID,
		BadgeID:    badgeID,
		AchievedAt: achievedAt.UTC(),
	}, nil
}

// EarnedSet builds the set of badge IDs present in the given awards.
func EarnedSet(awards []*Award) map[BadgeID]struct{} {
	earned := make(map[BadgeID]struct{}, len(awards))
	for _, a := range awards {
		if a != nil {
			earned[a.BadgeID] = struct{}{}
		}
	}
	return earned
}

// CountByUser groups awards by user and returns per-user badge counts.
// Used by the leaderboard aggregator.
func CountByUser(awards []*Award) map[string]int {
	counts := make(map[string]int)
	for _, a := range awards {
		if a != nil {
			counts[a.UserID]++
		}
	}
	return counts
}
