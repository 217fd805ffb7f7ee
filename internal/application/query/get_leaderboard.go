package query

import (
	"context"
	"time"

	"github.com/studyhub/study-badges-hub/internal/domain/badge"
	"github.com/studyhub/study-badges-hub/internal/domain/leaderboard"
	"github.com/studyhub/study-badges-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Ranks all users by badge count with a deterministic tie-break. Standings
// are rebuilt from award records on every call - nothing is persisted.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery contains the parameters for a leaderboard read.
type GetLeaderboardQuery struct {
	// Limit - number of entries to return, in [1, 100].
	Limit int
}

// Validate rejects out-of-range limits before any I/O.
func (q *GetLeaderboardQuery) Validate() error {
	if err := leaderboard.ValidateLimit(q.Limit); err != nil {
		return shared.WrapError("query", "GetLeaderboard", shared.ErrInvalidArgument, "invalid limit", err)
	}
	return nil
}

// LeaderboardEntryDTO is one row of the leaderboard response.
type LeaderboardEntryDTO struct {
	// Rank - 1-based position; tied badge counts share a rank.
	Rank int `json:"rank"`

	// UserID - the ranked user.
	UserID string `json:"user_id"`

	// BadgeCount - total badges earned by the user.
	BadgeCount int `json:"badge_count"`
}

// GetLeaderboardResult contains the leaderboard response.
type GetLeaderboardResult struct {
	// Entries - ranked entries, at most Limit of them.
	Entries []LeaderboardEntryDTO `json:"leaderboard"`

	// TotalUsers - distinct users with at least one badge, independent of
	// the limit.
	TotalUsers int `json:"total_users"`

	// GeneratedAt - when this aggregation ran.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetLeaderboardHandler handles leaderboard reads.
type GetLeaderboardHandler struct {
	awardRepo badge.AwardRepository
}

// NewGetLeaderboardHandler creates a new leaderboard read handler.
func NewGetLeaderboardHandler(awardRepo badge.AwardRepository) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{awardRepo: awardRepo}
}

// Handle executes the leaderboard read.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, query GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	awards, err := h.awardRepo.ListAllAwards(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetLeaderboard", shared.ErrDataUnavailable, "failed to load awards", err)
	}

	standings := leaderboard.BuildStandings(badge.CountByUser(awards))

	top := standings.Top(query.Limit)
	entries := make([]LeaderboardEntryDTO, 0, len(top))
	for _, e := range top {
		entries = append(entries, LeaderboardEntryDTO{
			Rank:       int(e.Rank),
			UserID:     e.UserID,
			BadgeCount: e.BadgeCount,
		})
	}

	return &GetLeaderboardResult{
		Entries:     entries,
		TotalUsers:  standings.Count(),
		GeneratedAt: standings.GeneratedAt(),
	}, nil
}
