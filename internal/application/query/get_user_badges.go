// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"sort"
	"time"

	"github.com/studyhub/study-badges-hub/internal/domain/badge"
	"github.com/studyhub/study-badges-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET USER BADGES QUERY
// Assembles a user's full badge state: every earned badge joined with catalog
// metadata, per-category counts and the most recently achieved subset.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultRecentLimit is the size of the recent-badges window.
const DefaultRecentLimit = 5

// GetUserBadgesQuery contains the parameters for a badge-state read.
type GetUserBadgesQuery struct {
	// UserID - the user to read.
	UserID string

	// RecentLimit - size of the recent-badges window (default 5).
	RecentLimit int
}

// Validate checks the query parameters before any I/O.
func (q *GetUserBadgesQuery) Validate() error {
	if q.UserID == "" {
		return shared.WrapError("query", "GetUserBadges", shared.ErrEmptyValue, "user ID is required", nil)
	}
	if q.RecentLimit < 0 {
		return shared.WrapError("query", "GetUserBadges", shared.ErrValueOutOfRange, "recent limit cannot be negative", nil)
	}
	if q.RecentLimit == 0 {
		q.RecentLimit = DefaultRecentLimit
	}
	return nil
}

// EarnedBadgeDTO is one earned badge joined with catalog metadata.
type EarnedBadgeDTO struct {
	// BadgeID - catalog identifier.
	BadgeID string `json:"badge_id"`

	// Title - display title.
	Title string `json:"title"`

	// Description - display description.
	Description string `json:"description"`

	// Icon - display icon reference.
	Icon string `json:"icon"`

	// Category - grouping label.
	Category string `json:"category"`

	// AchievedAt - when the badge was earned.
	AchievedAt time.Time `json:"achieved_at"`
}

// GetUserBadgesResult contains the assembled badge state.
// A user with no awards yields an all-empty payload - that is a success
// state, distinct from a failed lookup.
type GetUserBadgesResult struct {
	// UserID - the user this state belongs to.
	UserID string `json:"user_id"`

	// Badges - all earned badges, newest first by achieved_at.
	Badges []EarnedBadgeDTO `json:"badges"`

	// TotalBadges - count of earned badges.
	TotalBadges int `json:"total_badges"`

	// BadgeCategories - per-category counts; zero-count categories omitted.
	BadgeCategories map[string]int `json:"badge_categories"`

	// RecentBadges - the most recently achieved badges, same order as Badges.
	RecentBadges []EarnedBadgeDTO `json:"recent_badges"`
}

// GetUserBadgesHandler handles badge-state reads.
type GetUserBadgesHandler struct {
	catalogRepo badge.CatalogRepository
	awardRepo   badge.AwardRepository
}

// NewGetUserBadgesHandler creates a new badge-state read handler.
func NewGetUserBadgesHandler(catalogRepo badge.CatalogRepository, awardRepo badge.AwardRepository) *GetUserBadgesHandler {
	return &GetUserBadgesHandler{
		catalogRepo: catalogRepo,
		awardRepo:   awardRepo,
	}
}

// Handle executes the badge-state read. No side effects.
func (h *GetUserBadgesHandler) Handle(ctx context.Context, query GetUserBadgesQuery) (*GetUserBadgesResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	awards, err := h.awardRepo.ListAwardsByUser(ctx, query.UserID)
	if err != nil {
		return nil, shared.WrapError("query", "GetUserBadges", shared.ErrDataUnavailable, "failed to load awards", err)
	}

	catalog, err := h.catalogRepo.ListBadges(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetUserBadges", shared.ErrDataUnavailable, "failed to load badge catalog", err)
	}

	earned := make([]EarnedBadgeDTO, 0, len(awards))
	categories := make(map[string]int)

	for _, award := range awards {
		entry := catalog.ByID(award.BadgeID)
		if entry == nil {
			// Award references a badge no longer in the catalog; nothing to
			// display for it.
			continue
		}

		earned = append(earned, EarnedBadgeDTO{
			BadgeID:     entry.ID.String(),
			Title:       entry.Title,
			Description: entry.Description,
			Icon:        entry.Icon,
			Category:    entry.Category.String(),
			AchievedAt:  award.AchievedAt,
		})
		categories[entry.Category.String()]++
	}

	// Newest first; badge ID breaks achieved_at ties so repeated reads over
	// unchanged data return identical orderings.
	sort.Slice(earned, func(i, j int) bool {
		if !earned[i].AchievedAt.Equal(earned[j].AchievedAt) {
			return earned[i].AchievedAt.After(earned[j].AchievedAt)
		}
		return earned[i].BadgeID < earned[j].BadgeID
	})

	recentN := query.RecentLimit
	if recentN > len(earned) {
		recentN = len(earned)
	}
	recent := make([]EarnedBadgeDTO, recentN)
	copy(recent, earned[:recentN])

	return &GetUserBadgesResult{
		UserID:          query.UserID,
		Badges:          earned,
		TotalBadges:     len(earned),
		BadgeCategories: categories,
		RecentBadges:    recent,
	}, nil
}
