package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub/study-badges-hub/internal/domain/badge"
	"github.com/studyhub/study-badges-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// ══════════════════════════════════════════════════════════════════════════════

type stubCatalogRepo struct {
	catalog badge.Catalog
	err     error
}

func (s *stubCatalogRepo) ListBadges(ctx context.Context) (badge.Catalog, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.catalog, nil
}

type stubAwardRepo struct {
	awards []*badge.Award
	err    error
}

func (s *stubAwardRepo) ListAwardsByUser(ctx context.Context, userID string) ([]*badge.Award, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*badge.Award
	for _, a := range s.awards {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubAwardRepo) ListAllAwards(ctx context.Context) ([]*badge.Award, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.awards, nil
}

func (s *stubAwardRepo) InsertAwardIfAbsent(ctx context.Context, award *badge.Award) (bool, error) {
	s.awards = append(s.awards, award)
	return true, nil
}

func at(day int) time.Time {
	return time.Date(2025, time.March, day, 12, 0, 0, 0, time.UTC)
}

func testCatalog() badge.Catalog {
	return badge.Catalog{
		{ID: "b1", Title: "First Steps", Category: "volume"},
		{ID: "b2", Title: "Week Streak", Category: "consistency"},
		{ID: "b3", Title: "Marathon", Category: "volume"},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestGetUserBadges_EmptyStateIsSuccess(t *testing.T) {
	h := NewGetUserBadgesHandler(&stubCatalogRepo{catalog: testCatalog()}, &stubAwardRepo{})

	result, err := h.Handle(context.Background(), GetUserBadgesQuery{UserID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, "u1", result.UserID)
	assert.Empty(t, result.Badges)
	assert.Zero(t, result.TotalBadges)
	assert.Empty(t, result.BadgeCategories)
	assert.Empty(t, result.RecentBadges)
}

func TestGetUserBadges_NewestFirst(t *testing.T) {
	awards := &stubAwardRepo{awards: []*badge.Award{
		{UserID: "u1", BadgeID: "b1", AchievedAt: at(1)},
		{UserID: "u1", BadgeID: "b2", AchievedAt: at(5)},
		{UserID: "u1", BadgeID: "b3", AchievedAt: at(3)},
	}}
	h := NewGetUserBadgesHandler(&stubCatalogRepo{catalog: testCatalog()}, awards)

	result, err := h.Handle(context.Background(), GetUserBadgesQuery{UserID: "u1"})

	require.NoError(t, err)
	require.Len(t, result.Badges, 3)
	assert.Equal(t, "b2", result.Badges[0].BadgeID)
	assert.Equal(t, "b3", result.Badges[1].BadgeID)
	assert.Equal(t, "b1", result.Badges[2].BadgeID)
}

func TestGetUserBadges_TiedTimestampsOrderByBadgeID(t *testing.T) {
	awards := &stubAwardRepo{awards: []*badge.Award{
		{UserID: "u1", BadgeID: "b3", AchievedAt: at(1)},
		{UserID: "u1", BadgeID: "b1", AchievedAt: at(1)},
	}}
	h := NewGetUserBadgesHandler(&stubCatalogRepo{catalog: testCatalog()}, awards)

	result, err := h.Handle(context.Background(), GetUserBadgesQuery{UserID: "u1"})

	require.NoError(t, err)
	require.Len(t, result.Badges, 2)
	assert.Equal(t, "b1", result.Badges[0].BadgeID)
	assert.Equal(t, "b3", result.Badges[1].BadgeID)
}

func TestGetUserBadges_CategoryCounts(t *testing.T) {
	awards := &stubAwardRepo{awards: []*badge.Award{
		{UserID: "u1", BadgeID: "b1", AchievedAt: at(1)},
		{UserID: "u1", BadgeID: "b2", AchievedAt: at(2)},
		{UserID: "u1", BadgeID: "b3", AchievedAt: at(3)},
	}}
	h := NewGetUserBadgesHandler(&stubCatalogRepo{catalog: testCatalog()}, awards)

	result, err := h.Handle(context.Background(), GetUserBadgesQuery{UserID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"volume": 2, "consistency": 1}, result.BadgeCategories)
}

func TestGetUserBadges_RecentWindow(t *testing.T) {
	awards := &stubAwardRepo{awards: []*badge.Award{
		{UserID: "u1", BadgeID: "b1", AchievedAt: at(1)},
		{UserID: "u1", BadgeID: "b2", AchievedAt: at(2)},
		{UserID: "u1", BadgeID: "b3", AchievedAt: at(3)},
	}}
	h := NewGetUserBadgesHandler(&stubCatalogRepo{catalog: testCatalog()}, awards)

	result, err := h.Handle(context.Background(), GetUserBadgesQuery{UserID: "u1", RecentLimit: 2})

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalBadges)
	require.Len(t, result.RecentBadges, 2)
	assert.Equal(t, "b3", result.RecentBadges[0].BadgeID)
	assert.Equal(t, "b2", result.RecentBadges[1].BadgeID)
}

func TestGetUserBadges_DefaultRecentLimit(t *testing.T) {
	q := GetUserBadgesQuery{UserID: "u1"}
	require.NoError(t, q.Validate())
	assert.Equal(t, DefaultRecentLimit, q.RecentLimit)
}

func TestGetUserBadges_OrphanAwardsSkipped(t *testing.T) {
	// An award referencing a badge no longer in the catalog has no metadata
	// to display and is left out of the result.
	awards := &stubAwardRepo{awards: []*badge.Award{
		{UserID: "u1", BadgeID: "b1", AchievedAt: at(1)},
		{UserID: "u1", BadgeID: "retired", AchievedAt: at(2)},
	}}
	h := NewGetUserBadgesHandler(&stubCatalogRepo{catalog: testCatalog()}, awards)

	result, err := h.Handle(context.Background(), GetUserBadgesQuery{UserID: "u1"})

	require.NoError(t, err)
	require.Len(t, result.Badges, 1)
	assert.Equal(t, "b1", result.Badges[0].BadgeID)
	assert.Equal(t, 1, result.TotalBadges)
}

func TestGetUserBadges_Validation(t *testing.T) {
	h := NewGetUserBadgesHandler(&stubCatalogRepo{}, &stubAwardRepo{})

	_, err := h.Handle(context.Background(), GetUserBadgesQuery{UserID: ""})
	assert.True(t, shared.IsInvalidArgument(err))

	_, err = h.Handle(context.Background(), GetUserBadgesQuery{UserID: "u1", RecentLimit: -1})
	assert.True(t, shared.IsInvalidArgument(err))
}

func TestGetUserBadges_ReadFailure(t *testing.T) {
	h := NewGetUserBadgesHandler(&stubCatalogRepo{}, &stubAwardRepo{err: errors.New("connection reset")})

	_, err := h.Handle(context.Background(), GetUserBadgesQuery{UserID: "u1"})
	assert.True(t, shared.IsDataUnavailable(err))
}
