package badge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub/study-badges-hub/internal/domain/activity"
)

func testTime() time.Time {
	return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.FixedZone("UTC+5", 5*3600))
}

func TestRequirement_SatisfiedBy_TotalSessions(t *testing.T) {
	req := Requirement{Kind: RequirementTotalSessions, Value: 5}

	tests := []struct {
		name     string
		sessions int
		want     bool
	}{
		{"below threshold", 4, false},
		{"exactly at threshold", 5, true},
		{"above threshold", 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := req.SatisfiedBy(activity.Stats{SessionCount: tt.sessions})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestRequirement_SatisfiedBy_TotalMinutes(t *testing.T) {
	req := Requirement{Kind: RequirementTotalMinutes, Value: 600}

	ok, err := req.SatisfiedBy(activity.Stats{TotalMinutes: 599})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = req.SatisfiedBy(activity.Stats{TotalMinutes: 600})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRequirement_SatisfiedBy_StreakDays(t *testing.T) {
	req := Requirement{Kind: RequirementStreakDays, Value: 7}

	ok, err := req.SatisfiedBy(activity.Stats{LongestStreak: 6})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = req.SatisfiedBy(activity.Stats{LongestStreak: 7})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRequirement_SatisfiedBy_Efficiency(t *testing.T) {
	req := Requirement{Kind: RequirementEfficiency, Value: 80}

	// Without any recorded efficiency the rule is not evaluable:
	// not yet satisfied, not an error.
	ok, err := req.SatisfiedBy(activity.Stats{HasEfficiency: false})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = req.SatisfiedBy(activity.Stats{HasEfficiency: true, MeanEfficiency: 79.9})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = req.SatisfiedBy(activity.Stats{HasEfficiency: true, MeanEfficiency: 80})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRequirement_SatisfiedBy_UnknownKind(t *testing.T) {
	req := Requirement{Kind: "perfect_week", Value: 1}

	ok, err := req.SatisfiedBy(activity.Stats{})
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrUnknownRequirementKind)
}

func TestRequirement_QualificationIsMonotonic(t *testing.T) {
	// Once satisfied, a requirement stays satisfied for any larger snapshot.
	req := Requirement{Kind: RequirementTotalSessions, Value: 5}

	for sessions := 5; sessions <= 20; sessions++ {
		ok, err := req.SatisfiedBy(activity.Stats{SessionCount: sessions})
		require.NoError(t, err)
		assert.True(t, ok, "sessions=%d", sessions)
	}
}

func TestNewBadge_Validation(t *testing.T) {
	valid := Requirement{Kind: RequirementTotalSessions, Value: 5}

	_, err := NewBadge("", "First Steps", valid)
	assert.ErrorIs(t, err, ErrInvalidBadgeID)

	_, err = NewBadge("b1", "", valid)
	assert.ErrorIs(t, err, ErrEmptyTitle)

	_, err = NewBadge("b1", "First Steps", Requirement{Kind: "bogus", Value: 1})
	assert.ErrorIs(t, err, ErrUnknownRequirementKind)

	_, err = NewBadge("b1", "First Steps", Requirement{Kind: RequirementTotalSessions, Value: -1})
	assert.ErrorIs(t, err, ErrNegativeRequirement)

	b, err := NewBadge("b1", "First Steps", valid)
	require.NoError(t, err)
	assert.Equal(t, BadgeID("b1"), b.ID)
}

func TestCatalog_Without(t *testing.T) {
	catalog := Catalog{
		{ID: "b1", Title: "First Steps"},
		{ID: "b2", Title: "Getting Serious"},
		{ID: "b3", Title: "Marathon"},
	}

	remaining := catalog.Without(map[BadgeID]struct{}{"b2": {}})

	require.Len(t, remaining, 2)
	// Catalog order is preserved.
	assert.Equal(t, BadgeID("b1"), remaining[0].ID)
	assert.Equal(t, BadgeID("b3"), remaining[1].ID)
}

func TestCatalog_Without_NothingEarned(t *testing.T) {
	catalog := Catalog{{ID: "b1"}, {ID: "b2"}}

	remaining := catalog.Without(nil)
	assert.Len(t, remaining, 2)
}

func TestCatalog_ByID(t *testing.T) {
	catalog := Catalog{{ID: "b1", Title: "First Steps"}}

	found := catalog.ByID("b1")
	require.NotNil(t, found)
	assert.Equal(t, "First Steps", found.Title)

	assert.Nil(t, catalog.ByID("missing"))
}

func TestNewAward(t *testing.T) {
	_, err := NewAward("", "b1", testTime())
	assert.ErrorIs(t, err, ErrInvalidUserID)

	_, err = NewAward("u1", "", testTime())
	assert.ErrorIs(t, err, ErrInvalidBadgeID)

	a, err := NewAward("u1", "b1", testTime())
	require.NoError(t, err)
	assert.Equal(t, "u1", a.UserID)
	// Timestamps normalize to UTC.
	assert.Equal(t, "UTC", a.AchievedAt.Location().String())
}

func TestEarnedSet(t *testing.T) {
	awards := []*Award{
		{UserID: "u1", BadgeID: "b1"},
		{UserID: "u1", BadgeID: "b2"},
		nil,
	}

	earned := EarnedSet(awards)

	assert.Len(t, earned, 2)
	_, ok := earned["b1"]
	assert.True(t, ok)
}

func TestCountByUser(t *testing.T) {
	awards := []*Award{
		{UserID: "u1", BadgeID: "b1"},
		{UserID: "u1", BadgeID: "b2"},
		{UserID: "u2", BadgeID: "b1"},
	}

	counts := CountByUser(awards)

	assert.Equal(t, 2, counts["u1"])
	assert.Equal(t, 1, counts["u2"])
}
