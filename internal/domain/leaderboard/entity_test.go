package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStandings_OrdersByBadgeCountDescending(t *testing.T) {
	s := BuildStandings(map[string]int{
		"alice":   3,
		"bob":     7,
		"charlie": 5,
	})

	top := s.Top(10)
	require.Len(t, top, 3)
	assert.Equal(t, "bob", top[0].UserID)
	assert.Equal(t, "charlie", top[1].UserID)
	assert.Equal(t, "alice", top[2].UserID)
}

func TestBuildStandings_SharedRankForTies(t *testing.T) {
	// Counts 5,5,3 rank as 1,1,3: tied users share a rank and the next
	// distinct count resumes at its positional rank.
	s := BuildStandings(map[string]int{
		"alice":   5,
		"bob":     5,
		"charlie": 3,
	})

	top := s.Top(10)
	require.Len(t, top, 3)
	assert.Equal(t, Rank(1), top[0].Rank)
	assert.Equal(t, Rank(1), top[1].Rank)
	assert.Equal(t, Rank(3), top[2].Rank)
}

func TestBuildStandings_TiesBreakByUserID(t *testing.T) {
	s := BuildStandings(map[string]int{
		"zoe":   4,
		"adam":  4,
		"maria": 4,
	})

	top := s.Top(10)
	require.Len(t, top, 3)
	assert.Equal(t, "adam", top[0].UserID)
	assert.Equal(t, "maria", top[1].UserID)
	assert.Equal(t, "zoe", top[2].UserID)
}

func TestBuildStandings_Deterministic(t *testing.T) {
	counts := map[string]int{"u1": 2, "u2": 2, "u3": 5, "u4": 1}

	first := BuildStandings(counts).Top(10)
	second := BuildStandings(counts).Top(10)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].UserID, second[i].UserID)
		assert.Equal(t, first[i].Rank, second[i].Rank)
	}
}

func TestBuildStandings_ExcludesZeroBadgeUsers(t *testing.T) {
	s := BuildStandings(map[string]int{
		"alice": 2,
		"bob":   0,
	})

	assert.Equal(t, 1, s.Count())
	assert.Nil(t, s.GetByUser("bob"))
}

func TestStandings_Top_Bounds(t *testing.T) {
	s := BuildStandings(map[string]int{"u1": 1, "u2": 2})

	assert.Len(t, s.Top(1), 1)
	assert.Len(t, s.Top(2), 2)
	// Asking for more than exists returns what exists.
	assert.Len(t, s.Top(50), 2)
	assert.Nil(t, s.Top(0))
}

func TestStandings_CountIndependentOfLimit(t *testing.T) {
	s := BuildStandings(map[string]int{"u1": 1, "u2": 2, "u3": 3})

	_ = s.Top(1)
	assert.Equal(t, 3, s.Count())
}

func TestStandings_Add_RejectsDuplicates(t *testing.T) {
	s := NewStandings()

	require.NoError(t, s.Add(&Entry{UserID: "u1", BadgeCount: 1}))
	assert.ErrorIs(t, s.Add(&Entry{UserID: "u1", BadgeCount: 2}), ErrDuplicateUser)
	assert.ErrorIs(t, s.Add(nil), ErrNilEntry)
}

func TestValidateLimit(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		wantErr bool
	}{
		{"zero", 0, true},
		{"negative", -5, true},
		{"minimum", MinLimit, false},
		{"typical", 10, false},
		{"maximum", MaxLimit, false},
		{"over maximum", MaxLimit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLimit(tt.limit)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLimit)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRank_IsValid(t *testing.T) {
	assert.True(t, Rank(1).IsValid())
	assert.False(t, Rank(0).IsValid())
	assert.Equal(t, "#3", Rank(3).String())
}
