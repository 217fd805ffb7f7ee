// Package leaderboard contains the domain model for ranking users by the
// number of badges they have earned. Standings are derived on demand from
// award records and never persisted.
package leaderboard

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Domain errors for leaderboard package.
var (
	// ErrInvalidLimit - limit must be within [MinLimit, MaxLimit].
	ErrInvalidLimit = errors.New("leaderboard: limit out of range")

	// ErrNilEntry - cannot add a nil entry.
	ErrNilEntry = errors.New("leaderboard: cannot add nil entry")

	// ErrDuplicateUser - user already present in the standings.
	ErrDuplicateUser = errors.New("leaderboard: user already exists in standings")
)

// Limit bounds for leaderboard requests.
const (
	MinLimit = 1
	MaxLimit = 100
)

// Rank represents a position in the standings. Rank starts at 1.
type Rank int

// IsValid checks that the rank is positive.
func (r Rank) IsValid() bool {
	return r > 0
}

// String returns the string representation of the rank.
func (r Rank) String() string {
	return fmt.Sprintf("#%d", r)
}

// Entry represents one row of the leaderboard: a user and their badge count.
type Entry struct {
	// Rank - position in the standings (1-based, ties share a rank).
	Rank Rank

	// UserID - the user this entry belongs to.
	UserID string

	// BadgeCount - total badges the user has earned.
	BadgeCount int
}

// String returns a string representation for logging.
func (e *Entry) String() string {
	return fmt.Sprintf("Entry{Rank: %d, UserID: %s, Badges: %d}", e.Rank, e.UserID, e.BadgeCount)
}

// Standings is the full ordered ranking of users by badge count.
// It is a build-then-read structure: add entries, sort once, then query.
type Standings struct {
	entries     []*Entry
	byUser      map[string]*Entry
	generatedAt time.Time
}

// NewStandings creates empty standings.
func NewStandings() *Standings {
	return &Standings{
		entries:     make([]*Entry, 0),
		byUser:      make(map[string]*Entry),
		generatedAt: time.Now().UTC(),
	}
}

// BuildStandings creates sorted, ranked standings from per-user badge counts.
// Users with zero badges are not part of the leaderboard.
func BuildStandings(counts map[string]int) *Standings {
	s := NewStandings()
	for userID, count := range counts {
		if count <= 0 {
			continue
		}
		_ = s.Add(&Entry{UserID: userID, BadgeCount: count}) // counts map keys are unique
	}
	s.Sort()
	return s
}

// Add adds an entry to the standings (without re-sorting).
func (s *Standings) Add(entry *Entry) error {
	if entry == nil {
		return ErrNilEntry
	}
	if _, exists := s.byUser[entry.UserID]; exists {
		return ErrDuplicateUser
	}

	s.entries = append(s.entries, entry)
	s.byUser[entry.UserID] = entry
	return nil
}

// Sort orders entries by badge count (descending) and assigns ranks.
// Ties break by ascending user ID so repeated builds over unchanged data
// produce identical orderings. Tied users share a rank and the next distinct
// count resumes at its positional rank (counts 5,5,3 rank as 1,1,3).
func (s *Standings) Sort() {
	sort.Slice(s.entries, func(i, j int) bool {
		if s.entries[i].BadgeCount != s.entries[j].BadgeCount {
			return s.entries[i].BadgeCount > s.entries[j].BadgeCount
		}
		return s.entries[i].UserID < s.entries[j].UserID
	})

	currentRank := Rank(1)
	for i, entry := range s.entries {
		if i > 0 && entry.BadgeCount == s.entries[i-1].BadgeCount {
			entry.Rank = s.entries[i-1].Rank
		} else {
			entry.Rank = currentRank
		}
		currentRank = Rank(i + 2) // Next positional rank
	}
}

// Top returns the first n entries of the sorted standings.
func (s *Standings) Top(n int) []*Entry {
	if n <= 0 {
		return nil
	}
	if n > len(s.entries) {
		n = len(s.entries)
	}
	result := make([]*Entry, n)
	copy(result, s.entries[:n])
	return result
}

// GetByUser returns the entry for a user, or nil if the user has no badges.
func (s *Standings) GetByUser(userID string) *Entry {
	return s.byUser[userID]
}

// Count returns the total number of ranked users, independent of any limit.
func (s *Standings) Count() int {
	return len(s.entries)
}

// GeneratedAt returns when these standings were built.
func (s *Standings) GeneratedAt() time.Time {
	return s.generatedAt
}

// ValidateLimit rejects limits outside [MinLimit, MaxLimit].
func ValidateLimit(limit int) error {
	if limit < MinLimit || limit > MaxLimit {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidLimit, limit, MinLimit, MaxLimit)
	}
	return nil
}
