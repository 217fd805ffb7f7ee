// Package activity contains domain entities and business logic for study
// sessions and the per-user activity statistics derived from them.
// This is a pure domain layer with zero external dependencies.
package activity

import (
	"errors"
	"sort"
	"time"

	"github.com/studyhub/study-badges-hub/pkg/timeutil"
)

// Domain errors for activity package.
var (
	ErrInvalidUserID    = errors.New("activity: invalid user ID")
	ErrInvalidSessionID = errors.New("activity: invalid session ID")
	ErrNegativeDuration = errors.New("activity: duration cannot be negative")
	ErrFutureTimestamp  = errors.New("activity: timestamp cannot be in the future")
	ErrInvalidEfficiency = errors.New("activity: efficiency must be between 0 and 100")
)

// UserID represents a unique identifier for a user.
type UserID string

// IsValid checks if the user ID is valid.
func (u UserID) IsValid() bool {
	return u != ""
}

// String returns the string representation of UserID.
func (u UserID) String() string {
	return string(u)
}

// SessionID represents a unique identifier for a study session.
type SessionID string

// IsValid checks if the session ID is valid.
func (s SessionID) IsValid() bool {
	return s != ""
}

// String returns the string representation of SessionID.
func (s SessionID) String() string {
	return string(s)
}

// StudySession represents a single recorded study session.
// Sessions are the raw material for all badge qualification checks:
// every statistic the engine evaluates is derived from them.
type StudySession struct {
	ID        SessionID
	UserID    UserID
	StartedAt time.Time

	// DurationMinutes is the length of the session in whole minutes.
	DurationMinutes int

	// Efficiency is an optional self-reported or computed focus score (0-100).
	// nil means the session has no recorded efficiency and is excluded from
	// the efficiency mean, not treated as zero.
	Efficiency *float64
}

// NewStudySession creates a new study session with validation.
func NewStudySession(id SessionID, userID UserID, startedAt time.Time, durationMinutes int) (*StudySession, error) {
	if !id.IsValid() {
		return nil, ErrInvalidSessionID
	}
	if !userID.IsValid() {
		return nil, ErrInvalidUserID
	}
	if durationMinutes < 0 {
		return nil, ErrNegativeDuration
	}
	if startedAt.After(time.Now().Add(time.Minute)) { // Allow 1 minute tolerance
		return nil, ErrFutureTimestamp
	}

	return &StudySession{
		ID:              id,
		UserID:          userID,
		StartedAt:       startedAt,
		DurationMinutes: durationMinutes,
	}, nil
}

// SetEfficiency records an efficiency score for the session.
func (s *StudySession) SetEfficiency(efficiency float64) error {
	if efficiency < 0 || efficiency > 100 {
		return ErrInvalidEfficiency
	}
	s.Efficiency = &efficiency
	return nil
}

// HasEfficiency returns true if the session has a recorded efficiency score.
func (s *StudySession) HasEfficiency() bool {
	return s.Efficiency != nil
}

// Day returns the UTC calendar day the session started on.
// A day counts as "active" if at least one session started on it.
func (s *StudySession) Day() time.Time {
	return timeutil.DayOf(s.StartedAt)
}

// Stats is the aggregated activity snapshot for a user.
// It is recomputed on demand from the full session history, used for one
// badge evaluation pass, and then discarded - never cached across requests.
type Stats struct {
	UserID UserID

	// SessionCount is the total number of recorded sessions.
	SessionCount int

	// TotalMinutes is the sum of all session durations.
	TotalMinutes int

	// LongestStreak is the longest run of consecutive active UTC calendar
	// days. Any calendar gap breaks the streak.
	LongestStreak int

	// MeanEfficiency is the mean over sessions with a recorded efficiency.
	// Only meaningful when HasEfficiency is true.
	MeanEfficiency float64

	// HasEfficiency is true if at least one session recorded an efficiency.
	HasEfficiency bool

	// ComputedAt is when this snapshot was built.
	ComputedAt time.Time
}

// ComputeStats builds a deterministic Stats snapshot from a user's sessions.
// The input order of sessions does not matter.
func ComputeStats(userID UserID, sessions []*StudySession) Stats {
	stats := Stats{
		UserID:     userID,
		ComputedAt: time.Now().UTC(),
	}

	var efficiencySum float64
	var efficiencyCount int

	activeDays := make(map[time.Time]struct{})

	for _, session := range sessions {
		if session == nil {
			continue
		}

		stats.SessionCount++
		stats.TotalMinutes += session.DurationMinutes
		activeDays[session.Day()] = struct{}{}

		if session.Efficiency != nil {
			efficiencySum += *session.Efficiency
			efficiencyCount++
		}
	}

	if efficiencyCount > 0 {
		stats.HasEfficiency = true
		stats.MeanEfficiency = efficiencySum / float64(efficiencyCount)
	}

	stats.LongestStreak = longestStreak(activeDays)

	return stats
}

// longestStreak returns the longest run of consecutive calendar days.
func longestStreak(activeDays map[time.Time]struct{}) int {
	if len(activeDays) == 0 {
		return 0
	}

	days := make([]time.Time, 0, len(activeDays))
	for day := range activeDays {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest := 1
	current := 1
	for i := 1; i < len(days); i++ {
		if timeutil.DaysBetween(days[i-1], days[i]) == 1 {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}

	return longest
}
