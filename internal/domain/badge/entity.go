// Package badge contains the badge catalog domain model and the requirement
// evaluation logic that decides whether a user's activity statistics satisfy
// a badge's earning rule.
package badge

import (
	"errors"
	"fmt"

	"github.com/studyhub/study-badges-hub/internal/domain/activity"
)

// Domain errors for badge package.
var (
	ErrInvalidBadgeID         = errors.New("badge: invalid badge ID")
	ErrInvalidUserID          = errors.New("badge: invalid user ID")
	ErrEmptyTitle             = errors.New("badge: title cannot be empty")
	ErrNegativeRequirement    = errors.New("badge: requirement value cannot be negative")
	ErrUnknownRequirementKind = errors.New("badge: unknown requirement kind")
)

// BadgeID represents a unique identifier for a catalog badge.
type BadgeID string

// IsValid checks if the badge ID is valid.
func (b BadgeID) IsValid() bool {
	return b != ""
}

// String returns the string representation of BadgeID.
func (b BadgeID) String() string {
	return string(b)
}

// Category is a grouping label for badges (e.g. "consistency", "volume").
type Category string

// String returns the string representation of Category.
func (c Category) String() string {
	return string(c)
}

// RequirementKind is the closed set of comparison rules a badge can use.
// Catalog rows referencing any other kind are a data-integrity defect and
// surface ErrUnknownRequirementKind - they must never silently pass.
type RequirementKind string

const (
	// RequirementTotalSessions compares against the total session count.
	RequirementTotalSessions RequirementKind = "total_sessions"

	// RequirementTotalMinutes compares against the sum of study minutes.
	RequirementTotalMinutes RequirementKind = "total_minutes"

	// RequirementStreakDays compares against the longest daily streak.
	RequirementStreakDays RequirementKind = "streak_days"

	// RequirementEfficiency compares against the mean session efficiency.
	RequirementEfficiency RequirementKind = "efficiency_threshold"
)

// IsValid checks if the requirement kind is one of the known kinds.
func (k RequirementKind) IsValid() bool {
	switch k {
	case RequirementTotalSessions, RequirementTotalMinutes, RequirementStreakDays, RequirementEfficiency:
		return true
	default:
		return false
	}
}

// String returns the string representation of RequirementKind.
func (k RequirementKind) String() string {
	return string(k)
}

// Requirement is a single threshold-based earning rule.
type Requirement struct {
	Kind  RequirementKind
	Value float64
}

// SatisfiedBy reports whether the given statistics snapshot meets the
// requirement. All comparisons are inclusive (>=): a threshold is a minimum
// bar, and a user who exactly meets it qualifies. Once satisfied, a
// requirement stays satisfied for any componentwise-greater snapshot.
func (r Requirement) SatisfiedBy(stats activity.Stats) (bool, error) {
	switch r.Kind {
	case RequirementTotalSessions:
		return float64(stats.SessionCount) >= r.Value, nil
	case RequirementTotalMinutes:
		return float64(stats.TotalMinutes) >= r.Value, nil
	case RequirementStreakDays:
		return float64(stats.LongestStreak) >= r.Value, nil
	case RequirementEfficiency:
		// Not evaluable without at least one recorded efficiency:
		// not-yet-satisfied rather than an error.
		if !stats.HasEfficiency {
			return false, nil
		}
		return stats.MeanEfficiency >= r.Value, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownRequirementKind, r.Kind)
	}
}

// Badge is a catalog entry: a single achievement with display metadata and
// one threshold-based requirement. Catalog entries are owned by the
// persistence store and read-only to the engine.
type Badge struct {
	ID          BadgeID
	Title       string
	Description string
	Icon        string
	Category    Category
	Requirement Requirement
}

// NewBadge creates a catalog badge with validation.
func NewBadge(id BadgeID, title string, requirement Requirement) (*Badge, error) {
	if !id.IsValid() {
		return nil, ErrInvalidBadgeID
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if !requirement.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRequirementKind, requirement.Kind)
	}
	if requirement.Value < 0 {
		return nil, ErrNegativeRequirement
	}

	return &Badge{
		ID:          id,
		Title:       title,
		Requirement: requirement,
	}, nil
}

// Satisfied reports whether stats satisfy this badge's requirement.
func (b *Badge) Satisfied(stats activity.Stats) (bool, error) {
	return b.Requirement.SatisfiedBy(stats)
}

// String returns a string representation for logging.
func (b *Badge) String() string {
	return fmt.Sprintf("Badge{ID: %s, Title: %s, Rule: %s >= %g}",
		b.ID, b.Title, b.Requirement.Kind, b.Requirement.Value)
}

// Catalog is an ordered list of badges. The order is the catalog's natural
// (id/insertion) order and determines evaluation order in an award pass.
type Catalog []Badge

// Without returns the catalog entries whose IDs are not in earned,
// preserving catalog order.
func (c Catalog) Without(earned map[BadgeID]struct{}) Catalog {
	if len(earned) == 0 {
		return c
	}
	remaining := make(Catalog, 0, len(c))
	for _, b := range c {
		if _, ok := earned[b.ID]; !ok {
			remaining = append(remaining, b)
		}
	}
	return remaining
}

// ByID returns the badge with the given ID, or nil if absent.
func (c Catalog) ByID(id BadgeID) *Badge {
	for i := range c {
		if c[i].ID == id {
			return &c[i]
		}
	}
	return nil
}

// Count returns the number of badges in the catalog.
func (c Catalog) Count() int {
	return len(c)
}
