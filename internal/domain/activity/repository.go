// Package activity contains domain entities and business logic for study
// sessions and derived activity statistics.
package activity

import (
	"context"
)

// SessionRepository defines the interface for study-session persistence reads.
// This interface is implemented by the infrastructure layer.
// The domain layer has no knowledge of the actual storage mechanism.
type SessionRepository interface {
	// ListSessionsByUser returns every recorded study session for a user,
	// ordered by start time (oldest first). A user with no sessions yields
	// an empty slice, not an error.
	ListSessionsByUser(ctx context.Context, userID UserID) ([]*StudySession, error)
}
