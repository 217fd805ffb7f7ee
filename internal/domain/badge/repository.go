package badge

import (
	"context"
)

// CatalogRepository defines read access to the badge catalog.
// Implemented by the infrastructure layer; the catalog is read-only here.
type CatalogRepository interface {
	// ListBadges returns the full catalog in its natural (id) order.
	ListBadges(ctx context.Context) (Catalog, error)
}

// AwardRepository defines persistence for user badge awards.
// Implemented by the infrastructure layer.
type AwardRepository interface {
	// ListAwardsByUser returns all awards for a user, newest first by
	// achieved_at. A user with no awards yields an empty slice, not an error.
	ListAwardsByUser(ctx context.Context, userID string) ([]*Award, error)

	// ListAllAwards returns every award across all users, for leaderboard
	// aggregation.
	ListAllAwards(ctx context.Context) ([]*Award, error)

	// InsertAwardIfAbsent persists the award unless one already exists for
	// the same (user_id, badge_id) pair. Returns true if a new record was
	// created, false if the pair already existed. A concurrent insert of the
	// same pair is not an error - exactly one caller observes true.
	InsertAwardIfAbsent(ctx context.Context, award *Award) (bool, error)
}
