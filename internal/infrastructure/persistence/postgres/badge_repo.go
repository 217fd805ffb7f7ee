package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/studyhub/study-badges-hub/internal/domain/badge"
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE CATALOG REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// BadgeCatalogRepository implements badge.CatalogRepository using PostgreSQL.
// The catalog is read-only to the engine.
type BadgeCatalogRepository struct {
	conn *Connection
}

// NewBadgeCatalogRepository creates a new BadgeCatalogRepository.
func NewBadgeCatalogRepository(conn *Connection) *BadgeCatalogRepository {
	return &BadgeCatalogRepository{conn: conn}
}

// ListBadges returns the full catalog ordered by id.
// The id order is the catalog's natural order and fixes the evaluation order
// of an award pass.
func (r *BadgeCatalogRepository) ListBadges(ctx context.Context) (badge.Catalog, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, title, description, icon, category, requirement_type, requirement_value
		FROM badges
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query badge catalog: %w", err)
	}
	defer rows.Close()

	catalog := make(badge.Catalog, 0)
	for rows.Next() {
		var b badge.Badge
		var id, category, requirementType string

		if err := rows.Scan(&id, &b.Title, &b.Description, &b.Icon, &category,
			&requirementType, &b.Requirement.Value); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}

		b.ID = badge.BadgeID(id)
		b.Category = badge.Category(category)
		b.Requirement.Kind = badge.RequirementKind(requirementType)
		catalog = append(catalog, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read badge catalog: %w", err)
	}

	return catalog, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// AWARD REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// AwardRepository implements badge.AwardRepository using PostgreSQL.
// The user_badges table carries a UNIQUE (user_id, badge_id) constraint;
// that constraint, not application code, enforces at-most-once awarding.
type AwardRepository struct {
	conn *Connection
}

// NewAwardRepository creates a new AwardRepository.
func NewAwardRepository(conn *Connection) *AwardRepository {
	return &AwardRepository{conn: conn}
}

// ListAwardsByUser returns all awards for a user, newest first.
func (r *AwardRepository) ListAwardsByUser(ctx context.Context, userID string) ([]*badge.Award, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT user_id, badge_id, achieved_at
		FROM user_badges
		WHERE user_id = $1
		ORDER BY achieved_at DESC, badge_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query awards: %w", err)
	}
	defer rows.Close()

	return scanAwards(rows)
}

// ListAllAwards returns every award across all users.
func (r *AwardRepository) ListAllAwards(ctx context.Context) ([]*badge.Award, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT user_id, badge_id, achieved_at
		FROM user_badges
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query awards: %w", err)
	}
	defer rows.Close()

	return scanAwards(rows)
}

// InsertAwardIfAbsent inserts the award unless the (user_id, badge_id) pair
// already exists. ON CONFLICT DO NOTHING makes concurrent inserts of the same
// pair race safely: exactly one caller sees a row created.
func (r *AwardRepository) InsertAwardIfAbsent(ctx context.Context, award *badge.Award) (bool, error) {
	tag, err := r.conn.Exec(ctx, `
		INSERT INTO user_badges (id, user_id, badge_id, achieved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`,
		uuid.NewString(),
		award.UserID,
		award.BadgeID.String(),
		award.AchievedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			// Unreachable with DO NOTHING, kept for schema variants without
			// the conflict target.
			return false, nil
		}
		return false, fmt.Errorf("failed to insert award: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// scanAwards reads award rows into domain entities.
func scanAwards(rows pgx.Rows) ([]*badge.Award, error) {
	awards := make([]*badge.Award, 0)
	for rows.Next() {
		var a badge.Award
		var badgeID string

		if err := rows.Scan(&a.UserID, &badgeID, &a.AchievedAt); err != nil {
			return nil, fmt.Errorf("failed to scan award: %w", err)
		}

		a.BadgeID = badge.BadgeID(badgeID)
		awards = append(awards, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read awards: %w", err)
	}

	return awards, nil
}
