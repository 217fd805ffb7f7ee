package postgres

import (
	"context"
	"fmt"

	"github.com/studyhub/study-badges-hub/internal/domain/activity"
)

// SessionRepository implements activity.SessionRepository using PostgreSQL.
type SessionRepository struct {
	conn *Connection
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(conn *Connection) *SessionRepository {
	return &SessionRepository{conn: conn}
}

// ListSessionsByUser returns every study session for a user, oldest first.
func (r *SessionRepository) ListSessionsByUser(ctx context.Context, userID activity.UserID) ([]*activity.StudySession, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT id, user_id, started_at, duration_minutes, efficiency
		FROM study_sessions
		WHERE user_id = $1
		ORDER BY started_at
	`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query study sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*activity.StudySession, 0)
	for rows.Next() {
		var s activity.StudySession
		var id, uid string

		if err := rows.Scan(&id, &uid, &s.StartedAt, &s.DurationMinutes, &s.Efficiency); err != nil {
			return nil, fmt.Errorf("failed to scan study session: %w", err)
		}

		s.ID = activity.SessionID(id)
		s.UserID = activity.UserID(uid)
		sessions = append(sessions, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read study sessions: %w", err)
	}

	return sessions, nil
}
