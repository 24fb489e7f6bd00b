package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"SkillLog/internal/core/outreach"
)

type postgresOutreachRepo struct {
	db *sql.DB
}

// NewOutreachRepository creates a new PostgreSQL outreach repository
func NewOutreachRepository(db *sql.DB) outreach.Repository {
	return &postgresOutreachRepo{db: db}
}

// Create stores a recruiter message
func (r *postgresOutreachRepo) Create(ctx context.Context, msg *outreach.Message) (*outreach.Message, error) {
	query := `
		INSERT INTO outreach_messages (developer_id, recruiter_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, developer_id, recruiter_id, message, created_at`

	m := &outreach.Message{}
	err := r.db.QueryRowContext(ctx, query, msg.DeveloperID, msg.RecruiterID, msg.Message).
		Scan(&m.ID, &m.DeveloperID, &m.RecruiterID, &m.Message, &m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, outreach.ErrDeveloperNotFound
		}
		return nil, fmt.Errorf("failed to create outreach message: %w", err)
	}
	return m, nil
}

// ListByDeveloper returns a developer's inbox, newest first
func (r *postgresOutreachRepo) ListByDeveloper(ctx context.Context, developerID string, limit, offset int) ([]*outreach.Message, error) {
	query := `
		SELECT id, developer_id, recruiter_id, message, created_at
		FROM outreach_messages
		WHERE developer_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, developerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list outreach messages: %w", err)
	}
	defer closeRows(rows)

	result := []*outreach.Message{}
	for rows.Next() {
		m := &outreach.Message{}
		if err := rows.Scan(&m.ID, &m.DeveloperID, &m.RecruiterID, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outreach row: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outreach rows: %w", err)
	}
	return result, nil
}
