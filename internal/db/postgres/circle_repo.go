package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"SkillLog/internal/core/circles"
)

type postgresCircleRepo struct {
	db *sql.DB
}

// NewCircleRepository creates a new PostgreSQL circle repository
func NewCircleRepository(db *sql.DB) circles.Repository {
	return &postgresCircleRepo{db: db}
}

const circleColumns = `id, name, description, created_by, is_private, created_at`

func scanCircle(row rowScanner) (*circles.Circle, error) {
	c := &circles.Circle{}
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy, &c.IsPrivate, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a circle
func (r *postgresCircleRepo) Create(ctx context.Context, circle *circles.Circle) (*circles.Circle, error) {
	query := `
		INSERT INTO circles (name, description, created_by, is_private)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + circleColumns

	created, err := scanCircle(r.db.QueryRowContext(ctx, query,
		circle.Name, circle.Description, circle.CreatedBy, circle.IsPrivate))
	if err != nil {
		if isUniqueViolation(err, "unique_circle_name") {
			return nil, circles.ErrCircleExists
		}
		return nil, fmt.Errorf("failed to create circle: %w", err)
	}
	return created, nil
}

// GetByName retrieves a circle by its unique name
func (r *postgresCircleRepo) GetByName(ctx context.Context, name string) (*circles.Circle, error) {
	query := `SELECT ` + circleColumns + ` FROM circles WHERE name = $1`

	c, err := scanCircle(r.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, circles.ErrCircleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get circle: %w", err)
	}
	return c, nil
}

// List returns the circles visible to viewerID, by name
func (r *postgresCircleRepo) List(ctx context.Context, viewerID string) ([]*circles.Circle, error) {
	query := `
		SELECT ` + circleColumns + `
		FROM circles
		WHERE NOT is_private OR created_by = $1
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list circles: %w", err)
	}
	defer closeRows(rows)

	result := []*circles.Circle{}
	for rows.Next() {
		c, err := scanCircle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan circle row: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating circle rows: %w", err)
	}
	return result, nil
}

// CreateMessage persists a chat message
func (r *postgresCircleRepo) CreateMessage(ctx context.Context, msg *circles.Message) (*circles.Message, error) {
	query := `
		INSERT INTO circle_messages (circle_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, circle_id, user_id, content, created_at`

	m := &circles.Message{}
	err := r.db.QueryRowContext(ctx, query, msg.CircleID, msg.UserID, msg.Content).
		Scan(&m.ID, &m.CircleID, &m.UserID, &m.Content, &m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, circles.ErrCircleNotFound
		}
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return m, nil
}

// ListMessages returns the newest limit messages in chronological order
func (r *postgresCircleRepo) ListMessages(ctx context.Context, circleID string, limit int) ([]*circles.Message, error) {
	query := `
		SELECT id, circle_id, user_id, content, created_at FROM (
			SELECT id, circle_id, user_id, content, created_at
			FROM circle_messages
			WHERE circle_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, circleID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer closeRows(rows)

	result := []*circles.Message{}
	for rows.Next() {
		m := &circles.Message{}
		if err := rows.Scan(&m.ID, &m.CircleID, &m.UserID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return result, nil
}
