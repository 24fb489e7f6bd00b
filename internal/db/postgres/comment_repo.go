package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"SkillLog/internal/core/comments"
)

type postgresCommentRepo struct {
	db *sql.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sql.DB) comments.Repository {
	return &postgresCommentRepo{db: db}
}

const commentColumns = `c.id, c.log_id, c.user_id, c.content, c.upvotes, c.created_at`

func scanComment(row rowScanner) (*comments.Comment, error) {
	c := &comments.Comment{}
	if err := row.Scan(&c.ID, &c.LogID, &c.UserID, &c.Content, &c.Upvotes, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a comment and increments the log's comment count atomically
func (r *postgresCommentRepo) Create(ctx context.Context, comment *comments.Comment) (*comments.Comment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	query := `
		INSERT INTO comments AS c (log_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING ` + commentColumns

	created, err := scanComment(tx.QueryRowContext(ctx, query, comment.LogID, comment.UserID, comment.Content))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, comments.ErrLogNotFound
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE logs SET comment_count = comment_count + 1 WHERE id = $1`, comment.LogID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment comment count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// GetByID retrieves a comment by id
func (r *postgresCommentRepo) GetByID(ctx context.Context, id string) (*comments.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments c WHERE c.id = $1`

	c, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, comments.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

// ListByLog returns comments on a log, oldest first
func (r *postgresCommentRepo) ListByLog(ctx context.Context, logID string, limit, offset int) ([]*comments.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		WHERE c.log_id = $1
		ORDER BY c.created_at ASC, c.id ASC
		LIMIT $2 OFFSET $3`

	return r.list(ctx, query, logID, limit, offset)
}

// ListByUser returns a user's comments on logs the viewer can see, newest first
func (r *postgresCommentRepo) ListByUser(ctx context.Context, userID, viewerID string, limit, offset int) ([]*comments.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN logs l ON l.id = c.log_id
		WHERE c.user_id = $1 AND (l.is_public OR l.user_id = $2)
		ORDER BY c.created_at DESC, c.id DESC
		LIMIT $3 OFFSET $4`

	return r.list(ctx, query, userID, viewerID, limit, offset)
}

func (r *postgresCommentRepo) list(ctx context.Context, query string, args ...interface{}) ([]*comments.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer closeRows(rows)

	result := []*comments.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return result, nil
}
