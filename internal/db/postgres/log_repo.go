package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"SkillLog/internal/core/logs"
)

type postgresLogRepo struct {
	db *sql.DB
}

// NewLogRepository creates a new PostgreSQL log repository
func NewLogRepository(db *sql.DB) logs.Repository {
	return &postgresLogRepo{db: db}
}

const logColumns = `id, user_id, text, mood, image_url, github_url, live_url, tags,
	upvotes, comment_count, is_public, created_at`

func scanLog(row rowScanner) (*logs.LogEntry, error) {
	e := &logs.LogEntry{}
	var tags []string
	err := row.Scan(&e.ID, &e.UserID, &e.Text, &e.Mood, &e.ImageURL, &e.GitHubURL, &e.LiveURL,
		pq.Array(&tags), &e.Upvotes, &e.CommentCount, &e.IsPublic, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	e.Tags = tags
	return e, nil
}

// Create inserts a log. The creation timestamp is assigned by the database.
func (r *postgresLogRepo) Create(ctx context.Context, entry *logs.LogEntry) (*logs.LogEntry, error) {
	query := `
		INSERT INTO logs (user_id, text, mood, image_url, github_url, live_url, tags, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + logColumns

	created, err := scanLog(r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Text, string(entry.Mood), entry.ImageURL, entry.GitHubURL, entry.LiveURL,
		pq.Array(entry.Tags), entry.IsPublic))
	if err != nil {
		return nil, fmt.Errorf("failed to create log: %w", err)
	}
	return created, nil
}

// GetByID retrieves a log by id
func (r *postgresLogRepo) GetByID(ctx context.Context, id string) (*logs.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM logs WHERE id = $1`

	e, err := scanLog(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, logs.ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get log: %w", err)
	}
	return e, nil
}

// Delete removes a log, its comments and every upvote on either, and takes
// those upvotes back off the authors' reputation in one transaction.
func (r *postgresLogRepo) Delete(ctx context.Context, id string) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	var authorID string
	var upvotes int
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, upvotes FROM logs WHERE id = $1 FOR UPDATE`, id).Scan(&authorID, &upvotes)
	if err == sql.ErrNoRows {
		return nil, logs.ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock log: %w", err)
	}

	// Comment authors lose what their comments on this log earned
	_, err = tx.ExecContext(ctx, `
		UPDATE profiles p
		SET reputation = GREATEST(p.reputation - c.total, 0), updated_at = NOW()
		FROM (
			SELECT user_id, SUM(upvotes) AS total
			FROM comments
			WHERE log_id = $1
			GROUP BY user_id
		) c
		WHERE p.id = c.user_id AND c.total > 0`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reverse comment reputation: %w", err)
	}

	if upvotes > 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE profiles
			SET reputation = GREATEST(reputation - $2, 0), updated_at = NOW()
			WHERE id = $1`, authorID, upvotes)
		if err != nil {
			return nil, fmt.Errorf("failed to reverse log reputation: %w", err)
		}
	}

	rows, err := tx.QueryContext(ctx, `
		WITH removed AS (
			DELETE FROM upvotes
			WHERE (item_type = 'log' AND item_id = $1)
			   OR (item_type = 'comment' AND item_id IN (SELECT id FROM comments WHERE log_id = $1))
			RETURNING voter_id
		)
		SELECT DISTINCT voter_id FROM removed`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete upvotes: %w", err)
	}
	var voters []string
	for rows.Next() {
		var voter string
		if err := rows.Scan(&voter); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		voters = append(voters, voter)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("failed to read voters: %w", err)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read voters: %w", err)
	}

	// Comments go with the log via ON DELETE CASCADE
	if _, err := tx.ExecContext(ctx, `DELETE FROM logs WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return voters, nil
}

// ListPublic returns a page of the public feed
func (r *postgresLogRepo) ListPublic(ctx context.Context, q logs.FeedQuery) ([]*logs.LogEntry, error) {
	order := `created_at DESC, id DESC`
	if q.Sort == logs.SortTop {
		order = `upvotes DESC, created_at DESC, id DESC`
	}

	query := `
		SELECT ` + logColumns + `
		FROM logs
		WHERE is_public AND ($1 = '' OR $1 = ANY(tags))
		ORDER BY ` + order + `
		LIMIT $2 OFFSET $3`

	return r.list(ctx, query, q.Tag, q.Limit, q.Offset)
}

// ListByUser returns a user's logs, newest first
func (r *postgresLogRepo) ListByUser(ctx context.Context, userID string, includePrivate bool, limit, offset int) ([]*logs.LogEntry, error) {
	query := `
		SELECT ` + logColumns + `
		FROM logs
		WHERE user_id = $1 AND ($2 OR is_public)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`

	return r.list(ctx, query, userID, includePrivate, limit, offset)
}

// ListActivityTimes returns every creation timestamp for userID, newest first
func (r *postgresLogRepo) ListActivityTimes(ctx context.Context, userID string) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT created_at FROM logs WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity times: %w", err)
	}
	defer closeRows(rows)

	var times []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("failed to scan activity time: %w", err)
		}
		times = append(times, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return times, nil
}

func (r *postgresLogRepo) list(ctx context.Context, query string, args ...interface{}) ([]*logs.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer closeRows(rows)

	result := []*logs.LogEntry{}
	for rows.Next() {
		e, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log rows: %w", err)
	}
	return result, nil
}
