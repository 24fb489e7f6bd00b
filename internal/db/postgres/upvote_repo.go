package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"SkillLog/internal/core/toggles"
	"SkillLog/internal/core/upvotes"
)

type postgresUpvoteRepo struct {
	db *sql.DB
}

// NewUpvoteRepository creates a new PostgreSQL upvote repository
func NewUpvoteRepository(db *sql.DB) upvotes.Repository {
	return &postgresUpvoteRepo{db: db}
}

func itemTable(t toggles.ItemType) (string, error) {
	switch t {
	case toggles.ItemTypeLog:
		return "logs", nil
	case toggles.ItemTypeComment:
		return "comments", nil
	default:
		return "", fmt.Errorf("%w: %q", toggles.ErrInvalidItemType, t)
	}
}

// Apply runs the whole upvote change in one transaction. The item row is
// locked first so concurrent toggles on the same item serialize and the
// counter always equals the number of upvote rows.
func (r *postgresUpvoteRepo) Apply(ctx context.Context, voterID string, item toggles.Item, desired *bool) (*upvotes.Result, error) {
	table, err := itemTable(item.Type)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	var authorID string
	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT user_id, upvotes FROM `+table+` WHERE id = $1 FOR UPDATE`, item.ID).
		Scan(&authorID, &count)
	if err == sql.ErrNoRows {
		return nil, upvotes.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s row: %w", item.Type, err)
	}
	if authorID != item.AuthorID {
		return nil, upvotes.ErrAuthorMismatch
	}

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM upvotes WHERE voter_id = $1 AND item_type = $2 AND item_id = $3
		)`, voterID, string(item.Type), item.ID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing upvote: %w", err)
	}

	want := !exists
	if desired != nil {
		want = *desired
	}

	result := &upvotes.Result{ItemID: item.ID, ItemType: item.Type, Count: count, Upvoted: exists}
	if want == exists {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return result, nil
	}

	delta := 1
	if want {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO upvotes (voter_id, item_type, item_id) VALUES ($1, $2, $3)`,
			voterID, string(item.Type), item.ID)
	} else {
		delta = -1
		_, err = tx.ExecContext(ctx,
			`DELETE FROM upvotes WHERE voter_id = $1 AND item_type = $2 AND item_id = $3`,
			voterID, string(item.Type), item.ID)
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("voter %s has no profile: %w", voterID, err)
		}
		return nil, fmt.Errorf("failed to write upvote: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`UPDATE `+table+` SET upvotes = GREATEST(upvotes + $2, 0) WHERE id = $1 RETURNING upvotes`,
		item.ID, delta).Scan(&result.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s counter: %w", item.Type, err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE profiles
		SET reputation = GREATEST(reputation + $2, 0), updated_at = NOW()
		WHERE id = $1`, authorID, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to update author reputation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	result.Upvoted = want
	result.Changed = true
	return result, nil
}

// ListUpvoted returns the voter's upvotes, newest first
func (r *postgresUpvoteRepo) ListUpvoted(ctx context.Context, voterID string, itemType toggles.ItemType) ([]upvotes.Upvote, error) {
	query := `
		SELECT voter_id, item_id, item_type, created_at
		FROM upvotes
		WHERE voter_id = $1 AND ($2 = '' OR item_type = $2)
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, voterID, string(itemType))
	if err != nil {
		return nil, fmt.Errorf("failed to list upvotes: %w", err)
	}
	defer closeRows(rows)

	result := []upvotes.Upvote{}
	for rows.Next() {
		var u upvotes.Upvote
		if err := rows.Scan(&u.VoterID, &u.ItemID, &u.ItemType, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upvote row: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating upvote rows: %w", err)
	}
	return result, nil
}

// Recount rebuilds item counters and reputation from the upvotes table. Only
// rows that drifted are written.
func (r *postgresUpvoteRepo) Recount(ctx context.Context) (*upvotes.RecountStats, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	stats := &upvotes.RecountStats{}

	logsQuery := `
		UPDATE logs l
		SET upvotes = s.upvotes, comment_count = s.comments
		FROM (
			SELECT l2.id,
				(SELECT COUNT(*) FROM upvotes u WHERE u.item_type = 'log' AND u.item_id = l2.id) AS upvotes,
				(SELECT COUNT(*) FROM comments c WHERE c.log_id = l2.id) AS comments
			FROM logs l2
		) s
		WHERE l.id = s.id AND (l.upvotes <> s.upvotes OR l.comment_count <> s.comments)`
	if stats.LogsUpdated, err = execCount(ctx, tx, logsQuery); err != nil {
		return nil, fmt.Errorf("failed to recount logs: %w", err)
	}

	commentsQuery := `
		UPDATE comments c
		SET upvotes = s.upvotes
		FROM (
			SELECT c2.id,
				(SELECT COUNT(*) FROM upvotes u WHERE u.item_type = 'comment' AND u.item_id = c2.id) AS upvotes
			FROM comments c2
		) s
		WHERE c.id = s.id AND c.upvotes <> s.upvotes`
	if stats.CommentsUpdated, err = execCount(ctx, tx, commentsQuery); err != nil {
		return nil, fmt.Errorf("failed to recount comments: %w", err)
	}

	profilesQuery := `
		UPDATE profiles p
		SET reputation = s.total, updated_at = NOW()
		FROM (
			SELECT p2.id,
				COALESCE((SELECT SUM(upvotes) FROM logs WHERE user_id = p2.id), 0) +
				COALESCE((SELECT SUM(upvotes) FROM comments WHERE user_id = p2.id), 0) AS total
			FROM profiles p2
		) s
		WHERE p.id = s.id AND p.reputation <> s.total`
	if stats.ProfilesUpdated, err = execCount(ctx, tx, profilesQuery); err != nil {
		return nil, fmt.Errorf("failed to recount reputation: %w", err)
	}

	// Upvotes on deleted items cannot be reversed anymore
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM upvotes u
		WHERE (u.item_type = 'log' AND NOT EXISTS (SELECT 1 FROM logs WHERE id = u.item_id))
		   OR (u.item_type = 'comment' AND NOT EXISTS (SELECT 1 FROM comments WHERE id = u.item_id))`); err != nil {
		return nil, fmt.Errorf("failed to delete orphaned upvotes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return stats, nil
}

func execCount(ctx context.Context, tx *sql.Tx, query string) (int, error) {
	res, err := tx.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
