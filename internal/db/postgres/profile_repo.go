package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"SkillLog/internal/core/profiles"
)

type postgresProfileRepo struct {
	db *sql.DB
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(db *sql.DB) profiles.Repository {
	return &postgresProfileRepo{db: db}
}

const profileColumns = `id, full_name, avatar_url, display_name, spotlight_summary,
	role, reputation, is_open_to_work, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*profiles.Profile, error) {
	p := &profiles.Profile{}
	err := row.Scan(&p.ID, &p.FullName, &p.AvatarURL, &p.DisplayName, &p.SpotlightSummary,
		&p.Role, &p.Reputation, &p.IsOpenToWork, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a profile. Concurrent first requests for the same user both
// succeed and see the same row.
func (r *postgresProfileRepo) Create(ctx context.Context, profile *profiles.Profile) (*profiles.Profile, error) {
	query := `
		INSERT INTO profiles (id, full_name, avatar_url, display_name, role, is_open_to_work)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.FullName, profile.AvatarURL, profile.DisplayName,
		string(profile.Role), profile.IsOpenToWork)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return r.GetByID(ctx, profile.ID)
}

// GetByID retrieves a profile by user id
func (r *postgresProfileRepo) GetByID(ctx context.Context, id string) (*profiles.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, profiles.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetByIDs retrieves multiple profiles in a single query.
// Missing profiles are not included in the result map.
func (r *postgresProfileRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*profiles.Profile, error) {
	if len(ids) == 0 {
		return make(map[string]*profiles.Profile), nil
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(ids), MaxBatchSize)
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles by ids: %w", err)
	}
	defer closeRows(rows)

	result := make(map[string]*profiles.Profile, len(ids))
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		result[p.ID] = p
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}

	return result, nil
}

// Update writes the user-editable columns
func (r *postgresProfileRepo) Update(ctx context.Context, profile *profiles.Profile) (*profiles.Profile, error) {
	query := `
		UPDATE profiles
		SET full_name = $2, avatar_url = $3, is_open_to_work = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns

	p, err := scanProfile(r.db.QueryRowContext(ctx, query,
		profile.ID, profile.FullName, profile.AvatarURL, profile.IsOpenToWork))
	if err == sql.ErrNoRows {
		return nil, profiles.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}

// ListOpenToWork returns open-to-work developers, highest reputation first
func (r *postgresProfileRepo) ListOpenToWork(ctx context.Context, minReputation, limit int) ([]*profiles.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE role = 'developer' AND is_open_to_work AND reputation >= $1
		ORDER BY reputation DESC, created_at ASC
		LIMIT $2`

	return r.list(ctx, query, minReputation, limit)
}

// ListTopDevelopers returns developers ordered by reputation
func (r *postgresProfileRepo) ListTopDevelopers(ctx context.Context, limit int) ([]*profiles.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE role = 'developer'
		ORDER BY reputation DESC, created_at ASC
		LIMIT $1`

	return r.list(ctx, query, limit)
}

// SetSpotlight stores a generated spotlight summary
func (r *postgresProfileRepo) SetSpotlight(ctx context.Context, id, summary string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET spotlight_summary = $2, updated_at = NOW() WHERE id = $1`, id, summary)
	if err != nil {
		return fmt.Errorf("failed to set spotlight: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return profiles.ErrProfileNotFound
	}
	return nil
}

func (r *postgresProfileRepo) list(ctx context.Context, query string, args ...interface{}) ([]*profiles.Profile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer closeRows(rows)

	var result []*profiles.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}
	return result, nil
}
