package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/apply-agent/internal/types"
)

// StoredProfile is a persisted candidate profile with metadata.
type StoredProfile struct {
	ID        uuid.UUID
	Name      string
	Profile   *types.Profile
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaveProfile inserts or updates a profile. A nil ID creates a new row.
func (db *DB) SaveProfile(ctx context.Context, id uuid.UUID, name string, profile *types.Profile) (uuid.UUID, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	if name == "" {
		name = profile.DisplayName()
	}
	_, err = db.pool.Exec(ctx,
		`INSERT INTO profiles (id, name, data)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = $2, data = $3, updated_at = NOW()`,
		id, name, data,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return id, nil
}

// GetProfile retrieves a profile by ID. Returns nil when not found.
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*StoredProfile, error) {
	var sp StoredProfile
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, data, created_at, updated_at FROM profiles WHERE id = $1`,
		id,
	).Scan(&sp.ID, &sp.Name, &data, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	sp.Profile = &types.Profile{}
	if err := json.Unmarshal(data, sp.Profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", id, err)
	}
	return &sp, nil
}

// ListProfiles returns all stored profiles, newest first, without the
// full profile payload.
func (db *DB) ListProfiles(ctx context.Context) ([]StoredProfile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM profiles ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var out []StoredProfile
	for rows.Next() {
		var sp StoredProfile
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// DeleteProfile removes a profile by ID.
func (db *DB) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
