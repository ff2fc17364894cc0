package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/career-diagnosis/internal/types"
)

// GetProfile retrieves a user's profile, or nil if none was saved
func (db *DB) GetProfile(ctx context.Context, ownerID string) (*types.Profile, error) {
	p := types.Profile{OwnerID: ownerID}
	var birthday *time.Time
	var gender string
	err := db.pool.QueryRow(ctx,
		`SELECT birthday, gender FROM user_profiles WHERE owner_id = $1`,
		ownerID,
	).Scan(&birthday, &gender)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.Birthday = birthday
	p.Gender = types.Gender(gender)
	return &p, nil
}

// UpsertProfile creates or replaces a user's profile
func (db *DB) UpsertProfile(ctx context.Context, profile *types.Profile) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_profiles (owner_id, birthday, gender, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (owner_id) DO UPDATE
		 SET birthday = EXCLUDED.birthday, gender = EXCLUDED.gender, updated_at = NOW()`,
		profile.OwnerID, profile.Birthday, string(profile.Gender),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
