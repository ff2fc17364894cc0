package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/career-diagnosis/internal/types"
)

// CreateDiagnosis inserts a record and returns its generated UUID
func (db *DB) CreateDiagnosis(ctx context.Context, rec *types.DiagnosisRecord) (string, error) {
	answersJSON, err := json.Marshal(rec.Answers)
	if err != nil {
		return "", fmt.Errorf("failed to marshal answers: %w", err)
	}
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO diagnoses (owner_id, answers, result, memo, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		rec.OwnerID, answersJSON, resultJSON, rec.Memo, rec.CreatedAt, rec.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create diagnosis: %w", err)
	}
	return id.String(), nil
}

// GetDiagnosis retrieves a record by ID. Unknown and malformed IDs return nil.
func (db *DB) GetDiagnosis(ctx context.Context, id string) (*types.DiagnosisRecord, error) {
	diagnosisID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	var rec types.DiagnosisRecord
	var recID uuid.UUID
	var answersJSON, resultJSON []byte
	err = db.pool.QueryRow(ctx,
		`SELECT id, owner_id, answers, result, memo, created_at, updated_at
		 FROM diagnoses WHERE id = $1`,
		diagnosisID,
	).Scan(&recID, &rec.OwnerID, &answersJSON, &resultJSON, &rec.Memo, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get diagnosis: %w", err)
	}

	rec.ID = recID.String()
	if err := json.Unmarshal(answersJSON, &rec.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	if err := json.Unmarshal(resultJSON, &rec.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &rec, nil
}

// UpdateDiagnosisMemo sets the memo and updated_at of a record
func (db *DB) UpdateDiagnosisMemo(ctx context.Context, id, memo string, updatedAt time.Time) error {
	diagnosisID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid diagnosis id %q: %w", id, err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE diagnoses SET memo = $1, updated_at = $2 WHERE id = $3`,
		memo, updatedAt, diagnosisID,
	)
	if err != nil {
		return fmt.Errorf("failed to update diagnosis memo: %w", err)
	}
	return nil
}

// DeleteDiagnosis deletes a record
func (db *DB) DeleteDiagnosis(ctx context.Context, id string) error {
	diagnosisID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid diagnosis id %q: %w", id, err)
	}
	if _, err := db.pool.Exec(ctx, `DELETE FROM diagnoses WHERE id = $1`, diagnosisID); err != nil {
		return fmt.Errorf("failed to delete diagnosis: %w", err)
	}
	return nil
}

// ListDiagnosesByOwner lists an owner's diagnoses, newest first
func (db *DB) ListDiagnosesByOwner(ctx context.Context, ownerID string) ([]types.DiagnosisSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, result->>'careerType', result->>'summary', created_at
		 FROM diagnoses WHERE owner_id = $1
		 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list diagnoses: %w", err)
	}
	defer rows.Close()

	summaries := []types.DiagnosisSummary{}
	for rows.Next() {
		var s types.DiagnosisSummary
		var id uuid.UUID
		var careerType, summary *string
		if err := rows.Scan(&id, &careerType, &summary, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan diagnosis: %w", err)
		}
		s.ID = id.String()
		if careerType != nil {
			s.CareerType = *careerType
		}
		if summary != nil {
			s.Summary = *summary
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate diagnoses: %w", err)
	}
	return summaries, nil
}
