package diagnosis

import (
	"context"
	"time"

	"github.com/jonathan/career-diagnosis/internal/types"
)

// Store persists diagnosis records. Get returns (nil, nil) for unknown or
// malformed ids.
type Store interface {
	// CreateDiagnosis stores rec and returns the id it was assigned
	CreateDiagnosis(ctx context.Context, rec *types.DiagnosisRecord) (string, error)
	GetDiagnosis(ctx context.Context, id string) (*types.DiagnosisRecord, error)
	UpdateDiagnosisMemo(ctx context.Context, id, memo string, updatedAt time.Time) error
	DeleteDiagnosis(ctx context.Context, id string) error
	// ListDiagnosesByOwner returns summaries, newest first
	ListDiagnosesByOwner(ctx context.Context, ownerID string) ([]types.DiagnosisSummary, error)
}

// ProfileStore persists the optional per-owner profile. GetProfile returns
// (nil, nil) when the owner has none.
type ProfileStore interface {
	GetProfile(ctx context.Context, ownerID string) (*types.Profile, error)
	UpsertProfile(ctx context.Context, profile *types.Profile) error
}
