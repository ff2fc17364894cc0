package diagnosis

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/career-diagnosis/internal/types"
)

// MemoryStore is an in-process Store and ProfileStore. Records and profiles
// are deep-copied on the way in and out so callers cannot mutate stored state.
type MemoryStore struct {
	mu        sync.RWMutex
	diagnoses map[string]types.DiagnosisRecord
	profiles  map[string]types.Profile
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		diagnoses: make(map[string]types.DiagnosisRecord),
		profiles:  make(map[string]types.Profile),
	}
}

// CreateDiagnosis stores a copy of rec under a fresh UUID
func (m *MemoryStore) CreateDiagnosis(ctx context.Context, rec *types.DiagnosisRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	stored := rec.Clone()
	stored.ID = id
	m.diagnoses[id] = *stored
	return id, nil
}

// GetDiagnosis returns a copy of the record, or nil if absent
func (m *MemoryStore) GetDiagnosis(ctx context.Context, id string) (*types.DiagnosisRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.diagnoses[id]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

// UpdateDiagnosisMemo sets memo and updatedAt; unknown ids are a no-op
func (m *MemoryStore) UpdateDiagnosisMemo(ctx context.Context, id, memo string, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.diagnoses[id]
	if !ok {
		return nil
	}
	rec.Memo = memo
	rec.UpdatedAt = updatedAt
	m.diagnoses[id] = rec
	return nil
}

// DeleteDiagnosis removes the record; unknown ids are a no-op
func (m *MemoryStore) DeleteDiagnosis(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.diagnoses, id)
	return nil
}

// ListDiagnosesByOwner returns the owner's summaries, newest first
func (m *MemoryStore) ListDiagnosesByOwner(ctx context.Context, ownerID string) ([]types.DiagnosisSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := []types.DiagnosisSummary{}
	for _, rec := range m.diagnoses {
		if rec.OwnerID == ownerID {
			summaries = append(summaries, rec.Summary())
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID > summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// Len returns the number of stored diagnoses
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.diagnoses)
}

// GetProfile returns a copy of the owner's profile, or nil if absent
func (m *MemoryStore) GetProfile(ctx context.Context, ownerID string) (*types.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[ownerID]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

// UpsertProfile replaces the owner's profile
func (m *MemoryStore) UpsertProfile(ctx context.Context, profile *types.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[profile.OwnerID] = *profile.Clone()
	return nil
}
