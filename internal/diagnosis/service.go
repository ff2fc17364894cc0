// Package diagnosis runs the career-diagnosis pipeline and enforces record
// ownership.
package diagnosis

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/career-diagnosis/internal/llm"
	"github.com/jonathan/career-diagnosis/internal/observability"
	"github.com/jonathan/career-diagnosis/internal/parsing"
	"github.com/jonathan/career-diagnosis/internal/prompts"
	"github.com/jonathan/career-diagnosis/internal/questions"
	"github.com/jonathan/career-diagnosis/internal/roadmap"
	"github.com/jonathan/career-diagnosis/internal/types"
	"github.com/jonathan/career-diagnosis/internal/validation"
)

// Service runs submissions through validate, prompt, generate, extract and
// persist, in that order. Nothing is stored unless every step succeeds.
type Service struct {
	catalog  *questions.Catalog
	client   llm.Client
	store    Store
	profiles ProfileStore
	logger   *observability.Logger
	now      func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithProfiles enables profile facts in prompts and the profile operations
func WithProfiles(p ProfileStore) Option {
	return func(s *Service) { s.profiles = p }
}

// WithLogger sets the logger
func WithLogger(l *observability.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a diagnosis service
func NewService(catalog *questions.Catalog, client llm.Client, store Store, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		client:  client,
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.OrNop().With("component", "diagnosis")
	return s
}

// Catalog returns the questionnaire the service validates against
func (s *Service) Catalog() *questions.Catalog {
	return s.catalog
}

// Submit runs the full pipeline for one owner and returns the stored record.
// Failures are returned as *StageError.
func (s *Service) Submit(ctx context.Context, ownerID string, answers types.AnswerSet) (*types.DiagnosisRecord, error) {
	log := s.logger.With("owner_id", ownerID)
	qs := s.catalog.Questions()

	if err := validation.ValidateAnswers(qs, answers); err != nil {
		// User input problem, not a system fault
		log.Info("answers rejected", "error", err)
		return nil, &StageError{Stage: StageValidate, Code: CodeValidationFailed, Err: err}
	}

	facts := s.profileFacts(ctx, ownerID)
	prompt := prompts.BuildDiagnosisPrompt(qs, answers, facts)

	gen, err := s.client.Generate(ctx, prompt)
	if err != nil {
		log.Error("generation failed", "error", err)
		return nil, &StageError{Stage: StageGenerate, Code: CodeGenerationFailed, Err: err}
	}

	ex, err := parsing.Extract(gen.Text, gen.Truncated)
	if err != nil {
		code := extractionCode(err)
		fields := []any{"code", code, "error", err, "raw_output", gen.Text}
		if candidate, strategies, ok := parsing.Diagnostics(err); ok {
			fields = append(fields, "candidate", candidate, "strategies", parsing.StrategyNames(strategies))
		}
		log.Error("failed to extract diagnosis result", fields...)
		return nil, &StageError{Stage: StageExtract, Code: code, Err: err}
	}
	result := ex.Result
	log.Debug("diagnosis result extracted", "strategies", parsing.StrategyNames(ex.Strategies))

	// An abandoned request must not leave a record behind
	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: StagePersist, Code: CodePersistFailed, Err: err}
	}

	now := s.now().UTC()
	rec := &types.DiagnosisRecord{
		OwnerID:   ownerID,
		Answers:   answers,
		Result:    *result,
		Memo:      "",
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.store.CreateDiagnosis(ctx, rec)
	if err != nil {
		log.Error("failed to store diagnosis", "error", err)
		return nil, &StageError{Stage: StagePersist, Code: CodePersistFailed, Err: err}
	}
	rec.ID = id

	log.Info("diagnosis created", "diagnosis_id", id, "career_type", result.CareerType)
	return rec, nil
}

// profileFacts loads the owner's profile facts. A missing or failing
// profile store only drops the profile section from the prompt.
func (s *Service) profileFacts(ctx context.Context, ownerID string) *types.ProfileFacts {
	if s.profiles == nil {
		return nil
	}
	profile, err := s.profiles.GetProfile(ctx, ownerID)
	if err != nil {
		s.logger.Warn("failed to load profile, continuing without it", "owner_id", ownerID, "error", err)
		return nil
	}
	return profile.Facts(s.now())
}

// Get returns a record owned by ownerID
func (s *Service) Get(ctx context.Context, ownerID, id string) (*types.DiagnosisRecord, error) {
	rec, err := s.store.GetDiagnosis(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnosis: %w", err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	if rec.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return rec, nil
}

// View is a record plus its roadmap segmented for display
type View struct {
	*types.DiagnosisRecord
	RoadmapSegments types.RoadmapView `json:"roadmapSegments"`
}

// View returns a record with a freshly segmented roadmap
func (s *Service) View(ctx context.Context, ownerID, id string) (*View, error) {
	rec, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return &View{
		DiagnosisRecord: rec,
		RoadmapSegments: roadmap.SegmentRoadmap(rec.Result.Roadmap),
	}, nil
}

// UpdateMemo replaces the memo of a record owned by ownerID. Only the memo
// and updatedAt change.
func (s *Service) UpdateMemo(ctx context.Context, ownerID, id, memo string) (*types.DiagnosisRecord, error) {
	rec, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	updatedAt := s.now().UTC()
	if err := s.store.UpdateDiagnosisMemo(ctx, id, memo, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to update memo: %w", err)
	}
	rec.Memo = memo
	rec.UpdatedAt = updatedAt
	return rec, nil
}

// Delete removes a record owned by ownerID
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.store.DeleteDiagnosis(ctx, id); err != nil {
		return fmt.Errorf("failed to delete diagnosis: %w", err)
	}
	s.logger.Info("diagnosis deleted", "owner_id", ownerID, "diagnosis_id", id)
	return nil
}

// List returns the owner's diagnoses, newest first
func (s *Service) List(ctx context.Context, ownerID string) ([]types.DiagnosisSummary, error) {
	summaries, err := s.store.ListDiagnosesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list diagnoses: %w", err)
	}
	if summaries == nil {
		summaries = []types.DiagnosisSummary{}
	}
	return summaries, nil
}

// Profile returns the owner's profile; an owner without one gets an empty profile
func (s *Service) Profile(ctx context.Context, ownerID string) (*types.Profile, error) {
	if s.profiles == nil {
		return nil, ErrProfilesUnavailable
	}
	p, err := s.profiles.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if p == nil {
		p = &types.Profile{OwnerID: ownerID}
	}
	return p, nil
}

// UpdateProfile stores the owner's profile
func (s *Service) UpdateProfile(ctx context.Context, profile *types.Profile) error {
	if s.profiles == nil {
		return ErrProfilesUnavailable
	}
	if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
