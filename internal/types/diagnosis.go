package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DiagnosisResult is the structured verdict recovered from the model output
type DiagnosisResult struct {
	CareerType       string            `json:"careerType"`
	Catchphrase      string            `json:"catchphrase,omitempty"`
	Summary          string            `json:"summary"`
	Strengths        []string          `json:"strengths"`
	GapAnalysis      string            `json:"gapAnalysis,omitempty"`
	Recommendations  []Recommendation  `json:"recommendations"`
	RiskAnalysis     string            `json:"riskAnalysis,omitempty"`
	Roadmap          Roadmap           `json:"roadmap"`
	SalaryProjection *SalaryProjection `json:"salaryProjection,omitempty"`
}

// Roadmap holds the raw prose for each plan phase
type Roadmap struct {
	ShortTerm string `json:"shortTerm"`
	MidTerm   string `json:"midTerm"`
	LongTerm  string `json:"longTerm"`
}

// SalaryProjection is the projected annual salary per phase, in 万円. Each
// phase is optional; nil means the model gave no figure.
type SalaryProjection struct {
	Current   *float64 `json:"current,omitempty"`
	ShortTerm *float64 `json:"shortTerm,omitempty"`
	MidTerm   *float64 `json:"midTerm,omitempty"`
	LongTerm  *float64 `json:"longTerm,omitempty"`
}

// IsEmpty reports whether no phase carries a figure
func (sp *SalaryProjection) IsEmpty() bool {
	return sp == nil || (sp.Current == nil && sp.ShortTerm == nil && sp.MidTerm == nil && sp.LongTerm == nil)
}

// Salary returns a pointer to v for building projections
func Salary(v float64) *float64 {
	return &v
}

// Clone returns a copy that shares no memory with sp
func (sp *SalaryProjection) Clone() *SalaryProjection {
	if sp == nil {
		return nil
	}
	return &SalaryProjection{
		Current:   cloneFloat(sp.Current),
		ShortTerm: cloneFloat(sp.ShortTerm),
		MidTerm:   cloneFloat(sp.MidTerm),
		LongTerm:  cloneFloat(sp.LongTerm),
	}
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Salary(*v)
}

// Clone returns a deep copy of the result
func (r DiagnosisResult) Clone() DiagnosisResult {
	out := r
	if r.Strengths != nil {
		out.Strengths = append([]string{}, r.Strengths...)
	}
	if r.Recommendations != nil {
		out.Recommendations = append([]Recommendation{}, r.Recommendations...)
	}
	out.SalaryProjection = r.SalaryProjection.Clone()
	return out
}

// RecommendationKind tags which arm of Recommendation is populated
type RecommendationKind int

const (
	// RecommendationText is the legacy bare job-title string
	RecommendationText RecommendationKind = iota
	// RecommendationJob is the structured job recommendation
	RecommendationJob
)

// JobRecommendation is the structured recommendation shape
type JobRecommendation struct {
	JobTitle    string `json:"jobTitle"`
	SalaryRange string `json:"salaryRange,omitempty"`
	Fit         string `json:"fit,omitempty"`
}

// Recommendation is either a bare string or a JobRecommendation. The model
// may produce either shape, and both are stored as produced.
type Recommendation struct {
	Kind RecommendationKind
	Text string
	Job  JobRecommendation
}

// TextRecommendation builds the legacy string arm
func TextRecommendation(text string) Recommendation {
	return Recommendation{Kind: RecommendationText, Text: text}
}

// JobRecommendationOf builds the structured arm
func JobRecommendationOf(job JobRecommendation) Recommendation {
	return Recommendation{Kind: RecommendationJob, Job: job}
}

// Title returns the job title regardless of arm
func (r Recommendation) Title() string {
	switch r.Kind {
	case RecommendationText:
		return r.Text
	case RecommendationJob:
		return r.Job.JobTitle
	default:
		return ""
	}
}

// MarshalJSON writes a string for the text arm and an object for the job arm
func (r Recommendation) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RecommendationText:
		return json.Marshal(r.Text)
	case RecommendationJob:
		return json.Marshal(r.Job)
	default:
		return nil, fmt.Errorf("unknown recommendation kind %d", r.Kind)
	}
}

// UnmarshalJSON accepts a JSON string or a JSON object
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty recommendation")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*r = TextRecommendation(s)
		return nil
	case '{':
		var job JobRecommendation
		if err := json.Unmarshal(trimmed, &job); err != nil {
			return err
		}
		*r = JobRecommendationOf(job)
		return nil
	default:
		return fmt.Errorf("recommendation must be a string or an object, got %s", trimmed)
	}
}

// DiagnosisRecord is a persisted diagnosis. Only Memo and UpdatedAt change
// after creation.
type DiagnosisRecord struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId"`
	Answers   AnswerSet       `json:"answers"`
	Result    DiagnosisResult `json:"result"`
	Memo      string          `json:"memo"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Clone returns a deep copy of the record
func (r *DiagnosisRecord) Clone() *DiagnosisRecord {
	out := *r
	out.Answers = r.Answers.Clone()
	out.Result = r.Result.Clone()
	return &out
}

// Summary projects the record for history listings
func (r *DiagnosisRecord) Summary() DiagnosisSummary {
	return DiagnosisSummary{
		ID:         r.ID,
		CareerType: r.Result.CareerType,
		Summary:    r.Result.Summary,
		CreatedAt:  r.CreatedAt,
	}
}

// DiagnosisSummary is the list view of a record
type DiagnosisSummary struct {
	ID         string    `json:"id"`
	CareerType string    `json:"careerType"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RoadmapSegment is one roadmap phase split into a heading and ordered steps.
// It is derived at read time and never persisted.
type RoadmapSegment struct {
	Heading string   `json:"heading,omitempty"`
	Steps   []string `json:"steps"`
}

// RoadmapView is the segmented form of all three phases
type RoadmapView struct {
	ShortTerm RoadmapSegment `json:"shortTerm"`
	MidTerm   RoadmapSegment `json:"midTerm"`
	LongTerm  RoadmapSegment `json:"longTerm"`
}
