package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jonathan/career-diagnosis/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleRecord(ownerID string, createdAt time.Time) *types.DiagnosisRecord {
	return &types.DiagnosisRecord{
		OwnerID: ownerID,
		Answers: types.AnswerSet{
			"currentJob": types.TextAnswer("営業"),
			"skills": types.SkillAnswer(
				types.SkillRating{Skill: "生成AI活用", Level: types.SkillLearning},
				types.SkillRating{Skill: "Excel", Level: types.SkillExperienced},
				types.SkillRating{Skill: "英語", Level: types.SkillInterested},
			),
			"interests": types.ChoicesAnswer("AI・データ", "IT・Web"),
			"goal":      {},
		},
		Result: types.DiagnosisResult{
			CareerType: "DXブリッジ人材型",
			Summary:    "営業経験を活かせます",
			Strengths:  []string{"顧客折衝", "Excel"},
			Recommendations: []types.Recommendation{
				types.JobRecommendationOf(types.JobRecommendation{JobTitle: "DX推進担当", Fit: "高"}),
				types.TextRecommendation("カスタマーサクセス"),
			},
			Roadmap:          types.Roadmap{ShortTerm: "①学ぶ", MidTerm: "1. 転職", LongTerm: "リーダー"},
			SalaryProjection: &types.SalaryProjection{Current: types.Salary(450), ShortTerm: types.Salary(480.5), MidTerm: types.Salary(600), LongTerm: types.Salary(800)},
		},
		Memo:      "メモ",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestDocConversion_RoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	rec := sampleRecord("owner", createdAt)

	doc, err := toDoc(rec)
	require.NoError(t, err)
	doc.ID = primitive.NewObjectID()

	got, err := fromDoc(doc)
	require.NoError(t, err)

	assert.Equal(t, doc.ID.Hex(), got.ID)
	assert.Equal(t, rec.OwnerID, got.OwnerID)
	assert.Equal(t, rec.Result, got.Result)
	assert.Equal(t, rec.Memo, got.Memo)
	assert.Equal(t, createdAt, got.CreatedAt)

	skills := got.Answers.Get("skills").Skills()
	require.Len(t, skills, 3)
	assert.Equal(t, []string{"生成AI活用", "Excel", "英語"}, []string{skills[0].Skill, skills[1].Skill, skills[2].Skill})
	assert.Equal(t, []string{"AI・データ", "IT・Web"}, got.Answers.Get("interests").Choices())
	assert.Equal(t, types.ShapeNone, got.Answers.Get("goal").Shape())
}

func TestDocConversion_SkillOrderInDocument(t *testing.T) {
	doc, err := toDoc(sampleRecord("owner", time.Now()))
	require.NoError(t, err)

	var skills any
	for _, e := range doc.Answers {
		if e.Key == "skills" {
			skills = e.Value
		}
	}
	require.NotNil(t, skills)
	// Nested objects decode into ordered documents
	d, ok := skills.(primitive.D)
	require.True(t, ok, "skills stored as %T", skills)
	require.Len(t, d, 3)
	assert.Equal(t, "生成AI活用", d[0].Key)
	assert.Equal(t, "英語", d[2].Key)
}

func TestDocConversion_NilAnswers(t *testing.T) {
	rec := sampleRecord("owner", time.Now())
	rec.Answers = nil

	doc, err := toDoc(rec)
	require.NoError(t, err)
	assert.Empty(t, doc.Answers)

	got, err := fromDoc(doc)
	require.NoError(t, err)
	assert.Empty(t, got.Answers)
}

func setupTestStore(t *testing.T) *Store {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := Connect(ctx, uri, "career_diagnosis_test")
	if err != nil {
		t.Skipf("Skipping integration test: %v", err)
	}
	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

func TestIntegration_DiagnosisCRUD(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	defer func() { _ = s.Close(ctx) }()

	owner := "owner-" + primitive.NewObjectID().Hex()
	base := time.Now().UTC().Truncate(time.Millisecond)

	olderID, err := s.CreateDiagnosis(ctx, sampleRecord(owner, base))
	require.NoError(t, err)
	newerID, err := s.CreateDiagnosis(ctx, sampleRecord(owner, base.Add(time.Second)))
	require.NoError(t, err)
	defer func() {
		_ = s.DeleteDiagnosis(ctx, olderID)
		_ = s.DeleteDiagnosis(ctx, newerID)
	}()

	got, err := s.GetDiagnosis(ctx, olderID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "DXブリッジ人材型", got.Result.CareerType)

	list, err := s.ListDiagnosesByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newerID, list[0].ID)

	require.NoError(t, s.UpdateDiagnosisMemo(ctx, olderID, "更新", base.Add(time.Hour)))
	got, err = s.GetDiagnosis(ctx, olderID)
	require.NoError(t, err)
	assert.Equal(t, "更新", got.Memo)

	require.NoError(t, s.DeleteDiagnosis(ctx, olderID))
	got, err = s.GetDiagnosis(ctx, olderID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.GetDiagnosis(ctx, "not-an-object-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIntegration_Profiles(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	defer func() { _ = s.Close(ctx) }()

	owner := "owner-" + primitive.NewObjectID().Hex()
	p, err := s.GetProfile(ctx, owner)
	require.NoError(t, err)
	assert.Nil(t, p)

	birthday := time.Date(1995, 1, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpsertProfile(ctx, &types.Profile{OwnerID: owner, Birthday: &birthday, Gender: types.GenderMale}))

	p, err = s.GetProfile(ctx, owner)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, types.GenderMale, p.Gender)
	assert.True(t, birthday.Equal(*p.Birthday))
}
