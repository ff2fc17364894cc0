package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeAt(t *testing.T) {
	birthday := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 34, AgeAt(birthday, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 35, AgeAt(birthday, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 35, AgeAt(birthday, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCareerStage(t *testing.T) {
	tests := []struct {
		age      int
		expected string
	}{
		{-1, ""},
		{22, "キャリア初期（20代前半まで）"},
		{25, "若手（20代後半）"},
		{29, "若手（20代後半）"},
		{30, "中堅（30代）"},
		{45, "ミドル（40代）"},
		{50, "シニア（50代以上）"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, CareerStage(tt.age), "age %d", tt.age)
	}
}

func TestProfile_Facts(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	birthday := time.Date(1992, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("nil profile", func(t *testing.T) {
		var p *Profile
		assert.Nil(t, p.Facts(now))
	})

	t.Run("no usable facts", func(t *testing.T) {
		p := &Profile{Gender: GenderPreferNotToSay}
		assert.Nil(t, p.Facts(now))
	})

	t.Run("age and gender", func(t *testing.T) {
		p := &Profile{Birthday: &birthday, Gender: GenderFemale}
		facts := p.Facts(now)
		require.NotNil(t, facts)
		assert.Equal(t, "中堅（30代）", facts.AgeBucket)
		assert.Equal(t, "女性", facts.GenderLabel)
	})
}

func TestUpdateProfileRequest_Validate(t *testing.T) {
	valid := UpdateProfileRequest{Birthday: "1990-01-31", Gender: "male"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&UpdateProfileRequest{Gender: "unknown"}).Validate())
	assert.Error(t, (&UpdateProfileRequest{Birthday: "31/01/1990"}).Validate())
	assert.NoError(t, (&UpdateProfileRequest{}).Validate())

	p, err := valid.ToProfile("owner-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", p.OwnerID)
	assert.Equal(t, GenderMale, p.Gender)
	require.NotNil(t, p.Birthday)
	assert.Equal(t, 1990, p.Birthday.Year())
}

func TestUpdateMemoRequest_Validate(t *testing.T) {
	empty := ""
	assert.NoError(t, (&UpdateMemoRequest{Memo: &empty}).Validate())
	assert.Error(t, (&UpdateMemoRequest{}).Validate())

	long := string(make([]rune, 2001))
	assert.Error(t, (&UpdateMemoRequest{Memo: &long}).Validate())
}
