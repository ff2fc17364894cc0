package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Gender is the optional self-reported gender
type Gender string

// Accepted gender values
const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

// Label returns the prompt label for the gender; empty when it should not be mentioned
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "男性"
	case GenderFemale:
		return "女性"
	case GenderOther:
		return "その他"
	default:
		return ""
	}
}

// Profile holds the optional owner facts used to tailor the prompt
type Profile struct {
	OwnerID  string     `json:"ownerId"`
	Birthday *time.Time `json:"birthday,omitempty"`
	Gender   Gender     `json:"gender,omitempty"`
}

// Clone returns a copy that shares no memory with p
func (p *Profile) Clone() *Profile {
	out := *p
	if p.Birthday != nil {
		b := *p.Birthday
		out.Birthday = &b
	}
	return &out
}

// ProfileFacts are the derived labels that reach the prompt
type ProfileFacts struct {
	AgeBucket   string
	GenderLabel string
}

// IsEmpty reports whether there is nothing to tell the model
func (f *ProfileFacts) IsEmpty() bool {
	return f == nil || (f.AgeBucket == "" && f.GenderLabel == "")
}

// Facts derives prompt labels as of now. Returns nil when the profile has no
// usable facts.
func (p *Profile) Facts(now time.Time) *ProfileFacts {
	if p == nil {
		return nil
	}
	facts := &ProfileFacts{GenderLabel: p.Gender.Label()}
	if p.Birthday != nil && !p.Birthday.IsZero() {
		facts.AgeBucket = CareerStage(AgeAt(*p.Birthday, now))
	}
	if facts.IsEmpty() {
		return nil
	}
	return facts
}

// AgeAt returns the age in whole years on the given day
func AgeAt(birthday, now time.Time) int {
	age := now.Year() - birthday.Year()
	if now.Month() < birthday.Month() || (now.Month() == birthday.Month() && now.Day() < birthday.Day()) {
		age--
	}
	return age
}

// CareerStage maps an age to a coarse career-stage bucket
func CareerStage(age int) string {
	switch {
	case age < 0:
		return ""
	case age < 25:
		return "キャリア初期（20代前半まで）"
	case age < 30:
		return "若手（20代後半）"
	case age < 40:
		return "中堅（30代）"
	case age < 50:
		return "ミドル（40代）"
	default:
		return "シニア（50代以上）"
	}
}

// UpdateProfileRequest is the body of a profile update
type UpdateProfileRequest struct {
	Birthday string `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender   string `json:"gender,omitempty" validate:"omitempty,oneof=male female other prefer_not_to_say"`
}

// Validate validates the UpdateProfileRequest using the validator.
func (r *UpdateProfileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ToProfile converts a validated request into a Profile for ownerID
func (r *UpdateProfileRequest) ToProfile(ownerID string) (*Profile, error) {
	p := &Profile{OwnerID: ownerID, Gender: Gender(r.Gender)}
	if r.Birthday != "" {
		t, err := time.Parse("2006-01-02", r.Birthday)
		if err != nil {
			return nil, err
		}
		p.Birthday = &t
	}
	return p, nil
}

// UpdateMemoRequest is the body of a memo update
type UpdateMemoRequest struct {
	Memo *string `json:"memo" validate:"required,max=2000"`
}

// Validate validates the UpdateMemoRequest using the validator.
func (r *UpdateMemoRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// SubmitDiagnosisRequest is the body of a diagnosis submission
type SubmitDiagnosisRequest struct {
	Answers AnswerSet `json:"answers" validate:"required"`
}

// Validate validates the SubmitDiagnosisRequest using the validator.
func (r *SubmitDiagnosisRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
