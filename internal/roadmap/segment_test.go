package roadmap

import (
	"testing"

	"github.com/jonathan/career-diagnosis/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected types.RoadmapSegment
	}{
		{
			name:     "heading and circled numerals",
			input:    "【準備期】①Progateで学ぶ②ポートフォリオ作成",
			expected: types.RoadmapSegment{Heading: "準備期", Steps: []string{"Progateで学ぶ", "ポートフォリオ作成"}},
		},
		{
			name:     "numbered list without heading",
			input:    "1. 資格取得 2. 転職活動開始",
			expected: types.RoadmapSegment{Steps: []string{"資格取得", "転職活動開始"}},
		},
		{
			name:     "no markers",
			input:    "  DX推進リーダーとして社内改革を主導する  ",
			expected: types.RoadmapSegment{Steps: []string{"DX推進リーダーとして社内改革を主導する"}},
		},
		{
			name:     "numbered list on separate lines",
			input:    "1. Udemyで基礎講座\n2. 資格取得\n10. 転職",
			expected: types.RoadmapSegment{Steps: []string{"Udemyで基礎講座", "資格取得", "転職"}},
		},
		{
			name:     "heading with trailing space and numbered list",
			input:    "【基礎固め】 1. Python入門 2. SQL",
			expected: types.RoadmapSegment{Heading: "基礎固め", Steps: []string{"Python入門", "SQL"}},
		},
		{
			name:     "heading followed by ideographic space",
			input:    "【実践期】　案件に参加する",
			expected: types.RoadmapSegment{Heading: "実践期", Steps: []string{"案件に参加する"}},
		},
		{
			name:     "circled numerals win over numbering",
			input:    "①1. 基本情報を取る②2. 応募",
			expected: types.RoadmapSegment{Steps: []string{"1. 基本情報を取る", "2. 応募"}},
		},
		{
			name:     "empty pieces dropped",
			input:    "①②Excel ③ ",
			expected: types.RoadmapSegment{Steps: []string{"Excel"}},
		},
		{
			name:     "all ten numerals",
			input:    "①a②b③c④d⑤e⑥f⑦g⑧h⑨i⑩j",
			expected: types.RoadmapSegment{Steps: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}},
		},
		{
			name:     "decimal is not numbering",
			input:    "年収を1.5倍にする",
			expected: types.RoadmapSegment{Steps: []string{"年収を1.5倍にする"}},
		},
		{
			name:     "text before first circled numeral kept",
			input:    "まずは①登録②学習",
			expected: types.RoadmapSegment{Steps: []string{"まずは", "登録", "学習"}},
		},
		{
			name:     "only first heading extracted",
			input:    "【前半】学習【後半】実践",
			expected: types.RoadmapSegment{Heading: "前半", Steps: []string{"学習【後半】実践"}},
		},
		{
			name:     "empty",
			input:    "",
			expected: types.RoadmapSegment{Steps: []string{}},
		},
		{
			name:     "whitespace only",
			input:    " \n\t　",
			expected: types.RoadmapSegment{Steps: []string{}},
		},
		{
			name:     "heading only",
			input:    "【準備期】",
			expected: types.RoadmapSegment{Heading: "準備期", Steps: []string{}},
		},
		{
			name:     "unclosed bracket is plain text",
			input:    "【準備期 ①学ぶ",
			expected: types.RoadmapSegment{Steps: []string{"【準備期", "学ぶ"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Segment(tt.input))
		})
	}
}

func TestSegment_NeverPanicsAndStepsNonNil(t *testing.T) {
	inputs := []string{"", "【", "】", "【】", "①", "1.", "1. ", "\xff\xfe", "【\xff】 ①\xff", "⑩⑩⑩", "0. 0. 0."}
	for _, input := range inputs {
		assert.NotPanics(t, func() {
			seg := Segment(input)
			assert.NotNil(t, seg.Steps, "input %q", input)
		})
	}
}

func TestSegmentRoadmap(t *testing.T) {
	view := SegmentRoadmap(types.Roadmap{
		ShortTerm: "【準備期】①Progateで学ぶ②ポートフォリオ作成",
		MidTerm:   "1. 資格取得 2. 転職活動開始",
		LongTerm:  "",
	})

	assert.Equal(t, "準備期", view.ShortTerm.Heading)
	assert.Len(t, view.ShortTerm.Steps, 2)
	assert.Equal(t, []string{"資格取得", "転職活動開始"}, view.MidTerm.Steps)
	assert.Equal(t, []string{}, view.LongTerm.Steps)
}
