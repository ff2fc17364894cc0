// Package observability provides logging and formatted CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-diagnosis/internal/types"
	"github.com/mattn/go-runewidth"
)

const (
	// boxWidth is the default width for formatted output boxes, in terminal cells
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Widths are
// measured in terminal cells so full-width text stays aligned.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", fitCell(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", fitCell(line, inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// salaryCell renders a missing projection figure as a dash
func salaryCell(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

// fitCell truncates s to width cells and pads it on the right
func fitCell(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "...")
	}
	return runewidth.FillRight(s, width)
}

// PrintDiagnosis outputs the verdict of one diagnosis
func (p *Printer) PrintDiagnosis(rec *types.DiagnosisRecord) {
	if rec == nil {
		return
	}
	res := rec.Result

	var sb strings.Builder
	if rec.ID != "" {
		sb.WriteString(fmt.Sprintf("ID:       %s\n", rec.ID))
	}
	sb.WriteString(fmt.Sprintf("タイプ:   %s\n", res.CareerType))
	if res.Catchphrase != "" {
		sb.WriteString(fmt.Sprintf("          %s\n", res.Catchphrase))
	}
	sb.WriteString("\n")
	sb.WriteString(res.Summary + "\n")

	if len(res.Strengths) > 0 {
		sb.WriteString("\n強み:\n")
		writeList(&sb, res.Strengths, maxItemsToShow)
	}

	if len(res.Recommendations) > 0 {
		sb.WriteString("\nおすすめの職種:\n")
		titles := make([]string, 0, len(res.Recommendations))
		for _, r := range res.Recommendations {
			title := r.Title()
			if r.Kind == types.RecommendationJob && r.Job.SalaryRange != "" {
				title = fmt.Sprintf("%s (%s)", title, r.Job.SalaryRange)
			}
			titles = append(titles, title)
		}
		writeList(&sb, titles, maxItemsToShow)
	}

	if sp := res.SalaryProjection; sp != nil && !sp.IsEmpty() {
		sb.WriteString(fmt.Sprintf("\n年収推移: %s → %s → %s → %s 万円\n",
			salaryCell(sp.Current), salaryCell(sp.ShortTerm), salaryCell(sp.MidTerm), salaryCell(sp.LongTerm)))
	}

	if rec.Memo != "" {
		sb.WriteString("\nメモ: " + rec.Memo + "\n")
	}

	p.printBox("CAREER DIAGNOSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoadmap outputs the three segmented roadmap phases
func (p *Printer) PrintRoadmap(view types.RoadmapView) {
	phases := []struct {
		label string
		seg   types.RoadmapSegment
	}{
		{"短期", view.ShortTerm},
		{"中期", view.MidTerm},
		{"長期", view.LongTerm},
	}

	var sb strings.Builder
	for i, ph := range phases {
		if i > 0 {
			sb.WriteString("\n")
		}
		label := ph.label
		if ph.seg.Heading != "" {
			label = fmt.Sprintf("%s【%s】", label, ph.seg.Heading)
		}
		sb.WriteString(label + "\n")
		if len(ph.seg.Steps) == 0 {
			sb.WriteString("  (なし)\n")
			continue
		}
		for j, step := range ph.seg.Steps {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", j+1, step))
		}
	}

	p.printBox("ROADMAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummaries outputs a diagnosis history, newest first
func (p *Printer) PrintSummaries(summaries []types.DiagnosisSummary) {
	if len(summaries) == 0 {
		p.printBox("HISTORY", "(診断履歴はありません)")
		return
	}

	var sb strings.Builder
	for _, s := range summaries {
		sb.WriteString(fmt.Sprintf("%s  %s\n", s.CreatedAt.Format("2006-01-02 15:04"), s.CareerType))
		sb.WriteString(fmt.Sprintf("  %s\n", s.ID))
	}
	p.printBox(fmt.Sprintf("HISTORY (%d)", len(summaries)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuestions outputs the questionnaire with options
func (p *Printer) PrintQuestions(qs []types.Question) {
	var sb strings.Builder
	for i, q := range qs {
		if i > 0 {
			sb.WriteString("\n")
		}
		req := ""
		if q.Required {
			req = " *"
		}
		sb.WriteString(fmt.Sprintf("%s (%s)%s\n", q.ID, q.Kind, req))
		sb.WriteString(fmt.Sprintf("  %s\n", q.Text))
		if len(q.Options) > 0 {
			sb.WriteString(fmt.Sprintf("  [%s]\n", strings.Join(q.Options, " / ")))
		}
	}
	p.printBox(fmt.Sprintf("QUESTIONS (%d)", len(qs)), strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}
