package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/message"
)

// Table renders the per-case results and the summary as an aligned text table
func Table(title string, results []CaseResult, s Summary) string {
	p := message.NewPrinter(lang)

	header := []string{"Case", "Score", "Ground truth", "Queries", "Time", "Note"}
	rows := make([][]string, 0, len(results)+1)
	for _, r := range results {
		note := r.Failure
		if note == "" && r.GroundTruthError != "" {
			note = "ground truth: " + r.GroundTruthError
		}
		rows = append(rows, []string{
			r.Name,
			p.Sprintf("%d", r.Score),
			p.Sprintf("%d", r.GroundTruth),
			p.Sprintf("%d", r.Queries),
			p.Sprintf("%.2fs", r.Elapsed.Seconds()),
			note,
		})
	}
	footer := []string{
		p.Sprintf("mean of %d", s.Cases),
		p.Sprintf("%.0f", s.Mean),
		p.Sprintf("%.0f", s.GroundTruthMean),
		"",
		p.Sprintf("sd %.0f", s.StdDev),
		p.Sprintf("%d failed", s.Failures),
	}

	widths := make([]int, len(header))
	measure := func(cells []string) {
		for i, c := range cells {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(header)
	for _, r := range rows {
		measure(r)
	}
	measure(footer)

	var sb strings.Builder
	divider := "+"
	inner := -1
	for _, w := range widths {
		divider += strings.Repeat("-", w+2) + "+"
		inner += w + 3
	}
	divider += "\n"

	titleW := runewidth.StringWidth(title)
	left := max(0, (inner-titleW)/2)
	right := max(0, inner-titleW-left)
	sb.WriteString("+" + strings.Repeat("-", inner) + "+\n")
	sb.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	sb.WriteString(divider)
	writeRow(&sb, header, widths)
	sb.WriteString(divider)
	for _, r := range rows {
		writeRow(&sb, r, widths)
	}
	sb.WriteString(divider)
	writeRow(&sb, footer, widths)
	sb.WriteString(divider)
	return sb.String()
}

func writeRow(sb *strings.Builder, cells []string, widths []int) {
	sb.WriteString("|")
	for i, c := range cells {
		sb.WriteString(" " + c + blank(widths[i]-runewidth.StringWidth(c)) + " |")
	}
	sb.WriteString("\n")
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
