// Package cloud renders a term frequency table as a weighted terminal
// term cloud: the stand-in for the original word-cloud image. Terms are
// styled by frequency bucket and wrapped to a target width. Rendering is
// deterministic for identical tables.
package cloud

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bdebritorobalo/ehr-text-mining/pkg/textmine/aggregate"
)

// DefaultTopTerms bounds the cloud when the caller passes no limit.
const DefaultTopTerms = 40

var bucketStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Underline(true),
}

// Render lays out the top n terms, most frequent first, wrapped at width
// columns. Each term is styled by its frequency relative to the maximum.
func Render(table *aggregate.TermFrequencyTable, n, width int) string {
	if n <= 0 {
		n = DefaultTopTerms
	}
	if width <= 0 {
		width = 80
	}

	top := table.Top(n)
	if len(top) == 0 {
		return "no terms to display"
	}
	maxCount := top[0].Count

	var lines []string
	var line strings.Builder
	lineLen := 0
	for _, tc := range top {
		word := styleFor(tc.Count, maxCount).Render(tc.Term)
		// Visible width only; ANSI codes don't occupy columns.
		visible := len([]rune(tc.Term)) + 2
		if lineLen > 0 && lineLen+visible > width {
			lines = append(lines, line.String())
			line.Reset()
			lineLen = 0
		}
		if lineLen > 0 {
			line.WriteString("  ")
		}
		line.WriteString(word)
		lineLen += visible
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}

func styleFor(count, maxCount int) lipgloss.Style {
	if maxCount <= 0 {
		return bucketStyles[0]
	}
	bucket := (count * len(bucketStyles)) / (maxCount + 1)
	if bucket >= len(bucketStyles) {
		bucket = len(bucketStyles) - 1
	}
	return bucketStyles[bucket]
}
