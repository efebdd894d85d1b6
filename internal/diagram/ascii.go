package diagram

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/guptarohit/asciigraph"
)

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

// pad right-fills s with spaces to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// DrawSegmentBar renders one horizontal bar per segment, scaled to the
// stiffest segment.
func DrawSegmentBar(stiffness []float64, width int) string {
	if width <= 0 {
		width = 40
	}
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString("  STIFFNESS BY SEGMENT\n")
	sb.WriteString("  ────────────────────\n")

	peak := 0.0
	for _, ei := range stiffness {
		peak = math.Max(peak, ei)
	}
	for i, ei := range stiffness {
		n := 0
		if peak > 0 && ei > 0 {
			n = int(math.Round(ei / peak * float64(width)))
		}
		sb.WriteString(fmt.Sprintf("  S%-2d │%s%s %.4f N·m²\n",
			i+1, strings.Repeat("█", n), strings.Repeat(" ", width-n), ei))
	}
	return sb.String()
}

// DrawASCIICurve plots a deflected shape in the terminal. Deflections are taken
// as downward and drawn below the axis.
func DrawASCIICurve(y []float64, caption string) string {
	if len(y) == 0 {
		return ""
	}
	sag := make([]float64, len(y))
	for i, v := range y {
		sag[i] = -v
	}
	return asciigraph.Plot(sag,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Precision(2),
		asciigraph.Caption(caption),
	)
}
