package components

import (
	"fmt"

	"nathanbeddoewebdev/pbrec/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// chartHeight is the fixed height for the RTT sparkline.
const chartHeight = 5

// RTTChart renders a sparkline of query round-trip times in milliseconds,
// one sample per poll round. Returns a placeholder until samples arrive.
func RTTChart(label string, samples []float64, width int) string {
	if len(samples) == 0 {
		return styles.MutedText.Render(label + ": no samples yet")
	}

	// Reserve space for Y-axis labels (number + " ┤" ≈ 9 chars).
	plotWidth := width - 9
	if plotWidth < 10 {
		plotWidth = 10
	}

	chart := asciigraph.Plot(samples,
		asciigraph.Height(chartHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.DodgerBlue),
		asciigraph.LabelColor(asciigraph.Default),
	)

	// Summary line: latest round, then the observed spread.
	current := samples[len(samples)-1]
	min, max := minMax(samples)
	summary := styles.MutedText.Render(
		fmt.Sprintf("  cur: %s  min: %s  max: %s",
			formatMillis(current),
			formatMillis(min),
			formatMillis(max),
		),
	)

	header := styles.Label.Render(label)
	return lipgloss.JoinVertical(lipgloss.Left, header, chart, summary)
}

// minMax returns the minimum and maximum values from a slice.
func minMax(samples []float64) (float64, float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	min, max := samples[0], samples[0]
	for _, v := range samples[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// formatMillis renders a millisecond sample, switching to seconds once a
// resolver gets slow enough for that to read better.
func formatMillis(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.1fs", v/1000)
	}
	return fmt.Sprintf("%.0fms", v)
}
