package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ivan-guerra/ccount/internal/model"
)

const (
	minBarWidth         = 1
	terminalWidthBackup = 80
)

const sparkChars = " .:-=+*#%@"

// RenderHistogram writes entries as horizontal bars scaled to totalWidth.
// A totalWidth of zero uses the terminal width.
func RenderHistogram(w io.Writer, entries []model.Entry, asPercent bool, totalWidth int) error {
	if len(entries) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}

	maxCount := 0
	labelWidth := 0
	valueWidth := 0
	for _, entry := range entries {
		if entry.Count > maxCount {
			maxCount = entry.Count
		}
		if lw := displayWidth(CharLabel(entry.Char)); lw > labelWidth {
			labelWidth = lw
		}
		if vw := displayWidth(histogramValue(entry, asPercent)); vw > valueWidth {
			valueWidth = vw
		}
	}
	if maxCount == 0 {
		return nil
	}
	barWidth := totalWidth - labelWidth - valueWidth - 2
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}

	for _, entry := range entries {
		bar := int(math.Round(float64(entry.Count) / float64(maxCount) * float64(barWidth)))
		if bar < 1 {
			bar = 1
		}
		line := fmt.Sprintf("%s %s %s",
			padCell(CharLabel(entry.Char), labelWidth, false),
			padCell(strings.Repeat("█", bar), barWidth, false),
			padCell(histogramValue(entry, asPercent), valueWidth, true),
		)
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func histogramValue(entry model.Entry, asPercent bool) string {
	if asPercent {
		return fmt.Sprintf("%.2f%%", entry.Percent)
	}
	return fmt.Sprintf("%d", entry.Count)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
