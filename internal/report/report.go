// Package report renders analysis results for terminal output.
package report

import (
	"fmt"
	"io"
	"unicode"

	"github.com/ivan-guerra/ccount/internal/model"
)

// Render writes entries in the format selected by the options.
func Render(w io.Writer, entries []model.Entry, opts model.Options) error {
	switch opts.Format {
	case model.FormatTable:
		return RenderTable(w, entries)
	case model.FormatHistogram:
		return RenderHistogram(w, entries, opts.AsPercent, 0)
	default:
		return RenderPlain(w, entries, opts.AsPercent)
	}
}

// RenderPlain writes one "<char>: <count>" line per entry, or the percentage
// share when asPercent is set.
func RenderPlain(w io.Writer, entries []model.Entry, asPercent bool) error {
	for _, entry := range entries {
		var err error
		if asPercent {
			_, err = fmt.Fprintf(w, "%s: %.2f%%\n", CharLabel(entry.Char), entry.Percent)
		} else {
			_, err = fmt.Fprintf(w, "%s: %d\n", CharLabel(entry.Char), entry.Count)
		}
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// CharLabel returns a printable label for a code point.
func CharLabel(ch rune) string {
	switch ch {
	case ' ':
		return "<space>"
	case '\t':
		return "<tab>"
	case '\n':
		return "<newline>"
	case '\r':
		return "<cr>"
	}
	if unicode.IsControl(ch) || !unicode.IsPrint(ch) {
		return fmt.Sprintf("U+%04X", ch)
	}
	return string(ch)
}
