package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ivan-guerra/ccount/internal/model"
)

func TestRenderHistogramScalesBars(t *testing.T) {
	entries := []model.Entry{
		{Char: 'a', Count: 4, Percent: 66.67},
		{Char: 'b', Count: 2, Percent: 33.33},
	}
	var buf bytes.Buffer
	if err := RenderHistogram(&buf, entries, false, 20); err != nil {
		t.Fatalf("RenderHistogram failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	// Label and value columns are one cell wide, so bars get 16 cells.
	if got := strings.Count(lines[0], "█"); got != 16 {
		t.Fatalf("expected 16 bar cells for a, got %d (%q)", got, lines[0])
	}
	if got := strings.Count(lines[1], "█"); got != 8 {
		t.Fatalf("expected 8 bar cells for b, got %d (%q)", got, lines[1])
	}
	if !strings.HasPrefix(lines[0], "a ") || !strings.HasSuffix(lines[0], " 4") {
		t.Fatalf("unexpected bar line: %q", lines[0])
	}
}

func TestRenderHistogramPercentValues(t *testing.T) {
	entries := []model.Entry{
		{Char: 'x', Count: 3, Percent: 75},
	}
	var buf bytes.Buffer
	if err := RenderHistogram(&buf, entries, true, 30); err != nil {
		t.Fatalf("RenderHistogram failed: %v", err)
	}
	if !strings.HasSuffix(strings.TrimRight(buf.String(), "\n"), "75.00%") {
		t.Fatalf("expected percent value, got %q", buf.String())
	}
}

func TestRenderHistogramEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHistogram(&buf, nil, false, 40); err != nil {
		t.Fatalf("RenderHistogram failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestSparkline(t *testing.T) {
	out := Sparkline([]float64{1, 2, 3, 4})
	if len(out) != 4 {
		t.Fatalf("expected 4 cells, got %d (%q)", len(out), out)
	}
	if out[0] != sparkChars[0] {
		t.Fatalf("expected minimum cell first, got %q", out)
	}
	if out[3] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("expected maximum cell last, got %q", out)
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	out := Sparkline([]float64{2, 2, 2})
	if len(out) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(out))
	}
	for i := 0; i < len(out); i++ {
		if out[i] != sparkChars[len(sparkChars)/2] {
			t.Fatalf("expected flat midline, got %q", out)
		}
	}
}
