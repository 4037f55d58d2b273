package freq

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ivan-guerra/ccount/internal/model"
)

func defaultOpts() model.Options {
	return model.DefaultOptions()
}

func TestCountStringEmpty(t *testing.T) {
	counts, err := CountString("", false)
	if err != nil {
		t.Fatalf("CountString failed: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("expected empty tally, got %d entries", len(counts))
	}
}

func TestCountStringRepeats(t *testing.T) {
	counts, err := CountString("aaa", false)
	if err != nil {
		t.Fatalf("CountString failed: %v", err)
	}
	if counts['a'] != 3 {
		t.Fatalf("expected a=3, got %d", counts['a'])
	}
	if len(counts) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(counts))
	}
}

func TestCountStringSkipsWhitespace(t *testing.T) {
	counts, err := CountString("a b\tc\n", false)
	if err != nil {
		t.Fatalf("CountString failed: %v", err)
	}
	if len(counts) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(counts))
	}
	for _, ch := range []rune{'a', 'b', 'c'} {
		if counts[ch] != 1 {
			t.Fatalf("expected %q=1, got %d", ch, counts[ch])
		}
	}
}

func TestCountStringIncludesWhitespace(t *testing.T) {
	counts, err := CountString("a b c", true)
	if err != nil {
		t.Fatalf("CountString failed: %v", err)
	}
	if counts[' '] != 2 {
		t.Fatalf("expected space=2, got %d", counts[' '])
	}
	if Total(counts) != 5 {
		t.Fatalf("expected total 5, got %d", Total(counts))
	}
}

func TestCountStringCaseSensitive(t *testing.T) {
	counts, err := CountString("aAaA", false)
	if err != nil {
		t.Fatalf("CountString failed: %v", err)
	}
	if counts['a'] != 2 || counts['A'] != 2 {
		t.Fatalf("expected a=2 A=2, got a=%d A=%d", counts['a'], counts['A'])
	}
	if len(counts) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(counts))
	}
}

func TestCountStringSpecialChars(t *testing.T) {
	counts, err := CountString("a!@#$%^&*()", false)
	if err != nil {
		t.Fatalf("CountString failed: %v", err)
	}
	if len(counts) != 11 {
		t.Fatalf("expected 11 entries, got %d", len(counts))
	}
	if counts['!'] != 1 || counts['@'] != 1 {
		t.Fatalf("expected single punctuation tallies, got !=%d @=%d", counts['!'], counts['@'])
	}
}

func TestCountStringUnicodeByCodePoint(t *testing.T) {
	counts, err := CountString("Hello, 世界！🌍", false)
	if err != nil {
		t.Fatalf("CountString failed: %v", err)
	}
	for _, ch := range []rune{'世', '界', '！', '🌍'} {
		if counts[ch] != 1 {
			t.Fatalf("expected %q=1, got %d", ch, counts[ch])
		}
	}
	if len(counts) != 9 {
		t.Fatalf("expected 9 entries, got %d", len(counts))
	}
}

func TestCountStringInvalidUTF8(t *testing.T) {
	if _, err := CountString("abc\xffdef", false); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestCountReader(t *testing.T) {
	counts, err := Count(strings.NewReader("hello world"), false)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if counts['l'] != 3 || counts['o'] != 2 {
		t.Fatalf("unexpected counts: l=%d o=%d", counts['l'], counts['o'])
	}
	if Total(counts) != 10 {
		t.Fatalf("expected total 10, got %d", Total(counts))
	}
}

func TestCountReaderInvalidUTF8(t *testing.T) {
	if _, err := Count(strings.NewReader("ok\xfe"), false); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestTotalMatchesCodePointsConsumed(t *testing.T) {
	text := "résumé café 世界"
	counts, err := CountString(text, true)
	if err != nil {
		t.Fatalf("CountString failed: %v", err)
	}
	want := len([]rune(text))
	if Total(counts) != want {
		t.Fatalf("expected total %d, got %d", want, Total(counts))
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	entries, err := Analyze(map[rune]int{}, defaultOpts())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty result, got %d entries", len(entries))
	}
}

func TestAnalyzeHelloWorldTopTwo(t *testing.T) {
	counts, err := CountString("hello world", false)
	if err != nil {
		t.Fatalf("CountString failed: %v", err)
	}
	opts := defaultOpts()
	opts.SortBy = model.SortByCount
	opts.TopN = 2
	entries, err := Analyze(counts, opts)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Char != 'l' || entries[0].Count != 3 {
		t.Fatalf("expected l=3 first, got %q=%d", entries[0].Char, entries[0].Count)
	}
	if entries[1].Char != 'o' || entries[1].Count != 2 {
		t.Fatalf("expected o=2 second, got %q=%d", entries[1].Char, entries[1].Count)
	}
}

func TestAnalyzeSortByChar(t *testing.T) {
	counts := map[rune]int{'c': 1, 'a': 3, 'b': 2}
	entries, err := Analyze(counts, defaultOpts())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	got := make([]rune, 0, len(entries))
	for _, entry := range entries {
		got = append(got, entry.Char)
	}
	if string(got) != "abc" {
		t.Fatalf("expected order abc, got %q", string(got))
	}
}

func TestAnalyzeCountTieBreaksByCodePoint(t *testing.T) {
	counts := map[rune]int{'z': 2, 'a': 2, 'm': 2, 'q': 5}
	opts := defaultOpts()
	opts.SortBy = model.SortByCount
	entries, err := Analyze(counts, opts)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	got := make([]rune, 0, len(entries))
	for _, entry := range entries {
		got = append(got, entry.Char)
	}
	if string(got) != "qamz" {
		t.Fatalf("expected order qamz, got %q", string(got))
	}
}

func TestAnalyzeSortKeysPreserveEntrySet(t *testing.T) {
	counts, err := CountString("mississippi", false)
	if err != nil {
		t.Fatalf("CountString failed: %v", err)
	}
	byChar, err := Analyze(counts, defaultOpts())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	opts := defaultOpts()
	opts.SortBy = model.SortByCount
	byCount, err := Analyze(counts, opts)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(byChar) != len(byCount) {
		t.Fatalf("entry sets differ in size: %d vs %d", len(byChar), len(byCount))
	}
	seen := map[rune]int{}
	for _, entry := range byChar {
		seen[entry.Char] = entry.Count
	}
	for _, entry := range byCount {
		if seen[entry.Char] != entry.Count {
			t.Fatalf("entry %q=%d missing from char-sorted result", entry.Char, entry.Count)
		}
	}
}

func TestAnalyzeTopNIsPrefixOfFullOrder(t *testing.T) {
	counts, err := CountString("the quick brown fox jumps over the lazy dog", false)
	if err != nil {
		t.Fatalf("CountString failed: %v", err)
	}
	opts := defaultOpts()
	opts.SortBy = model.SortByCount
	full, err := Analyze(counts, opts)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	opts.TopN = 4
	top, err := Analyze(counts, opts)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(top) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(top))
	}
	for i, entry := range top {
		if entry != full[i] {
			t.Fatalf("top-N entry %d is %+v, full order has %+v", i, entry, full[i])
		}
	}
}

func TestAnalyzeTopNLargerThanResult(t *testing.T) {
	counts := map[rune]int{'a': 1, 'b': 1}
	opts := defaultOpts()
	opts.TopN = 10
	entries, err := Analyze(counts, opts)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestAnalyzePercentagesSumTo100(t *testing.T) {
	counts, err := CountString("abracadabra", false)
	if err != nil {
		t.Fatalf("CountString failed: %v", err)
	}
	entries, err := Analyze(counts, defaultOpts())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	sum := 0.0
	for _, entry := range entries {
		sum += entry.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("expected percentages to sum to 100, got %f", sum)
	}
}

func TestAnalyzePercentUsesUnfilteredTotal(t *testing.T) {
	counts := map[rune]int{'a': 3, 'b': 1}
	opts := defaultOpts()
	opts.MinCount = 2
	entries, err := Analyze(counts, opts)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Char != 'a' {
		t.Fatalf("expected only a, got %+v", entries)
	}
	if math.Abs(entries[0].Percent-75) > 1e-9 {
		t.Fatalf("expected 75%% share, got %f", entries[0].Percent)
	}
}

func TestAnalyzeThresholds(t *testing.T) {
	counts := map[rune]int{'a': 5, 'b': 3, 'c': 1}

	cases := []struct {
		name   string
		mutate func(*model.Options)
		want   string
	}{
		{"min-count", func(o *model.Options) { o.MinCount = 3 }, "ab"},
		{"min-percentage", func(o *model.Options) { o.MinPercent = 30 }, "ab"},
		{"more-than", func(o *model.Options) { o.MoreThan = 3 }, "a"},
		{"less-than", func(o *model.Options) { o.LessThan = 3 }, "c"},
		{"exactly", func(o *model.Options) { o.Exactly = 3 }, "b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := defaultOpts()
			tc.mutate(&opts)
			entries, err := Analyze(counts, opts)
			if err != nil {
				t.Fatalf("Analyze failed: %v", err)
			}
			got := make([]rune, 0, len(entries))
			for _, entry := range entries {
				got = append(got, entry.Char)
			}
			if string(got) != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, string(got))
			}
		})
	}
}

func TestValidateOptionsRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.Options)
	}{
		{"negative top-n", func(o *model.Options) { o.TopN = -1 }},
		{"negative min-count", func(o *model.Options) { o.MinCount = -3 }},
		{"negative min-percentage", func(o *model.Options) { o.MinPercent = -1 }},
		{"min-percentage over 100", func(o *model.Options) { o.MinPercent = 101 }},
		{"negative more-than", func(o *model.Options) { o.MoreThan = -2 }},
		{"zero less-than", func(o *model.Options) { o.LessThan = 0 }},
		{"zero exactly", func(o *model.Options) { o.Exactly = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := defaultOpts()
			tc.mutate(&opts)
			if err := ValidateOptions(opts); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
	if err := ValidateOptions(defaultOpts()); err != nil {
		t.Fatalf("expected default options to validate, got %v", err)
	}
}
