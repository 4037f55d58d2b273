// Package freq implements the character frequency pipeline.
package freq

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/ivan-guerra/ccount/internal/model"
)

// ErrInvalidEncoding reports input that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("input is not valid UTF-8")

// Count tallies code points from a UTF-8 stream in a single pass. Whitespace
// is skipped unless includeWhitespace is set.
func Count(r io.Reader, includeWhitespace bool) (map[rune]int, error) {
	counts := map[rune]int{}
	reader := bufio.NewReader(r)
	offset := 0
	for {
		ch, size, err := reader.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		if ch == utf8.RuneError && size == 1 {
			return nil, fmt.Errorf("%w at byte %d", ErrInvalidEncoding, offset)
		}
		offset += size
		if !includeWhitespace && unicode.IsSpace(ch) {
			continue
		}
		counts[ch]++
	}
	return counts, nil
}

// CountString tallies code points from an argument string.
func CountString(text string, includeWhitespace bool) (map[rune]int, error) {
	counts := map[rune]int{}
	for offset := 0; offset < len(text); {
		ch, size := utf8.DecodeRuneInString(text[offset:])
		if ch == utf8.RuneError && size == 1 {
			return nil, fmt.Errorf("%w at byte %d", ErrInvalidEncoding, offset)
		}
		offset += size
		if !includeWhitespace && unicode.IsSpace(ch) {
			continue
		}
		counts[ch]++
	}
	return counts, nil
}

// Total sums all counts in a tally.
func Total(counts map[rune]int) int {
	total := 0
	for _, count := range counts {
		total += count
	}
	return total
}

// ValidateOptions rejects out-of-range analysis options.
func ValidateOptions(opts model.Options) error {
	if opts.TopN < 0 {
		return fmt.Errorf("--show-top-n must be > 0")
	}
	if opts.MinCount < 0 {
		return fmt.Errorf("--min-count must be >= 0")
	}
	if opts.MinPercent < 0 || opts.MinPercent > 100 {
		return fmt.Errorf("--min-percentage must be between 0 and 100")
	}
	if opts.MoreThan < -1 {
		return fmt.Errorf("--more-than must be >= 0")
	}
	if opts.LessThan != -1 && opts.LessThan <= 0 {
		return fmt.Errorf("--less-than must be > 0")
	}
	if opts.Exactly != -1 && opts.Exactly <= 0 {
		return fmt.Errorf("--exactly must be > 0")
	}
	return nil
}

// Analyze shapes a tally into the final result list: percentages from the
// unfiltered total, then filter, sort, and truncate.
func Analyze(counts map[rune]int, opts model.Options) ([]model.Entry, error) {
	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}

	total := Total(counts)
	entries := make([]model.Entry, 0, len(counts))
	for ch, count := range counts {
		percent := 0.0
		if total > 0 {
			percent = float64(count) / float64(total) * 100
		}
		entry := model.Entry{Char: ch, Count: count, Percent: percent}
		if !keep(entry, opts) {
			continue
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if opts.SortBy == model.SortByCount && entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Char < entries[j].Char
	})

	if opts.TopN > 0 && len(entries) > opts.TopN {
		entries = entries[:opts.TopN]
	}
	return entries, nil
}

func keep(entry model.Entry, opts model.Options) bool {
	if opts.MinCount > 0 && entry.Count < opts.MinCount {
		return false
	}
	if opts.MinPercent > 0 && entry.Percent < opts.MinPercent {
		return false
	}
	if opts.MoreThan >= 0 && entry.Count <= opts.MoreThan {
		return false
	}
	if opts.LessThan >= 0 && entry.Count >= opts.LessThan {
		return false
	}
	if opts.Exactly >= 0 && entry.Count != opts.Exactly {
		return false
	}
	return true
}
