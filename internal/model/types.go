// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// SortBy selects the ordering of result entries.
type SortBy int

// Supported sort keys.
const (
	SortByChar SortBy = iota
	SortByCount
)

// String returns the flag-facing name of the sort key.
func (s SortBy) String() string {
	switch s {
	case SortByChar:
		return "char"
	case SortByCount:
		return "count"
	default:
		return "unknown"
	}
}

// ParseSortBy parses a --sort-by flag value.
func ParseSortBy(value string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "char", "character":
		return SortByChar, nil
	case "count":
		return SortByCount, nil
	default:
		return SortByChar, fmt.Errorf("--sort-by must be one of char, count (got %q)", value)
	}
}

// Format selects the output rendering.
type Format int

// Supported output formats.
const (
	FormatPlain Format = iota
	FormatTable
	FormatHistogram
)

// String returns the flag-facing name of the format.
func (f Format) String() string {
	switch f {
	case FormatPlain:
		return "plain"
	case FormatTable:
		return "table"
	case FormatHistogram:
		return "histogram"
	default:
		return "unknown"
	}
}

// ParseFormat parses a --format flag value.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "plain":
		return FormatPlain, nil
	case "table":
		return FormatTable, nil
	case "histogram", "hist":
		return FormatHistogram, nil
	default:
		return FormatPlain, fmt.Errorf("--format must be one of plain, table, histogram (got %q)", value)
	}
}

// Options configures a frequency analysis.
//
// TopN, MinCount, and MinPercent use zero to mean unset. MoreThan, LessThan,
// and Exactly use -1, since zero is a meaningful threshold for them.
type Options struct {
	SortBy            SortBy
	TopN              int
	AsPercent         bool
	MinCount          int
	MinPercent        float64
	MoreThan          int
	LessThan          int
	Exactly           int
	IncludeWhitespace bool
	Format            Format
}

// DefaultOptions returns options matching the default CLI invocation.
func DefaultOptions() Options {
	return Options{
		SortBy:   SortByChar,
		MoreThan: -1,
		LessThan: -1,
		Exactly:  -1,
		Format:   FormatPlain,
	}
}

// Entry is one character of the analysis result. Percent is the entry's share
// of all counted characters, computed before any filtering.
type Entry struct {
	Char    rune
	Count   int
	Percent float64
}

// RunRecord captures one completed analysis for the history store.
type RunRecord struct {
	CreatedAt     time.Time
	Source        string
	TotalCount    int
	DistinctCount int
	SortBy        string
	AsPercent     bool
	TopN          int
}

// RunSummary summarizes a stored run for listing.
type RunSummary struct {
	RunID         int64
	CreatedAt     time.Time
	Source        string
	TotalCount    int
	DistinctCount int
}

// CharCount is a stored per-run character tally.
type CharCount struct {
	Char  string
	Count int
}

// HistoryConfig filters the run history.
type HistoryConfig struct {
	Source string
	Since  *time.Time
	Last   int
}
