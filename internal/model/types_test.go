package model

import "testing"

func TestParseSortBy(t *testing.T) {
	cases := []struct {
		input string
		want  SortBy
	}{
		{"char", SortByChar},
		{"character", SortByChar},
		{"count", SortByCount},
		{" Count ", SortByCount},
	}
	for _, tc := range cases {
		got, err := ParseSortBy(tc.input)
		if err != nil {
			t.Fatalf("ParseSortBy(%q) failed: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseSortBy(%q): expected %v, got %v", tc.input, tc.want, got)
		}
	}
	if _, err := ParseSortBy("frequency"); err == nil {
		t.Fatalf("expected error for unknown sort key")
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		input string
		want  Format
	}{
		{"plain", FormatPlain},
		{"table", FormatTable},
		{"histogram", FormatHistogram},
		{"hist", FormatHistogram},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.input)
		if err != nil {
			t.Fatalf("ParseFormat(%q) failed: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseFormat(%q): expected %v, got %v", tc.input, tc.want, got)
		}
	}
	if _, err := ParseFormat("json"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []SortBy{SortByChar, SortByCount} {
		got, err := ParseSortBy(s.String())
		if err != nil || got != s {
			t.Fatalf("sort key %v did not round-trip: %v %v", s, got, err)
		}
	}
	for _, f := range []Format{FormatPlain, FormatTable, FormatHistogram} {
		got, err := ParseFormat(f.String())
		if err != nil || got != f {
			t.Fatalf("format %v did not round-trip: %v %v", f, got, err)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.SortBy != SortByChar {
		t.Fatalf("expected char sort default, got %v", opts.SortBy)
	}
	if opts.MoreThan != -1 || opts.LessThan != -1 || opts.Exactly != -1 {
		t.Fatalf("expected -1 threshold defaults, got %+v", opts)
	}
}
