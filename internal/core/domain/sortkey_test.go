package domain

import (
	"errors"
	"testing"
)

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{"replacements", SortByReplacements, false},
		{"deregistrations", SortByDeregistrations, false},
		{"percentage", SortByPercentage, false},
		{" Changes ", SortByChanges, false},
		{"score", SortByReplacements, true},
		{"", SortByReplacements, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSortKey(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSortKey) {
					t.Fatalf("ParseSortKey(%q) error = %v, want ErrInvalidSortKey", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSortKey(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseSortKey(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSortKey_RoundTripNames(t *testing.T) {
	for _, name := range SortKeyNames() {
		k, err := ParseSortKey(name)
		if err != nil {
			t.Fatalf("ParseSortKey(%q): %v", name, err)
		}
		if k.String() != name {
			t.Errorf("String() = %q, want %q", k.String(), name)
		}
	}
	if SortKey(42).String() != "unknown" {
		t.Error("out-of-range key should print as unknown")
	}
}

func TestSortKey_Metric(t *testing.T) {
	s := &AggregateStats{
		CompetitionScore:            1,
		AvgDeregistrationsPerPeriod: 2,
		ReplacementPercentage:       3,
		AvgTotalChangesPerPeriod:    4,
	}

	tests := []struct {
		key  SortKey
		want float64
	}{
		{SortByReplacements, 1},
		{SortByDeregistrations, 2},
		{SortByPercentage, 3},
		{SortByChanges, 4},
	}

	for _, tt := range tests {
		if got := tt.key.Metric(s); got != tt.want {
			t.Errorf("%v.Metric() = %v, want %v", tt.key, got, tt.want)
		}
	}
}
