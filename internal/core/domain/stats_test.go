package domain

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAggregateStats_ObserveAndFinalize(t *testing.T) {
	s := &AggregateStats{Netuid: 7}

	s.Observe(&Delta{
		Replacements:     []Replacement{{UID: 1, OldHotkey: "a", NewHotkey: "b"}},
		NewRegistrations: []Registration{{UID: 4, Hotkey: "d"}},
		TotalUIDsNew:     10,
	})
	s.Observe(&Delta{
		Replacements: []Replacement{
			{UID: 1, OldHotkey: "b", NewHotkey: "c"},
			{UID: 2, OldHotkey: "x", NewHotkey: "y"},
			{UID: 3, OldHotkey: "p", NewHotkey: "q"},
		},
		Deregistrations: []Registration{{UID: 4, Hotkey: "d"}},
		TotalUIDsNew:    10,
	})
	s.Finalize()

	if s.TimePeriods != 2 {
		t.Errorf("TimePeriods = %d, want 2", s.TimePeriods)
	}
	if s.TotalReplacements != 4 {
		t.Errorf("TotalReplacements = %d, want 4", s.TotalReplacements)
	}
	if s.TotalChanges != 6 {
		t.Errorf("TotalChanges = %d, want 6", s.TotalChanges)
	}
	if !almostEqual(s.CompetitionScore, 2.0) {
		t.Errorf("CompetitionScore = %v, want 2.0", s.CompetitionScore)
	}
	if !almostEqual(s.AvgReplacementsPerPeriod, s.CompetitionScore) {
		t.Error("AvgReplacementsPerPeriod should equal CompetitionScore")
	}
	if !almostEqual(s.AvgDeregistrationsPerPeriod, 0.5) {
		t.Errorf("AvgDeregistrationsPerPeriod = %v, want 0.5", s.AvgDeregistrationsPerPeriod)
	}
	if !almostEqual(s.AvgTotalChangesPerPeriod, 3.0) {
		t.Errorf("AvgTotalChangesPerPeriod = %v, want 3.0", s.AvgTotalChangesPerPeriod)
	}
	if !almostEqual(s.AvgUIDs, 10) {
		t.Errorf("AvgUIDs = %v, want 10", s.AvgUIDs)
	}
	if !almostEqual(s.ReplacementPercentage, 20) {
		t.Errorf("ReplacementPercentage = %v, want 20", s.ReplacementPercentage)
	}
}

func TestAggregateStats_FinalizeGuardsZero(t *testing.T) {
	tests := []struct {
		name  string
		stats AggregateStats
	}{
		{"no periods", AggregateStats{}},
		{"empty uid tables", AggregateStats{TotalDeregistrations: 3, TimePeriods: 1, UIDSamples: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.stats
			s.Finalize()
			for name, v := range map[string]float64{
				"CompetitionScore":      s.CompetitionScore,
				"ReplacementPercentage": s.ReplacementPercentage,
				"AvgUIDs":               s.AvgUIDs,
			} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Errorf("%s = %v, want finite", name, v)
				}
			}
			if s.ReplacementPercentage != 0 {
				t.Errorf("ReplacementPercentage = %v, want 0", s.ReplacementPercentage)
			}
		})
	}
}
