package domain

// AggregateStats are the competition metrics of one subnet folded over a
// chronological sequence of deltas.
//
// Running sums only ever grow while folding; the derived rates are computed
// once by Finalize.
type AggregateStats struct {
	Netuid int `json:"netuid"`

	TotalReplacements     int `json:"total_replacements"`
	TotalNewRegistrations int `json:"total_new_registrations"`
	TotalDeregistrations  int `json:"total_deregistrations"`
	TotalChanges          int `json:"total_changes"`
	TimePeriods           int `json:"time_periods"`
	TotalUIDs             int `json:"total_uids"`
	UIDSamples            int `json:"uid_samples"`

	CompetitionScore            float64 `json:"competition_score"`
	AvgReplacementsPerPeriod    float64 `json:"avg_replacements_per_period"`
	AvgDeregistrationsPerPeriod float64 `json:"avg_deregistrations_per_period"`
	AvgTotalChangesPerPeriod    float64 `json:"avg_total_changes_per_period"`
	AvgUIDs                     float64 `json:"avg_uids"`
	ReplacementPercentage       float64 `json:"replacement_percentage"`
}

// Observe folds one period's delta into the running sums.
func (s *AggregateStats) Observe(d *Delta) {
	s.TotalReplacements += len(d.Replacements)
	s.TotalNewRegistrations += len(d.NewRegistrations)
	s.TotalDeregistrations += len(d.Deregistrations)
	s.TotalChanges += d.TotalChanges()
	s.TimePeriods++
	s.TotalUIDs += d.TotalUIDsNew
	s.UIDSamples++
}

// Finalize computes the derived per-period metrics from the running sums.
// Every division is guarded against a zero denominator.
func (s *AggregateStats) Finalize() {
	s.CompetitionScore = ratio(s.TotalReplacements, s.TimePeriods)
	s.AvgReplacementsPerPeriod = s.CompetitionScore
	s.AvgDeregistrationsPerPeriod = ratio(s.TotalDeregistrations, s.TimePeriods)
	s.AvgTotalChangesPerPeriod = ratio(s.TotalChanges, s.TimePeriods)
	s.AvgUIDs = ratio(s.TotalUIDs, s.UIDSamples)

	s.ReplacementPercentage = 0
	if s.AvgUIDs > 0 && s.TimePeriods > 0 {
		s.ReplacementPercentage = float64(s.TotalReplacements) / (float64(s.TimePeriods) * s.AvgUIDs) * 100
	}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
