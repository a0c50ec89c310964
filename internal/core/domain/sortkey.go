package domain

import "strings"

// SortKey selects the derived metric subnets are ranked by.
type SortKey int

const (
	// SortByReplacements ranks by CompetitionScore.
	SortByReplacements SortKey = iota
	// SortByDeregistrations ranks by AvgDeregistrationsPerPeriod.
	SortByDeregistrations
	// SortByPercentage ranks by ReplacementPercentage.
	SortByPercentage
	// SortByChanges ranks by AvgTotalChangesPerPeriod.
	SortByChanges
)

var sortKeyNames = map[SortKey]string{
	SortByReplacements:    "replacements",
	SortByDeregistrations: "deregistrations",
	SortByPercentage:      "percentage",
	SortByChanges:         "changes",
}

// SortKeyNames lists the accepted sort key names in declaration order.
func SortKeyNames() []string {
	return []string{"replacements", "deregistrations", "percentage", "changes"}
}

// ParseSortKey resolves a sort key name.
func ParseSortKey(name string) (SortKey, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, v := range sortKeyNames {
		if v == n {
			return k, nil
		}
	}
	return SortByReplacements, ErrInvalidSortKey.WithDetails(name)
}

// String returns the name of the sort key.
func (k SortKey) String() string {
	if n, ok := sortKeyNames[k]; ok {
		return n
	}
	return "unknown"
}

// Metric returns the value of the selected metric for s.
func (k SortKey) Metric(s *AggregateStats) float64 {
	switch k {
	case SortByDeregistrations:
		return s.AvgDeregistrationsPerPeriod
	case SortByPercentage:
		return s.ReplacementPercentage
	case SortByChanges:
		return s.AvgTotalChangesPerPeriod
	default:
		return s.CompetitionScore
	}
}
