package service

import (
	"sort"

	"github.com/yndnr/subtrack-go/internal/core/domain"
)

// Rank orders results by the metric selected by key, highest first. Equal
// metrics fall back to ascending netuid so the order is deterministic.
func Rank(results map[int]*domain.AggregateStats, key domain.SortKey) []*domain.AggregateStats {
	ranked := make([]*domain.AggregateStats, 0, len(results))
	for _, s := range results {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		mi, mj := key.Metric(ranked[i]), key.Metric(ranked[j])
		if mi != mj {
			return mi > mj
		}
		return ranked[i].Netuid < ranked[j].Netuid
	})
	return ranked
}

// Top returns at most n leading entries. A non-positive n keeps all.
func Top(ranked []*domain.AggregateStats, n int) []*domain.AggregateStats {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
