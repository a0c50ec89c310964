package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yndnr/subtrack-go/internal/core/domain"
	"github.com/yndnr/subtrack-go/internal/storage"
	"github.com/yndnr/subtrack-go/internal/storage/snapshot"
	"github.com/yndnr/subtrack-go/internal/telemetry/logger"
	"github.com/yndnr/subtrack-go/internal/telemetry/metric"
)

// DefaultMinSnapshots is the fewest snapshots an analysis accepts: one pair.
const DefaultMinSnapshots = 2

// SnapshotReader lists and loads persisted snapshots.
type SnapshotReader interface {
	List() ([]*snapshot.Info, error)
	Load(handle string) (*domain.Snapshot, error)
}

// DeltaCache memoises the deltas of a snapshot pair.
type DeltaCache interface {
	Get(ctx context.Context, older, newer storage.SnapshotKey) (map[int]*domain.Delta, bool, error)
	Put(ctx context.Context, older, newer storage.SnapshotKey, deltas map[int]*domain.Delta) error
}

// ============================================================================
// Accumulator
// ============================================================================

// Accumulator folds per-pair deltas into per-subnet running statistics.
type Accumulator struct {
	stats map[int]*domain.AggregateStats
	pairs int
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{stats: make(map[int]*domain.AggregateStats)}
}

// Add folds the deltas of one consecutive snapshot pair. Only subnets with
// an entry in deltas gain a period.
func (a *Accumulator) Add(deltas map[int]*domain.Delta) {
	a.pairs++
	for netuid, d := range deltas {
		s, ok := a.stats[netuid]
		if !ok {
			s = &domain.AggregateStats{Netuid: netuid}
			a.stats[netuid] = s
		}
		s.Observe(d)
	}
}

// Pairs returns the number of pairs folded so far.
func (a *Accumulator) Pairs() int {
	return a.pairs
}

// Results returns finalized copies of the statistics. The accumulator can
// keep folding afterwards.
func (a *Accumulator) Results() map[int]*domain.AggregateStats {
	out := make(map[int]*domain.AggregateStats, len(a.stats))
	for netuid, s := range a.stats {
		c := *s
		c.Finalize()
		out[netuid] = &c
	}
	return out
}

// ============================================================================
// Analyzer
// ============================================================================

// Analysis is the outcome of folding a snapshot sequence.
type Analysis struct {
	Stats     map[int]*domain.AggregateStats
	Snapshots int
	Pairs     int
	// Required is the effective minimum snapshot count.
	Required int
	From     time.Time
	To       time.Time
}

// Insufficient reports whether there were too few snapshots to analyze.
func (a *Analysis) Insufficient() bool {
	return a.Snapshots < a.Required
}

// Analyzer folds snapshot sequences into competition statistics.
type Analyzer struct {
	differ  *Differ
	cache   DeltaCache
	metrics *metric.Registry
}

// AnalyzerOption customises an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithDeltaCache consults cache before diffing a stored pair.
func WithDeltaCache(cache DeltaCache) AnalyzerOption {
	return func(a *Analyzer) { a.cache = cache }
}

// WithAnalyzerMetrics records pair and cache counters into reg.
func WithAnalyzerMetrics(reg *metric.Registry) AnalyzerOption {
	return func(a *Analyzer) { a.metrics = reg }
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{differ: NewDiffer()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// effectiveMin raises minRequired to DefaultMinSnapshots. A request for one
// snapshot therefore still needs a pair, and a lone snapshot is reported as
// insufficient data rather than analyzed into an empty result.
func effectiveMin(minRequired int) int {
	if minRequired < DefaultMinSnapshots {
		return DefaultMinSnapshots
	}
	return minRequired
}

// Analyze sorts snaps by timestamp (stable) and folds every consecutive
// pair. With fewer than minRequired snapshots (never less than
// DefaultMinSnapshots) it logs ErrInsufficientData and returns an empty
// result.
func (a *Analyzer) Analyze(ctx context.Context, snaps []*domain.Snapshot, minRequired int) *Analysis {
	res := &Analysis{
		Stats:     map[int]*domain.AggregateStats{},
		Snapshots: len(snaps),
		Required:  effectiveMin(minRequired),
	}
	if res.Insufficient() {
		a.warnInsufficient(ctx, res)
		return res
	}

	ordered := make([]*domain.Snapshot, len(snaps))
	copy(ordered, snaps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	acc := NewAccumulator()
	for i := 0; i+1 < len(ordered); i++ {
		acc.Add(a.differ.Diff(ordered[i], ordered[i+1]))
		a.countPair()
	}

	res.Stats = acc.Results()
	res.Pairs = acc.Pairs()
	res.From = ordered[0].Timestamp
	res.To = ordered[len(ordered)-1].Timestamp
	return res
}

// AnalyzeStore folds the stored snapshots in list order, holding at most
// two in memory. A snapshot that fails to load aborts the analysis.
func (a *Analyzer) AnalyzeStore(ctx context.Context, store SnapshotReader, minRequired int) (*Analysis, error) {
	infos, err := store.List()
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	res := &Analysis{
		Stats:     map[int]*domain.AggregateStats{},
		Snapshots: len(infos),
		Required:  effectiveMin(minRequired),
	}
	if res.Insufficient() {
		a.warnInsufficient(ctx, res)
		return res, nil
	}

	log := logger.L(ctx)
	acc := NewAccumulator()

	// prev is loaded lazily: a cache hit on every pair never touches disk.
	var prev *domain.Snapshot
	for i := 0; i+1 < len(infos); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		older, newer := infos[i], infos[i+1]
		olderKey := storage.SnapshotKey{ID: older.ID, Size: older.Size}
		newerKey := storage.SnapshotKey{ID: newer.ID, Size: newer.Size}

		if deltas, ok := a.cacheGet(ctx, olderKey, newerKey); ok {
			acc.Add(deltas)
			a.countPair()
			prev = nil
			continue
		}

		if prev == nil {
			if prev, err = store.Load(older.ID); err != nil {
				return nil, err
			}
		}
		next, err := store.Load(newer.ID)
		if err != nil {
			return nil, err
		}

		deltas := a.differ.Diff(prev, next)
		acc.Add(deltas)
		a.countPair()

		if a.cache != nil {
			if err := a.cache.Put(ctx, olderKey, newerKey, deltas); err != nil {
				log.Warn("delta cache write failed", "older", older.ID, "newer", newer.ID, "error", err)
			}
		}
		prev = next
	}

	res.Stats = acc.Results()
	res.Pairs = acc.Pairs()
	res.From = infos[0].Timestamp
	res.To = infos[len(infos)-1].Timestamp
	return res, nil
}

func (a *Analyzer) cacheGet(ctx context.Context, older, newer storage.SnapshotKey) (map[int]*domain.Delta, bool) {
	if a.cache == nil {
		return nil, false
	}
	deltas, ok, err := a.cache.Get(ctx, older, newer)
	if err != nil {
		logger.L(ctx).Warn("delta cache read failed", "older", older.ID, "newer", newer.ID, "error", err)
		ok = false
	}
	if a.metrics != nil {
		if ok {
			a.metrics.DeltaCacheHits.Inc()
		} else {
			a.metrics.DeltaCacheMisses.Inc()
		}
	}
	return deltas, ok
}

func (a *Analyzer) countPair() {
	if a.metrics != nil {
		a.metrics.AnalysisPairs.Inc()
	}
}

func (a *Analyzer) warnInsufficient(ctx context.Context, res *Analysis) {
	logger.L(ctx).Warn("not enough snapshots to analyze",
		"error", domain.ErrInsufficientData.WithDetails(
			fmt.Sprintf("need at least %d snapshots, found %d", res.Required, res.Snapshots)))
}
