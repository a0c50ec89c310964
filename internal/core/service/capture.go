package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yndnr/subtrack-go/internal/core/domain"
	"github.com/yndnr/subtrack-go/internal/storage/snapshot"
	"github.com/yndnr/subtrack-go/internal/telemetry/logger"
	"github.com/yndnr/subtrack-go/internal/telemetry/metric"
)

// SubnetLister enumerates the subnets of a network.
type SubnetLister interface {
	ListSubnets(ctx context.Context, network string) ([]int, error)
}

// MembershipFetcher returns the current ownership table of one subnet.
type MembershipFetcher interface {
	FetchMembership(ctx context.Context, network string, netuid int) (*domain.SubnetRecord, error)
}

// MembershipFetcherFunc adapts a function to MembershipFetcher.
type MembershipFetcherFunc func(ctx context.Context, network string, netuid int) (*domain.SubnetRecord, error)

// FetchMembership calls f.
func (f MembershipFetcherFunc) FetchMembership(ctx context.Context, network string, netuid int) (*domain.SubnetRecord, error) {
	return f(ctx, network, netuid)
}

// SnapshotWriter persists snapshots.
type SnapshotWriter interface {
	Persist(snap *domain.Snapshot) (*snapshot.Info, error)
}

// Capturer takes and persists snapshots.
type Capturer struct {
	lister   SubnetLister
	fetcher  MembershipFetcher
	store    SnapshotWriter
	metrics  *metric.Registry
	progress ProgressFunc
	now      func() time.Time
}

// ProgressFunc observes capture progress: done of total distinct subnets
// have been processed, failed of them unsuccessfully.
type ProgressFunc func(done, failed, total int)

// CapturerOption customises a Capturer.
type CapturerOption func(*Capturer)

// WithClock overrides the capture timestamp source.
func WithClock(now func() time.Time) CapturerOption {
	return func(c *Capturer) { c.now = now }
}

// WithCaptureMetrics records capture counters into reg.
func WithCaptureMetrics(reg *metric.Registry) CapturerOption {
	return func(c *Capturer) { c.metrics = reg }
}

// WithProgress reports per-subnet progress to fn.
func WithProgress(fn ProgressFunc) CapturerOption {
	return func(c *Capturer) { c.progress = fn }
}

// NewCapturer creates a new Capturer.
func NewCapturer(lister SubnetLister, fetcher MembershipFetcher, store SnapshotWriter, opts ...CapturerOption) *Capturer {
	c := &Capturer{
		lister:  lister,
		fetcher: fetcher,
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ============================================================================
// Capture
// ============================================================================

// Capture fetches the ownership table of every subnet id, one at a time,
// into a new snapshot timestamped at the start of the run. A subnet whose
// fetch fails is logged and left out; the capture goes on. Duplicate ids
// are fetched once.
//
// The only error is the context's, returned together with the subnets
// captured so far.
func (c *Capturer) Capture(ctx context.Context, network string, subnetIDs []int, fetch MembershipFetcher) (*domain.Snapshot, error) {
	snap := domain.NewSnapshot(network, c.now().UTC())
	snap.CaptureID = logger.CaptureIDFromContext(ctx)
	if snap.CaptureID == "" {
		snap.CaptureID = logger.NewCaptureID(snap.Timestamp)
		ctx = logger.WithCaptureID(ctx, snap.CaptureID)
	}
	log := logger.L(ctx)

	total := countDistinct(subnetIDs)
	attempted := make(map[int]struct{}, total)
	done, failed := 0, 0
	report := func() {
		if c.progress != nil {
			c.progress(done, failed, total)
		}
	}

	for _, netuid := range subnetIDs {
		if err := ctx.Err(); err != nil {
			return snap, err
		}
		if _, seen := attempted[netuid]; seen {
			continue
		}
		attempted[netuid] = struct{}{}

		rec, err := fetch.FetchMembership(ctx, network, netuid)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return snap, ctxErr
			}
			log.Warn("skipping subnet",
				"netuid", netuid,
				"error", domain.ErrSubnetFetch.WithDetails(fmt.Sprintf("netuid %d", netuid)).WithCause(err))
			if c.metrics != nil {
				c.metrics.SubnetFetchFailures.Inc()
			}
			done++
			failed++
			report()
			continue
		}
		if rec == nil {
			rec = &domain.SubnetRecord{UIDHotkeys: map[int]string{}}
		}

		snap.Subnets[netuid] = rec
		if c.metrics != nil {
			c.metrics.SubnetsCaptured.Inc()
		}
		log.Debug("captured subnet",
			"netuid", netuid,
			"uids", rec.Len(),
			"block", rec.Block)
		done++
		report()
	}

	return snap, nil
}

func countDistinct(ids []int) int {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// CaptureResult describes a persisted capture run.
type CaptureResult struct {
	Snapshot *domain.Snapshot
	Info     *snapshot.Info
	// Requested are the subnet ids reported by the chain.
	Requested []int
	// Failed are the requested ids that could not be fetched.
	Failed []int
}

// Run enumerates the subnets of network, captures them and persists the
// snapshot. Failing to enumerate aborts the run with ErrConnectivity.
func (c *Capturer) Run(ctx context.Context, network string) (*CaptureResult, error) {
	start := c.now()
	ctx = logger.WithCaptureID(ctx, logger.NewCaptureID(start))
	log := logger.L(ctx)

	ids, err := c.lister.ListSubnets(ctx, network)
	if err != nil {
		if !errors.Is(err, domain.ErrConnectivity) {
			err = domain.ErrConnectivity.WithCause(err)
		}
		return nil, err
	}
	log.Info("capturing snapshot", "network", network, "subnets", len(ids))

	snap, err := c.Capture(ctx, network, ids, c.fetcher)
	if err != nil {
		return nil, err
	}

	info, err := c.store.Persist(snap)
	if err != nil {
		return nil, err
	}

	res := &CaptureResult{
		Snapshot:  snap,
		Info:      info,
		Requested: ids,
	}
	for _, id := range ids {
		if snap.Subnet(id) == nil {
			res.Failed = appendUnique(res.Failed, id)
		}
	}

	if c.metrics != nil {
		c.metrics.CapturesTotal.Inc()
		c.metrics.SnapshotBytes.Set(float64(info.Size))
		c.metrics.CaptureDuration.Observe(c.now().Sub(start).Seconds())
	}
	log.Info("snapshot persisted",
		"path", info.Path,
		"subnets", len(snap.Subnets),
		"failed", len(res.Failed),
		"uids", snap.TotalUIDs())

	return res, nil
}

func appendUnique(ids []int, id int) []int {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}
