package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/subtrack-go/internal/chain"
	"github.com/yndnr/subtrack-go/internal/chain/chaintest"
	"github.com/yndnr/subtrack-go/internal/core/domain"
	"github.com/yndnr/subtrack-go/internal/telemetry/logger"
	"github.com/yndnr/subtrack-go/internal/telemetry/metric"
)

type staticLister struct {
	ids []int
	err error
}

func (l staticLister) ListSubnets(ctx context.Context, network string) ([]int, error) {
	return l.ids, l.err
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func tableFetcher(tables map[int]map[int]string, failing ...int) MembershipFetcherFunc {
	fail := make(map[int]bool)
	for _, id := range failing {
		fail[id] = true
	}
	return func(ctx context.Context, network string, netuid int) (*domain.SubnetRecord, error) {
		if fail[netuid] {
			return nil, fmt.Errorf("metagraph query for %d timed out", netuid)
		}
		return record(tables[netuid]), nil
	}
}

func TestCapture_SkipsFailingSubnets(t *testing.T) {
	reg := metric.NewRegistry()
	c := NewCapturer(nil, nil, nil, WithClock(fixedClock(t0)), WithCaptureMetrics(reg))

	fetch := tableFetcher(map[int]map[int]string{
		1: {0: "A"},
		3: {0: "C", 1: "D"},
	}, 2)

	s, err := c.Capture(context.Background(), "finney", []int{1, 2, 3}, fetch)
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if got := s.Netuids(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("Netuids() = %v, want [1 3]", got)
	}
	if s.Network != "finney" || !s.Timestamp.Equal(t0) {
		t.Errorf("snapshot header = %s %v", s.Network, s.Timestamp)
	}
	if s.CaptureID == "" {
		t.Error("CaptureID should be set")
	}
	if got := testutil.ToFloat64(reg.SubnetFetchFailures); got != 1 {
		t.Errorf("failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.SubnetsCaptured); got != 2 {
		t.Errorf("captured = %v, want 2", got)
	}
}

func TestCapture_DuplicateIDs(t *testing.T) {
	calls := 0
	fetch := MembershipFetcherFunc(func(ctx context.Context, network string, netuid int) (*domain.SubnetRecord, error) {
		calls++
		return record(map[int]string{0: "A"}), nil
	})

	c := NewCapturer(nil, nil, nil, WithClock(fixedClock(t0)))
	if _, err := c.Capture(context.Background(), "finney", []int{4, 4, 4}, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestCapture_Progress(t *testing.T) {
	type tick struct{ done, failed, total int }
	var ticks []tick

	c := NewCapturer(nil, nil, nil,
		WithClock(fixedClock(t0)),
		WithProgress(func(done, failed, total int) {
			ticks = append(ticks, tick{done, failed, total})
		}))

	fetch := tableFetcher(map[int]map[int]string{1: {0: "A"}, 3: {0: "C"}}, 2)
	if _, err := c.Capture(context.Background(), "finney", []int{1, 2, 2, 3}, fetch); err != nil {
		t.Fatal(err)
	}

	want := []tick{{1, 0, 3}, {2, 1, 3}, {3, 1, 3}}
	if len(ticks) != len(want) {
		t.Fatalf("ticks = %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("tick %d = %v, want %v", i, ticks[i], want[i])
		}
	}
}

func TestCapture_UsesContextCaptureID(t *testing.T) {
	c := NewCapturer(nil, nil, nil, WithClock(fixedClock(t0)))
	ctx := logger.WithCaptureID(context.Background(), "cap-xyz")

	s, err := c.Capture(ctx, "finney", nil, tableFetcher(nil))
	if err != nil {
		t.Fatal(err)
	}
	if s.CaptureID != "cap-xyz" {
		t.Errorf("CaptureID = %q, want cap-xyz", s.CaptureID)
	}
	if len(s.Subnets) != 0 {
		t.Errorf("Subnets = %v, want empty", s.Subnets)
	}
}

func TestCapture_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetch := MembershipFetcherFunc(func(ctx context.Context, network string, netuid int) (*domain.SubnetRecord, error) {
		cancel()
		return record(map[int]string{0: "A"}), nil
	})

	c := NewCapturer(nil, nil, nil, WithClock(fixedClock(t0)))
	s, err := c.Capture(ctx, "finney", []int{1, 2}, fetch)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Capture() error = %v, want context.Canceled", err)
	}
	if len(s.Subnets) != 1 {
		t.Errorf("partial snapshot has %d subnets, want 1", len(s.Subnets))
	}
}

func TestRun_PersistsSnapshot(t *testing.T) {
	store := newStore(t)
	reg := metric.NewRegistry()
	fetch := tableFetcher(map[int]map[int]string{0: {0: "A"}, 1: {0: "B"}}, 5)

	c := NewCapturer(staticLister{ids: []int{0, 1, 5}}, fetch, store,
		WithClock(fixedClock(t0)), WithCaptureMetrics(reg))

	res, err := c.Run(context.Background(), "finney")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Failed) != 1 || res.Failed[0] != 5 {
		t.Errorf("Failed = %v, want [5]", res.Failed)
	}

	loaded, err := store.Load(res.Info.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Subnets) != 2 || loaded.CaptureID != res.Snapshot.CaptureID {
		t.Errorf("loaded = %+v", loaded)
	}
	if got := testutil.ToFloat64(reg.CapturesTotal); got != 1 {
		t.Errorf("captures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.SnapshotBytes); got != float64(res.Info.Size) {
		t.Errorf("snapshot bytes = %v, want %d", got, res.Info.Size)
	}

	// Same clock, same file name: a second run must not clobber the first.
	if _, err := c.Run(context.Background(), "finney"); !errors.Is(err, domain.ErrSnapshotExists) {
		t.Errorf("second Run() error = %v, want ErrSnapshotExists", err)
	}
}

func TestRun_ListFailureIsConnectivityError(t *testing.T) {
	c := NewCapturer(staticLister{err: errors.New("dial tcp: connection refused")}, nil, newStore(t))

	_, err := c.Run(context.Background(), "finney")
	if !errors.Is(err, domain.ErrConnectivity) {
		t.Fatalf("Run() error = %v, want ErrConnectivity", err)
	}
}

func TestRun_AgainstChainAPI(t *testing.T) {
	srv := chaintest.NewServer("finney")
	defer srv.Close()
	srv.SetSubnet(1, 100, "A", "B")
	srv.SetSubnet(2, 100, "C")
	srv.Fail(2)

	client := chain.NewClient(chain.Config{Endpoint: srv.URL}, chain.WithLogger(logger.Nop()))
	store := newStore(t)
	c := NewCapturer(client, client, store, WithClock(fixedClock(t0)))

	res, err := c.Run(context.Background(), "finney")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if hk, ok := res.Snapshot.Subnet(1).Hotkey(1); !ok || hk != "B" {
		t.Errorf("subnet 1 uid 1 = %q", hk)
	}
	if len(res.Failed) != 1 || res.Failed[0] != 2 {
		t.Errorf("Failed = %v, want [2]", res.Failed)
	}
}
