package metric

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.registry == nil {
		t.Error("registry field is nil")
	}
	if r.CapturesTotal == nil || r.ChainRequestsTotal == nil || r.DeltaCacheHits == nil {
		t.Error("metrics not initialised")
	}
}

func TestRegistry_Isolated(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	a.CapturesTotal.Inc()
	if got := testutil.ToFloat64(b.CapturesTotal); got != 0 {
		t.Errorf("registries should not share counters, got %v", got)
	}
}

func TestRegistry_ChainRequests(t *testing.T) {
	r := NewRegistry()
	r.ChainRequestsTotal.WithLabelValues("metagraph", "200").Inc()
	r.ChainRequestsTotal.WithLabelValues("metagraph", "200").Inc()
	r.ChainRequestsTotal.WithLabelValues("subnets", "503").Inc()

	if got := testutil.ToFloat64(r.ChainRequestsTotal.WithLabelValues("metagraph", "200")); got != 2 {
		t.Errorf("metagraph/200 = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(r.ChainRequestsTotal); got != 2 {
		t.Errorf("series = %d, want 2", got)
	}
}

func TestRegistry_WriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.CapturesTotal.Inc()
	r.SubnetsCaptured.Add(3)
	r.SnapshotBytes.Set(1024)

	path := filepath.Join(t.TempDir(), "nested", "subtrack.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"subtrack_captures_total 1",
		"subtrack_subnets_captured_total 3",
		"subtrack_snapshot_bytes 1024",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q", want)
		}
	}
}

func TestRegistry_Gatherer(t *testing.T) {
	r := NewRegistry()
	r.DeltaCacheMisses.Inc()

	mfs, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "subtrack_delta_cache_misses_total" {
			found = true
		}
	}
	if !found {
		t.Error("delta cache misses not gathered")
	}
}
