package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yndnr/subtrack-go/internal/chain/chaintest"
	"github.com/yndnr/subtrack-go/internal/core/domain"
	"github.com/yndnr/subtrack-go/internal/storage/snapshot"
)

// testEnv is an isolated data directory, config file and fake chain API.
type testEnv struct {
	t       *testing.T
	dataDir string
	config  string
	chain   *chaintest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	srv := chaintest.NewServer("finney")
	t.Cleanup(srv.Close)

	cfgPath := filepath.Join(dir, "subtrack.yaml")
	cfg := "chain:\n  timeout: 5s\n  max_retries: 0\n  rate_limit: 0\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &testEnv{
		t:       t,
		dataDir: filepath.Join(dir, "snapshots"),
		config:  cfgPath,
		chain:   srv,
	}
}

// run executes the CLI with the test environment's global flags prepended.
func (e *testEnv) run(args ...string) (stdout, stderr string, err error) {
	e.t.Helper()

	var out, errOut bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &errOut

	full := []string{
		"subtrack",
		"--config", e.config,
		"--data-dir", e.dataDir,
		"--chain-endpoint", e.chain.URL,
	}
	full = append(full, args...)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = app.RunContext(ctx, full)
	return out.String(), errOut.String(), err
}

// seed persists a snapshot with the given ownership tables directly into
// the data directory.
func (e *testEnv) seed(ts time.Time, subnets map[int]map[int]string) string {
	e.t.Helper()

	store, err := snapshot.NewStore(snapshot.DefaultConfig(e.dataDir))
	if err != nil {
		e.t.Fatalf("NewStore: %v", err)
	}
	snap := domain.NewSnapshot("finney", ts)
	for netuid, table := range subnets {
		snap.Subnets[netuid] = &domain.SubnetRecord{
			UIDHotkeys: table,
			NNeurons:   len(table),
		}
	}
	info, err := store.Persist(snap)
	if err != nil {
		e.t.Fatalf("Persist: %v", err)
	}
	return info.ID
}
