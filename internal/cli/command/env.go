package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/subtrack-go/internal/chain"
	"github.com/yndnr/subtrack-go/internal/cli/output"
	"github.com/yndnr/subtrack-go/internal/config"
	"github.com/yndnr/subtrack-go/internal/infra/shutdown"
	"github.com/yndnr/subtrack-go/internal/infra/tlsroots"
	"github.com/yndnr/subtrack-go/internal/storage"
	"github.com/yndnr/subtrack-go/internal/storage/snapshot"
	"github.com/yndnr/subtrack-go/internal/telemetry/logger"
	"github.com/yndnr/subtrack-go/internal/telemetry/metric"
)

const (
	envMetadataKey = "env"

	// cleanupTimeout bounds the shutdown hooks (cache close, metrics export).
	cleanupTimeout = 10 * time.Second
)

// Env holds the dependencies shared by all commands of one invocation.
type Env struct {
	Config  *config.Config
	Log     logger.Logger
	Metrics *metric.Registry
	Store   *snapshot.Store

	Out    io.Writer
	Err    io.Writer
	Format output.Format
	Wide   bool

	shutdown *shutdown.Handler

	chain     *chain.Client
	kv        storage.KVEngine
	cache     *storage.DeltaCache
	cacheOpen bool
}

func newEnv(cfg *config.Config, log logger.Logger, out, errOut io.Writer, format output.Format, wide bool) (*Env, error) {
	store, err := snapshot.NewStore(snapshot.Config{
		Dir:            cfg.DataDir,
		RetentionCount: cfg.Snapshot.Keep,
	})
	if err != nil {
		return nil, err
	}

	env := &Env{
		Config:   cfg,
		Log:      log,
		Metrics:  metric.NewRegistry(),
		Store:    store,
		Out:      out,
		Err:      errOut,
		Format:   format,
		Wide:     wide,
		shutdown: shutdown.NewHandler(cleanupTimeout),
	}

	// Registered first so it runs last, after the cache has flushed its gauges.
	if path := cfg.Metrics.File; path != "" {
		env.shutdown.OnShutdown(func(ctx context.Context) error {
			if err := env.Metrics.WriteTextfile(path); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
			log.Debug("metrics written", "path", path)
			return nil
		})
	}
	return env, nil
}

// envFrom returns the Env prepared by the root Before hook.
func envFrom(c *cli.Context) (*Env, error) {
	if env, ok := c.App.Metadata[envMetadataKey].(*Env); ok {
		return env, nil
	}
	return nil, fmt.Errorf("command environment not initialized")
}

// Chain returns the chain API client, creating it on first use.
func (e *Env) Chain() (*chain.Client, error) {
	if e.chain != nil {
		return e.chain, nil
	}

	cc := e.Config.Chain
	tc, err := tlsroots.ClientConfig(cc.CAFile)
	if err != nil {
		return nil, fmt.Errorf("chain ca_file: %w", err)
	}
	e.chain = chain.NewClient(chain.Config{
		Endpoint:   cc.Endpoint,
		APIKey:     cc.APIKey,
		Timeout:    cc.Timeout,
		MaxRetries: cc.MaxRetries,
		RateLimit:  cc.RateLimit,
	},
		chain.WithTLSConfig(tc),
		chain.WithLogger(e.Log),
		chain.WithMetrics(e.Metrics),
	)
	return e.chain, nil
}

// DeltaCache opens the persistent delta cache on first use. It returns nil
// when the cache is disabled or cannot be opened; analysis then diffs every
// pair from disk.
func (e *Env) DeltaCache() *storage.DeltaCache {
	if e.cacheOpen || !e.Config.Cache.Enabled {
		return e.cache
	}
	e.cacheOpen = true

	kvCfg := storage.DefaultKVConfig(e.Config.CacheDir())
	engine, err := storage.NewBadgerEngine(kvCfg, e.Log)
	if err != nil {
		e.Log.Warn("delta cache unavailable, continuing without it", "dir", kvCfg.Dir, "error", err)
		return nil
	}
	engine.RegisterMetrics(e.Metrics.Registerer())

	e.kv = engine
	e.cache = storage.NewDeltaCache(engine)
	e.shutdown.OnShutdown(func(ctx context.Context) error {
		return engine.Close()
	})
	return e.cache
}

// Render writes data to stdout in the selected format.
func (e *Env) Render(data any) error {
	return output.NewFormatter(e.Format, e.Wide).Format(e.Out, data)
}

// Prune removes all but the newest keep snapshots and drops the cached
// deltas that reference them.
func (e *Env) Prune(ctx context.Context, keep int) (*output.PruneReport, error) {
	removed, err := e.Store.Prune(keep)
	report := &output.PruneReport{Removed: removed}
	if report.Removed == nil {
		report.Removed = []string{}
	}
	if err != nil {
		return report, err
	}

	if cache := e.DeltaCache(); cache != nil && len(removed) > 0 {
		for _, id := range removed {
			n, err := cache.Invalidate(ctx, id)
			if err != nil {
				e.Log.Warn("delta cache invalidation failed", "snapshot", id, "error", err)
				continue
			}
			report.CacheEntries += n
		}
		if rewrites, err := e.kv.GC(ctx); err != nil {
			e.Log.Warn("delta cache gc failed", "error", err)
		} else {
			e.Log.Debug("delta cache gc", "rewrites", rewrites)
		}
	}

	infos, err := e.Store.List()
	if err != nil {
		return report, err
	}
	report.Kept = len(infos)

	for _, id := range removed {
		e.Log.Info("snapshot pruned", "id", id)
	}
	return report, nil
}

// Close runs the cleanup hooks once.
func (e *Env) Close() error {
	return e.shutdown.Run()
}

// interactive reports whether w is a terminal, where progress output helps
// rather than pollutes.
func interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	return err == nil && stat.Mode()&os.ModeCharDevice != 0
}
