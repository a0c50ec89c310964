// Package shutdown coordinates interruption and cleanup for subtrack.
//
// A capture can take minutes against a slow chain endpoint. The Handler
// turns SIGINT/SIGTERM into context cancellation so in-flight requests stop
// early, and runs registered cleanup hooks (closing the delta cache, writing
// the metrics textfile) exactly once when the command finishes:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	ctx, stop := h.Context(context.Background())
//	defer stop()
//	h.OnShutdown(func(ctx context.Context) error { return kv.Close() })
//	defer h.Run()
package shutdown
