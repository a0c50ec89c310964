package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/subtrack-go/internal/cli/output"
	"github.com/yndnr/subtrack-go/internal/core/service"
)

// SnapshotCommand returns the snapshot command and its subcommands.
func SnapshotCommand() *cli.Command {
	return &cli.Command{
		Name:   "snapshot",
		Usage:  "Capture the hotkey ownership of every subnet",
		Action: snapshotCapture,
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List stored snapshots",
				Action:  snapshotList,
			},
			{
				Name:  "prune",
				Usage: "Remove all but the newest snapshots",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "keep",
						Usage:    "Number of newest snapshots to keep",
						Required: true,
					},
				},
				Action: snapshotPrune,
			},
		},
	}
}

func snapshotCapture(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}

	client, err := env.Chain()
	if err != nil {
		return err
	}

	opts := []service.CapturerOption{service.WithCaptureMetrics(env.Metrics)}
	var bar *output.ProgressBar
	if env.Format == output.FormatTable && interactive(env.Err) {
		bar = output.NewProgressBar(env.Err, "Capturing")
		opts = append(opts, service.WithProgress(bar.Update))
	}

	capturer := service.NewCapturer(client, client, env.Store, opts...)
	res, err := capturer.Run(c.Context, env.Config.Network)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	report := output.NewCaptureReport(res.Snapshot, res.Info, res.Failed)
	if keep := env.Config.Snapshot.Keep; keep > 0 {
		pruned, err := env.Prune(c.Context, keep)
		if err != nil {
			return fmt.Errorf("prune snapshots: %w", err)
		}
		report.Pruned = pruned.Removed
	}
	return env.Render(report)
}

func snapshotList(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}

	infos, err := env.Store.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 && env.Format == output.FormatTable {
		fmt.Fprintf(env.Out, "No snapshots in %s.\n", env.Store.Dir())
		return nil
	}
	return env.Render(output.NewSnapshotList(infos))
}

func snapshotPrune(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}

	keep := c.Int("keep")
	if keep < 1 {
		return fmt.Errorf("--keep must be at least 1, got %d", keep)
	}

	report, err := env.Prune(c.Context, keep)
	if err != nil {
		return err
	}
	return env.Render(report)
}
