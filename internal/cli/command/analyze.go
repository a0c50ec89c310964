package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/subtrack-go/internal/cli/output"
	"github.com/yndnr/subtrack-go/internal/core/domain"
	"github.com/yndnr/subtrack-go/internal/core/service"
)

// AnalyzeCommand returns the analyze command.
func AnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Rank subnets by competition across all stored snapshots",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "sort-by",
				Usage: "Ranking metric: " + strings.Join(domain.SortKeyNames(), ", "),
			},
			&cli.IntFlag{
				Name:  "min-snapshots",
				Usage: "Minimum snapshots required for analysis",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Show only the N most competitive subnets (0 for all)",
			},
		},
		Action: analyze,
	}
}

func analyze(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}

	sortBy := env.Config.Analysis.SortBy
	if c.IsSet("sort-by") {
		sortBy = c.String("sort-by")
	}
	key, err := domain.ParseSortKey(sortBy)
	if err != nil {
		return err
	}

	minSnapshots := env.Config.Analysis.MinSnapshots
	if c.IsSet("min-snapshots") {
		minSnapshots = c.Int("min-snapshots")
	}
	top := c.Int("top")
	if top < 0 {
		return fmt.Errorf("--top must not be negative, got %d", top)
	}

	opts := []service.AnalyzerOption{service.WithAnalyzerMetrics(env.Metrics)}
	if cache := env.DeltaCache(); cache != nil {
		opts = append(opts, service.WithDeltaCache(cache))
	}

	analysis, err := service.NewAnalyzer(opts...).AnalyzeStore(c.Context, env.Store, minSnapshots)
	if err != nil {
		return err
	}
	return env.Render(output.NewRankingReport(env.Config.Network, analysis, key, top))
}
