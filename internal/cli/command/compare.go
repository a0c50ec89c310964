package command

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/subtrack-go/internal/cli/output"
	"github.com/yndnr/subtrack-go/internal/core/service"
)

// CompareCommand returns the compare command.
func CompareCommand() *cli.Command {
	return &cli.Command{
		Name:  "compare",
		Usage: "Show ownership changes between two snapshots",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "snapshot1",
				Usage: "Older snapshot (ID or file path)",
			},
			&cli.StringFlag{
				Name:  "snapshot2",
				Usage: "Newer snapshot (ID or file path)",
			},
			&cli.BoolFlag{
				Name:  "detail",
				Usage: "List every changed UID",
			},
		},
		Action: compare,
	}
}

func compare(c *cli.Context) error {
	older, newer := c.String("snapshot1"), c.String("snapshot2")
	if older == "" || newer == "" {
		return errors.New("please specify --snapshot1 and --snapshot2")
	}

	env, err := envFrom(c)
	if err != nil {
		return err
	}

	s1, err := env.Store.Load(older)
	if err != nil {
		return err
	}
	s2, err := env.Store.Load(newer)
	if err != nil {
		return err
	}

	deltas := service.NewDiffer().Diff(s1, s2)
	return env.Render(output.NewCompareReport(s1, s2, deltas, c.Bool("detail")))
}
