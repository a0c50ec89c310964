package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/subtrack-go/internal/cli/output"
	"github.com/yndnr/subtrack-go/internal/core/service"
)

// CostsCommand returns the costs command.
func CostsCommand() *cli.Command {
	return &cli.Command{
		Name:  "costs",
		Usage: "Show the registration cost of subnets",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{
				Name:  "netuid",
				Usage: "Subnet to include (repeatable; default all)",
			},
			&cli.Float64Flag{
				Name:  "tao-price",
				Usage: "TAO price in USD for cost conversion",
			},
		},
		Action: costs,
	}
}

func costs(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}

	price := c.Float64("tao-price")
	if price < 0 {
		return fmt.Errorf("--tao-price must not be negative")
	}

	client, err := env.Chain()
	if err != nil {
		return err
	}
	list, err := service.NewCostService(client, client).Costs(c.Context, env.Config.Network, c.IntSlice("netuid"), price)
	if err != nil {
		return err
	}
	return env.Render(output.NewCostReport(env.Config.Network, list, price))
}
