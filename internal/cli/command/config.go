package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/subtrack-go/internal/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration introspection",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration (secrets masked)",
				Action: configShow,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	env, err := envFrom(c)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(env.Out)
	enc.SetIndent(2)
	if err := enc.Encode(config.Sanitize(env.Config)); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
