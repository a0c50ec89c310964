package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/subtrack-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			env, err := envFrom(c)
			if err != nil {
				return err
			}
			return env.Render(buildinfo.Get())
		},
	}
}
