package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/subtrack-go/internal/cli/output"
	"github.com/yndnr/subtrack-go/internal/config"
	"github.com/yndnr/subtrack-go/internal/infra/buildinfo"
	"github.com/yndnr/subtrack-go/internal/infra/confloader"
	"github.com/yndnr/subtrack-go/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "subtrack",
		Usage:   "Track and analyze subnet competition",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			SnapshotCommand(),
			AnalyzeCommand(),
			CompareCommand(),
			CostsCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: before,
		After:  after,
	}
}

// globalFlags returns the global CLI flags. Flags that mirror a
// configuration key override every other source.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"SUBTRACK_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Directory to store snapshots (default: snapshots)",
		},
		&cli.StringFlag{
			Name:  "network",
			Usage: "Network to track (default: finney)",
		},
		&cli.StringFlag{
			Name:  "chain-endpoint",
			Usage: "Base URL of the subtensor HTTP API",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write Prometheus metrics to this textfile when the command finishes",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Do not read or write the delta cache",
		},
	}
}

// flagKeys maps global flags to the configuration keys they override.
var flagKeys = map[string]string{
	"data-dir":       "data_dir",
	"network":        "network",
	"chain-endpoint": "chain.endpoint",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"metrics-file":   "metrics.file",
}

// GlobalFlags defines flags available to all commands that are not part of
// the configuration.
type GlobalFlags struct {
	Config string
	Output string
	Wide   bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Config: c.String("config"),
		Output: c.String("output"),
		Wide:   c.Bool("wide"),
	}
}

func before(c *cli.Context) error {
	flags := ParseGlobalFlags(c)

	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c, flags.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	log.Debug("configuration loaded",
		"file", flags.Config,
		"config", config.Sanitize(cfg))

	env, err := newEnv(cfg, log, c.App.Writer, c.App.ErrWriter, format, flags.Wide)
	if err != nil {
		return err
	}

	ctx, stop := env.shutdown.Context(c.Context)
	env.shutdown.OnShutdown(func(context.Context) error {
		stop()
		return nil
	})
	c.Context = logger.WithLogger(ctx, log)

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[envMetadataKey] = env
	return nil
}

func after(c *cli.Context) error {
	env, ok := c.App.Metadata[envMetadataKey].(*Env)
	if !ok {
		return nil
	}
	return env.Close()
}

// loadConfig layers defaults, the config file, the environment and the
// global flags, then verifies the result.
func loadConfig(c *cli.Context, file string) (*config.Config, error) {
	cfg := config.Default()

	loader := confloader.NewLoader(
		confloader.WithConfigFile(file),
		confloader.WithEnvKeys(config.EnvKeys()...),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	overrides := make(map[string]any)
	for flag, key := range flagKeys {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}
	if c.Bool("no-cache") {
		overrides["cache.enabled"] = false
	}
	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
