package clicmds

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/darcyk/darcyk"
)

// GlobalFlags are accepted by every command
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "toml config to use",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "data directory for cookies and history",
			Value: "darcyktmp",
		},
		&cli.StringFlag{
			Name:  "timeout",
			Usage: "navigation timeout, overrides the config",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "loglevel",
			Usage: "trace, debug, info, warn or error",
			Value: "info",
		},
		&cli.StringFlag{
			Name:  "metrics",
			Usage: "address to serve prometheus metrics on, empty to disable",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "chrome",
			Usage: "path to chrome, searched for when empty",
			Value: "",
		},
		&cli.BoolFlag{
			Name:  "headless",
			Usage: "run chrome headless",
			Value: true,
		},
	}
}

// SetupLogging writes human readable logs to stderr at the --loglevel level
func SetupLogging(ctx *cli.Context) error {
	level, err := zerolog.ParseLevel(ctx.String("loglevel"))
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}

// LoadConfig reads the --config file if there is one and overlays the flags on it
func LoadConfig(ctx *cli.Context) (*darcyk.Config, error) {
	cfg := &darcyk.Config{}

	if path := ctx.String("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config %s", path)
		}
	}

	if ctx.IsSet("url") || cfg.URL == "" {
		cfg.URL = ctx.String("url")
	}
	if ctx.IsSet("datadir") || cfg.DataPath == "" {
		cfg.DataPath = ctx.String("datadir")
	}
	if ctx.IsSet("chrome") || cfg.ChromePath == "" {
		cfg.ChromePath = ctx.String("chrome")
	}
	if ctx.IsSet("headless") || ctx.String("config") == "" {
		cfg.Headless = ctx.Bool("headless")
	}
	if ctx.String("timeout") != "" {
		cfg.NavigationTimeout = ctx.String("timeout")
	}

	if _, err := cfg.Timeout(); err != nil {
		return nil, err
	}
	if _, err := cfg.Poll(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func cookiePath(cfg *darcyk.Config) string {
	return filepath.Join(cfg.DataPath, "cookies")
}

func graphPath(cfg *darcyk.Config) string {
	return filepath.Join(cfg.DataPath, "graph")
}
