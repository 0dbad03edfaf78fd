package clicmds

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/darcyk/darcyk/by"
	"gitlab.com/darcyk/synq"
)

func urlFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "url",
		Usage: "url to open",
		Value: "",
	}
}

func viewFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "view",
		Usage: "name of a configured view to wait for, defaults to the url",
		Value: "",
	}
}

// OpenFlags for the open command
func OpenFlags() []cli.Flag {
	return []cli.Flag{
		urlFlag(),
		viewFlag(),
		&cli.StringFlag{
			Name:  "screenshot",
			Usage: "save a png of the loaded page to this path",
			Value: "",
		},
	}
}

// Open a url and wait for its view to load
func Open(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}
	if cfg.URL == "" {
		return errors.New("no url to open")
	}

	ctx := context.Background()
	s, err := openSession(ctx, c, cfg)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	loaded, err := s.open(ctx, cfg.URL, c.String("view"))
	if err != nil {
		log.Error().Err(err).Str("url", cfg.URL).Msg("view did not load")
		return err
	}

	url, _ := s.browser.CurrentURL(ctx)
	title, _ := s.browser.Title(ctx)
	fmt.Fprintf(c.App.Writer, "%s loaded\nurl: %s\ntitle: %s\n", synq.DescribeView(loaded), url, title)

	if path := c.String("screenshot"); path != "" {
		if err := s.browser.ScreenshotTo(ctx, path); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "screenshot: %s\n", path)
	}
	return nil
}

// FindFlags for the find command
func FindFlags() []cli.Flag {
	return []cli.Flag{
		urlFlag(),
		viewFlag(),
		&cli.StringFlag{
			Name:     "locator",
			Usage:    "strategy=value, nested with ' >> '",
			Required: true,
		},
	}
}

// Find opens a url and prints the elements a locator matches
func Find(c *cli.Context) error {
	loc, err := by.Parse(c.String("locator"))
	if err != nil {
		return err
	}
	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}
	if cfg.URL == "" {
		return errors.New("no url to open")
	}

	ctx := context.Background()
	s, err := openSession(ctx, c, cfg)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	if _, err := s.open(ctx, cfg.URL, c.String("view")); err != nil {
		return err
	}

	found, err := s.browser.Find().Elements(loc)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%d elements match %s\n", len(found), loc)
	for i, el := range found {
		text, err := el.Text()
		if err != nil {
			log.Debug().Err(err).Int("index", i).Msg("failed to read element text")
		}
		fmt.Fprintf(c.App.Writer, "%d: %s\n", i, text)
	}
	return nil
}
