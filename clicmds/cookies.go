package clicmds

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/darcyk/store"
)

// CookieCommands export a browser session to the data directory and import it back
func CookieCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "export",
			Usage:  "open a url, wait for it and save the browser's cookies",
			Action: ExportCookies,
			Flags:  []cli.Flag{urlFlag(), viewFlag()},
		},
		{
			Name:   "import",
			Usage:  "load saved cookies into a browser, then open a url",
			Action: ImportCookies,
			Flags:  []cli.Flag{urlFlag(), viewFlag()},
		},
		{
			Name:   "list",
			Usage:  "print saved cookies",
			Action: ListCookies,
		},
	}
}

func openJar(path string) (*store.CookieJar, error) {
	jar := store.NewCookieJar(path)
	if err := jar.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to open cookie jar")
	}
	return jar, nil
}

// ExportCookies from a browser into the cookie jar
func ExportCookies(c *cli.Context) error {
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

	jar, err := openJar(cookiePath(cfg))
	if err != nil {
		return err
	}
	defer jar.Close()

	n, err := store.CopyCookies(jar, s.browser.Cookies(), time.Now())
	if err != nil {
		return err
	}
	log.Info().Int("cookies", n).Str("path", cookiePath(cfg)).Msg("exported cookies")
	return nil
}

// ImportCookies from the cookie jar into a browser, then open the url with them
func ImportCookies(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}

	jar, err := openJar(cookiePath(cfg))
	if err != nil {
		return err
	}
	defer jar.Close()

	ctx := context.Background()
	s, err := openSession(ctx, c, cfg)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	n, err := store.CopyCookies(s.browser.Cookies(), jar, time.Now())
	if err != nil {
		return err
	}
	log.Info().Int("cookies", n).Msg("imported cookies")

	if cfg.URL == "" {
		return nil
	}
	_, err = s.open(ctx, cfg.URL, c.String("view"))
	return err
}

// ListCookies prints the cookie jar
func ListCookies(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}
	jar, err := openJar(cookiePath(cfg))
	if err != nil {
		return err
	}
	defer jar.Close()

	all, err := jar.All()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Had %d cookies\n", len(all))
	for _, cookie := range all {
		fmt.Fprintf(c.App.Writer, "%s\n", cookie)
	}
	return nil
}
