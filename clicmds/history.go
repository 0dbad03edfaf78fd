package clicmds

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/store"
)

// HistoryFlags for the history command
func HistoryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "from",
			Usage: "only print the pages reached from this url",
			Value: "",
		},
		&cli.BoolFlag{
			Name:  "failed",
			Usage: "only print transitions that failed",
			Value: false,
		},
	}
}

// History prints the transitions recorded in the data directory
func History(c *cli.Context) error {
	cfg, err := LoadConfig(c)
	if err != nil {
		return err
	}

	graph := store.NewTransitionGraph("bolt", graphPath(cfg))
	if err := graph.Init(); err != nil {
		log.Error().Err(err).Msg("failed to init database for viewing")
		return err
	}
	defer graph.Close()

	ctx := context.Background()
	out := c.App.Writer

	if from := c.String("from"); from != "" {
		pages, err := graph.NextPages(ctx, from)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Had %d pages reached from %s\n", len(pages), from)
		for _, page := range pages {
			fmt.Fprintf(out, "%s -> %s\n", from, page)
		}
		return nil
	}

	transitions, err := graph.Transitions(ctx)
	if err != nil {
		return err
	}
	if c.Bool("failed") {
		failed := make([]*darcyk.Transition, 0)
		for _, t := range transitions {
			if t.State == darcyk.NavFailed {
				failed = append(failed, t)
			}
		}
		transitions = failed
	}

	fmt.Fprintf(out, "Had %d transitions\n", len(transitions))
	for _, t := range transitions {
		fmt.Fprintln(out, printTransition(t))
	}
	return nil
}

func printTransition(t *darcyk.Transition) string {
	ret := fmt.Sprintf("%s %s", t.Started.Format("2006-01-02 15:04:05"), t.Action)
	if t.URL != "" {
		ret += " " + t.URL
	}
	ret += fmt.Sprintf(" %s -> %s [%s] %s in %s", t.FromURL, t.ToURL, t.Destination, t.State, t.Elapsed)
	if t.Error != "" {
		ret += ": " + t.Error
	}
	return ret
}
