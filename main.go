package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/darcyk/clicmds"
)

func main() {
	app := cli.NewApp()
	app.Name = "darcyk"
	app.Version = "0.1"
	app.Usage = "Open pages, wait for views and keep browser sessions"
	app.Flags = clicmds.GlobalFlags()
	app.Before = clicmds.SetupLogging
	app.Commands = clicmds.Commands()
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Msg("darcyk failed")
	}
}
