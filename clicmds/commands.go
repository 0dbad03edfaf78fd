package clicmds

import "github.com/urfave/cli/v2"

// Commands darcyk runs
func Commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:    "open",
			Aliases: []string{"o"},
			Usage:   "open a url and wait for its view to load",
			Action:  Open,
			Flags:   OpenFlags(),
		},
		{
			Name:    "find",
			Aliases: []string{"f"},
			Usage:   "open a url and print the elements a locator matches",
			Action:  Find,
			Flags:   FindFlags(),
		},
		{
			Name:        "cookies",
			Usage:       "export, import or list saved cookies",
			Subcommands: CookieCommands(),
		},
		{
			Name:    "history",
			Aliases: []string{"h"},
			Usage:   "print recorded navigation transitions",
			Action:  History,
			Flags:   HistoryFlags(),
		},
	}
}
