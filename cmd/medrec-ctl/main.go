package main

import (
	"fmt"
	"os"

	cli "github.com/urfave/cli/v2"
)

// medrec-ctl is a command line tool to manage a medrec patient file.
// Usage:
// $ medrec-ctl [global flags] sub-command [args...]
// It has sub-commands:
// - add: medrec-ctl add NAME AGE GENDER HISTORY DIAGNOSIS PRESCRIPTION
// - get: medrec-ctl get NAME
// - update: medrec-ctl update NAME HISTORY DIAGNOSIS PRESCRIPTION
// - del: medrec-ctl del NAME
// - list: medrec-ctl list
// - range: medrec-ctl range MIN_AGE MAX_AGE
// - stats: medrec-ctl stats
// - convert: medrec-ctl convert --to sqlite --out patients.sqlite
//
// Global flags:
// - data: path to the record file, default is ./patients.txt
// - format: text or sqlite, default is text
// - config: YAML config file
// - verbose: log at debug level

func main() {
	app := newCliApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "medrec-ctl failed: %v\n", err)
		os.Exit(1)
	}
}

func newCliApp() *cli.App {
	app := cli.NewApp()
	app.Name = "medrec-ctl"
	app.Usage = "medrec patient records control tool"
	app.Version = "0.1.0"
	app.Commands = []*cli.Command{
		newAddCommand(),
		newGetCommand(),
		newUpdateCommand(),
		newDelCommand(),
		newListCommand(),
		newRangeCommand(),
		newStatsCommand(),
		newConvertCommand(),
	}
	app.Before = func(c *cli.Context) error {
		e, err := openEnv(c)
		if err != nil {
			return err
		}

		c.Context = contextWithEnv(c.Context, e)
		return nil
	}
	app.After = func(c *cli.Context) error {
		if c.Context.Value(envContextKey{}) == nil {
			return nil
		}
		return envFromContext(c.Context).close()
	}
	// global flags
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "path to the record file",
			Value:   defaultDataPath,
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "record file format, text or sqlite",
			Value: formatText,
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log at debug level",
		},
	}

	return app
}
