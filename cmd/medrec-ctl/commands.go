package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	cli "github.com/urfave/cli/v2"

	"github.com/yeqown/medrec"
	"github.com/yeqown/medrec/sqlitestore"
)

// openEnv merges flags over the config file, then opens the registry and loads
// the data file. A missing text file is an empty registry.
func openEnv(c *cli.Context) (*env, error) {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("data") || cfg.Data.Path == "" {
		cfg.Data.Path = c.String("data")
	}
	if c.IsSet("format") {
		cfg.Data.Format = c.String("format")
		if err = checkFormat(cfg.Data.Format); err != nil {
			return nil, err
		}
	}

	level := cfg.Log.Level
	if c.Bool("verbose") {
		level = logrus.DebugLevel.String()
	}
	logger, err := newLogger(level, c.App.ErrWriter)
	if err != nil {
		return nil, err
	}

	reg := medrec.New(
		medrec.WithLimits(cfg.limits()),
		medrec.WithLogger(registryLogger(logger)),
	)

	store, closeFn, err := openPersister(cfg.Data.Format, cfg.Data.Path, registryLogger(logger))
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger, reg: reg, store: store, closeFn: closeFn}

	result, err := reg.LoadFrom(store)
	switch {
	case err == nil:
		logger.WithFields(logrus.Fields{
			"path":       cfg.Data.Path,
			"loaded":     result.Loaded,
			"duplicates": result.Duplicates,
			"skipped":    result.Skipped,
		}).Debug("records loaded")
	case errors.Is(err, os.ErrNotExist):
		logger.WithField("path", cfg.Data.Path).Debug("no record file yet, starting empty")
	default:
		_ = e.close()
		return nil, err
	}

	return e, nil
}

func openPersister(format, path string, logger medrec.Logger) (medrec.Persister, func() error, error) {
	switch format {
	case formatSQLite:
		store, err := sqlitestore.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case formatText:
		return medrec.NewTextFile(nil, path).WithLogger(logger), nil, nil
	}

	return nil, nil, checkFormat(format)
}

func requireArgs(c *cli.Context, n int, usage string) error {
	if c.NArg() != n {
		return errors.Errorf("want %d arguments: %s", n, usage)
	}
	return nil
}

func parseAge(s string) (int, error) {
	age, err := strconv.Atoi(s)
	if err != nil || age < 0 {
		return 0, errors.Errorf("invalid age %q", s)
	}
	return age, nil
}

func printRecord(w io.Writer, rec medrec.Record) {
	fmt.Fprintf(w, "Name: %s\n", rec.Name)
	fmt.Fprintf(w, "Age: %d\n", rec.Age)
	fmt.Fprintf(w, "Gender: %s\n", rec.Gender)
	fmt.Fprintf(w, "Medical History: %s\n", rec.MedicalHistory)
	fmt.Fprintf(w, "Diagnosis: %s\n", rec.Diagnosis)
	fmt.Fprintf(w, "Prescription: %s\n", rec.Prescription)
	fmt.Fprintln(w, "-----------------------------")
}

func newAddCommand() *cli.Command {
	const usage = "NAME AGE GENDER HISTORY DIAGNOSIS PRESCRIPTION"
	return &cli.Command{
		Name:      "add",
		Usage:     "add a patient record",
		ArgsUsage: usage,
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 6, usage); err != nil {
				return err
			}
			args := c.Args()
			age, err := parseAge(args.Get(1))
			if err != nil {
				return err
			}

			e := envFromContext(c.Context)
			rec := medrec.NewRecord(args.Get(0), age, args.Get(2), args.Get(3), args.Get(4), args.Get(5))
			added, err := e.reg.Add(rec)
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(c.App.Writer, "patient %s already exists, record ignored\n", rec.Name)
				return nil
			}

			if err = e.save(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "patient %s added\n", rec.Name)
			return nil
		},
	}
}

func newGetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "show the record of one patient",
		ArgsUsage: "NAME",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1, "NAME"); err != nil {
				return err
			}

			rec, ok := envFromContext(c.Context).reg.Get(c.Args().First())
			if !ok {
				fmt.Fprintln(c.App.Writer, "patient not found")
				return nil
			}

			printRecord(c.App.Writer, rec)
			return nil
		},
	}
}

func newUpdateCommand() *cli.Command {
	const usage = "NAME HISTORY DIAGNOSIS PRESCRIPTION"
	return &cli.Command{
		Name:      "update",
		Usage:     "replace medical history, diagnosis and prescription of a patient",
		ArgsUsage: usage,
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 4, usage); err != nil {
				return err
			}

			e := envFromContext(c.Context)
			args := c.Args()
			updated, err := e.reg.Update(args.Get(0), args.Get(1), args.Get(2), args.Get(3))
			if err != nil {
				return err
			}
			if !updated {
				fmt.Fprintln(c.App.Writer, "patient not found")
				return nil
			}

			if err = e.save(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "patient %s updated\n", args.Get(0))
			return nil
		},
	}
}

func newDelCommand() *cli.Command {
	return &cli.Command{
		Name:      "del",
		Usage:     "delete the record of one patient",
		ArgsUsage: "NAME",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 1, "NAME"); err != nil {
				return err
			}

			e := envFromContext(c.Context)
			name := c.Args().First()
			if !e.reg.Delete(name) {
				fmt.Fprintln(c.App.Writer, "patient not found")
				return nil
			}

			if err := e.save(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "patient %s deleted\n", name)
			return nil
		},
	}
}

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "show all records ordered by name",
		Action: func(c *cli.Context) error {
			e := envFromContext(c.Context)
			if e.reg.Len() == 0 {
				fmt.Fprintln(c.App.Writer, "no patient records")
				return nil
			}

			for rec := range e.reg.Records() {
				printRecord(c.App.Writer, rec)
			}
			return nil
		},
	}
}

func newRangeCommand() *cli.Command {
	return &cli.Command{
		Name:      "range",
		Usage:     "show records whose age lies in [MIN_AGE, MAX_AGE]",
		ArgsUsage: "MIN_AGE MAX_AGE",
		Action: func(c *cli.Context) error {
			if err := requireArgs(c, 2, "MIN_AGE MAX_AGE"); err != nil {
				return err
			}
			minAge, err := parseAge(c.Args().Get(0))
			if err != nil {
				return err
			}
			maxAge, err := parseAge(c.Args().Get(1))
			if err != nil {
				return err
			}

			found := 0
			for rec := range envFromContext(c.Context).reg.RangeByAge(minAge, maxAge) {
				printRecord(c.App.Writer, rec)
				found++
			}
			if found == 0 {
				fmt.Fprintln(c.App.Writer, "no patient in age range")
			}
			return nil
		},
	}
}

func newStatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "show index statistics",
		Action: func(c *cli.Context) error {
			stats := envFromContext(c.Context).reg.Stats()
			fmt.Fprintf(c.App.Writer, "records: %d\n", stats.Records)
			fmt.Fprintf(c.App.Writer, "distinct ages: %d\n", stats.Ages)
			fmt.Fprintf(c.App.Writer, "name index height: %d\n", stats.NameHeight)
			fmt.Fprintf(c.App.Writer, "age index height: %d\n", stats.AgeHeight)
			return nil
		},
	}
}

func newConvertCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "write all records into another file and format",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "to",
				Usage:    "target format, text or sqlite",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "target file",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			e := envFromContext(c.Context)
			store, closeFn, err := openPersister(c.String("to"), c.String("out"), registryLogger(e.logger))
			if err != nil {
				return err
			}
			if closeFn != nil {
				defer closeFn()
			}

			if err = e.reg.SaveTo(store); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%d records written to %s\n", e.reg.Len(), c.String("out"))
			return nil
		},
	}
}
