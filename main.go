package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/faux/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

// configFlags are shared by the commands that load contracts
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to faux.json or faux.yaml (default: search the working directory and its parents)",
		},
		&cli.StringFlag{
			Name:    "lang",
			Aliases: []string{"l"},
			Usage:   "target language (go, typescript, ts, openapi)",
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "output directory",
		},
		&cli.StringFlag{
			Name:  "namespace",
			Usage: "package or module name of the generated code",
		},
		&cli.BoolFlag{
			Name:  "sealed",
			Usage: "hide implementations behind their contract",
		},
		&cli.BoolFlag{
			Name:  "write",
			Usage: "write generated files to the output directory",
		},
	}
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
		Out:   os.Stdout,
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// readFlags copies the command's flags into the controller
	readFlags := func(c *cli.Command) {
		ctrl.Flags.Config = c.String("config")
		ctrl.Flags.Language = c.String("lang")
		ctrl.Flags.Output = c.String("out")
		ctrl.Flags.Namespace = c.String("namespace")
		ctrl.Flags.Sealed = c.Bool("sealed")
		ctrl.Flags.Write = c.Bool("write")
	}

	app := &cli.Command{
		Name:    "faux",
		Usage:   "Compile annotated service interfaces into HTTP clients",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("FAUX_LOG_LEVEL"),
				Value:   "info",
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			ctrl.Flags.LogLevel = level.String()
			ctrl.Logger = log.Logger

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "gen",
				Usage:     "Generate clients for IDL files or Go packages",
				ArgsUsage: "[inputs...]",
				Flags: append(configFlags(), &cli.BoolFlag{
					Name:  "stdout",
					Usage: "print generated sources",
				}),
				Action: func(ctx context.Context, c *cli.Command) error {
					readFlags(c)
					ctrl.Flags.Stdout = c.Bool("stdout")
					return ctrl.Gen(ctx, c.Args().Slice()...)
				},
			},
			{
				Name:      "plan",
				Usage:     "Print the request plan of every contract method",
				ArgsUsage: "[inputs...]",
				Flags:     configFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					readFlags(c)
					return ctrl.Plan(ctx, c.Args().Slice()...)
				},
			},
			{
				Name:      "watch",
				Usage:     "Regenerate clients whenever a contract changes",
				ArgsUsage: "[inputs...]",
				Flags:     configFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					readFlags(c)
					return ctrl.Watch(ctx, c.Args().Slice()...)
				},
			},
			{
				Name:  "init",
				Usage: "Create faux.json and a starter contract",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run faux")
	}
}
