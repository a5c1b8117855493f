// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/okra-platform/faux/internal/compiler"
	"github.com/okra-platform/faux/internal/config"
	"github.com/okra-platform/faux/internal/generator"
	"github.com/okra-platform/faux/internal/loader"
)

// Flags are the command-line overrides of the config file
type Flags struct {
	LogLevel  string
	Config    string
	Language  string
	Output    string
	Namespace string
	Sealed    bool
	Write     bool
	Stdout    bool
}

// Controller dispatches CLI commands
type Controller struct {
	Flags  *Flags
	Logger zerolog.Logger
	// Out receives command output; nil means os.Stdout
	Out io.Writer
	// Dir is the working directory; empty means the process directory
	Dir string
}

func (c *Controller) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Controller) flags() *Flags {
	if c.Flags == nil {
		return &Flags{}
	}
	return c.Flags
}

func (c *Controller) dir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return dir, nil
}

// loadConfig finds the config file, falls back to defaults when there is
// none, applies the flags and resolves the output directory. It returns
// the project root.
func (c *Controller) loadConfig() (*config.Config, string, error) {
	flags := c.flags()

	var (
		cfg  *config.Config
		root string
		err  error
	)

	if flags.Config != "" {
		path, err := filepath.Abs(flags.Config)
		if err != nil {
			return nil, "", err
		}
		cfg, err = config.LoadConfigFromPath(path)
		if err != nil {
			return nil, "", err
		}
		root = filepath.Dir(path)
	} else {
		dir, err := c.dir()
		if err != nil {
			return nil, "", err
		}
		cfg, root, err = config.LoadConfigFromDir(dir)
		if errors.Is(err, config.ErrNotFound) {
			c.Logger.Debug().Str("dir", dir).Msg("no config file, using defaults")
			cfg, root, err = config.Default(), dir, nil
		}
		if err != nil {
			return nil, "", err
		}
	}

	if flags.Language != "" {
		cfg.Language = flags.Language
	}
	if flags.Output != "" {
		cfg.Output = flags.Output
	}
	if flags.Namespace != "" {
		cfg.Namespace = flags.Namespace
	}
	if flags.Sealed {
		cfg.Sealed = true
	}
	if flags.Write {
		cfg.WriteFiles = true
	}
	if err = cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.Resolve(root)

	return cfg, root, nil
}

// load reads the contracts named on the command line, or the configured
// ones. Command-line inputs are relative to the working directory,
// configured ones to the project root.
func (c *Controller) load(ctx context.Context, cfg *config.Config, root string, inputs []string) (*loader.Result, error) {
	dir := root
	if len(inputs) > 0 {
		wd, err := c.dir()
		if err != nil {
			return nil, err
		}
		dir = wd
	} else {
		inputs = cfg.Contracts
	}

	return loader.New(dir, c.Logger).Load(ctx, inputs...)
}

// generate runs one full generation: load, translate, emit models
func (c *Controller) generate(ctx context.Context, cfg *config.Config, root string, inputs []string) ([]*generator.Result, error) {
	loaded, err := c.load(ctx, cfg, root, inputs)
	if err != nil {
		return nil, err
	}
	if len(loaded.Contracts) == 0 {
		c.Logger.Warn().Msg("no contracts found")
	}

	gen, err := generator.New(cfg, c.Logger)
	if err != nil {
		return nil, err
	}

	results, err := gen.GenerateAll(ctx, loaded.Contracts)
	if err != nil {
		return nil, err
	}

	if loaded.Models != nil {
		var local []*compiler.Contract
		for _, res := range results {
			if res.Contract.Local() {
				local = append(local, res.Contract)
			}
		}
		models, err := gen.GenerateModels(loaded.Models, local)
		if err != nil {
			return nil, err
		}
		results = append(results, models)
	}

	for _, res := range results {
		c.Logger.Info().
			Str("name", res.FullName).
			Str("path", res.Path).
			Bool("written", res.Written).
			Msg("generated")

		if c.flags().Stdout {
			if _, err := c.out().Write(res.Source); err != nil {
				return nil, err
			}
		}
	}

	return results, nil
}
