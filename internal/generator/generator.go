// Package generator runs the compile and emit pipeline for a set of
// contracts and optionally persists the generated text.
package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/okra-platform/faux/internal/codegen"
	"github.com/okra-platform/faux/internal/compiler"
	"github.com/okra-platform/faux/internal/config"
	"github.com/okra-platform/faux/internal/contract"
	"github.com/okra-platform/faux/internal/schema"
)

// ModelsName is the base name of the models file
const ModelsName = "models"

// ErrDuplicateName is returned when two contracts of one run map to the
// same generated name
var ErrDuplicateName = errors.New("duplicate generated name")

// FileSystem defines the file operations the generator needs
type FileSystem interface {
	WriteFile(path string, data []byte, perm os.FileMode) error
	MkdirAll(path string, perm os.FileMode) error
}

// OSFileSystem writes to the real file system
type OSFileSystem struct{}

func (OSFileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Result is the output for one contract
type Result struct {
	// FullName is <namespace>.<ClassName>
	FullName string
	Source   []byte
	// Path is where the source goes under the output directory
	Path string
	// Written reports whether Source was persisted to Path
	Written bool
	// Contract is nil for the models file
	Contract *compiler.Contract
}

// Generator translates contracts with one emitter and one config snapshot
type Generator struct {
	cfg      *config.Config
	logger   zerolog.Logger
	fs       FileSystem
	registry *codegen.Registry
	emitter  codegen.Emitter
}

// Option configures a Generator
type Option func(*Generator)

// WithFileSystem replaces the file system used for output
func WithFileSystem(fs FileSystem) Option {
	return func(g *Generator) {
		g.fs = fs
	}
}

// WithRegistry replaces the emitter registry
func WithRegistry(r *codegen.Registry) Option {
	return func(g *Generator) {
		g.registry = r
	}
}

// New creates a generator for cfg and creates the output directory
func New(cfg *config.Config, logger zerolog.Logger, opts ...Option) (*Generator, error) {
	g := &Generator{
		cfg:      cfg,
		logger:   logger.With().Str("component", "generator").Logger(),
		fs:       OSFileSystem{},
		registry: codegen.DefaultRegistry,
	}
	for _, opt := range opts {
		opt(g)
	}

	emitter, err := g.registry.Get(cfg.Language, codegen.Options{
		Namespace: cfg.Namespace,
		Sealed:    cfg.Sealed,
	})
	if err != nil {
		return nil, err
	}
	g.emitter = emitter

	if err := g.fs.MkdirAll(cfg.Output, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return g, nil
}

// Emitter returns the emitter selected by the config
func (g *Generator) Emitter() codegen.Emitter {
	return g.emitter
}

// Generate compiles and emits one contract
func (g *Generator) Generate(info contract.TypeInfo) (*Result, error) {
	res, err := g.build(info)
	if err != nil {
		return nil, err
	}
	g.write(res)
	return res, nil
}

// build compiles and emits one contract without writing it
func (g *Generator) build(info contract.TypeInfo) (*Result, error) {
	c, err := compiler.Compile(info)
	if err != nil {
		return nil, err
	}

	source, err := g.emitter.Emit(c)
	if err != nil {
		return nil, fmt.Errorf("failed to emit %s: %w", c.Name, err)
	}

	className := c.ClassName()
	res := &Result{
		FullName: g.cfg.Namespace + "." + className,
		Source:   source,
		Path:     g.path(className),
		Contract: c,
	}

	g.logger.Debug().
		Str("contract", c.Name).
		Int("methods", len(c.Methods)).
		Int("size", len(source)).
		Msg("generated client")

	return res, nil
}

// GenerateAll translates infos concurrently and returns results in input
// order. The first failure cancels the remaining work. Nothing is written
// unless every contract translates and all names and paths are unique.
func (g *Generator) GenerateAll(ctx context.Context, infos []contract.TypeInfo) ([]*Result, error) {
	results := make([]*Result, len(infos))

	eg, ctx := errgroup.WithContext(ctx)
	for i, info := range infos {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := g.build(info)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(results))
	paths := make(map[string]string, len(results))
	for _, res := range results {
		if prev, ok := names[res.FullName]; ok {
			return nil, fmt.Errorf("%w %s: %s and %s", ErrDuplicateName, res.FullName, prev, res.Contract.Name)
		}
		names[res.FullName] = res.Contract.Name

		// Paths are lower-cased, so distinct names can still collide
		if prev, ok := paths[res.Path]; ok {
			return nil, fmt.Errorf("%w %s: %s and %s", ErrDuplicateName, res.Path, prev, res.Contract.Name)
		}
		paths[res.Path] = res.Contract.Name
	}

	for _, res := range results {
		g.write(res)
	}

	return results, nil
}

// GenerateModels emits the models file of an IDL schema. contracts are the
// compiled contracts of the same run.
func (g *Generator) GenerateModels(s *schema.Schema, contracts []*compiler.Contract) (*Result, error) {
	source, err := g.emitter.EmitModels(s, contracts)
	if err != nil {
		return nil, fmt.Errorf("failed to emit models: %w", err)
	}

	res := &Result{
		FullName: g.cfg.Namespace + "." + ModelsName,
		Source:   source,
		Path:     g.path(ModelsName),
	}
	g.write(res)
	return res, nil
}

func (g *Generator) path(name string) string {
	return filepath.Join(g.cfg.Output, strings.ToLower(name)+g.emitter.FileExtension())
}

// write persists res when the config asks for it. A failure is logged and
// does not fail generation.
func (g *Generator) write(res *Result) {
	if !g.cfg.WriteFiles {
		return
	}
	if err := g.fs.WriteFile(res.Path, res.Source, 0644); err != nil {
		g.logger.Warn().Err(err).Str("path", res.Path).Msg("failed to write generated file")
		return
	}
	res.Written = true
}
