// Package loader turns command-line inputs into contract candidates.
// Inputs ending in .faux.gql (or globs of them) go to the IDL frontend;
// everything else is a Go package pattern for the Go-source frontend.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/okra-platform/faux/internal/contract"
	"github.com/okra-platform/faux/internal/gosource"
	"github.com/okra-platform/faux/internal/schema"
)

// IDLExtension marks contract files written in the IDL
const IDLExtension = ".faux.gql"

var (
	ErrNoInputs      = errors.New("no contract inputs")
	ErrNoMatch       = errors.New("pattern matched no IDL files")
	ErrDuplicateType = errors.New("model declared more than once")
)

// GoLoader loads contract candidates from Go package patterns
type GoLoader func(ctx context.Context, dir string, patterns ...string) ([]contract.TypeInfo, error)

// Document is one parsed IDL file
type Document struct {
	Path      string
	Schema    *schema.Schema
	Contracts []contract.TypeInfo
}

// Result holds everything loaded for one run
type Result struct {
	// Contracts lists IDL candidates in input order, then Go candidates
	Contracts []contract.TypeInfo
	Documents []Document
	// Models merges the types and enums of every document; nil without IDL input
	Models *schema.Schema
}

// Loader resolves inputs relative to a directory
type Loader struct {
	dir    string
	logger zerolog.Logger
	loadGo GoLoader
}

// Option configures a Loader
type Option func(*Loader)

// WithGoLoader replaces the Go-source frontend
func WithGoLoader(fn GoLoader) Option {
	return func(l *Loader) {
		l.loadGo = fn
	}
}

// New creates a loader resolving inputs against dir
func New(dir string, logger zerolog.Logger, opts ...Option) *Loader {
	l := &Loader{
		dir:    dir,
		logger: logger.With().Str("component", "loader").Logger(),
		loadGo: gosource.Load,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every input. A recursive pattern such as ./... also picks up
// the IDL files below its root, and is passed to the Go frontend only when
// that tree holds Go files.
func (l *Loader) Load(ctx context.Context, inputs ...string) (*Result, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}

	res := &Result{}
	seen := make(map[string]bool)
	var patterns []string

	addFile := func(path string) error {
		if seen[path] {
			return nil
		}
		seen[path] = true
		doc, err := l.parse(path)
		if err != nil {
			return err
		}
		res.Documents = append(res.Documents, doc)
		res.Contracts = append(res.Contracts, doc.Contracts...)
		return nil
	}

	for _, input := range inputs {
		switch {
		case strings.HasSuffix(input, IDLExtension):
			matches, err := filepath.Glob(l.resolve(input))
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", input, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("%w: %s", ErrNoMatch, input)
			}
			for _, path := range matches {
				if err := addFile(path); err != nil {
					return nil, err
				}
			}

		case strings.HasSuffix(input, "..."):
			root := l.resolve(strings.TrimSuffix(strings.TrimSuffix(input, "..."), "/"))
			files, hasGo, err := scan(root)
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", input, err)
			}
			for _, path := range files {
				if err := addFile(path); err != nil {
					return nil, err
				}
			}
			if hasGo {
				patterns = append(patterns, input)
			} else {
				l.logger.Debug().Str("pattern", input).Msg("no Go files, skipping Go frontend")
			}

		default:
			patterns = append(patterns, input)
		}
	}

	if len(patterns) > 0 {
		infos, err := l.loadGo(ctx, l.dir, patterns...)
		if err != nil {
			return nil, err
		}
		res.Contracts = append(res.Contracts, infos...)
	}

	models, err := merge(res.Documents)
	if err != nil {
		return nil, err
	}
	res.Models = models

	l.logger.Debug().
		Int("documents", len(res.Documents)).
		Int("contracts", len(res.Contracts)).
		Msg("contracts loaded")

	return res, nil
}

func (l *Loader) resolve(path string) string {
	if path == "" {
		path = "."
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(l.dir, path)
}

func (l *Loader) parse(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	s, err := schema.ParseSchema(string(data))
	if err != nil {
		return Document{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	source := path
	if rel, err := filepath.Rel(l.dir, path); err == nil {
		source = rel
	}
	infos, err := s.Contracts(source)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", source, err)
	}

	return Document{Path: path, Schema: s, Contracts: infos}, nil
}

// scan lists the IDL files under root in lexical order and reports whether
// the tree contains Go files. Hidden directories, vendor and testdata are
// skipped the way the go tool skips them.
func scan(root string) (idl []string, hasGo bool, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		switch {
		case strings.HasSuffix(name, IDLExtension):
			idl = append(idl, path)
		case strings.HasSuffix(name, ".go"):
			hasGo = true
		}
		return nil
	})
	return idl, hasGo, err
}

// merge combines the models of every document. The first document with a
// namespace supplies the metadata.
func merge(docs []Document) (*schema.Schema, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	out := &schema.Schema{}
	declared := make(map[string]string)
	declare := func(name, path string) error {
		if prev, ok := declared[name]; ok {
			return fmt.Errorf("%w: %s in %s and %s", ErrDuplicateType, name, prev, path)
		}
		declared[name] = path
		return nil
	}

	for _, doc := range docs {
		s := doc.Schema
		if out.Meta.Namespace == "" {
			out.Meta = s.Meta
		}
		for _, t := range s.Types {
			if err := declare(t.Name, doc.Path); err != nil {
				return nil, err
			}
			out.Types = append(out.Types, t)
		}
		for _, e := range s.Enums {
			if err := declare(e.Name, doc.Path); err != nil {
				return nil, err
			}
			out.Enums = append(out.Enums, e)
		}
		out.Services = append(out.Services, s.Services...)
	}

	return out, nil
}
