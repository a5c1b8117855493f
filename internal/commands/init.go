package commands

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/okra-platform/faux/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

// ContractFile is the starter contract written by init
const ContractFile = "contract.faux.gql"

// ErrConfigExists is returned when init would overwrite a config file
var ErrConfigExists = errors.New("config file already exists")

// InitOptions are the answers of the init form
type InitOptions struct {
	Namespace  string
	Output     string
	Language   string
	WriteFiles bool
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

type InitCommand struct {
	dir         string
	filesystem  FileSystem
	templatesFS fs.FS
	out         io.Writer
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand(dir string, out io.Writer) *InitCommand {
	return &InitCommand{
		dir:         dir,
		filesystem:  &osFileSystem{},
		templatesFS: templatesFS,
		out:         out,
	}
}

// Init writes a starter config and contract into the working directory
func (c *Controller) Init(ctx context.Context) error {
	dir, err := c.dir()
	if err != nil {
		return err
	}
	return NewInitCommand(dir, c.out()).Run(ctx)
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	configPath := filepath.Join(ic.dir, config.FileNames[0])
	if _, err := ic.filesystem.Stat(configPath); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, configPath)
	}

	var options *InitOptions
	var err error

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	data := struct {
		InitOptions
		Contract string
	}{*options, ContractFile}

	configData, err := ic.render("faux.json.tmpl", data)
	if err != nil {
		return err
	}
	if err := ic.filesystem.WriteFile(configPath, configData, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}
	fmt.Fprintf(ic.out, "✅ Created %s\n", configPath)

	contractPath := filepath.Join(ic.dir, ContractFile)
	if _, err := ic.filesystem.Stat(contractPath); err == nil {
		fmt.Fprintf(ic.out, "⏭️  Kept existing %s\n", contractPath)
		return nil
	}

	contractData, err := ic.render("contract.faux.gql.tmpl", data)
	if err != nil {
		return err
	}
	if err := ic.filesystem.WriteFile(contractPath, contractData, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", contractPath, err)
	}
	fmt.Fprintf(ic.out, "✅ Created %s\n", contractPath)

	return nil
}

func (ic *InitCommand) render(name string, data any) ([]byte, error) {
	tmpl, err := template.New(name).Funcs(template.FuncMap{
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
	}).ParseFS(ic.templatesFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{
		Namespace: config.DefaultNamespace,
		Output:    config.DefaultOutput,
		Language:  config.DefaultLanguage,
	}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Namespace").
				Description("Package or module name of the generated clients").
				Value(&options.Namespace).
				Validate(validateNamespace),

			huh.NewInput().
				Title("Output directory").
				Description("Where generated files go").
				Value(&options.Output).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("output directory cannot be empty")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Language").
				Description("Target of the generated clients").
				Options(
					huh.NewOption("Go", "go"),
					huh.NewOption("TypeScript", "typescript"),
					huh.NewOption("OpenAPI", "openapi"),
				).
				Value(&options.Language),

			huh.NewConfirm().
				Title("Write files").
				Description("Persist generated sources to the output directory").
				Value(&options.WriteFiles),
		),
	)
}

// validateNamespace applies the config rules to a namespace answer
func validateNamespace(s string) error {
	cfg := config.Default()
	cfg.Namespace = s
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid namespace %q", s)
	}
	return nil
}
