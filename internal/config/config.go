// Package config loads the faux.json (or faux.yaml) project file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileNames lists the accepted config files in lookup order
var FileNames = []string{"faux.json", "faux.yaml", "faux.yml"}

// Defaults
const (
	DefaultNamespace = "fauxclients"
	DefaultOutput    = "./faux-generated"
	DefaultLanguage  = "go"
)

// ErrNotFound is returned when no config file exists in the directory or
// any of its parents
var ErrNotFound = errors.New("no faux config found")

var namespaceRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*([./-][A-Za-z0-9_]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Errors name the file keys, not the Go fields
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("namespace", func(fl validator.FieldLevel) bool {
		return namespaceRegex.MatchString(fl.Field().String())
	})
	return v
}

// Config represents the faux configuration file
type Config struct {
	Namespace  string      `json:"namespace" yaml:"namespace" validate:"required,namespace"`
	Output     string      `json:"output" yaml:"output" validate:"required"`
	Language   string      `json:"language" yaml:"language" validate:"oneof=go typescript ts openapi"`
	Sealed     bool        `json:"sealed" yaml:"sealed"`
	WriteFiles bool        `json:"writeFiles" yaml:"writeFiles"`
	Contracts  []string    `json:"contracts" yaml:"contracts" validate:"min=1,dive,required"`
	Watch      WatchConfig `json:"watch" yaml:"watch"`
}

// WatchConfig selects the files `faux watch` reacts to
type WatchConfig struct {
	Patterns []string `json:"patterns" yaml:"patterns" validate:"dive,required"`
	Exclude  []string `json:"exclude" yaml:"exclude" validate:"dive,required"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads the config from the current directory or a parent
// directory. It returns the directory holding the file.
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return LoadConfigFromDir(dir)
}

// LoadConfigFromPath loads a config file. The format follows the
// extension; anything but .yaml and .yml is JSON.
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &config, nil
}

// LoadConfigFromDir searches for a config file in startDir and its parents
func LoadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range FileNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				config, err := LoadConfigFromPath(configPath)
				if err != nil {
					return nil, "", err
				}
				return config, dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("%w in %s or any parent directory", ErrNotFound, startDir)
}

// Validate checks the field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		msgs := make([]string, len(fieldErrs))
		for i, fe := range fieldErrs {
			msgs[i] = fmt.Sprintf("%s: %s", fe.Namespace(), describe(fe))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "namespace":
		return fmt.Sprintf("%q is not a valid namespace", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func (c *Config) applyDefaults() {
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if len(c.Contracts) == 0 {
		c.Contracts = []string{"./..."}
	}
	if len(c.Watch.Patterns) == 0 {
		// Set default watch patterns based on language
		switch c.Language {
		case "go":
			c.Watch.Patterns = []string{"*.go", "**/*.go", "*.faux.gql", "**/*.faux.gql"}
		default:
			c.Watch.Patterns = []string{"*.faux.gql", "**/*.faux.gql"}
		}
	}
	if len(c.Watch.Exclude) == 0 {
		c.Watch.Exclude = []string{"*_test.go", ".git", "node_modules", "vendor"}
		if out := filepath.Base(filepath.Clean(c.Output)); out != "." && out != string(filepath.Separator) {
			c.Watch.Exclude = append(c.Watch.Exclude, out)
		}
	}
}

// Resolve makes the output directory absolute, relative to root
func (c *Config) Resolve(root string) {
	if !filepath.IsAbs(c.Output) {
		c.Output = filepath.Join(root, c.Output)
	}
}
