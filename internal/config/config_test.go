package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test plan for config loading:
// 1. JSON and YAML files load; defaults fill missing fields
// 2. Watch defaults depend on the language and exclude the output
// 3. Invalid values fail validation with file keys in the message
// 4. Lookup walks parent directories; a missing file is ErrNotFound

func TestLoadConfigFromPath(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		config Config
	}{
		{
			name: "valid config with all fields",
			file: "faux.json",
			config: Config{
				Namespace:  "github.com/acme/clients",
				Output:     "./gen",
				Language:   "typescript",
				Sealed:     true,
				WriteFiles: true,
				Contracts:  []string{"api/*.faux.gql", "./internal/..."},
				Watch: WatchConfig{
					Patterns: []string{"*.faux.gql"},
					Exclude:  []string{"tmp"},
				},
			},
		},
		{
			name:   "config with defaults",
			file:   "faux.json",
			config: Config{Language: "openapi"},
		},
		{
			name:   "empty config file",
			file:   "faux.json",
			config: Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, tt.file)

			data, err := json.MarshalIndent(tt.config, "", "  ")
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(configPath, data, 0644))

			got, err := LoadConfigFromPath(configPath)
			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Equal(t, tt.config.Sealed, got.Sealed)
			assert.Equal(t, tt.config.WriteFiles, got.WriteFiles)

			// Check defaults were applied
			if tt.config.Namespace == "" {
				assert.Equal(t, DefaultNamespace, got.Namespace)
			} else {
				assert.Equal(t, tt.config.Namespace, got.Namespace)
			}
			if tt.config.Output == "" {
				assert.Equal(t, DefaultOutput, got.Output)
			}
			if tt.config.Language == "" {
				assert.Equal(t, DefaultLanguage, got.Language)
			}
			if len(tt.config.Contracts) == 0 {
				assert.Equal(t, []string{"./..."}, got.Contracts)
			} else {
				assert.Equal(t, tt.config.Contracts, got.Contracts)
			}

			// Check language-specific defaults for watch patterns
			if len(tt.config.Watch.Patterns) == 0 {
				assert.Contains(t, got.Watch.Patterns, "**/*.faux.gql")
				if got.Language == "go" {
					assert.Contains(t, got.Watch.Patterns, "**/*.go")
				} else {
					assert.NotContains(t, got.Watch.Patterns, "**/*.go")
				}
			} else {
				assert.Equal(t, tt.config.Watch, got.Watch)
			}

			// Check default excludes
			if len(tt.config.Watch.Exclude) == 0 {
				assert.Contains(t, got.Watch.Exclude, "*_test.go")
				assert.Contains(t, got.Watch.Exclude, ".git")
				assert.Contains(t, got.Watch.Exclude, "faux-generated")
			}
		})
	}
}

func TestLoadConfigFromPath_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "faux.yaml")
	content := `namespace: acme
output: out/clients
language: go
writeFiles: true
contracts:
  - contracts/*.faux.gql
watch:
  exclude: [".git"]
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	got, err := LoadConfigFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "acme", got.Namespace)
	assert.Equal(t, "out/clients", got.Output)
	assert.True(t, got.WriteFiles)
	assert.False(t, got.Sealed)
	assert.Equal(t, []string{"contracts/*.faux.gql"}, got.Contracts)
	assert.Equal(t, []string{".git"}, got.Watch.Exclude)
	assert.Contains(t, got.Watch.Patterns, "*.go")
}

func TestLoadConfigFromPath_Errors(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		errContains []string
	}{
		{
			name:        "file not found",
			file:        "missing.json",
			errContains: []string{"failed to read config file"},
		},
		{
			name:        "invalid json",
			file:        "faux.json",
			content:     "invalid json",
			errContains: []string{"failed to parse config file"},
		},
		{
			name:        "invalid yaml",
			file:        "faux.yaml",
			content:     "namespace: [",
			errContains: []string{"failed to parse config file"},
		},
		{
			name:        "unknown language",
			file:        "faux.json",
			content:     `{"language": "rust"}`,
			errContains: []string{"language: must be one of: go typescript ts openapi"},
		},
		{
			name:        "bad namespace",
			file:        "faux.json",
			content:     `{"namespace": "9 lives"}`,
			errContains: []string{"namespace:", `"9 lives" is not a valid namespace`},
		},
		{
			name:        "empty contract entry",
			file:        "faux.json",
			content:     `{"contracts": ["./...", ""]}`,
			errContains: []string{"contracts[1]: required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, tt.file)
			if tt.content != "" {
				require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0644))
			}

			_, err := LoadConfigFromPath(configPath)
			require.Error(t, err)
			for _, msg := range tt.errContains {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	// Test finding faux.json in current directory
	t.Run("config in current dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "faux.json"), []byte(`{"namespace": "current"}`), 0644))
		t.Chdir(tmpDir)

		got, projectRoot, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "current", got.Namespace)
		// Use filepath.EvalSymlinks to resolve any symlinks for comparison
		expectedRoot, _ := filepath.EvalSymlinks(tmpDir)
		actualRoot, _ := filepath.EvalSymlinks(projectRoot)
		assert.Equal(t, expectedRoot, actualRoot)
	})

	// Test finding faux.yaml in parent directory
	t.Run("config in parent dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		subDir := filepath.Join(tmpDir, "sub", "dir")
		require.NoError(t, os.MkdirAll(subDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "faux.yaml"), []byte("namespace: parent\n"), 0644))
		t.Chdir(subDir)

		got, projectRoot, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "parent", got.Namespace)
		expectedRoot, _ := filepath.EvalSymlinks(tmpDir)
		actualRoot, _ := filepath.EvalSymlinks(projectRoot)
		assert.Equal(t, expectedRoot, actualRoot)
	})

	// Test json wins over yaml in the same directory
	t.Run("lookup order", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "faux.json"), []byte(`{"namespace": "fromjson"}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "faux.yaml"), []byte("namespace: fromyaml\n"), 0644))

		got, _, err := LoadConfigFromDir(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, "fromjson", got.Namespace)
	})

	// Test no config found
	t.Run("no config found", func(t *testing.T) {
		_, _, err := LoadConfigFromDir(t.TempDir())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDefaultAndResolve(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultNamespace, cfg.Namespace)
	assert.Equal(t, DefaultLanguage, cfg.Language)

	// Test: relative output is joined to the root, absolute output is kept
	cfg.Resolve("/project")
	assert.Equal(t, filepath.Join("/project", "faux-generated"), cfg.Output)

	abs := &Config{Output: "/abs/out"}
	abs.Resolve("/project")
	assert.Equal(t, "/abs/out", abs.Output)
}
