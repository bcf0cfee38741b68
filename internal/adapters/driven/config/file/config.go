// Package file loads and persists mediadex configuration from a TOML
// file, by default ~/.mediadex/config.toml.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
)

// DefaultOutputDir is where grouped output lands when the config does
// not say otherwise.
const DefaultOutputDir = "organized"

// Config is the full mediadex configuration.
type Config struct {
	// Output holds output-related settings.
	Output OutputConfig `toml:"output"`

	// History holds run-history settings.
	History HistoryConfig `toml:"history"`

	// Repositories are the configured source repositories, in file order.
	Repositories []domain.Repository `toml:"repositories"`
}

// OutputConfig controls where grouped files are written.
type OutputConfig struct {
	// Dir is the output root directory.
	Dir string `toml:"dir"`
}

// HistoryConfig controls run-history persistence.
type HistoryConfig struct {
	// Enabled turns run-history recording on.
	Enabled bool `toml:"enabled"`

	// Path is the history database file. Empty means
	// <config dir>/history.db.
	Path string `toml:"path,omitempty"`
}

// DefaultPath returns ~/.mediadex/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".mediadex", "config.toml"), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Output:  OutputConfig{Dir: DefaultOutputDir},
		History: HistoryConfig{Enabled: true},
	}
}

// Load reads the configuration file at path. A missing file yields the
// defaults so first runs work without setup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating the directory with
// restricted permissions. Tokens may be present, hence 0600.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// Validate checks repository entries for the mistakes that would
// otherwise only surface mid-run.
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Repositories))
	for i, repo := range c.Repositories {
		if repo.Name == "" {
			return fmt.Errorf("repository %d: name missing: %w", i, domain.ErrInvalidInput)
		}
		if _, dup := seen[repo.Name]; dup {
			return fmt.Errorf("repository %q listed twice: %w", repo.Name, domain.ErrInvalidInput)
		}
		seen[repo.Name] = struct{}{}

		switch repo.Kind {
		case domain.RepoKindLocal, domain.RepoKindGit, domain.RepoKindGitea, domain.RepoKindGitHub:
		case "":
			return fmt.Errorf("repository %q: kind missing: %w", repo.Name, domain.ErrInvalidInput)
		default:
			return fmt.Errorf("repository %q: kind %q: %w", repo.Name, repo.Kind, domain.ErrUnsupportedKind)
		}
	}
	return nil
}

// HistoryPath resolves the run-history database location relative to
// the config file when no explicit path is set.
func (c *Config) HistoryPath(configPath string) string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(filepath.Dir(configPath), "history.db")
}
