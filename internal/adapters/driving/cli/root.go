// Package cli implements the mediadex command-line interface.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mediadex-dev/mediadex-cli/internal/adapters/driven/config/file"
	"github.com/mediadex-dev/mediadex-cli/internal/adapters/driven/output/jsonfs"
	"github.com/mediadex-dev/mediadex-cli/internal/adapters/driven/storage/sqlite"
	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driven"
	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driving"
	"github.com/mediadex-dev/mediadex-cli/internal/core/services"
	"github.com/mediadex-dev/mediadex-cli/internal/ingesters"
	"github.com/mediadex-dev/mediadex-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services and configuration used by the commands. They are wired by
// initServices on first execution; tests inject fakes beforehand.
var (
	verbose    bool
	configFlag string

	appConfig  *file.Config
	configPath string
	runStore   driven.RunStore
)

var rootCmd = &cobra.Command{
	Use:   "mediadex",
	Short: "Organise media-source catalogs into grouped JSON files",
	Long: `mediadex scans configured repositories for JSON source documents,
classifies each by its type field and writes per-repository and
combined category files plus a summary report.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug output")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"config file (default ~/.mediadex/config.toml)")
}

// initServices loads configuration and opens the run-history store.
// A config already injected (by tests) is left alone.
func initServices() error {
	if appConfig != nil {
		return nil
	}

	path := configFlag
	if path == "" {
		p, err := file.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	cfg, err := file.Load(path)
	if err != nil {
		return err
	}
	appConfig = cfg
	configPath = path

	if cfg.History.Enabled && runStore == nil {
		store, err := sqlite.NewRunStore(cfg.HistoryPath(path))
		if err != nil {
			// History is best effort; organising still works without it.
			logger.Warn("Run history unavailable: %v", err)
		} else {
			runStore = store
		}
	}

	return nil
}

// buildOrganizer assembles the organise pipeline writing under
// outputDir. Tests replace it to inject fakes.
var buildOrganizer = func(outputDir string) (driving.Organizer, error) {
	if appConfig == nil {
		return nil, errors.New("configuration not loaded")
	}
	writer := jsonfs.NewWriter(outputDir)
	return services.NewOrganizer(appConfig.Repositories, ingesters.NewFactory(), writer, runStore), nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
