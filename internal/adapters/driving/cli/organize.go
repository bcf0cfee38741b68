package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
	"github.com/mediadex-dev/mediadex-cli/internal/core/ports/driving"
	"github.com/mediadex-dev/mediadex-cli/internal/logger"
)

// watchDebounce coalesces bursts of filesystem events into one re-run.
const watchDebounce = 500 * time.Millisecond

var (
	outputFlag string
	watchFlag  bool
)

var organizeCmd = &cobra.Command{
	Use:   "organize [repository...]",
	Short: "Scan repositories and write grouped catalog files",
	Long: `Scans the configured repositories for JSON source documents, groups
them by normalised type and writes per-repository files, combined
files and a summary report to the output directory.

If repository names are given, only those repositories are organised.`,
	RunE: runOrganize,
}

func init() {
	organizeCmd.Flags().StringVarP(&outputFlag, "output", "o", "",
		"output directory (default from config)")
	organizeCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false,
		"re-run when local repositories change")
	rootCmd.AddCommand(organizeCmd)
}

func runOrganize(cmd *cobra.Command, args []string) error {
	if appConfig == nil {
		return errors.New("configuration not loaded")
	}
	if len(appConfig.Repositories) == 0 {
		return errors.New("no repositories configured; edit " + configPath)
	}

	outputDir := outputFlag
	if outputDir == "" {
		outputDir = appConfig.Output.Dir
	}

	organizer, err := buildOrganizer(outputDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := organizeOnce(ctx, cmd, organizer, args, outputDir); err != nil {
		return err
	}

	if !watchFlag {
		return nil
	}
	return watchAndRerun(ctx, cmd, organizer, args, outputDir)
}

// organizeOnce runs one organise pass and prints the report.
func organizeOnce(
	ctx context.Context,
	cmd *cobra.Command,
	organizer driving.Organizer,
	names []string,
	outputDir string,
) error {
	logger.Section("Organize")

	summary, err := organizer.Organize(ctx, names)
	if err != nil {
		return fmt.Errorf("organize failed: %w", err)
	}

	printSummary(cmd, summary, outputDir)
	return nil
}

// printSummary renders the human-readable run report.
func printSummary(cmd *cobra.Command, s *domain.Summary, outputDir string) {
	cmd.Printf("Organised %d repositories into %d categories.\n",
		s.TotalRepositories, s.TotalTypes)
	cmd.Printf("Files: %d found, %d processed, %d failed.\n",
		s.Statistics.FilesFound, s.Statistics.FilesProcessed, s.Statistics.FilesFailed)

	repos := make([]string, 0, len(s.Repositories))
	for name := range s.Repositories {
		repos = append(repos, name)
	}
	sort.Strings(repos)

	for _, name := range repos {
		rs := s.Repositories[name]
		cmd.Printf("  %s: %d sources (%s)\n",
			name, rs.TotalSources, strings.Join(rs.Types, ", "))
	}

	cmd.Printf("Output written to %s\n", outputDir)
}

// watchAndRerun blocks re-running the organise pass whenever a watched
// local repository changes. Only local repositories can be watched;
// remote kinds are organised on each trigger but do not produce events.
func watchAndRerun(
	ctx context.Context,
	cmd *cobra.Command,
	organizer driving.Organizer,
	names []string,
	outputDir string,
) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := 0
	for _, repo := range selectedRepos(names) {
		if repo.Kind != domain.RepoKindLocal {
			continue
		}
		if err := watchTree(watcher, repo.Path); err != nil {
			logger.Warn("Cannot watch %s: %v", repo.Path, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		return errors.New("watch mode needs at least one local repository")
	}

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")

	var debounce *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories must be added to keep the tree covered.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						logger.Debug("Watch %s: %v", event.Name, err)
					}
				}
			}
			if debounce == nil {
				debounce = time.NewTimer(watchDebounce)
				fire = debounce.C
			} else {
				debounce.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		case <-fire:
			debounce = nil
			fire = nil
			if err := organizeOnce(ctx, cmd, organizer, names, outputDir); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("Re-run failed: %v", err)
			}
		}
	}
}

// watchTree registers root and its non-hidden subdirectories.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// selectedRepos resolves the requested repository names against the
// configuration; empty names means all.
func selectedRepos(names []string) []domain.Repository {
	if len(names) == 0 {
		return appConfig.Repositories
	}

	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}

	var repos []domain.Repository
	for _, repo := range appConfig.Repositories {
		if _, ok := want[repo.Name]; ok {
			repos = append(repos, repo)
		}
	}
	return repos
}
