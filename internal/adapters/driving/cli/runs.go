package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent organise runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if runStore == nil {
		return errors.New("run history not available")
	}

	records, err := runStore.List(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	for _, r := range records {
		cmd.Printf("%s  %s  repos=%d types=%d found=%d processed=%d failed=%d\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.ID,
			r.Repositories, r.Types,
			r.Stats.FilesFound, r.Stats.FilesProcessed, r.Stats.FilesFailed)
	}
	return nil
}
