package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List configured repositories",
	RunE:  runRepos,
}

func init() {
	rootCmd.AddCommand(reposCmd)
}

func runRepos(cmd *cobra.Command, _ []string) error {
	if appConfig == nil {
		return errors.New("configuration not loaded")
	}

	if len(appConfig.Repositories) == 0 {
		cmd.Printf("No repositories configured. Edit %s to add some.\n", configPath)
		return nil
	}

	for _, repo := range appConfig.Repositories {
		cmd.Printf("%s (%s) %s\n", repo.Name, repo.Kind, repoLocation(repo))
	}
	return nil
}

// repoLocation renders where a repository's content comes from.
func repoLocation(repo domain.Repository) string {
	switch repo.Kind {
	case domain.RepoKindLocal:
		return repo.Path
	case domain.RepoKindGit:
		return repo.URL
	case domain.RepoKindGitea:
		return repo.BaseURL + "/" + repo.Owner + "/" + repo.Repo
	case domain.RepoKindGitHub:
		return repo.Owner + "/" + repo.Repo
	default:
		return ""
	}
}
