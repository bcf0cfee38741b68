package domain

// RepositoryKind identifies the acquisition strategy for a repository.
type RepositoryKind string

const (
	// RepoKindLocal scans an existing directory tree.
	RepoKindLocal RepositoryKind = "local"

	// RepoKindGit clones a git repository and scans the clone.
	RepoKindGit RepositoryKind = "git"

	// RepoKindGitea fetches files through the Gitea REST API.
	RepoKindGitea RepositoryKind = "gitea"

	// RepoKindGitHub fetches files through the GitHub API.
	RepoKindGitHub RepositoryKind = "github"
)

// Repository is one configured source repository. Name is the opaque
// repository id used throughout groupings and output paths; it is never
// inferred from content.
type Repository struct {
	// Name is the repository id (e.g. "ibro", "50n50").
	Name string `toml:"name"`

	// Kind selects the ingester implementation.
	Kind RepositoryKind `toml:"kind"`

	// Path is the directory to scan (local kind).
	Path string `toml:"path,omitempty"`

	// URL is the clone URL (git kind).
	URL string `toml:"url,omitempty"`

	// BaseURL is the API host, e.g. "https://git.luna-app.eu" (gitea kind).
	BaseURL string `toml:"base_url,omitempty"`

	// Owner and Repo address the remote repository (gitea/github kinds).
	Owner string `toml:"owner,omitempty"`
	Repo  string `toml:"repo,omitempty"`

	// Ref is the branch or tag to read, defaulting per ingester.
	Ref string `toml:"ref,omitempty"`

	// Token is an optional API token (gitea/github kinds).
	Token string `toml:"token,omitempty"`
}
