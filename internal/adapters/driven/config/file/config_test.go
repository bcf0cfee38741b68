package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadex-dev/mediadex-cli/internal/core/domain"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[output]
dir = "/tmp/organized"

[history]
enabled = false

[[repositories]]
name = "ibro"
kind = "local"
path = "/srv/sources/ibro"

[[repositories]]
name = "luna"
kind = "gitea"
base_url = "https://git.luna-app.eu"
owner = "luna"
repo = "sources"
ref = "main"
token = "secret"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/organized", cfg.Output.Dir)
	assert.False(t, cfg.History.Enabled)

	require.Len(t, cfg.Repositories, 2)
	assert.Equal(t, domain.Repository{
		Name: "ibro",
		Kind: domain.RepoKindLocal,
		Path: "/srv/sources/ibro",
	}, cfg.Repositories[0])
	assert.Equal(t, domain.RepoKindGitea, cfg.Repositories[1].Kind)
	assert.Equal(t, "secret", cfg.Repositories[1].Token)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
	assert.True(t, cfg.History.Enabled)
	assert.Empty(t, cfg.Repositories)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [toml"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_EmptyOutputDirDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[output]
dir = ""
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, cfg.Output.Dir)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		repos   []domain.Repository
		wantErr error
	}{
		{
			name: "valid",
			repos: []domain.Repository{
				{Name: "a", Kind: domain.RepoKindLocal},
				{Name: "b", Kind: domain.RepoKindGitHub},
			},
		},
		{
			name:    "missing name",
			repos:   []domain.Repository{{Kind: domain.RepoKindLocal}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "duplicate name",
			repos: []domain.Repository{
				{Name: "a", Kind: domain.RepoKindLocal},
				{Name: "a", Kind: domain.RepoKindGit},
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing kind",
			repos:   []domain.Repository{{Name: "a"}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown kind",
			repos:   []domain.Repository{{Name: "a", Kind: "svn"}},
			wantErr: domain.ErrUnsupportedKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Repositories = tt.repos
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Repositories = []domain.Repository{
		{Name: "ibro", Kind: domain.RepoKindLocal, Path: "/srv/ibro"},
	}
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Repositories, loaded.Repositories)
}

func TestConfig_HistoryPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t,
		filepath.Join("/home/u/.mediadex", "history.db"),
		cfg.HistoryPath("/home/u/.mediadex/config.toml"),
	)

	cfg.History.Path = "/var/lib/mediadex/history.db"
	assert.Equal(t, "/var/lib/mediadex/history.db", cfg.HistoryPath("/home/u/.mediadex/config.toml"))
}
