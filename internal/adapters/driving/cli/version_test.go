package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediadex-dev/mediadex-cli/internal/adapters/driven/config/file"
)

// setupConfig injects a loaded configuration so PersistentPreRunE does
// not touch the filesystem.
func setupConfig(cfg *file.Config) func() {
	oldConfig := appConfig
	oldPath := configPath
	appConfig = cfg
	configPath = "/tmp/config.toml"
	return func() {
		appConfig = oldConfig
		configPath = oldPath
	}
}

func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Executes(t *testing.T) {
	cleanup := setupConfig(file.Default())
	defer cleanup()

	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute("version")

	assert.NoError(t, err)
	assert.Contains(t, out, "mediadex version test-version-1.0.0")
}
