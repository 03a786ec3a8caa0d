package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/essentials/internal/cli/prompt"
	"github.com/marmos91/essentials/internal/logger"
	"github.com/marmos91/essentials/pkg/config"
	"github.com/marmos91/essentials/pkg/lifecycle"
)

// testEnv isolates a command run from the user's config and terminal.
// It returns the log file path.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	logFile := filepath.Join(dir, "essentials.log")

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("ESSENTIALS_LOGGING_OUTPUT", logFile)
	t.Setenv("ESSENTIALS_DELAY_DELAY", "10ms")
	t.Cleanup(func() {
		logger.InitWithWriter(os.Stdout, "INFO", "text", false)
	})
	return logFile
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestFetchCommand_Single(t *testing.T) {
	logFile := testEnv(t)

	_, err := execute(t, "fetch")
	require.NoError(t, err)

	logs := readLog(t, logFile)
	fetching := strings.Index(logs, "Fetching data...")
	fetched := strings.Index(logs, "Data fetched successfully!")
	require.NotEqual(t, -1, fetching)
	require.NotEqual(t, -1, fetched)
	assert.Less(t, fetching, fetched)
}

func TestFetchCommand_Concurrent(t *testing.T) {
	testEnv(t)

	out, err := execute(t, "fetch", "--count", "3", "--output", "json")
	require.NoError(t, err)

	var results []struct {
		Index   int    `json:"index"`
		Payload string `json:"payload"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, "Data fetched successfully!", r.Payload)
	}
}

func TestFetchCommand_InvalidCount(t *testing.T) {
	testEnv(t)

	_, err := execute(t, "fetch", "--count", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--count")
}

func TestFilesCommand_JSONReport(t *testing.T) {
	logFile := testEnv(t)
	path := filepath.Join(t.TempDir(), "example.txt")

	out, err := execute(t, "files", "--path", path, "--output", "json")
	require.NoError(t, err)

	var report reportView
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Succeeded)
	assert.Equal(t, path, report.Path)
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Stages, 4)
	for _, s := range report.Stages {
		assert.Equal(t, string(lifecycle.StatusSucceeded), s.Status, s.Stage)
	}

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))

	logs := readLog(t, logFile)
	assert.Contains(t, logs, "File written successfully.")
	assert.Contains(t, logs, "Hello, File System!")
	assert.Contains(t, logs, "Text appended successfully.")
	assert.Contains(t, logs, "File deleted successfully.")
}

func TestFilesCommand_FailureExitsCleanly(t *testing.T) {
	logFile := testEnv(t)
	path := filepath.Join(t.TempDir(), "missing", "example.txt")

	out, err := execute(t, "files", "--path", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	logs := readLog(t, logFile)
	assert.Contains(t, logs, "Error writing file")
	assert.NotContains(t, logs, "File content:")
}

func TestFilesCommand_FailOnError(t *testing.T) {
	testEnv(t)
	path := filepath.Join(t.TempDir(), "missing", "example.txt")

	_, err := execute(t, "files", "--path", path, "--fail-on-error")
	require.Error(t, err)
	assert.True(t, errors.Is(err, lifecycle.ErrStageFailed))

	var stageErr *lifecycle.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, lifecycle.StageWrite, stageErr.Stage)
}

func TestFilesCommand_InvalidOutput(t *testing.T) {
	testEnv(t)

	_, err := execute(t, "files", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestInitCommand(t *testing.T) {
	testEnv(t)
	path := filepath.Join(t.TempDir(), "essentials.yaml")

	out, err := execute(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created at: "+path)

	cfg, err := config.MustLoad(path)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)

	if prompt.Interactive() {
		t.Skip("stdin is a terminal")
	}
	_, err = execute(t, "init", "--config", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigExists))

	_, err = execute(t, "init", "--config", path, "--force")
	require.NoError(t, err)
}

func TestConfigCommands(t *testing.T) {
	testEnv(t)
	path := filepath.Join(t.TempDir(), "essentials.yaml")
	require.NoError(t, config.InitConfigToPath(path, false))

	t.Run("validate", func(t *testing.T) {
		out, err := execute(t, "config", "validate", "--config", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Configuration is valid")
		assert.Contains(t, out, "3000")
	})

	t.Run("validate missing file", func(t *testing.T) {
		_, err := execute(t, "config", "validate", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration file not found")
	})

	t.Run("show", func(t *testing.T) {
		out, err := execute(t, "config", "show", "--config", path)
		require.NoError(t, err)
		assert.Contains(t, out, "# source: "+path)
		assert.Contains(t, out, "example.txt")
	})

	t.Run("schema", func(t *testing.T) {
		out, err := execute(t, "config", "schema")
		require.NoError(t, err)

		var schema map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &schema))
		props, ok := schema["properties"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, props, "server")
		assert.Contains(t, props, "delay")
		assert.Contains(t, props, "files")
	})
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "essentials "+Version)
	assert.Contains(t, out, "Go version:")
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "essentials")

	_, err = execute(t, "completion", "tcsh")
	require.Error(t, err)
}
