package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.fractalqb.de/fractalqb/modmk/config"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func writeUserConfig(t *testing.T, swcmd string, settings ...string) string {
	t.Helper()
	prj := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(prj, "sw/top"), 0777))
	require.NoError(t, os.WriteFile(filepath.Join(prj, "builder.yml"), []byte(`modules:
  base:
    swpath: sw/top
`), 0644))
	cfg := filepath.Join(t.TempDir(), "builder.yml")
	require.NoError(t, os.WriteFile(cfg, []byte(fmt.Sprintf(`settings:
  project: %s
  config: %s/builder.yml
  pull: false
  commands:
    software: %s
%s
modules:
  Top:
    swpath: sw/top
`, prj, prj, swcmd, strings.Join(settings, "\n"))), 0644))
	return cfg
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stderr bytes.Buffer
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stderr.String(), err
}

func exitCode(err error) int {
	var ee *ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ee):
		return ee.Code
	}
	return exitFatal
}

func TestBuild_ok(t *testing.T) {
	cfg := writeUserConfig(t, "true")
	_, err := execute(t, "--config", cfg, "TOP")
	require.NoError(t, err)
}

func TestBuild_unknownModule(t *testing.T) {
	cfg := writeUserConfig(t, "true")
	stderr, err := execute(t, "--config", cfg, "nope")
	require.ErrorIs(t, err, config.ErrUnknownModule)
	require.Equal(t, 1, exitCode(err))
	require.Contains(t, stderr, "  - base\n  - top\n")
}

func TestBuild_lenientFailure(t *testing.T) {
	cfg := writeUserConfig(t, "sh -c 'exit 3'")
	_, err := execute(t, "--config", cfg, "top")
	require.NoError(t, err)
}

func TestBuild_strictFailure(t *testing.T) {
	cfg := writeUserConfig(t, "sh -c 'exit 3'")
	_, err := execute(t, "--config", cfg, "--strict", "top")
	require.Error(t, err)
	require.Equal(t, 2, exitCode(err))
}

func TestBuild_strictFromEnv(t *testing.T) {
	cfg := writeUserConfig(t, "sh -c 'exit 3'")
	t.Setenv("MODMK_STRICT", "true")
	_, err := execute(t, "--config", cfg, "top")
	require.Equal(t, 2, exitCode(err))

	_, err = execute(t, "--config", cfg, "--no-strict", "top")
	require.NoError(t, err)
}

func TestBuild_badConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "builder.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("settings: [\n"), 0644))
	_, err := execute(t, "--config", cfg, "top")
	require.ErrorIs(t, err, config.ErrConfigParse)
	require.Equal(t, 1, exitCode(err))
}

func TestBuild_bootstrap(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "sub", "builder.yml")
	_, err := execute(t, "--config", cfg, "top")
	require.ErrorIs(t, err, config.ErrNoModules)
	data, err := os.ReadFile(cfg)
	require.NoError(t, err)
	require.Equal(t, config.Default(), data)
}

func TestBuild_negatedFlagWins(t *testing.T) {
	cfg := writeUserConfig(t, "sh -c 'exit 3'")
	_, err := execute(t, "--config", cfg, "--strict", "--no-strict", "top")
	require.NoError(t, err)
}

func TestBuild_negatedEnv(t *testing.T) {
	cfg := writeUserConfig(t, "sh -c 'exit 3'", "  strict: true")
	_, err := execute(t, "--config", cfg, "top")
	require.Equal(t, 2, exitCode(err))

	t.Setenv("MODMK_NO_STRICT", "true")
	_, err = execute(t, "--config", cfg, "top")
	require.NoError(t, err)

	_, err = execute(t, "--config", cfg, "--strict", "top")
	require.Equal(t, 2, exitCode(err), "flag must beat environment")
}

func TestBuild_verboseFromConfig(t *testing.T) {
	cfg := writeUserConfig(t, "true", "  verbose: true")
	stderr, err := execute(t, "--config", cfg, "top")
	require.NoError(t, err)
	require.Contains(t, stderr, "module=top")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	lg, err := newLogger(&buf, "warn")
	require.NoError(t, err)
	lg.Info("hidden")
	require.Zero(t, buf.Len())

	verboseLog(lg, true)
	require.Equal(t, log.InfoLevel, lg.GetLevel())
	lg.Info("build", "module", "top")
	require.Contains(t, buf.String(), "top")

	lg.SetLevel(log.DebugLevel)
	verboseLog(lg, true)
	require.Equal(t, log.DebugLevel, lg.GetLevel())

	_, err = newLogger(&buf, "loud")
	require.Error(t, err)
}
