package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupHome points HOME at a temp dir with an empty calllog config dir.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "calllog")
	require.NoError(t, os.MkdirAll(dir, 0700))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "demo")
	assert.Contains(t, names, "config")
}

func TestDemo_LogsEveryCallWithRedaction(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "demo", "--format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, "add successfully called {'args': {'x': 1, 'y': 2}, 'return_value': 3}")
	assert.Contains(t, out, "divide encountered an error {'args': {'a': 1.0, 'b': 0.0}, 'error': 'division by zero'}")
	assert.Contains(t, out, "lookup successfully called {'args': {'key': 'region', 'default': 'eu-west-1'}, 'return_value': 'eu-west-1'}")
	assert.Contains(t, out, "Billing:Charge successfully called {'args': {'amount': 19.99, 'email': '**SECRET**'}")
	assert.Contains(t, out, "Billing:Refund encountered an error")
	assert.Contains(t, out, "explode encountered an error {'args': {'reason': 'out of coffee'}, 'error': 'out of coffee'}")
	assert.Contains(t, out, "request.id")

	assert.NotContains(t, out, "ada@example.com")
	assert.NotContains(t, out, "sk_live_demo")

	assert.Contains(t, out, "# metrics")
	assert.Contains(t, out, `calllog_calls_total{function="add",outcome="succeeded"} 1`)
	assert.Contains(t, out, `calllog_calls_total{function="Billing:Refund",outcome="failed"} 1`)
	assert.Contains(t, out, `calllog_call_duration_seconds_count{function="divide"} 1`)
}

func TestDemo_ScanValues(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, demoToken, "name-based redaction alone misses the token")

	t.Setenv("CALLLOG_REDACTION_SCAN_VALUES", "true")
	out, err = execute(t, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "notify encountered an error")
	assert.NotContains(t, out, demoToken)
}

func TestDemo_ConfiguredKeysKeepBuiltinRedaction(t *testing.T) {
	dir := setupHome(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("redaction:\n  secret_keys: [password]\n"), 0600))

	out, err := execute(t, "demo", "--config", path)
	require.NoError(t, err)

	assert.Contains(t, out, "'email': '**SECRET**'")
	assert.NotContains(t, out, "ada@example.com")
	assert.NotContains(t, out, "sk_live_demo")
}

func TestDemo_LevelFilter(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "demo", "--level", "error")
	require.NoError(t, err)

	assert.NotContains(t, out, "successfully called")
	assert.Contains(t, out, "divide encountered an error")
}

func TestDemo_MetricsDisabled(t *testing.T) {
	setupHome(t)
	t.Setenv("CALLLOG_METRICS_ENABLED", "false")

	out, err := execute(t, "demo")
	require.NoError(t, err)
	assert.NotContains(t, out, "# metrics")
}

func TestDemo_InvalidFlag(t *testing.T) {
	setupHome(t)

	_, err := execute(t, "demo", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.format")
}

func TestConfigShow(t *testing.T) {
	dir := setupHome(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("telemetry:\n  headers: \"authorization=Bearer topsecret\"\n"), 0600))

	out, err := execute(t, "config", "show", "--config", path, "--level", "warn")
	require.NoError(t, err)

	assert.Contains(t, out, "level: warn")
	assert.Contains(t, out, "api_key")
	assert.NotContains(t, out, "topsecret")

	out, err = execute(t, "config", "show", "--config", path, "-o", "toml")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "[logging]"), out)
}

func TestWriteMetrics_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMetrics(&buf, emptyGatherer{}))
	assert.Equal(t, "# metrics\n", buf.String())
}
