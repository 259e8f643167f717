package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: two_frames
description: Two keyframes accumulate time
joint_count: 2
lines:
  - "! 10 20 100"
  - "! 30 40 50"
expect:
  ok: true
  keyframes: 2
  times: [100, 150]
`

const failingScenario = `name: wrong_expectation
description: Expects success from a malformed line
joint_count: 2
lines:
  - "! 10 100"
expect:
  ok: true
`

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute("test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, _, err := execute("test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, _, err := execute("test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	out, _, err := execute("test", "--format", "json", t.TempDir())
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Data.Total)
	assert.Empty(t, resp.Data.Scenarios)
}

func TestTestCommandHarnessScenarios(t *testing.T) {
	dir := filepath.Join("..", "harness", "testdata", "scenarios")

	out, _, err := execute("test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ nao_wave")
	assert.Contains(t, out, "0 failed")
	assert.Contains(t, out, "All scenarios passed")
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pass.yaml", passingScenario)
	writeFile(t, dir, "fail.yaml", failingScenario)

	out, _, err := execute("test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ two_frames")
	assert.Contains(t, out, "✗ wrong_expectation")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestTestCommandFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pass.yaml", passingScenario)
	writeFile(t, dir, "fail.yaml", failingScenario)

	out, _, err := execute("test", "--filter", "pass*", "--format", "json", dir)
	require.NoError(t, err)

	var resp struct {
		Data TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "name: broken\n")

	out, _, err := execute("test", "--format", "json", dir)
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "broken.yaml", resp.Data.Scenarios[0].Name)
	assert.Contains(t, resp.Data.Scenarios[0].Errors[0], "failed to load scenario")
}

func TestTestCommandGoldenUpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pass.yaml", passingScenario)

	_, _, err := execute("test", "--update", dir)
	require.NoError(t, err)

	goldenPath := filepath.Join(dir, "golden", "pass.golden")
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario_name":"two_frames"`)

	// Matching golden passes.
	_, _, err = execute("test", dir)
	require.NoError(t, err)

	// Tampered golden fails.
	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	out, _, err := execute("test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "snapshot does not match golden file")
}
