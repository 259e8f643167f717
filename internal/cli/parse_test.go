package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand_Text(t *testing.T) {
	dir, profile := testFixture(t)
	path := writeFile(t, dir, "wave.pos", validPosFile)

	out, _, err := execute("parse", "--config", profile, path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 keyframe(s), duration 300")
	assert.Contains(t, out, "#0 t=100")
	assert.Contains(t, out, "#1 t=300")
	assert.Contains(t, out, "90.000 deg")
	assert.Contains(t, out, "stiffness 0.50")
	assert.Contains(t, out, "stiffness 0.80")
}

func TestParseCommand_JSON(t *testing.T) {
	dir, profile := testFixture(t)
	path := writeFile(t, dir, "wave.pos", validPosFile)

	out, _, err := execute("parse", "--config", profile, "--format", "json", path)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   ParseOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, uint64(300), resp.Data.Duration)
	assert.Len(t, resp.Data.MotionID, 64)

	require.Len(t, resp.Data.KeyFrames, 2)
	first := resp.Data.KeyFrames[0]
	assert.Equal(t, uint64(100), first.Time)
	require.Len(t, first.Positions, 2)
	assert.Equal(t, "J0", first.Positions[0].Joint)
	assert.Equal(t, "J1", first.Positions[1].Joint)
	assert.InDelta(t, 1.5707963, first.Positions[0].Value, 1e-6)
	assert.Equal(t, 0.5, first.Stiffnesses[0].Value)

	second := resp.Data.KeyFrames[1]
	assert.Equal(t, uint64(300), second.Time)
	assert.Equal(t, 0.8, second.Stiffnesses[1].Value)
}

func TestParseCommand_SameContentSameID(t *testing.T) {
	dir, profile := testFixture(t)
	a := writeFile(t, dir, "a.pos", validPosFile)
	b := writeFile(t, dir, "b.pos", "# different comment\n"+validPosFile)

	idOf := func(path string) string {
		out, _, err := execute("parse", "--config", profile, "--format", "json", path)
		require.NoError(t, err)
		var resp struct {
			Data ParseOutput `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		return resp.Data.MotionID
	}

	assert.Equal(t, idOf(a), idOf(b))
}

func TestParseCommand_InvalidFile(t *testing.T) {
	dir, profile := testFixture(t)
	path := writeFile(t, dir, "bad.pos", invalidPosFile)

	out, _, err := execute("parse", "--config", profile, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Parse failed")
	assert.Contains(t, out, "line 2")
	assert.Contains(t, out, ErrCodeInvalidPosition)
}

func TestParseCommand_InvalidFileJSON(t *testing.T) {
	dir, profile := testFixture(t)
	path := writeFile(t, dir, "bad.pos", invalidPosFile)

	out, _, err := execute("parse", "--config", profile, "--format", "json", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidPosition, resp.Error.Code)

	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "INVALID_POSITION_VALUE", details["kind"])
	assert.Equal(t, float64(2), details["line"])
	assert.Equal(t, "abc", details["token"])
	assert.Equal(t, "J1", details["joint"])
}

func TestParseCommand_MissingFile(t *testing.T) {
	_, profile := testFixture(t)

	out, _, err := execute("parse", "--config", profile, "/nonexistent/wave.pos")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}

func TestParseCommand_BadConfig(t *testing.T) {
	dir := t.TempDir()
	profile := writeFile(t, dir, "robot.cue", "joint_count: 2\nbogus: 1\n")
	path := writeFile(t, dir, "wave.pos", validPosFile)

	out, _, err := execute("parse", "--config", profile, path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeConfig)
}

func TestParseCommand_DefaultProfileIsNAO(t *testing.T) {
	dir := t.TempDir()
	// 25 joint values plus a duration.
	line := "!"
	for i := 0; i < 25; i++ {
		line += " -"
	}
	path := writeFile(t, dir, "empty.pos", line+" 50\n")

	out, _, err := execute("parse", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 keyframe(s), duration 50")
}
