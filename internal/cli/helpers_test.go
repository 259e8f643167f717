package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// twoJointProfile is a CUE profile with two anonymous joints.
const twoJointProfile = `
robot: "test"
joint_count: 2
default_stiffness: 0.8
time_unit: "ms"
`

// validPosFile has two keyframes at t=100 and t=300.
const validPosFile = `# two joint wave
$ 0.5 0.5
! 90 -90 100
! 0 0 200
`

// invalidPosFile fails on line 2 with a bad position token.
const invalidPosFile = `! 0 0 100
! 90 abc 100
`

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// testFixture creates a temp dir holding a profile and returns both paths.
func testFixture(t *testing.T) (dir, profile string) {
	t.Helper()
	dir = t.TempDir()
	return dir, writeFile(t, dir, "robot.cue", twoJointProfile)
}

// execute runs the root command with args and returns stdout and stderr.
func execute(args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
