package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/posfile/internal/motion"
)

// Snapshot returns the canonical JSON snapshot of a scenario result.
//
// Successful results record their keyframes in fixed-point form; failed
// results record only the error code and line, since partial keyframes
// are discardable.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	snap := map[string]any{
		"scenario_name": scenarioName,
		"successful":    result.Successful,
	}
	if result.Successful {
		snap["keyframes"] = motion.CanonicalKeyFrames(result.KeyFrames)
	} else {
		snap["error_code"] = string(result.ErrorCode)
		snap["error_line"] = result.ErrorLine
	}

	data, err := motion.MarshalCanonical(snap)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
