package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/posfile/internal/joints"
	"github.com/roach88/posfile/internal/posfile"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// JointCount selects an anonymous joint set of this size.
	// Zero means the NAO joint set.
	JointCount int `yaml:"joint_count,omitempty"`

	// DefaultStiffness overrides the parser default when non-nil.
	DefaultStiffness *float64 `yaml:"default_stiffness,omitempty"`

	// Lines are the raw pos file lines.
	Lines []string `yaml:"lines"`

	// Expect describes the expected outcome.
	Expect Expect `yaml:"expect"`
}

// Expect is the expected parse outcome.
type Expect struct {
	// OK is the expected value of Result.Successful.
	OK bool `yaml:"ok"`

	// Error is the expected error code when OK is false.
	Error string `yaml:"error,omitempty"`

	// Line is the expected failing line (1-based). Zero skips the check.
	Line int `yaml:"line,omitempty"`

	// KeyFrames is the expected keyframe count. Nil skips the check.
	KeyFrames *int `yaml:"keyframes,omitempty"`

	// Times are the expected cumulative times. Nil skips the check.
	Times []uint64 `yaml:"times,omitempty"`
}

// JointSet returns the joint set the scenario parses against.
func (s *Scenario) JointSet() (joints.Set, error) {
	if s.JointCount == 0 {
		return joints.NAO(), nil
	}
	return joints.Anonymous(s.JointCount)
}

// knownErrorCodes lists the codes a scenario may expect.
var knownErrorCodes = map[posfile.ErrorCode]bool{
	posfile.ErrCodeMalformedLine:      true,
	posfile.ErrCodeInvalidStiffness:   true,
	posfile.ErrCodeInvalidPosition:    true,
	posfile.ErrCodeInvalidDuration:    true,
	posfile.ErrCodeInconsistentJoints: true,
	posfile.ErrCodeStiffnessMismatch:  true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.JointCount < 0 {
		return fmt.Errorf("joint_count must not be negative")
	}

	if len(s.Lines) == 0 {
		return fmt.Errorf("lines list is required and must be non-empty")
	}

	if s.Expect.OK {
		if s.Expect.Error != "" {
			return fmt.Errorf("expect.error must be empty when expect.ok is true")
		}
	} else {
		if s.Expect.Error == "" {
			return fmt.Errorf("expect.error is required when expect.ok is false")
		}
		if !knownErrorCodes[posfile.ErrorCode(s.Expect.Error)] {
			return fmt.Errorf("expect.error: unknown error code %q", s.Expect.Error)
		}
	}

	return nil
}
