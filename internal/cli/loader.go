package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/posfile/internal/config"
	"github.com/roach88/posfile/internal/joints"
	"github.com/roach88/posfile/internal/posfile"
)

// LoadResult contains a parsed pos file and the profile it was parsed with.
type LoadResult struct {
	Path    string
	Profile config.Config
	Result  posfile.Result
}

// LoadError represents a failure to load a pos file or its profile.
// Parse failures are not LoadErrors; they are reported in LoadResult.Result.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadProfile resolves the robot profile named by --config.
func LoadProfile(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path), Err: err}
		}
		return config.Config{}, &LoadError{Code: ErrCodeConfig, Message: fmt.Sprintf("invalid config: %v", err), Err: err}
	}
	return cfg, nil
}

// LoadPosFile loads the profile and parses the pos file at path against it.
func LoadPosFile(path, configPath string) (*LoadResult, error) {
	cfg, err := LoadProfile(configPath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("pos file not found: %s", path), Err: err}
		}
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("opening pos file: %v", err), Err: err}
	}
	defer f.Close()

	parser := posfile.New(cfg.Joints, cfg.ParserOptions()...)
	res, err := parser.ParseReader(f)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: err.Error(), Err: err}
	}

	return &LoadResult{Path: path, Profile: cfg, Result: res}, nil
}

// loadErrorCode returns the CLI code of a load failure.
func loadErrorCode(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return ErrCodeGeneric
}

// parseErrorOutput converts a parse failure into a CLI code, message and details.
func parseErrorOutput(err error, set joints.Set) (string, string, *ParseErrorDetails) {
	var pe *posfile.ParseError
	if !errors.As(err, &pe) {
		return ErrCodeGeneric, err.Error(), nil
	}

	code, ok := parseErrorCodes[pe.Code]
	if !ok {
		code = ErrCodeGeneric
	}
	details := &ParseErrorDetails{
		Kind:     string(pe.Code),
		Line:     pe.Line,
		Token:    pe.Token,
		Expected: pe.Expected,
		Actual:   pe.Actual,
	}
	if pe.Joint >= 0 {
		details.Joint = set.Name(pe.Joint)
	}
	return code, pe.Message, details
}
