package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/posfile/internal/joints"
	"github.com/roach88/posfile/internal/motion"
	"github.com/roach88/posfile/internal/posfile"
)

// createTestStore creates a new temporary store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestMotion parses lines against a three-joint set and builds a motion.
func createTestMotion(t *testing.T, name string, lines ...string) motion.Motion {
	t.Helper()
	set, err := joints.New("A", "B", "C")
	if err != nil {
		t.Fatalf("joints.New() failed: %v", err)
	}
	res := posfile.Parse(set, lines)
	if !res.Successful {
		t.Fatalf("Parse() failed: %v", res.Err)
	}
	m, err := motion.New(name, set, res.KeyFrames)
	if err != nil {
		t.Fatalf("motion.New() failed: %v", err)
	}
	return m
}
