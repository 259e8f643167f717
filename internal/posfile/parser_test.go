package posfile

import (
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/posfile/internal/joints"
)

// newTestParser creates a parser for n anonymous joints with logging discarded.
func newTestParser(t *testing.T, n int, opts ...Option) *Parser {
	t.Helper()
	set, err := joints.Anonymous(n)
	require.NoError(t, err)
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(set, opts...)
}

func TestParse_DefaultStiffness(t *testing.T) {
	p := newTestParser(t, 3)

	res := p.Parse([]string{"! 0 0 - 100", "! 0 0 - 100"})
	require.True(t, res.Successful)
	require.NoError(t, res.Err)
	require.Len(t, res.KeyFrames, 2)

	assert.Equal(t, uint64(100), res.KeyFrames[0].Time)
	assert.Equal(t, uint64(200), res.KeyFrames[1].Time)

	for _, kf := range res.KeyFrames {
		assert.Equal(t, []int{0, 1}, kf.Positions.Indexes)
		assert.Equal(t, []float64{0, 0}, kf.Positions.Values)
		assert.Equal(t, []int{0, 1}, kf.Stiffnesses.Indexes)
		assert.Equal(t, []float64{1.0, 1.0}, kf.Stiffnesses.Values)
	}
}

func TestParse_CustomStiffnessMismatch(t *testing.T) {
	p := newTestParser(t, 3)

	res := p.Parse([]string{"$ 0.5 - -", "! 10 0 - 50"})
	require.False(t, res.Successful)
	assert.True(t, IsCode(res.Err, ErrCodeStiffnessMismatch))

	var pe *ParseError
	require.ErrorAs(t, res.Err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, 2, pe.Expected)
	assert.Equal(t, 1, pe.Actual)
}

func TestParse_CustomStiffnessApplied(t *testing.T) {
	p := newTestParser(t, 3)

	res := p.Parse([]string{
		"$ 0.5 0.25 -",
		"! 10 20 - 50",
		"! 30 40 - 25",
	})
	require.True(t, res.Successful, "unexpected error: %v", res.Err)
	require.Len(t, res.KeyFrames, 2)

	first := res.KeyFrames[0]
	assert.Equal(t, uint64(50), first.Time)
	assert.Equal(t, []int{0, 1}, first.Stiffnesses.Indexes)
	assert.Equal(t, []float64{0.5, 0.25}, first.Stiffnesses.Values)

	// Custom stiffness applies to one position line only.
	second := res.KeyFrames[1]
	assert.Equal(t, uint64(75), second.Time)
	assert.Equal(t, []int{0, 1}, second.Stiffnesses.Indexes)
	assert.Equal(t, []float64{1.0, 1.0}, second.Stiffnesses.Values)
}

func TestParse_StiffnessLinesAccumulate(t *testing.T) {
	p := newTestParser(t, 2)

	// Two stiffness lines before one position line append into one buffer,
	// so the indexes become [0 1 0 1] and no longer match the positions.
	res := p.Parse([]string{"$ 0.5 0.5", "$ 0.7 0.7", "! 0 0 10"})
	require.False(t, res.Successful)
	assert.Equal(t, ErrCodeStiffnessMismatch, CodeOf(res.Err))

	var pe *ParseError
	require.ErrorAs(t, res.Err, &pe)
	assert.Equal(t, 4, pe.Actual)
}

func TestParse_StiffnessSameIndexesDifferentOrderFails(t *testing.T) {
	p := newTestParser(t, 2)

	res := p.Parse([]string{"$ - 0.5", "$ 0.5 -", "! 0 0 10"})
	require.False(t, res.Successful)
	assert.Equal(t, ErrCodeStiffnessMismatch, CodeOf(res.Err))
}

func TestParse_DegreesToRadians(t *testing.T) {
	p := newTestParser(t, 3)

	res := p.Parse([]string{"! 180 90 -45 10"})
	require.True(t, res.Successful)
	require.Len(t, res.KeyFrames, 1)

	v := res.KeyFrames[0].Positions.Values
	assert.InDelta(t, math.Pi, v[0], 1e-12)
	assert.InDelta(t, math.Pi/2, v[1], 1e-12)
	assert.InDelta(t, -math.Pi/4, v[2], 1e-12)

	// Exact under radians = degrees*pi/180 evaluated in float64.
	for i, deg := range []float64{180, 90, -45} {
		assert.Equal(t, deg*math.Pi/180, v[i])
	}
}

func TestDegreesRadiansRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 1, 45, 90, 119.5, -180} {
		assert.InDelta(t, deg, RadiansToDegrees(DegreesToRadians(deg)), 1e-9)
	}
}

func TestParse_CumulativeTime(t *testing.T) {
	p := newTestParser(t, 1)

	durations := []string{"0", "10", "250", "0", "40"}
	var lines []string
	for _, d := range durations {
		lines = append(lines, "! 5 "+d)
	}

	res := p.Parse(lines)
	require.True(t, res.Successful)
	require.Len(t, res.KeyFrames, len(durations))

	want := []uint64{0, 10, 260, 260, 300}
	for i, kf := range res.KeyFrames {
		assert.Equal(t, want[i], kf.Time, "frame %d", i)
		if i > 0 {
			assert.GreaterOrEqual(t, kf.Time, res.KeyFrames[i-1].Time)
		}
	}
}

func TestParse_IgnoredLinesHaveNoEffect(t *testing.T) {
	p := newTestParser(t, 3)

	plain := p.Parse([]string{"$ 0.5 0.5 -", "! 10 0 - 50", "! 10 0 - 50"})
	commented := p.Parse([]string{
		"# a comment",
		"$ 0.5 0.5 -",
		"",
		"this line is ignored",
		"! 10 0 - 50",
		"   ! not a position line because of leading whitespace",
		"! 10 0 - 50",
	})

	require.True(t, plain.Successful)
	require.True(t, commented.Successful)
	assert.Equal(t, plain.KeyFrames, commented.KeyFrames)
}

func TestParse_MalformedLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected int
		actual   int
	}{
		{"stiffness too short", "$ 1 1", 4, 3},
		{"stiffness too long", "$ 1 1 1 1", 4, 5},
		{"position too short", "! 0 0 0", 5, 4},
		{"position too long", "! 0 0 0 10 10", 5, 6},
		{"marker only", "!", 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(t, 3)
			res := p.Parse([]string{tt.line})
			require.False(t, res.Successful)

			var pe *ParseError
			require.ErrorAs(t, res.Err, &pe)
			assert.Equal(t, ErrCodeMalformedLine, pe.Code)
			assert.Equal(t, tt.expected, pe.Expected)
			assert.Equal(t, tt.actual, pe.Actual)
			assert.Equal(t, 1, pe.Line)
		})
	}
}

func TestParse_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		code  ErrorCode
		token string
		joint int
	}{
		{"stiffness not a number", []string{"$ 1 abc -"}, ErrCodeInvalidStiffness, "abc", 1},
		{"stiffness numeric prefix", []string{"$ 1 1 0.5x"}, ErrCodeInvalidStiffness, "0.5x", 2},
		{"position not a number", []string{"! x 0 0 10"}, ErrCodeInvalidPosition, "x", 0},
		{"position nan", []string{"! 0 NaN 0 10"}, ErrCodeInvalidPosition, "NaN", 1},
		{"position inf", []string{"! 0 0 +Inf 10"}, ErrCodeInvalidPosition, "+Inf", 2},
		{"duration not a number", []string{"! 0 0 0 soon"}, ErrCodeInvalidDuration, "soon", -1},
		{"duration fractional", []string{"! 0 0 0 1.5"}, ErrCodeInvalidDuration, "1.5", -1},
		{"duration negative", []string{"! 0 0 0 -5"}, ErrCodeInvalidDuration, "-5", -1},
		{"duration skip token", []string{"! 0 0 0 -"}, ErrCodeInvalidDuration, "-", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(t, 3)
			res := p.Parse(tt.lines)
			require.False(t, res.Successful)

			var pe *ParseError
			require.ErrorAs(t, res.Err, &pe)
			assert.Equal(t, tt.code, pe.Code)
			assert.Equal(t, tt.token, pe.Token)
			assert.Equal(t, tt.joint, pe.Joint)
		})
	}
}

func TestParse_DurationOverflow(t *testing.T) {
	p := newTestParser(t, 1)

	res := p.Parse([]string{"! 0 18446744073709551615", "! 0 1"})
	require.False(t, res.Successful)
	assert.Equal(t, ErrCodeInvalidDuration, CodeOf(res.Err))
}

func TestParse_InconsistentJointSet(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		line  int
	}{
		{"joint added", []string{"! 0 - - 10", "! 0 0 - 10"}, 2},
		{"joint removed", []string{"! 0 0 - 10", "! 0 - - 10"}, 2},
		{"joint swapped", []string{"! 0 - - 10", "! - 0 - 10"}, 2},
		{"third line differs from first", []string{"! 0 0 - 10", "! 5 5 - 10", "! 5 5 5 10"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser(t, 3)
			res := p.Parse(tt.lines)
			require.False(t, res.Successful)

			var pe *ParseError
			require.ErrorAs(t, res.Err, &pe)
			assert.Equal(t, ErrCodeInconsistentJoints, pe.Code)
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestParse_ConsistencyCheckedBeforeDuration(t *testing.T) {
	p := newTestParser(t, 2)

	res := p.Parse([]string{"! 0 0 10", "! 0 - bogus"})
	require.False(t, res.Successful)
	assert.Equal(t, ErrCodeInconsistentJoints, CodeOf(res.Err))
}

func TestParse_FailFastKeepsPartialFrames(t *testing.T) {
	p := newTestParser(t, 2)

	res := p.Parse([]string{"! 0 0 10", "! 0 0 10", "! 0 oops 10", "! 0 0 10"})
	require.False(t, res.Successful)
	assert.Len(t, res.KeyFrames, 2)

	var pe *ParseError
	require.ErrorAs(t, res.Err, &pe)
	assert.Equal(t, 3, pe.Line)
}

func TestParse_AllJointsSkipped(t *testing.T) {
	p := newTestParser(t, 2)

	res := p.Parse([]string{"! - - 10", "! - - 15"})
	require.True(t, res.Successful)
	require.Len(t, res.KeyFrames, 2)
	assert.Equal(t, 0, res.KeyFrames[1].Positions.Len())
	assert.Equal(t, 0, res.KeyFrames[1].Stiffnesses.Len())
	assert.Equal(t, uint64(25), res.KeyFrames[1].Time)
}

func TestParse_EmptyInput(t *testing.T) {
	p := newTestParser(t, 3)

	res := p.Parse(nil)
	assert.True(t, res.Successful)
	assert.Empty(t, res.KeyFrames)
}

func TestParse_WithDefaultStiffness(t *testing.T) {
	p := newTestParser(t, 2, WithDefaultStiffness(0.6))

	res := p.Parse([]string{"! 0 - 10"})
	require.True(t, res.Successful)
	assert.Equal(t, []float64{0.6}, res.KeyFrames[0].Stiffnesses.Values)
}

func TestParse_FramesDoNotAlias(t *testing.T) {
	p := newTestParser(t, 2)

	res := p.Parse([]string{"$ 0.3 0.3", "! 1 2 10", "! 3 4 10"})
	require.True(t, res.Successful)
	require.Len(t, res.KeyFrames, 2)

	assert.Equal(t, []float64{0.3, 0.3}, res.KeyFrames[0].Stiffnesses.Values)
	assert.Equal(t, []float64{1.0, 1.0}, res.KeyFrames[1].Stiffnesses.Values)
}

func TestParse_NAOLine(t *testing.T) {
	p := New(joints.NAO(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	values := make([]string, joints.NAOJointCount)
	for i := range values {
		values[i] = "0"
	}
	values[0] = "90"
	line := "! " + strings.Join(values, " ") + " 500"

	res := p.Parse([]string{line})
	require.True(t, res.Successful, "unexpected error: %v", res.Err)
	require.Len(t, res.KeyFrames, 1)
	assert.Equal(t, joints.NAOJointCount, res.KeyFrames[0].Positions.Len())
	assert.Equal(t, uint64(500), res.KeyFrames[0].Time)
}

func TestParse_ConcurrentCalls(t *testing.T) {
	p := newTestParser(t, 3)
	lines := []string{"$ 0.5 0.5 -", "! 10 0 - 50", "! 10 0 - 50"}
	want := p.Parse(lines)
	require.True(t, want.Successful)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Parse(lines)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestParseReader(t *testing.T) {
	p := newTestParser(t, 2)

	res, err := p.ParseReader(strings.NewReader("# header\r\n! 0 0 10\r\n! 0 0 5\r\n"))
	require.NoError(t, err)
	require.True(t, res.Successful)
	require.Len(t, res.KeyFrames, 2)
	assert.Equal(t, uint64(15), res.KeyFrames[1].Time)
}

func TestPackageParse(t *testing.T) {
	set, err := joints.Anonymous(1)
	require.NoError(t, err)

	res := Parse(set, []string{"! 1 1"})
	assert.True(t, res.Successful)
}
