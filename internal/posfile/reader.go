package posfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single pos file line.
const maxLineSize = 1 << 20

// ReadLines reads all lines from r, stripping line terminators (LF or CRLF).
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read pos file: %w", err)
	}
	return lines, nil
}

// ParseReader reads all lines from r and parses them.
// A read failure is returned as an error; parse failures are reported in the Result.
func (p *Parser) ParseReader(r io.Reader) (Result, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return Result{}, err
	}
	return p.Parse(lines), nil
}
