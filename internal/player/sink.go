package player

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// JSONLSink writes each command as one JSON object per line.
//
// Thread-safety: JSONLSink serializes writes with a mutex.
type JSONLSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLSink creates a sink writing to w.
func NewJSONLSink(w io.Writer) *JSONLSink {
	return &JSONLSink{enc: json.NewEncoder(w)}
}

// Publish writes cmd followed by a newline.
func (s *JSONLSink) Publish(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(cmd); err != nil {
		return fmt.Errorf("encode command: %w", err)
	}
	return nil
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, cmd Command) error

// Publish calls f(ctx, cmd).
func (f SinkFunc) Publish(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}
