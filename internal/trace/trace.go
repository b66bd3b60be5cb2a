// Package trace implements the structured, line-delimited JSON event
// log spec §5 implies as the host embedder's safe point: "between
// statements is the expected safe point for collection" doubles as
// where a host polls for termination and where the interpreter emits
// a trace event, when a session is attached.
//
// Grounded directly on the teacher's internal/trace.TraceSession:
// an enable/disable-able sink writing JSON lines, optionally rotated
// to a file via gopkg.in/natefinch/lumberjack.v2 the same way the
// teacher wires MaxSize/MaxBackups/Compress.
package trace

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Event is one trace record. Line/Depth describe the interpreter's
// position at the moment of the event: the current token's source
// line and the active call-stack depth.
type Event struct {
	Step   int64  `json:"step"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
	Line   int    `json:"line"`
	Depth  int    `json:"depth"`
}

// Session is an enable/disable-able event sink. The zero value is
// usable but disabled; call Enable to start emitting.
type Session struct {
	mu      sync.Mutex
	enabled bool
	sink    io.Writer
	logger  *lumberjack.Logger
	step    int64
}

// NewSession returns a session writing to stderr, disabled until
// Enable is called.
func NewSession() *Session {
	return &Session{sink: os.Stderr}
}

// NewFileSession returns a session rotated to a file the way the
// teacher's InitTrace wires lumberjack: maxSizeMB-megabyte segments
// (10 when maxSizeMB is not positive), 3 backups, no age limit,
// gzip-compressed on rotation.
func NewFileSession(path string, maxSizeMB int) *Session {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	l := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
		MaxAge:     0,
		Compress:   true,
	}
	return &Session{sink: l, logger: l}
}

func (s *Session) Enable()  { s.mu.Lock(); s.enabled = true; s.mu.Unlock() }
func (s *Session) Disable() { s.mu.Lock(); s.enabled = false; s.mu.Unlock() }

func (s *Session) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Emit writes one event as a JSON line if the session is enabled.
// Failures to marshal or write are swallowed: tracing must never be
// able to fail a script run.
func (s *Session) Emit(kind, detail string, line, depth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	s.step++
	ev := Event{Step: s.step, Kind: kind, Detail: detail, Line: line, Depth: depth}
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	b = append(b, '\n')
	sink := s.sink
	if sink == nil {
		sink = os.Stderr
	}
	_, _ = sink.Write(b)
}

// Close releases the rotated log file, if any.
func (s *Session) Close() error {
	if s.logger != nil {
		return s.logger.Close()
	}
	return nil
}
