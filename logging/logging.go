// Package logging provides the log sinks used by the header transformation.
// Messages carry a category naming the stage that produced them.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Categories used across the module.
const (
	CategoryPageHeader = "PublishingPageHeader"
	CategoryAssets     = "AssetTransfer"
	CategoryFunctions  = "FunctionProcessor"
	CategoryCache      = "MappingCache"
	CategoryBatch      = "Batch"
)

type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParseLevel maps "info", "warn" and "error" to a Level. Anything else is warn.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return LevelInfo
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

// Logger is the sink the transformation packages report to.
type Logger interface {
	Info(category, message string)
	Warn(category, message string)
	Error(category, message string, cause error)
}

// Writer writes one prefixed line per entry at or above its level.
type Writer struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

var _ Logger = (*Writer)(nil)

func NewWriter(out io.Writer, level Level) *Writer {
	return &Writer{out: out, level: level}
}

// NewStderr returns a Writer on os.Stderr.
func NewStderr(level Level) *Writer {
	return NewWriter(os.Stderr, level)
}

func (w *Writer) Info(category, message string) {
	w.write(LevelInfo, category, message, nil)
}

func (w *Writer) Warn(category, message string) {
	w.write(LevelWarn, category, message, nil)
}

func (w *Writer) Error(category, message string, cause error) {
	w.write(LevelError, category, message, cause)
}

func (w *Writer) write(level Level, category, message string, cause error) {
	if level < w.level {
		return
	}

	line := fmt.Sprintf("[%s][%s] %s", level, category, message)
	if cause != nil {
		line += ": " + cause.Error()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintln(w.out, line)
}

type discard struct{}

func (discard) Info(string, string) {}
func (discard) Warn(string, string) {}
func (discard) Error(string, string, error) {}

// Discard drops every entry.
var Discard Logger = discard{}

// Entry is one message captured by a Recorder.
type Entry struct {
	Level    Level
	Category string
	Message  string
	Cause    error
}

// Recorder keeps every entry in memory. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

var _ Logger = (*Recorder)(nil)

func (r *Recorder) Info(category, message string) {
	r.add(Entry{Level: LevelInfo, Category: category, Message: message})
}

func (r *Recorder) Warn(category, message string) {
	r.add(Entry{Level: LevelWarn, Category: category, Message: message})
}

func (r *Recorder) Error(category, message string, cause error) {
	r.add(Entry{Level: LevelError, Category: category, Message: message, Cause: cause})
}

func (r *Recorder) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries returns a copy of the captured entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Filter returns the captured entries at the given level.
func (r *Recorder) Filter(level Level) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}
