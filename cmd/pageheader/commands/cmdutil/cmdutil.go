// Package cmdutil provides shared CLI utilities for the pageheader commands.
package cmdutil

import (
	"fmt"
	"io"
	"os"
)

// StdinIndicator is the conventional Unix indicator to read from stdin.
const StdinIndicator = "-"

// IsStdin returns true if the given path indicates stdin should be used.
func IsStdin(path string) bool {
	return path == StdinIndicator
}

// StdinIsPiped returns true when stdin is connected to a pipe (not a terminal).
func StdinIsPiped() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) == 0
}

// InputFileFromArgs returns the first positional arg, or "-" for stdin.
func InputFileFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return StdinIndicator
}

// OpenInput opens path for reading, or stdin for "-". The caller closes it.
func OpenInput(path string) (io.ReadCloser, error) {
	if IsStdin(path) {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	return f, nil
}

// CreateOutput creates path for writing, or returns stdout when path is empty.
func CreateOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Dief prints a formatted message to stderr and exits with code 1.
func Dief(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

// Die prints an error to stderr and exits with code 1.
func Die(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
