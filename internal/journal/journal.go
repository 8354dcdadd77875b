// Package journal implements the append-only operation log of the apply flow.
//
// Every state transition of an apply or rollback run is recorded as one
// timestamped line in a per-day file, so an operator can reconstruct what
// happened to the firewall and when, even if the session itself was cut off.
// Lines are echoed to the console logger as they are written.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwguard/fwguard/internal/clock"
	"github.com/fwguard/fwguard/internal/log"
)

const (
	lineTimeLayout = "2006-01-02 15:04:05"
	fileDateLayout = "2006-01-02"
)

// Journal writes timestamped audit lines to an append-only file.
//
// A Journal with a nil file (see Discard) only echoes to the console; the
// engine does not care which kind it was given.
type Journal struct {
	mu     sync.Mutex
	file   *os.File
	clk    clock.Clock
	path   string
	warned bool
}

// Open creates the log directory if needed and opens (or creates) the
// journal file for the current UTC day, named fwguard-YYYY-MM-DD.log.
func Open(dir string, clk clock.Clock) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	name := fmt.Sprintf("fwguard-%s.log", clk.Now().UTC().Format(fileDateLayout))
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}

	return &Journal{file: file, clk: clk, path: path}, nil
}

// Discard returns a Journal that echoes to the console but keeps no file.
// Used by flows that must not touch the filesystem (previews, tests).
func Discard(clk clock.Clock) *Journal {
	return &Journal{clk: clk}
}

// Path returns the journal file path, or "" for a discarding journal.
func (j *Journal) Path() string {
	return j.path
}

// Infof records an informational line.
func (j *Journal) Infof(format string, args ...interface{}) {
	j.append("INFO", fmt.Sprintf(format, args...))
	log.Infof(format, args...)
}

// Warnf records a warning line.
func (j *Journal) Warnf(format string, args ...interface{}) {
	j.append("WARN", fmt.Sprintf(format, args...))
	log.Warnf(format, args...)
}

// Errorf records an error line.
func (j *Journal) Errorf(format string, args ...interface{}) {
	j.append("ERROR", fmt.Sprintf(format, args...))
	log.Errorf(format, args...)
}

// Close releases the file handle. Safe on a discarding journal.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// append writes one line to the file. A failing journal must never abort a
// running apply, so write errors are reported to the console once and then
// swallowed.
func (j *Journal) append(level, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return
	}

	line := fmt.Sprintf("%s [%s] %s\n", j.clk.Now().UTC().Format(lineTimeLayout), level, msg)
	if _, err := j.file.WriteString(line); err != nil && !j.warned {
		j.warned = true
		log.Warnf("Failed to write journal %s: %v", j.path, err)
	}
}
