package logging

import (
	"bytes"
	"io"
	"log"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process logger
type Options struct {
	File       string // rotated log file; empty disables file output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Console receives a copy of every line when set, e.g. os.Stderr for
	// the headless commands.
	Console io.Writer

	// UILines receives every complete line for the terminal UI's log panel.
	// Sends never block; lines are dropped when the panel falls behind.
	UILines chan<- string
}

// New builds a *log.Logger from opts. The returned closer flushes and
// closes the rotated file.
func New(opts Options) (*log.Logger, io.Closer) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		writers = append(writers, rotated)
		closer = rotated
	}
	if opts.Console != nil {
		writers = append(writers, opts.Console)
	}
	if opts.UILines != nil {
		writers = append(writers, &lineTap{out: opts.UILines})
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	return log.New(io.MultiWriter(writers...), "", log.LstdFlags|log.Lmsgprefix), closer
}

// lineTap splits the log stream into lines and forwards them to a channel
type lineTap struct {
	mu      sync.Mutex
	out     chan<- string
	partial []byte
}

func (t *lineTap) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.partial = append(t.partial, p...)
	for {
		i := bytes.IndexByte(t.partial, '\n')
		if i < 0 {
			break
		}
		line := string(t.partial[:i])
		t.partial = t.partial[i+1:]

		select {
		case t.out <- line:
		default:
		}
	}
	return len(p), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
