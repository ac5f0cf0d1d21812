// Package log installs the process-wide slog logger. Output goes to stderr
// or to a log file that is reopened on SIGHUP so it can be rotated.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// LevelNone is above every level slog emits.
const LevelNone = slog.Level(12)

type Options struct {
	Level string
	File  string
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "", "none":
		return LevelNone, nil
	}
	return LevelNone, fmt.Errorf("unknown log level %q (want debug, info, warn, error or none)", s)
}

// reopenFile is a log file that can be swapped for a fresh handle after
// the file was moved away.
type reopenFile struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func (r *reopenFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.f.Write(p)
}

func (r *reopenFile) reopen() error {
	f, err := openLogFile(r.path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	old := r.f
	r.f = f
	r.mu.Unlock()
	return old.Close()
}

func (r *reopenFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.f.Close()
}

// Init installs a JSON slog handler as the default logger. The returned
// function closes the log file and stops listening for SIGHUP.
func Init(opts Options) (func(), error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stderr
	closer := func() {}
	if opts.File != "" {
		f, err := openLogFile(opts.File)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", opts.File, err)
		}
		rf := &reopenFile{path: opts.File, f: f}
		out = rf
		stop := watchHangup(rf)
		closer = func() {
			stop()
			_ = rf.Close()
		}
	}

	slog.SetDefault(New(out, level))
	return closer, nil
}

func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// watchHangup reopens the log file on SIGHUP:
//
//	mv casc.log casc.log.1 && kill -HUP <pid>
func watchHangup(rf *reopenFile) func() {
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-sigs:
				if err := rf.reopen(); err != nil {
					fmt.Fprintf(os.Stderr, "could not reopen log file: %v\n", err)
				}
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
