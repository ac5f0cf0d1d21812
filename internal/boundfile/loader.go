// Package boundfile reads bound programs written as YAML documents and
// resolves them into bound.Program trees the evaluator can run. Names,
// operator spellings and types are checked here so the evaluator only sees
// structurally valid programs.
package boundfile

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"casc/internal/bound"
)

// ValidationError aggregates binding failures.
type ValidationError struct {
	Name   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Name)
	b.WriteString(": bound program validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads and binds the program at path. previous, when set, supplies
// the globals and functions of earlier programs in the same session.
func Load(path string, previous *bound.Program) (*bound.Program, error) {
	if path == "" {
		return nil, errors.New("boundfile: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "boundfile")
	}
	defer file.Close()
	return Parse(file, path, previous)
}

// Parse binds the program read from r. An empty document is an empty program.
func Parse(r io.Reader, name string, previous *bound.Program) (*bound.Program, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw programFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "boundfile: parse %s", name)
	}

	program, issues := bind(&raw, previous)
	if len(issues) > 0 {
		return nil, &ValidationError{Name: name, Issues: issues}
	}
	if err := program.Validate(); err != nil {
		return nil, errors.Wrapf(err, "boundfile: %s", name)
	}

	slog.Debug("loaded bound program",
		slog.String("name", name),
		slog.Int("functions", len(program.Functions)),
		slog.Int("globals", len(program.Globals)),
		slog.Bool("main", program.Main != nil))
	return program, nil
}
