// Package runtime owns one evaluation session: the chain of loaded
// programs, the global store they share and the session's input, output
// and random source.
package runtime

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"casc/internal/bound"
	"casc/internal/boundfile"
	"casc/internal/evaluator"
	"casc/internal/history"
	"casc/internal/object"
	"casc/internal/util"
)

// Recorder stores finished evaluations.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
}

type Runtime struct {
	Config  util.Configuration
	History Recorder

	program *bound.Program
	globals *object.Globals
	random  *rand.Rand
	in      *bufio.Reader
	out     io.Writer
}

func NewRuntime(config util.Configuration, in io.Reader, out io.Writer) *Runtime {
	seed := config.Eval.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Runtime{
		Config:  config,
		globals: object.NewGlobals(),
		random:  rand.New(rand.NewSource(seed)),
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Program is the most recently evaluated program, or nil.
func (r *Runtime) Program() *bound.Program { return r.program }

func (r *Runtime) Globals() *object.Globals { return r.globals }

// RunFile loads the bound program at path on top of the session's chain and
// evaluates it. The program joins the chain only when it evaluates cleanly,
// so later programs never see globals that were declared but not stored.
func (r *Runtime) RunFile(ctx context.Context, path string) (object.Object, error) {
	entry := history.Entry{Source: path}
	defer func() { r.record(ctx, entry) }()

	program, err := boundfile.Load(path, r.program)
	if err != nil {
		entry.Error = err.Error()
		return nil, err
	}

	if r.Config.DebugBound {
		dumpPath := path + ".bound.txt"
		if err := os.WriteFile(dumpPath, []byte(bound.RenderText(program)), 0o644); err != nil {
			slog.Error("failed to write bound program", slog.String("path", dumpPath), slog.Any("error", err))
		}
	}

	var captured bytes.Buffer
	ev := evaluator.New(program, r.globals,
		evaluator.WithInput(r.in),
		evaluator.WithOutput(io.MultiWriter(r.out, &captured)),
		evaluator.WithRand(r.random))

	slog.Debug("running program", slog.String("path", path))
	result, err := ev.Evaluate()
	entry.Output = captured.String()
	if err != nil {
		entry.Error = err.Error()
		return nil, err
	}

	r.program = program
	entry.Result = object.Text(result)
	return result, nil
}

func (r *Runtime) record(ctx context.Context, e history.Entry) {
	if r.History == nil {
		return
	}
	if _, err := r.History.Record(ctx, e); err != nil {
		slog.Warn("failed to record evaluation", slog.String("source", e.Source), slog.Any("error", err))
	}
}
