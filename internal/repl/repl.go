// Package repl is the interactive console: each line is tokenized and shown
// with its diagnostics, and bound program files can be evaluated into the
// running session.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"casc/internal/diag"
	"casc/internal/lexer"
	"casc/internal/object"
	"casc/internal/runtime"
	"casc/internal/text"
)

const (
	PROMPT = ">> "

	help = `:load FILE   evaluate a bound program file in this session
:globals     list the session's global variables
:help        show this help
:quit        leave the console
anything else is tokenized`
)

type Session struct {
	runtime  *runtime.Runtime
	out      io.Writer
	mode     diag.ColorMode
	renderer *diag.Renderer
	errColor *color.Color
	lines    int
}

func NewSession(rt *runtime.Runtime, out io.Writer, mode diag.ColorMode) *Session {
	errColor := color.New(color.FgRed)
	if diag.UseColor(out, mode) {
		errColor.EnableColor()
	} else {
		errColor.DisableColor()
	}
	return &Session{
		runtime:  rt,
		out:      out,
		mode:     mode,
		renderer: diag.NewRenderer(out, mode),
		errColor: errColor,
	}
}

// Handle processes one input line and reports whether the session should end.
func (s *Session) Handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}

	if strings.HasPrefix(trimmed, ":") {
		command, arg, _ := strings.Cut(trimmed, " ")
		arg = strings.TrimSpace(arg)
		switch command {
		case ":quit", ":q":
			return true
		case ":help":
			fmt.Fprintln(s.out, help)
		case ":globals":
			s.printGlobals()
		case ":load":
			if arg == "" {
				s.errColor.Fprintln(s.out, "usage: :load FILE")
				break
			}
			s.load(ctx, arg)
		default:
			s.errColor.Fprintf(s.out, "unknown command %s. Type :help for help.\n", command)
		}
		return false
	}

	s.lines++
	src := text.NewFile(fmt.Sprintf("<line %d>", s.lines), line)
	l := lexer.New(src)
	WriteTokens(s.out, WithoutTrivia(l.All()), false, diag.UseColor(s.out, s.mode))
	if !l.Diagnostics().Empty() {
		s.renderer.Render(src, l.Diagnostics())
	}
	return false
}

func (s *Session) load(ctx context.Context, path string) {
	result, err := s.runtime.RunFile(ctx, path)
	if err != nil {
		s.errColor.Fprintln(s.out, err.Error())
		return
	}
	fmt.Fprintf(s.out, "= %s\n", result.Inspect())
}

func (s *Session) printGlobals() {
	globals := s.runtime.Globals()
	for _, v := range globals.Variables() {
		val, _ := globals.Get(v)
		fmt.Fprintf(s.out, "%s = %s\n", v, inspect(val))
	}
}

func inspect(o object.Object) string {
	if o == nil {
		return "nil"
	}
	return o.Inspect()
}

// Start runs the console on the terminal until :quit or end of input. Line
// history is kept in historyPath when it is set.
func Start(ctx context.Context, s *Session, historyPath string) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		line, err := ln.Prompt(PROMPT)
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.out)
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case err != nil:
			return err
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if s.Handle(ctx, line) {
			return nil
		}
	}
}
