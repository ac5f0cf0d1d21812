package evaluator

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"

	"casc/internal/bound"
	"casc/internal/object"
	"casc/internal/symbols"
)

type Option func(*Evaluator)

// WithInput sets where input() reads lines from. Defaults to stdin.
func WithInput(r io.Reader) Option {
	return func(e *Evaluator) { e.in = bufio.NewReader(r) }
}

// WithOutput sets where print() writes. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Evaluator) { e.out = w }
}

// WithRand supplies the generator random() draws from.
func WithRand(r *rand.Rand) Option {
	return func(e *Evaluator) { e.random = r }
}

// WithSeed seeds the generator random() creates on first use.
func WithSeed(seed int64) Option {
	return func(e *Evaluator) { e.seed = seed }
}

// Evaluator runs a bound program against a session's global store. It is
// single-threaded: one goroutine must own an Evaluator and its Globals.
type Evaluator struct {
	program   *bound.Program
	globals   *object.Globals
	functions map[*symbols.FunctionSymbol]*bound.BlockStatement
	labels    map[*bound.BlockStatement]map[*bound.Label]int
	frames    []*object.Frame

	random *rand.Rand
	seed   int64

	in  *bufio.Reader
	out io.Writer
}

func New(program *bound.Program, globals *object.Globals, opts ...Option) *Evaluator {
	if globals == nil {
		globals = object.NewGlobals()
	}
	e := &Evaluator{
		program:   program,
		globals:   globals,
		functions: flattenFunctions(program),
		labels:    make(map[*bound.BlockStatement]map[*bound.Label]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.in == nil {
		e.in = bufio.NewReader(os.Stdin)
	}
	if e.out == nil {
		e.out = os.Stdout
	}
	return e
}

// flattenFunctions merges the bodies of the program chain into one table.
// The closest program wins when a function appears more than once.
func flattenFunctions(program *bound.Program) map[*symbols.FunctionSymbol]*bound.BlockStatement {
	functions := make(map[*symbols.FunctionSymbol]*bound.BlockStatement)
	for p := program; p != nil; p = p.Previous {
		for fn, body := range p.Functions {
			if _, ok := functions[fn]; !ok {
				functions[fn] = body
			}
		}
	}
	return functions
}

func (e *Evaluator) Globals() *object.Globals { return e.globals }

// Depth is the number of active call frames.
func (e *Evaluator) Depth() int { return len(e.frames) }

func (e *Evaluator) PushFrame(frame *object.Frame) {
	e.frames = append(e.frames, frame)
}

func (e *Evaluator) CurrentFrame() *object.Frame {
	if len(e.frames) == 0 {
		panic(internalErrorf("call frame stack is empty"))
	}
	return e.frames[len(e.frames)-1]
}

func (e *Evaluator) PopFrame() {
	if len(e.frames) == 0 {
		panic(internalErrorf("attempted to pop from an empty call frame stack"))
	}
	e.frames[len(e.frames)-1] = nil
	e.frames = e.frames[:len(e.frames)-1]
}

// Evaluate runs main if the program has one, otherwise its script. A program
// with neither yields Nil. Faults abort the whole evaluation and come back as
// *InternalError or *RuntimeError with every frame already released.
func (e *Evaluator) Evaluate() (result object.Object, err error) {
	entry := e.program.Main
	if entry == nil {
		entry = e.program.Script
	}
	if entry == nil {
		return object.NIL, nil
	}

	defer func() {
		if r := recover(); r != nil {
			switch r := r.(type) {
			case *InternalError:
				err = r
			case *RuntimeError:
				err = r
			default:
				panic(r)
			}
			result = nil
			slog.Debug("evaluation aborted", slog.String("entry", entry.Name), slog.Any("error", err))
		}
	}()

	body, ok := e.functions[entry]
	if !ok {
		return nil, internalErrorf("entry function %s has no body", entry.Name)
	}

	slog.Debug("evaluating", slog.String("entry", entry.Name), slog.Int("functions", len(e.functions)))
	e.PushFrame(object.NewFrame(entry))
	defer e.PopFrame()

	return e.evalBody(body), nil
}

// evalBody runs one flattened body with an instruction pointer. Falling off
// the end yields the last value a declaration or expression statement
// produced.
func (e *Evaluator) evalBody(body *bound.BlockStatement) object.Object {
	labels := e.labelsFor(body)
	var last object.Object = object.NIL

	for ip := 0; ip < len(body.Statements); {
		switch s := body.Statements[ip].(type) {
		case *bound.VariableDeclaration:
			val := e.Eval(s.Initializer)
			e.store(s.Variable, val)
			last = val
			ip++

		case *bound.ExpressionStatement:
			last = e.Eval(s.Expression)
			ip++

		case *bound.GotoStatement:
			ip = e.jump(labels, s.Label)

		case *bound.ConditionalGotoStatement:
			if e.evalBool(s.Condition) == s.JumpIfTrue {
				ip = e.jump(labels, s.Label)
			} else {
				ip++
			}

		case *bound.LabelStatement:
			ip++

		case *bound.ReturnStatement:
			if s.Expression == nil {
				return object.NIL
			}
			return e.Eval(s.Expression)

		default:
			panic(internalErrorf("unexpected statement %T", s))
		}
	}

	return last
}

// labelsFor maps each label of body to the index of the statement after it.
// The map is built once per body.
func (e *Evaluator) labelsFor(body *bound.BlockStatement) map[*bound.Label]int {
	if m, ok := e.labels[body]; ok {
		return m
	}
	m := make(map[*bound.Label]int)
	for i, s := range body.Statements {
		if ls, ok := s.(*bound.LabelStatement); ok {
			m[ls.Label] = i + 1
		}
	}
	e.labels[body] = m
	return m
}

func (e *Evaluator) jump(labels map[*bound.Label]int, label *bound.Label) int {
	ip, ok := labels[label]
	if !ok {
		panic(internalErrorf("unresolved label %s", label))
	}
	return ip
}

func (e *Evaluator) store(v *symbols.VariableSymbol, val object.Object) {
	if v.IsGlobal() {
		e.globals.Set(v, val)
		return
	}
	e.CurrentFrame().Set(v, val)
}

func (e *Evaluator) load(v *symbols.VariableSymbol) object.Object {
	var (
		val object.Object
		ok  bool
	)
	if v.IsGlobal() {
		val, ok = e.globals.Get(v)
	} else {
		val, ok = e.CurrentFrame().Get(v)
	}
	if !ok {
		panic(internalErrorf("variable %s has no value", v.Name))
	}
	return val
}

func (e *Evaluator) runtimeErrorf(format string, a ...interface{}) *RuntimeError {
	err := &RuntimeError{Message: fmt.Sprintf(format, a...)}
	if len(e.frames) > 0 && e.CurrentFrame().Function != nil {
		err.Function = e.CurrentFrame().Function.Name
	}
	return err
}
