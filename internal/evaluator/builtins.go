package evaluator

import (
	"io"
	"math/rand"
	"strings"
	"time"

	"casc/internal/bound"
	"casc/internal/object"
	"casc/internal/symbols"
)

// evalCallExpression intercepts the builtins before dispatching to a user
// function. Arguments are evaluated left to right in the caller's frame.
func (e *Evaluator) evalCallExpression(node *bound.CallExpression) object.Object {
	switch node.Function {
	case symbols.Input:
		return e.builtinInput()
	case symbols.Print:
		e.checkArity(node, 1)
		return e.builtinPrint(e.Eval(node.Arguments[0]))
	case symbols.Random:
		e.checkArity(node, 2)
		min := e.Eval(node.Arguments[0])
		max := e.Eval(node.Arguments[1])
		return e.builtinRandom(min, max)
	}

	body, ok := e.functions[node.Function]
	if !ok {
		panic(internalErrorf("function %s has no body", node.Function.Name))
	}
	e.checkArity(node, len(node.Function.Parameters))

	args := make([]object.Object, len(node.Arguments))
	for i, arg := range node.Arguments {
		args[i] = e.Eval(arg)
	}

	frame := object.NewFrame(node.Function)
	for i, param := range node.Function.Parameters {
		frame.Set(param, args[i])
	}

	e.PushFrame(frame)
	defer e.PopFrame()
	return e.evalBody(body)
}

func (e *Evaluator) checkArity(node *bound.CallExpression, want int) {
	if len(node.Arguments) != want {
		panic(internalErrorf("%s expects %d arguments, got %d", node.Function.Name, want, len(node.Arguments)))
	}
}

// builtinInput reads one line without its line break; Nil at end of input.
func (e *Evaluator) builtinInput() object.Object {
	line, err := e.in.ReadString('\n')
	if err != nil && err != io.EOF {
		panic(e.runtimeErrorf("input: %v", err))
	}
	if err == io.EOF && line == "" {
		return object.NIL
	}
	return object.NewString(strings.TrimRight(line, "\r\n"))
}

func (e *Evaluator) builtinPrint(arg object.Object) object.Object {
	if _, err := io.WriteString(e.out, object.Text(arg)+"\n"); err != nil {
		panic(e.runtimeErrorf("print: %v", err))
	}
	return object.NIL
}

// builtinRandom draws an integer in [min, max) from one generator created
// on first use. An empty range yields min.
func (e *Evaluator) builtinRandom(minObj, maxObj object.Object) object.Object {
	min := e.asNumber(minObj).Trunc()
	max := e.asNumber(maxObj).Trunc()
	if max <= min {
		return object.NewNumberInt(min)
	}
	span := max - min
	if span <= 0 {
		panic(e.runtimeErrorf("random: range [%d, %d) is too wide", min, max))
	}
	return object.NewNumberInt(min + e.rng().Int63n(span))
}

func (e *Evaluator) rng() *rand.Rand {
	if e.random == nil {
		seed := e.seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.random = rand.New(rand.NewSource(seed))
	}
	return e.random
}
