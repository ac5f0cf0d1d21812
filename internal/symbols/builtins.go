package symbols

// Builtin functions the binder recognizes without a user declaration. The
// evaluator intercepts calls to these identities before user dispatch.
var (
	Input  = NewFunction("input", nil, String)
	Print  = NewFunction("print", []*VariableSymbol{NewParameter("text", String)}, Void)
	Random = NewFunction("random", []*VariableSymbol{
		NewParameter("min", Number),
		NewParameter("max", Number),
	}, Number)
)

func Builtins() []*FunctionSymbol {
	return []*FunctionSymbol{Input, Print, Random}
}

func LookupBuiltin(name string) (*FunctionSymbol, bool) {
	for _, f := range Builtins() {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}
