package boundfile

// The on-disk shape of a bound program. Each expression and statement is a
// mapping with exactly one key naming its kind.

type programFile struct {
	Globals   []rawVariable  `yaml:"globals"`
	Functions []rawFunction  `yaml:"functions"`
	Script    []rawStatement `yaml:"script"`
	Main      string         `yaml:"main"`
}

type rawVariable struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type rawFunction struct {
	Name    string         `yaml:"name"`
	Params  []rawVariable  `yaml:"params"`
	Returns string         `yaml:"returns"`
	Body    []rawStatement `yaml:"body"`
}

type rawStatement struct {
	Declare *rawDeclare `yaml:"declare"`
	Expr    *rawExpr    `yaml:"expr"`
	Goto    string      `yaml:"goto"`
	GotoIf  *rawGotoIf  `yaml:"gotoIf"`
	Label   string      `yaml:"label"`
	// An empty mapping is a bare return.
	Return *rawExpr `yaml:"return"`
}

type rawDeclare struct {
	Name string  `yaml:"name"`
	Type string  `yaml:"type"`
	Init rawExpr `yaml:"init"`
}

type rawGotoIf struct {
	Label      string  `yaml:"label"`
	Cond       rawExpr `yaml:"cond"`
	JumpIfTrue bool    `yaml:"jumpIfTrue"`
}

type rawExpr struct {
	Number  *string     `yaml:"number"`
	String  *string     `yaml:"string"`
	Bool    *bool       `yaml:"bool"`
	Nil     *bool       `yaml:"nil"`
	Array   *[]rawExpr  `yaml:"array"`
	Var     string      `yaml:"var"`
	Assign  *rawAssign  `yaml:"assign"`
	Unary   *rawUnary   `yaml:"unary"`
	Binary  *rawBinary  `yaml:"binary"`
	Call    *rawCall    `yaml:"call"`
	Convert *rawConvert `yaml:"convert"`
}

type rawAssign struct {
	Name  string  `yaml:"name"`
	Value rawExpr `yaml:"value"`
}

type rawUnary struct {
	Op      string  `yaml:"op"`
	Operand rawExpr `yaml:"operand"`
}

type rawBinary struct {
	Op    string  `yaml:"op"`
	Left  rawExpr `yaml:"left"`
	Right rawExpr `yaml:"right"`
}

type rawCall struct {
	Name string    `yaml:"name"`
	Args []rawExpr `yaml:"args"`
}

type rawConvert struct {
	Type  string  `yaml:"type"`
	Value rawExpr `yaml:"value"`
}

func countSet(flags ...bool) int {
	n := 0
	for _, set := range flags {
		if set {
			n++
		}
	}
	return n
}

func (e *rawExpr) keys() int {
	return countSet(
		e.Number != nil, e.String != nil, e.Bool != nil, e.Nil != nil, e.Array != nil,
		e.Var != "", e.Assign != nil, e.Unary != nil, e.Binary != nil, e.Call != nil,
		e.Convert != nil,
	)
}

func (s *rawStatement) keys() int {
	return countSet(
		s.Declare != nil, s.Expr != nil, s.Goto != "", s.GotoIf != nil, s.Label != "", s.Return != nil,
	)
}
