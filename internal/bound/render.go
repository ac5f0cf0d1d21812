package bound

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"casc/internal/object"
)

// RenderText produces an indented, human-centric dump of a bound node for
// debugging lowering and operator binding.
func RenderText(node Node) string {
	return renderText(node, 0)
}

func renderText(node Node, indent int) string {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return "nil"
	}

	sp := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *Program:
		var sb strings.Builder
		for i, v := range n.Globals {
			if i == 0 {
				sb.WriteString("globals:")
			}
			sb.WriteString(" " + v.String())
			if i == len(n.Globals)-1 {
				sb.WriteString("\n")
			}
		}
		for _, fn := range n.SortedFunctions() {
			switch fn {
			case n.Script:
				sb.WriteString("script ")
			case n.Main:
				sb.WriteString("main ")
			}
			sb.WriteString(fn.String() + " ")
			sb.WriteString(renderText(n.Functions[fn], 0))
			sb.WriteString("\n")
		}
		return strings.TrimSuffix(sb.String(), "\n")

	case *BlockStatement:
		var sb strings.Builder
		sb.WriteString("{\n")
		for _, s := range n.Statements {
			sb.WriteString(renderText(s, indent+1))
			sb.WriteString("\n")
		}
		sb.WriteString(sp + "}")
		return sb.String()

	case *VariableDeclaration:
		return fmt.Sprintf("%slet %s = %s", sp, n.Variable, renderText(n.Initializer, 0))

	case *ExpressionStatement:
		return sp + renderText(n.Expression, 0)

	case *GotoStatement:
		return fmt.Sprintf("%sgoto %s", sp, n.Label)

	case *ConditionalGotoStatement:
		keyword := "if"
		if !n.JumpIfTrue {
			keyword = "unless"
		}
		return fmt.Sprintf("%sgoto %s %s %s", sp, n.Label, keyword, renderText(n.Condition, 0))

	case *LabelStatement:
		// labels hang one level out
		outer := ""
		if indent > 0 {
			outer = strings.Repeat("  ", indent-1)
		}
		return fmt.Sprintf("%s%s:", outer, n.Label)

	case *ReturnStatement:
		if n.Expression == nil {
			return sp + "return"
		}
		return fmt.Sprintf("%sreturn %s", sp, renderText(n.Expression, 0))

	case *LiteralExpression:
		if s, ok := n.Value.(*object.String); ok {
			return strconv.Quote(s.Value)
		}
		return n.Value.Inspect()

	case *ArrayExpression:
		return "[" + renderList(n.Elements) + "]"

	case *VariableExpression:
		return n.Variable.Name

	case *AssignmentExpression:
		return fmt.Sprintf("(%s = %s)", n.Variable.Name, renderText(n.Expression, 0))

	case *UnaryExpression:
		return fmt.Sprintf("(%s%s)", n.Op.Spelling, renderText(n.Operand, 0))

	case *BinaryExpression:
		return fmt.Sprintf("(%s %s %s)", renderText(n.Left, 0), n.Op.Spelling, renderText(n.Right, 0))

	case *CallExpression:
		return fmt.Sprintf("%s(%s)", n.Function.Name, renderList(n.Arguments))

	case *ConversionExpression:
		return fmt.Sprintf("%s(%s)", n.To, renderText(n.Expression, 0))
	}

	return fmt.Sprintf("<unknown %T>", node)
}

func renderList(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = renderText(e, 0)
	}
	return strings.Join(parts, ", ")
}
