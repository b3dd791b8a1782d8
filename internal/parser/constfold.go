package parser

import "github.com/bthompson/bcc/internal/ast"

// requireConstant folds expr, reporting a malformed-expression error at
// expr's own position if it is not a valid constant expression. Used for
// vector bounds and case values, both of which must be foldable.
func (p *Parser) requireConstant(expr ast.Expression) (int64, bool) {
	if expr == nil {
		return 0, false
	}
	failed := false
	v, ok := FoldConstant(expr, func(format string, args ...interface{}) {
		failed = true
		p.errorAt("ex", expr.Pos(), format, args...)
	})
	if !ok && !failed {
		p.errorAt("ex", expr.Pos(), "expected a constant expression")
	}
	return v, ok
}

// FoldConstant evaluates expr as a constant expression, for contexts that
// require one: vector bounds and case values. It supports numeric
// literals, unary `-`/`!`, the arithmetic/comparison/bitwise/short-circuit
// binary operators, and comma. Division or modulo by zero is reported
// through report and yields ok == false; any other non-constant
// subexpression (a variable, a call, a string) also yields ok == false
// without an error, since not every bound expression need be constant at
// this layer — callers decide whether that is itself an error.
func FoldConstant(expr ast.Expression, report func(format string, args ...interface{})) (int64, bool) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return e.Value, true

	case *ast.UnaryExpression:
		v, ok := FoldConstant(e.Operand, report)
		if !ok {
			return 0, false
		}
		switch e.Operator {
		case "-":
			return -v, true
		case "!":
			return boolWord(v == 0), true
		}
		return 0, false

	case *ast.BinaryExpression:
		left, ok := FoldConstant(e.Left, report)
		if !ok {
			return 0, false
		}
		right, ok := FoldConstant(e.Right, report)
		if !ok {
			return 0, false
		}
		return foldBinary(e.Operator, left, right, report)

	case *ast.CommaExpression:
		if _, ok := FoldConstant(e.Left, report); !ok {
			return 0, false
		}
		return FoldConstant(e.Right, report)

	default:
		return 0, false
	}
}

func foldBinary(op string, left, right int64, report func(format string, args ...interface{})) (int64, bool) {
	switch op {
	case "+":
		return left + right, true
	case "-":
		return left - right, true
	case "*":
		return left * right, true
	case "/":
		if right == 0 {
			report("division by zero in constant expression")
			return 0, false
		}
		return left / right, true
	case "%":
		if right == 0 {
			report("modulo by zero in constant expression")
			return 0, false
		}
		return left % right, true
	case "<<":
		return left << uint64(right), true
	case ">>":
		return left >> uint64(right), true
	case "&":
		return left & right, true
	case "|":
		return left | right, true
	case "==":
		return boolWord(left == right), true
	case "!=":
		return boolWord(left != right), true
	case "<":
		return boolWord(left < right), true
	case "<=":
		return boolWord(left <= right), true
	case ">":
		return boolWord(left > right), true
	case ">=":
		return boolWord(left >= right), true
	case "||":
		return boolWord(left != 0 || right != 0), true
	default:
		return 0, false
	}
}

func boolWord(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
