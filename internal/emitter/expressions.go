package emitter

import (
	"fmt"
	"strings"

	"github.com/bthompson/bcc/internal/ast"
)

// genExpr renders expr as a parenthesised C expression. Every arithmetic
// and bitwise operator goes through its masking macro so the result is
// never undefined C behaviour for any input word value.
func (e *Emitter) genExpr(expr ast.Expression) string {
	switch ex := expr.(type) {
	case *ast.NumberLiteral:
		return fmt.Sprintf("((word)%dLL)", ex.Value)

	case *ast.StringLiteral:
		id := e.strings.Intern(ex.Value)
		return fmt.Sprintf("B_PTR(%s)", Name(id))

	case *ast.Identifier:
		return e.mangler.Mangle(ex.Name)

	case *ast.CallExpression:
		return e.genCallExpression(ex)

	case *ast.IndexExpression:
		return fmt.Sprintf("B_INDEX(%s, %s)", e.genExpr(ex.Base), e.genExpr(ex.Index))

	case *ast.UnaryExpression:
		return e.genUnaryExpression(ex)

	case *ast.PostfixExpression:
		addr := e.cLvalueAddr(ex.Operand)
		if ex.Operator == "++" {
			return fmt.Sprintf("b_postinc(%s)", addr)
		}
		return fmt.Sprintf("b_postdec(%s)", addr)

	case *ast.BinaryExpression:
		return e.genBinaryExpression(ex)

	case *ast.AssignExpression:
		return e.genAssignExpression(ex)

	case *ast.TernaryExpression:
		return fmt.Sprintf("((%s) ? (%s) : (%s))", e.genExpr(ex.Condition), e.genExpr(ex.Then), e.genExpr(ex.Else))

	case *ast.CommaExpression:
		return fmt.Sprintf("(%s, %s)", e.genExpr(ex.Left), e.genExpr(ex.Right))
	}
	return "0"
}

func (e *Emitter) genUnaryExpression(ex *ast.UnaryExpression) string {
	switch ex.Operator {
	case "-":
		return fmt.Sprintf("WNEG(%s)", e.genExpr(ex.Operand))
	case "!":
		return fmt.Sprintf("WVAL(!(%s))", e.genExpr(ex.Operand))
	case "*":
		return fmt.Sprintf("B_DEREF(%s)", e.genExpr(ex.Operand))
	case "&":
		return e.genAddressOf(ex.Operand)
	case "++":
		return fmt.Sprintf("b_preinc(%s)", e.cLvalueAddr(ex.Operand))
	case "--":
		return fmt.Sprintf("b_predec(%s)", e.cLvalueAddr(ex.Operand))
	}
	return e.genExpr(ex.Operand)
}

// genAddressOf renders `&E`. `&*p` cancels to p itself; everything else,
// including `&v[i]`, goes through the generic B_ADDR(B_INDEX(...)) path
// so the result is a word value in the active pointer model — B_ADDR
// applies the same scale B_INDEX already used to reach the element,
// which is what keeps `*&L == L` for both pointer models.
func (e *Emitter) genAddressOf(operand ast.Expression) string {
	if op, ok := operand.(*ast.UnaryExpression); ok && op.Operator == "*" {
		return e.genExpr(op.Operand)
	}
	return fmt.Sprintf("B_ADDR(%s)", e.genExpr(operand))
}

// cLvalueAddr returns a C `word *` pointing at operand's storage cell,
// for the runtime helpers (b_preinc, the compound-assign family, ...)
// that take the address of an lvalue to avoid evaluating it twice.
func (e *Emitter) cLvalueAddr(operand ast.Expression) string {
	switch op := operand.(type) {
	case *ast.Identifier:
		return "&" + e.mangler.Mangle(op.Name)
	case *ast.IndexExpression:
		return fmt.Sprintf("&B_INDEX(%s, %s)", e.genExpr(op.Base), e.genExpr(op.Index))
	case *ast.UnaryExpression:
		if op.Operator == "*" {
			return fmt.Sprintf("(word *)B_CPTR(%s)", e.genExpr(op.Operand))
		}
	}
	return fmt.Sprintf("&(%s)", e.genExpr(operand))
}

func (e *Emitter) genBinaryExpression(ex *ast.BinaryExpression) string {
	left := e.genExpr(ex.Left)
	right := e.genExpr(ex.Right)
	if macro, ok := binaryMacros[ex.Operator]; ok {
		return fmt.Sprintf("%s(%s, %s)", macro, left, right)
	}
	// Comparisons and `||` already yield 0/1, which fits in every word
	// width without masking.
	return fmt.Sprintf("((word)((%s) %s (%s)))", left, ex.Operator, right)
}

func (e *Emitter) genAssignExpression(ex *ast.AssignExpression) string {
	addr := e.cLvalueAddr(ex.Target)
	rhs := e.genExpr(ex.Value)
	if ex.Operator == "=" {
		return fmt.Sprintf("(*(%s) = (%s))", addr, rhs)
	}
	if ex.RelOp != "" {
		return fmt.Sprintf("(*(%s) = WVAL((*(%s)) %s (%s)))", addr, addr, ex.RelOp, rhs)
	}
	if helper, ok := compoundAssignHelpers[ex.Operator]; ok {
		return fmt.Sprintf("%s(%s, %s)", helper, addr, rhs)
	}
	return fmt.Sprintf("(*(%s) = (%s))", addr, rhs)
}

// genCallExpression resolves the callee: a bare identifier matching a
// historic B library name or the runtime contract goes straight to its
// runtime symbol; a host interop function (malloc, memcpy, strlen,
// printf) gets its arguments wrapped for C pointer/string semantics; any
// other callee expression is a dynamic call through the value it
// evaluates to, cast to a C function pointer and called directly.
func (e *Emitter) genCallExpression(ex *ast.CallExpression) string {
	if ident, ok := ex.Callee.(*ast.Identifier); ok {
		if interopNames[ident.Name] {
			return e.genInteropCall(ident.Name, ex.Args)
		}
		return fmt.Sprintf("%s(%s)", e.calleeName(ident.Name), e.genArgs(ex.Args))
	}
	return fmt.Sprintf("((word(*)())(%s))(%s)", e.genExpr(ex.Callee), e.genArgs(ex.Args))
}

func (e *Emitter) genArgs(args []ast.Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = e.genExpr(a)
	}
	return strings.Join(parts, ", ")
}

// genInteropCall wraps a call to a host C library function recognised in
// interopNames: B has no native pointer type, so a bare word argument is
// never directly usable where C expects a real pointer. B_CPTR converts
// a pointer's address space; __b_cstr additionally unpacks the packed,
// EOT-terminated B string it points at into a NUL-terminated C string.
func (e *Emitter) genInteropCall(name string, args []ast.Expression) string {
	switch name {
	case "malloc":
		return fmt.Sprintf("B_PTR(malloc((size_t)(%s)))", e.genArgs(args))
	case "memcpy":
		if len(args) != 3 {
			return fmt.Sprintf("memcpy(%s)", e.genArgs(args))
		}
		return fmt.Sprintf("B_PTR(memcpy(B_CPTR(%s), B_CPTR(%s), (size_t)(%s)))",
			e.genExpr(args[0]), e.genExpr(args[1]), e.genExpr(args[2]))
	case "strlen":
		if len(args) != 1 {
			return fmt.Sprintf("strlen(%s)", e.genArgs(args))
		}
		return fmt.Sprintf("((word)strlen(__b_cstr(%s)))", e.genExpr(args[0]))
	case "printf":
		return e.genPrintfCall(args)
	}
	return fmt.Sprintf("%s(%s)", name, e.genArgs(args))
}

// genPrintfCall wraps printf's format argument: a literal format string
// is emitted as a genuine C string literal, the only form the host
// compiler's own format-string checking can see through; anything else
// is a B string pointer and gets unpacked through __b_cstr. Remaining
// arguments pass through unconverted, matching B's convention of one
// word-sized argument per %d/%o/%c conversion.
func (e *Emitter) genPrintfCall(args []ast.Expression) string {
	if len(args) == 0 {
		return "printf()"
	}
	parts := make([]string, len(args))
	if lit, ok := args[0].(*ast.StringLiteral); ok {
		parts[0] = fmt.Sprintf("%q", lit.Value)
	} else {
		parts[0] = fmt.Sprintf("__b_cstr(%s)", e.genExpr(args[0]))
	}
	for i, a := range args[1:] {
		parts[i+1] = e.genExpr(a)
	}
	return fmt.Sprintf("printf(%s)", strings.Join(parts, ", "))
}

// calleeName resolves a bare-identifier callee to the C symbol it maps
// to: a runtime builtin alias or the ordinary mangled user name. Interop
// names are intercepted in genCallExpression before this is reached.
func (e *Emitter) calleeName(name string) string {
	if alias, ok := builtinAliases[name]; ok {
		return alias
	}
	return e.mangler.Mangle(name)
}
