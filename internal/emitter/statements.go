package emitter

import (
	"fmt"
	"strings"

	"github.com/bthompson/bcc/internal/ast"
	"github.com/bthompson/bcc/internal/parser"
)

// genStatement renders one statement. Switch lowering is delegated to
// switch_lower.go, which has its own recursive body-emission mode.
func (e *Emitter) genStatement(stmt ast.Statement) string {
	switch s := stmt.(type) {
	case nil, *ast.EmptyStatement:
		return ";\n"

	case *ast.BlockStatement:
		var out strings.Builder
		out.WriteString("{\n")
		for _, sub := range s.Statements {
			out.WriteString(e.genStatement(sub))
		}
		out.WriteString("}\n")
		return out.String()

	case *ast.AutoStatement:
		var out strings.Builder
		for _, d := range s.Declarators {
			out.WriteString(e.genAutoDeclarator(d))
		}
		return out.String()

	case *ast.ExternStatement:
		var out strings.Builder
		for _, name := range s.Names {
			fmt.Fprintf(&out, "extern word %s;\n", e.mangler.Mangle(name))
		}
		return out.String()

	case *ast.IfStatement:
		var out strings.Builder
		fmt.Fprintf(&out, "if (%s) %s", e.genExpr(s.Condition), e.genStatement(s.Then))
		if s.Else != nil {
			fmt.Fprintf(&out, "else %s", e.genStatement(s.Else))
		}
		return out.String()

	case *ast.WhileStatement:
		return fmt.Sprintf("while (%s) %s", e.genExpr(s.Condition), e.genStatement(s.Body))

	case *ast.ReturnStatement:
		if s.Value != nil {
			return fmt.Sprintf("return (%s);\n", e.genExpr(s.Value))
		}
		return "return 0;\n"

	case *ast.ExpressionStatement:
		return fmt.Sprintf("(void)(%s);\n", e.genExpr(s.Expression))

	case *ast.GotoStatement:
		return fmt.Sprintf("goto %s;\n", e.mangler.Mangle(s.Target))

	case *ast.LabelStatement:
		return fmt.Sprintf("%s:;\n%s", e.mangler.Mangle(s.Name), e.genStatement(s.Stmt))

	case *ast.SwitchStatement:
		return e.genSwitchStatement(s)

	case *ast.CaseStatement:
		// Only reachable here if a case label survived outside any
		// switch, which the parser already rejects; emit only the
		// statement it labels so a malformed tree still emits.
		return e.genStatement(s.Stmt)
	}
	return ""
}

// genAutoDeclarator emits a function-local `auto` declarator: a plain
// word for a scalar, or a backing array plus a word holding its B
// pointer value for a vector.
func (e *Emitter) genAutoDeclarator(d ast.Declarator) string {
	name := e.mangler.Mangle(d.Name)
	if d.Size == nil {
		return fmt.Sprintf("word %s;\n", name)
	}
	storage := e.mangler.Synthetic(name + "_storage")
	n, _ := parser.FoldConstant(d.Size, func(string, ...interface{}) {})
	var out strings.Builder
	fmt.Fprintf(&out, "word %s[%d];\n", storage, n+1)
	fmt.Fprintf(&out, "word %s = B_PTR(%s);\n", name, storage)
	return out.String()
}
