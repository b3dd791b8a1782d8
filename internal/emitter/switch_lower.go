package emitter

import (
	"fmt"
	"strings"

	"github.com/bthompson/bcc/internal/ast"
)

// switchCase is one collected case/default label, in source order, with
// its synthetic dispatch label already assigned.
type switchCase struct {
	label string
	stmt  *ast.CaseStatement
}

// collectCases walks stmt's body collecting every case/default it finds
// without descending into a nested switch's own body, matching the rule
// that a switch only dispatches its own directly-reachable labels.
func collectCases(stmt ast.Statement, id int, into *[]switchCase) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		for _, sub := range s.Statements {
			collectCases(sub, id, into)
		}
	case *ast.IfStatement:
		collectCases(s.Then, id, into)
		if s.Else != nil {
			collectCases(s.Else, id, into)
		}
	case *ast.WhileStatement:
		collectCases(s.Body, id, into)
	case *ast.LabelStatement:
		collectCases(s.Stmt, id, into)
	case *ast.CaseStatement:
		label := fmt.Sprintf("__bsw%d_case%d", id, len(*into))
		*into = append(*into, switchCase{label: label, stmt: s})
		collectCases(s.Stmt, id, into)
	case *ast.SwitchStatement:
		// A nested switch owns its own cases; do not descend.
	}
}

// genSwitchStatement lowers a switch into the for(;;)/goto dispatch
// shape described for B: the body is emitted once, in place, with each
// case's synthetic label substituted immediately before the statement
// it labels. A leading goto skips the body to a dispatch block emitted
// after it, which tests the discriminant against every collected case
// in source order and jumps to the matching label (or to the default,
// or to end when nothing matches).
func (e *Emitter) genSwitchStatement(s *ast.SwitchStatement) string {
	id := e.nextSwitchID()
	var cases []switchCase
	collectCases(s.Body, id, &cases)

	var out strings.Builder
	fmt.Fprintf(&out, "for (;;) {\n")
	fmt.Fprintf(&out, "word __sw%d = %s;\n", id, e.genExpr(s.Value))
	fmt.Fprintf(&out, "goto __bsw%d_dispatch;\n", id)
	out.WriteString(e.genSwitchBody(s.Body, id, cases))
	fmt.Fprintf(&out, "goto __bsw%d_end;\n", id)
	fmt.Fprintf(&out, "__bsw%d_dispatch:;\n", id)
	for _, c := range cases {
		out.WriteString(e.genCaseTest(id, c))
	}
	if defaultLabel, ok := findDefault(cases); ok {
		fmt.Fprintf(&out, "goto %s;\n", defaultLabel)
	}
	fmt.Fprintf(&out, "goto __bsw%d_end;\n", id)
	fmt.Fprintf(&out, "__bsw%d_end:;\n", id)
	out.WriteString("break;\n}\n")
	return out.String()
}

func findDefault(cases []switchCase) (string, bool) {
	for _, c := range cases {
		if c.stmt.IsDefault {
			return c.label, true
		}
	}
	return "", false
}

// genCaseTest emits one dispatch-table comparison for a collected case.
// An exact-match case tests equality; a relational case tests the named
// comparison; a range case tests `lo <= __sw && __sw <= hi`.
func (e *Emitter) genCaseTest(id int, c switchCase) string {
	if c.stmt.IsDefault {
		return ""
	}
	disc := fmt.Sprintf("__sw%d", id)
	lower := e.genExpr(c.stmt.Lower)
	var cond string
	switch {
	case c.stmt.IsRange:
		upper := e.genExpr(c.stmt.Upper)
		cond = fmt.Sprintf("((%s) <= (%s) && (%s) <= (%s))", lower, disc, disc, upper)
	case c.stmt.RelOp != "":
		cond = fmt.Sprintf("((%s) %s (%s))", disc, c.stmt.RelOp, lower)
	default:
		cond = fmt.Sprintf("((%s) == (%s))", disc, lower)
	}
	return fmt.Sprintf("if (%s) goto %s;\n", cond, c.label)
}

// genSwitchBody emits the switch body in place, substituting each
// case/default's synthetic label immediately before the statement it
// labels, so the normal fall-through of C's own statement sequencing
// carries control from one case to the next exactly as it appeared in
// source order.
func (e *Emitter) genSwitchBody(stmt ast.Statement, id int, cases []switchCase) string {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		var out strings.Builder
		out.WriteString("{\n")
		for _, sub := range s.Statements {
			out.WriteString(e.genSwitchBody(sub, id, cases))
		}
		out.WriteString("}\n")
		return out.String()
	case *ast.IfStatement:
		var out strings.Builder
		fmt.Fprintf(&out, "if (%s) %s", e.genExpr(s.Condition), e.genSwitchBody(s.Then, id, cases))
		if s.Else != nil {
			fmt.Fprintf(&out, "else %s", e.genSwitchBody(s.Else, id, cases))
		}
		return out.String()
	case *ast.WhileStatement:
		return fmt.Sprintf("while (%s) %s", e.genExpr(s.Condition), e.genSwitchBody(s.Body, id, cases))
	case *ast.LabelStatement:
		return fmt.Sprintf("%s:;\n%s", e.mangler.Mangle(s.Name), e.genSwitchBody(s.Stmt, id, cases))
	case *ast.CaseStatement:
		label := labelFor(cases, s)
		return fmt.Sprintf("%s:;\n%s", label, e.genSwitchBody(s.Stmt, id, cases))
	case *ast.SwitchStatement:
		return e.genSwitchStatement(s)
	default:
		return e.genStatement(stmt)
	}
}

func labelFor(cases []switchCase, target *ast.CaseStatement) string {
	for _, c := range cases {
		if c.stmt == target {
			return c.label
		}
	}
	return ""
}
