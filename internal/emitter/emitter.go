// Package emitter renders a semantically analysed B program as a single
// C99 translation unit: header macros, the string pool, global storage,
// an __b_init function that runs global initialisers in program order,
// every user function, and a main wrapper.
package emitter

import (
	"fmt"
	"strings"

	"github.com/bthompson/bcc/internal/ast"
	"github.com/bthompson/bcc/internal/config"
	"github.com/bthompson/bcc/internal/parser"
)

// compoundAssignHelpers maps a compound-assignment operator spelling to
// the runtime helper that performs it on an address, avoiding double
// evaluation of a complex lvalue and enforcing word masking uniformly.
var compoundAssignHelpers = map[string]string{
	"=+":  "b_add_assign",
	"=-":  "b_sub_assign",
	"=*":  "b_mul_assign",
	"=/":  "b_div_assign",
	"=%":  "b_mod_assign",
	"=&":  "b_and_assign",
	"=|":  "b_or_assign",
	"=<<": "b_lsh_assign",
	"=>>": "b_rsh_assign",
}

var binaryMacros = map[string]string{
	"+": "WADD", "-": "WSUB", "*": "WMUL", "/": "WDIV", "%": "WMOD",
	"<<": "WSHL", ">>": "WSHR", "&": "WAND", "|": "WOR",
}

// Emitter walks a Program and produces its C translation.
type Emitter struct {
	opts     config.Options
	file     string
	mangler  *Mangler
	strings  *StringPool
	switchID int
	initBody strings.Builder
	funcDefs strings.Builder
	globals  strings.Builder
	mainName string
}

// NewEmitter creates an Emitter for one compilation unit.
func NewEmitter(opts config.Options, file string) *Emitter {
	return &Emitter{
		opts:    opts,
		file:    file,
		mangler: NewMangler(),
		strings: NewStringPool(),
	}
}

func (e *Emitter) nextSwitchID() int {
	e.switchID++
	return e.switchID
}

// Emit renders prog as a complete C translation unit.
func (e *Emitter) Emit(prog *ast.Program) (string, error) {
	for _, item := range prog.Items {
		if err := e.emitTopLevel(item); err != nil {
			return "", err
		}
	}

	var out strings.Builder
	out.WriteString(preamble(e.opts))
	out.WriteString("\n/* string pool */\n")
	out.WriteString(e.strings.Emit(e.opts.Word))
	out.WriteString("\n/* global storage */\n")
	out.WriteString(e.globals.String())
	out.WriteString("\nstatic void __b_init(void) {\n")
	out.WriteString(e.initBody.String())
	out.WriteString("}\n")
	out.WriteString("\n/* user functions */\n")
	out.WriteString(e.funcDefs.String())
	out.WriteString(e.genMainWrapper())
	return out.String(), nil
}

func (e *Emitter) emitTopLevel(item ast.TopLevel) error {
	switch it := item.(type) {
	case *ast.FunctionDef:
		return e.emitFunctionDef(it)
	case *ast.ExternDef:
		e.emitExternDef(it)
	case *ast.ExternDecl:
		for _, name := range it.Names {
			fmt.Fprintf(&e.globals, "extern word %s;\n", e.mangler.Mangle(name))
		}
	case *ast.GlobalAuto:
		for _, d := range it.Declarators {
			e.emitGlobalDeclarator(d)
		}
	}
	return nil
}

func (e *Emitter) emitGlobalDeclarator(d ast.Declarator) {
	name := e.mangler.Mangle(d.Name)
	if d.Size == nil {
		fmt.Fprintf(&e.globals, "static word %s;\n", name)
		return
	}
	storage := e.mangler.Synthetic(name + "_storage")
	n, _ := parser.FoldConstant(d.Size, func(string, ...interface{}) {})
	fmt.Fprintf(&e.globals, "static word %s[%d];\n", storage, n+1)
	fmt.Fprintf(&e.globals, "static word %s;\n", name)
	fmt.Fprintf(&e.initBody, "%s = B_PTR(%s);\n", name, storage)
}

func (e *Emitter) emitExternDef(def *ast.ExternDef) {
	name := e.mangler.Mangle(def.Name)
	switch def.Kind {
	case ast.ExternVector:
		bound := int64(0)
		if def.Bound != nil {
			bound, _ = parser.FoldConstant(def.Bound, func(string, ...interface{}) {})
		}
		size := bound + 1
		if n := initializerCount(def.Initializer); int64(n) > size {
			size = int64(n)
		}
		storage := e.mangler.Synthetic(name + "_storage")
		fmt.Fprintf(&e.globals, "static word %s[%d];\n", storage, size)
		fmt.Fprintf(&e.globals, "word %s;\n", name)
		fmt.Fprintf(&e.initBody, "%s = B_PTR(%s);\n", name, storage)
		e.emitVectorInit(name, storage, def.Initializer)

	case ast.ExternBlob:
		fmt.Fprintf(&e.globals, "word %s;\n", name)
		if def.Initializer != nil {
			fmt.Fprintf(&e.initBody, "%s = %s;\n", name, e.genInitializerScalar(def.Initializer))
		}

	default:
		linkage := ""
		if def.Implicit {
			linkage = "static "
		}
		fmt.Fprintf(&e.globals, "%sword %s;\n", linkage, name)
		if def.Initializer != nil {
			fmt.Fprintf(&e.initBody, "%s = %s;\n", name, e.genInitializerScalar(def.Initializer))
		}
	}
}

func initializerCount(init ast.Initializer) int {
	list, ok := init.(*ast.ListInitializer)
	if !ok {
		return 0
	}
	return len(list.Items)
}

func (e *Emitter) genInitializerScalar(init ast.Initializer) string {
	switch it := init.(type) {
	case *ast.ExprInitializer:
		return e.genExpr(it.Value)
	case *ast.ListInitializer:
		if len(it.Items) == 0 {
			return "0"
		}
		return e.genInitializerScalar(it.Items[0])
	}
	return "0"
}

// emitVectorInit writes one __b_init assignment per initializer slot into
// storage, the backing array already reserved for wordName. A nested
// list initializer (an edge vector) gets its own backing array
// materialised as a separate static region through Synthetic, with the
// parent slot set to point at it.
func (e *Emitter) emitVectorInit(wordName, storage string, init ast.Initializer) {
	list, ok := init.(*ast.ListInitializer)
	if !ok {
		return
	}
	for i, item := range list.Items {
		switch it := item.(type) {
		case *ast.ExprInitializer:
			fmt.Fprintf(&e.initBody, "%s[%d] = %s;\n", storage, i, e.genExpr(it.Value))
		case *ast.ListInitializer:
			edgeName := fmt.Sprintf("%s_edge%d", wordName, i)
			edgeStorage := e.mangler.Synthetic(edgeName + "_storage")
			fmt.Fprintf(&e.globals, "static word %s[%d];\n", edgeStorage, len(it.Items))
			e.emitVectorInit(edgeName, edgeStorage, it)
			fmt.Fprintf(&e.initBody, "%s[%d] = B_PTR(%s);\n", storage, i, edgeStorage)
		}
	}
}

func (e *Emitter) emitFunctionDef(fn *ast.FunctionDef) error {
	name := e.mangler.Mangle(fn.Name)
	if fn.Name == "main" {
		e.mainName = name
	}
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = "word " + e.mangler.Mangle(p)
	}
	sig := fmt.Sprintf("word %s(%s)", name, strings.Join(params, ", "))
	fmt.Fprintf(&e.funcDefs, "%s;\n", sig)
	body := e.genFunctionBody(fn.Body)
	fmt.Fprintf(&e.funcDefs, "%s %s\n", sig, body)
	return nil
}

// genFunctionBody emits fn's block, rewriting its last expression
// statement (including inside a trailing single-armed if) into a
// return, and appending a fallback `return 0;` so every path has one.
func (e *Emitter) genFunctionBody(block *ast.BlockStatement) string {
	stmts := make([]ast.Statement, len(block.Statements))
	copy(stmts, block.Statements)
	if n := len(stmts); n > 0 {
		stmts[n-1] = rewriteImplicitReturn(stmts[n-1])
	}
	var out strings.Builder
	out.WriteString("{\n")
	for _, s := range stmts {
		out.WriteString(e.genStatement(s))
	}
	out.WriteString("return 0;\n}\n")
	return out.String()
}

// rewriteImplicitReturn turns a trailing bare expression statement into
// a return statement; if the trailing statement is an if with no else,
// the rewrite applies recursively to its then-branch.
func rewriteImplicitReturn(stmt ast.Statement) ast.Statement {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return &ast.ReturnStatement{Token: s.Token, Value: s.Expression}
	case *ast.IfStatement:
		if s.Else == nil {
			return &ast.IfStatement{Token: s.Token, Condition: s.Condition, Then: rewriteImplicitReturn(s.Then)}
		}
	}
	return stmt
}

func (e *Emitter) genMainWrapper() string {
	if e.mainName == "" {
		return ""
	}
	return fmt.Sprintf(`
int main(int argc, char **argv) {
__b_setargs(argc, argv);
__b_init();
return (int)%s();
}
`, e.mainName)
}
