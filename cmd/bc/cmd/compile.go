package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bthompson/bcc/internal/arena"
	"github.com/bthompson/bcc/internal/compiler"
	"github.com/bthompson/bcc/internal/config"
	"github.com/bthompson/bcc/internal/lexer"
	"github.com/bthompson/bcc/internal/parser"
	"github.com/spf13/cobra"
)

var (
	outputFile     string
	emitAsm        bool // -S: emit C to stdout instead of a file
	compileOnly    bool // -c: write the C to <input>.c; no host compiler is run
	emitToFile     bool // -E: emit C to file, skip invoking the host compiler
	debugInfo      bool
	warnAll        bool
	warnAsError    bool
	byteptr        bool
	wordWidth      string
	dumpTokens     bool
	dumpAST        bool
	dumpC          bool
	noLineDirectives bool
	verboseErrors  bool
	includePaths   []string
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Translate a B source file to C",
	Long: `compile lexes, parses, and analyzes a B source file, then emits
a single C99 translation unit. The generated C is always the final
output: -S prints it to stdout, otherwise it is written to the output
file (default <input>.c with -E or -c, a.out otherwise). No host C
compiler is invoked, so -c produces no object file and nothing is
linked.

Examples:
  bc compile prog.b
  bc compile -S prog.b
  bc compile --word=16 --byteptr -o prog.c prog.b`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <input>.c or a.out)")
	compileCmd.Flags().BoolVarP(&emitAsm, "emit-c", "S", false, "emit C to stdout instead of invoking the host compiler")
	compileCmd.Flags().BoolVarP(&compileOnly, "compile-only", "c", false, "write the C to <input>.c (no object file is produced)")
	compileCmd.Flags().BoolVarP(&emitToFile, "emit-c-file", "E", false, "emit C to the output file, do not invoke the host compiler")
	compileCmd.Flags().BoolVarP(&debugInfo, "debug", "g", false, "include debug information")
	compileCmd.Flags().BoolVar(&warnAll, "Wall", false, "enable all warnings")
	compileCmd.Flags().BoolVar(&warnAsError, "Werror", false, "treat warnings as errors")
	compileCmd.Flags().BoolVar(&byteptr, "byteptr", false, "use the byte-addressed pointer model")
	compileCmd.Flags().StringVar(&wordWidth, "word", "host", "word width: host, 16, or 32")
	compileCmd.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "print the token stream and exit")
	compileCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST and exit")
	compileCmd.Flags().BoolVar(&dumpC, "dump-c", false, "print the emitted C alongside normal output")
	compileCmd.Flags().BoolVar(&noLineDirectives, "no-line", false, "omit #line directives from the emitted C")
	compileCmd.Flags().BoolVar(&verboseErrors, "verbose-errors", false, "use file:line:col diagnostics instead of the historic two-letter codes")
	compileCmd.Flags().StringArrayVarP(&includePaths, "include", "I", nil, "add a directory to the include search path")
}

func runCompile(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	source := string(content)

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	if dumpTokens {
		dumpTokenStream(source)
		return nil
	}

	if dumpAST {
		return dumpProgramAST(filename, source)
	}

	c := compiler.New(filename, source, opts)
	result, err := c.Run()
	if err != nil {
		return err
	}

	if warnAsError && len(result.Warnings) > 0 {
		return fmt.Errorf("%d warning(s) treated as errors:\n%s", len(result.Warnings), strings.Join(result.Warnings, "\n"))
	}
	if warnAll {
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}

	if dumpC {
		fmt.Fprintln(os.Stderr, result.C)
	}

	if emitAsm {
		fmt.Println(result.C)
		return nil
	}

	out := outputFile
	if out == "" {
		out = defaultOutputName(filename, emitToFile || compileOnly)
	}
	if err := os.WriteFile(out, []byte(result.C), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", out, err)
	}

	if emitToFile {
		fmt.Printf("%s -> %s\n", filename, out)
		return nil
	}

	// -c and the default (link) case both require invoking the host C
	// compiler over the generated C file; that step lives outside this
	// module's scope (it shells out to `cc`), so the driver reports the
	// generated file's name the way a failing host build would need it.
	fmt.Printf("%s -> %s (pass to your C compiler to finish building)\n", filename, out)
	return nil
}

func buildOptions() (config.Options, error) {
	opts := config.Default()
	width, err := config.ParseWordWidth(wordWidth)
	if err != nil {
		return opts, newUsageError("invalid --word value %q: %w", wordWidth, err)
	}
	opts.Word = width
	if byteptr {
		opts.Pointer = config.PointerByte
	}
	opts.EmitLineDirectives = !noLineDirectives
	opts.VerboseErrors = verboseErrors
	opts.WarnAll = warnAll
	opts.WarnAsError = warnAsError
	opts.Debug = debugInfo
	opts.IncludePaths = includePaths
	return opts, nil
}

func defaultOutputName(filename string, cSuffix bool) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	if cSuffix {
		return base + ".c"
	}
	return "a.out"
}

func dumpTokenStream(source string) {
	l := lexer.New(source)
	for {
		tok := l.NextToken()
		fmt.Printf("%-20s @%s\n", tok.String(), tok.Pos.String())
		if tok.Type == lexer.EOF {
			break
		}
	}
}

func dumpProgramAST(filename, source string) error {
	l := lexer.New(source)
	a := arena.New()
	p := parser.New(l, a, filename)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return fmt.Errorf("%s", errs[0].Format(!verboseErrors))
	}
	fmt.Println(prog.String())
	return nil
}
