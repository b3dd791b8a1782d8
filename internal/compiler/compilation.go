// Package compiler bundles one run of the pipeline — arena, options, and
// accumulated diagnostics — into a single value threaded through the
// lexer, parser, semantic analyzer, and emitter, rather than held in
// package-level state.
package compiler

import (
	"fmt"

	"github.com/bthompson/bcc/internal/arena"
	"github.com/bthompson/bcc/internal/config"
	"github.com/bthompson/bcc/internal/emitter"
	"github.com/bthompson/bcc/internal/errors"
	"github.com/bthompson/bcc/internal/lexer"
	"github.com/bthompson/bcc/internal/parser"
	"github.com/bthompson/bcc/internal/semantic"
)

// Compilation is one source file's trip through the pipeline, owning the
// arena its AST and symbols live in for the compilation's lifetime.
type Compilation struct {
	File    string
	Source  string
	Options config.Options
	Arena   *arena.Arena
}

// New creates a Compilation for source read from file, with a freshly
// initialised arena — the arena is non-nil for exactly the span of this
// value's use, per the single-compilation resource model.
func New(file, source string, opts config.Options) *Compilation {
	return &Compilation{
		File:    file,
		Source:  source,
		Options: opts,
		Arena:   arena.New(),
	}
}

// Result holds everything a caller might want out of a successful run:
// the generated C text plus any non-fatal warnings collected along the
// way.
type Result struct {
	C        string
	Warnings []string
}

// Run lexes, parses, analyzes, and emits c.Source in order, stopping at
// the first stage that reports an error. Within the parse stage itself,
// --verbose-errors switches the parser out of fatal mode so it
// accumulates and reports every error it can recover from via
// synchronize, instead of stopping at the first one.
func (c *Compilation) Run() (*Result, error) {
	l := lexer.New(c.Source)
	p := parser.New(l, c.Arena, c.File)
	p.FatalMode = !c.Options.VerboseErrors
	prog := p.ParseProgram()
	if lerrs := l.Errors(); len(lerrs) > 0 {
		errs := make([]*errors.CompilerError, len(lerrs))
		for i, le := range lerrs {
			errs[i] = errors.New(le.Code, le.Pos, c.Source, c.File, le.Message)
		}
		return nil, c.formatErrors(errs)
	}
	if errs := p.Errors(); len(errs) > 0 {
		return nil, c.formatErrors(errs)
	}

	an := semantic.NewAnalyzer(c.Arena, c.File)
	an.Analyze(prog)
	if errs := an.Errors(); len(errs) > 0 {
		return nil, c.formatErrors(errs)
	}

	e := emitter.NewEmitter(c.Options, c.File)
	out, err := e.Emit(prog)
	if err != nil {
		return nil, err
	}

	return &Result{C: out, Warnings: an.Warnings()}, nil
}

// formatErrors renders errs for the caller: with --verbose-errors it
// joins every accumulated error, since that's the whole point of asking
// for verbose, non-fatal reporting; otherwise only the first is shown,
// matching the pipeline's default fatal-at-first-error behaviour.
func (c *Compilation) formatErrors(errs []*errors.CompilerError) error {
	historic := !c.Options.VerboseErrors
	if c.Options.VerboseErrors {
		return fmt.Errorf("%s", errors.FormatAll(errs, historic))
	}
	return fmt.Errorf("%s", errs[0].Format(historic))
}
