// Package errors formats B compiler diagnostics, either as the historic
// two-letter-code form or as a verbose `file:line:col: error: message`
// form, both followed by source context with a caret.
package errors

import (
	"fmt"
	"strings"

	"github.com/bthompson/bcc/internal/lexer"
)

// CodeMessages gives the fixed meaning of each historic two-letter code.
// Every CompilerError constructed by this package's helpers carries one
// of these codes.
var CodeMessages = map[string]string{
	"$)": "unmatched brace",
	"()": "unmatched parenthesis",
	"*/": "unterminated comment",
	"[]": "unmatched bracket",
	">c": "case table overflow",
	">e": "expression table overflow",
	">i": "label table overflow",
	">s": "symbol table overflow",
	"ex": "malformed expression",
	"sx": "malformed statement",
	"lv": "lvalue required",
	"rd": "name already declared in this scope",
	"un": "undefined name in callable position",
	"xx": "malformed external definition",
}

// CompilerError is a single fatal diagnostic: a historic code, a
// human-readable message, and enough source context to render a caret.
type CompilerError struct {
	Code    string
	Message string
	Source  string
	File    string
	Pos     lexer.Position
}

// New builds a CompilerError for one of the fixed diagnostic codes,
// using its tabulated message unless msg overrides it.
func New(code string, pos lexer.Position, source, file, msg string) *CompilerError {
	if msg == "" {
		msg = CodeMessages[code]
	}
	return &CompilerError{Code: code, Message: msg, Source: source, File: file, Pos: pos}
}

func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error. historic selects default format
// (two-letter code, file, line); otherwise the verbose
// `file:line:col: error: message` form is used. Both are followed by two
// lines of source context with a caret.
func (e *CompilerError) Format(historic bool) string {
	var sb strings.Builder

	if historic {
		sb.WriteString(fmt.Sprintf("%s %s:%d\n", e.Code, e.File, e.Pos.Line))
	} else {
		sb.WriteString(fmt.Sprintf("%s:%d:%d: error: %s\n", e.File, e.Pos.Line, e.Pos.Column, e.Message))
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		sb.WriteString("^\n")
	}

	if historic {
		sb.WriteString(e.Message)
	}

	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatWithContext renders the error with contextLines of surrounding
// source on each side of the faulting line. The compile pipeline does
// not call it: --verbose-errors goes through FormatAll, which uses Format.
func (e *CompilerError) FormatWithContext(contextLines int, historic bool) string {
	if e.Source == "" {
		return e.Format(historic)
	}
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return e.Format(historic)
	}

	start := e.Pos.Line - contextLines
	if start < 1 {
		start = 1
	}
	end := e.Pos.Line + contextLines
	if end > len(lines) {
		end = len(lines)
	}

	var sb strings.Builder
	if historic {
		sb.WriteString(fmt.Sprintf("%s %s:%d\n", e.Code, e.File, e.Pos.Line))
	} else {
		sb.WriteString(fmt.Sprintf("%s:%d:%d: error: %s\n", e.File, e.Pos.Line, e.Pos.Column, e.Message))
	}

	for n := start; n <= end; n++ {
		lineNumStr := fmt.Sprintf("%4d | ", n)
		sb.WriteString(lineNumStr)
		sb.WriteString(lines[n-1])
		sb.WriteString("\n")
		if n == e.Pos.Line {
			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
			sb.WriteString("^\n")
		}
	}

	if historic {
		sb.WriteString(e.Message)
	}
	return sb.String()
}

// FormatAll renders a batch of errors, one per line group. The default
// CLI path only ever has one, since compilation stops at the first
// fatal error; batches occur only under --verbose-errors non-fatal
// tooling runs that want to see every diagnostic in one pass.
func FormatAll(errs []*CompilerError, historic bool) string {
	var sb strings.Builder
	for i, e := range errs {
		sb.WriteString(e.Format(historic))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
