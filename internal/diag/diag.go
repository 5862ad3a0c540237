// Package diag formats Hemlock diagnostics: compile-time parse errors
// and uncaught runtime exceptions, both rendered with file:line:column
// and a source-line-with-caret, grounded on the teacher's
// internal/errors/errors.go CompilerError.Format.
package diag

import (
	"fmt"
	"strings"

	"github.com/hemlock-lang/hemlock/internal/token"
)

// Kind is the error taxonomy from the top-level specification §7.
type Kind string

const (
	ParseError     Kind = "ParseError"
	RuntimeError   Kind = "RuntimeError"
	TypeError      Kind = "TypeError"
	NameError      Kind = "NameError"
	IndexError     Kind = "IndexError"
	ConstViolation Kind = "ConstViolation"
	ModuleError    Kind = "ModuleError"
	IOError        Kind = "IOError"
	Cancelled      Kind = "Cancelled"
)

// Diagnostic is a single compile- or run-time error with position and
// source context.
type Diagnostic struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     token.Position
	// Frames holds the call-chain stack trace for uncaught runtime
	// exceptions (spec §7: "printed with stack trace").
	Frames []Frame
}

// Frame is one call-stack entry in a runtime stack trace.
type Frame struct {
	FuncName string
	Pos      token.Position
}

// New creates a Diagnostic.
func New(kind Kind, pos token.Position, msg, source string) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: msg, Source: source, File: pos.File, Pos: pos}
}

func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders the diagnostic as the teacher's CompilerError.Format
// does: a header, the offending source line, and a caret pointing at
// the column; color enables ANSI bold-red for the caret.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.File != "" {
		fmt.Fprintf(&sb, "%s in %s:%d:%d: %s\n", d.Kind, d.File, d.Pos.Line, d.Pos.Column, d.Message)
	} else {
		fmt.Fprintf(&sb, "%s at line %d:%d: %s\n", d.Kind, d.Pos.Line, d.Pos.Column, d.Message)
	}

	if line := d.sourceLine(d.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+max(d.Pos.Column-1, 0)))
		if color {
			sb.WriteString("\033[1;31m^\033[0m\n")
		} else {
			sb.WriteString("^\n")
		}
	}

	for _, f := range d.Frames {
		fmt.Fprintf(&sb, "  at %s (%s)\n", f.FuncName, f.Pos)
	}

	return sb.String()
}

func (d *Diagnostic) sourceLine(line int) string {
	if d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
