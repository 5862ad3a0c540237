package eval

import "github.com/hemlock-lang/hemlock/internal/value"

// SignalKind identifies the outcome of evaluating a statement (spec
// §4.3: "statement evaluation returns a control signal").
type SignalKind int

const (
	SigNormal SignalKind = iota
	SigReturn
	SigBreak
	SigContinue
	SigThrow
)

// Signal is threaded as the result of every statement-evaluating
// method, grounded on the teacher's Result sum type.
type Signal struct {
	Kind  SignalKind
	Value value.Value // payload for Return and Throw, nil otherwise
}

func normal() Signal { return Signal{Kind: SigNormal} }
