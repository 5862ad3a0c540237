// Package builtins implements Hemlock's builtin dispatch table: the
// well-known names (print, spawn, channel, sin, read_file, …) the
// evaluator resolves when no lexical binding shadows them (spec §9
// "Builtin dispatch"), plus the receiver-method table backing
// `a.push(v)`-style calls (spec §8 scenario 6).
//
// The dispatch mechanism — a string-keyed table of Go functions, split
// by concern across several files — is the core contract and is
// grounded on the teacher's internal/bytecode/vm_builtins*.go registry
// (registerMathBuiltins/registerStringBuiltins/registerMiscBuiltins,
// one file per concern, each populating a shared map). The concrete
// *behavior* of individual builtins (math, string manipulation, I/O)
// is explicitly a library concern per spec.md §1; these are thin
// stdlib-backed stand-ins sufficient to exercise the dispatch mechanism
// and the end-to-end scenarios in spec.md §8, not a full standard
// library.
package builtins

import (
	"github.com/hemlock-lang/hemlock/internal/eval"
	"github.com/hemlock-lang/hemlock/internal/value"
)

// Runtime is the task-scheduling collaborator backing spawn/channel/
// join/detach/sleep (spec §4.5). internal/task implements it; until
// it's wired in, those builtins throw RuntimeError rather than being
// absent, so programs that reference but don't call them still parse
// and bind.
type Runtime interface {
	Spawn(fn *value.Function, args []value.Value) (*value.Task, error)
	Join(t *value.Task) (value.Value, error)
	Detach(t *value.Task)
	Sleep(ms int64) error
	ChannelSend(ch *value.Channel, v value.Value) error
	ChannelRecv(ch *value.Channel) (value.Value, error)
}

// Register populates ev.Builtins and ev.Methods. ev.Tasks should
// already be set to an internal/task Scheduler (it satisfies
// eval.TaskJoiner); rt additionally backs spawn/detach/sleep/channel
// send/recv and may be nil, in which case those throw rather than panic.
func Register(ev *eval.Evaluator, rt Runtime) {
	registerMisc(ev.Builtins)
	registerMath(ev.Builtins)
	registerStringBuiltins(ev.Builtins)
	registerConvert(ev.Builtins)
	registerArray(ev.Builtins, ev)
	registerTask(ev.Builtins, rt)
	registerMethods(ev.Methods, ev, rt)
}
