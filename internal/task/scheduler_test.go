package task

import (
	"testing"
	"time"

	"github.com/hemlock-lang/hemlock/internal/builtins"
	"github.com/hemlock-lang/hemlock/internal/eval"
	"github.com/hemlock-lang/hemlock/internal/parser"
	"github.com/hemlock-lang/hemlock/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T) (*eval.Evaluator, *Scheduler) {
	t.Helper()
	ev := eval.New("t.hml")
	sched := New(ev)
	ev.Tasks = sched
	builtins.Register(ev, sched)
	return ev, sched
}

func TestSpawnJoinReturnsResult(t *testing.T) {
	ev, _ := newRuntime(t)

	prog, err := parser.Parse("t.hml", `
		let task = spawn(fn(x) { return x * 2; }, 21);
		let result = join(task);
	`)
	require.NoError(t, err)

	sig, err := ev.Run(prog)
	require.NoError(t, err)
	require.NotEqual(t, eval.SigThrow, sig.Kind)

	v, ok := ev.Globals.Lookup("result")
	require.True(t, ok)
	assert.Equal(t, int64(42), v.(*value.Int).I)
}

func TestJoinReThrowsTaskError(t *testing.T) {
	ev := eval.New("t.hml")
	sched := New(ev)
	ev.Tasks = sched
	builtins.Register(ev, sched)

	prog, err := parser.Parse("t.hml", `
		let task = spawn(fn() { throw "boom"; });
		let result = join(task);
	`)
	require.NoError(t, err)
	sig, _ := ev.Run(prog)
	assert.Equal(t, eval.SigThrow, sig.Kind)
	assert.Equal(t, "boom", sig.Value.String())
}

func TestChannelRendezvousBetweenTasks(t *testing.T) {
	ev := eval.New("t.hml")
	sched := New(ev)
	ev.Tasks = sched
	builtins.Register(ev, sched)

	prog, err := parser.Parse("t.hml", `
		let c = channel(0);
		let sender = spawn(fn() { c.send(42); return null; });
		let received = c.recv();
	`)
	require.NoError(t, err)

	done := make(chan struct{})
	var sig eval.Signal
	var runErr error
	go func() {
		sig, runErr = ev.Run(prog)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("rendezvous deadlocked")
	}
	require.NoError(t, runErr)
	require.NotEqual(t, eval.SigThrow, sig.Kind)

	v, ok := ev.Globals.Lookup("received")
	require.True(t, ok)
	assert.Equal(t, int64(42), v.(*value.Int).I)
}

func TestSleepSuspendsWithoutBlockingOtherTasks(t *testing.T) {
	ev := eval.New("t.hml")
	sched := New(ev)
	ev.Tasks = sched
	builtins.Register(ev, sched)

	prog, err := parser.Parse("t.hml", `
		let slow = spawn(fn() { sleep(20); return 1; });
		let fast = spawn(fn() { return 2; });
		let fastResult = join(fast);
		let slowResult = join(slow);
	`)
	require.NoError(t, err)
	sig, err := ev.Run(prog)
	require.NoError(t, err)
	require.NotEqual(t, eval.SigThrow, sig.Kind)

	fastResult, _ := ev.Globals.Lookup("fastResult")
	assert.Equal(t, int64(2), fastResult.(*value.Int).I)
	slowResult, _ := ev.Globals.Lookup("slowResult")
	assert.Equal(t, int64(1), slowResult.(*value.Int).I)
}

func TestDetachDoesNotBlockCaller(t *testing.T) {
	ev := eval.New("t.hml")
	sched := New(ev)
	ev.Tasks = sched
	builtins.Register(ev, sched)

	prog, err := parser.Parse("t.hml", `
		let task = spawn(fn() { sleep(10); return 1; });
		detach(task);
		let done = true;
	`)
	require.NoError(t, err)
	sig, err := ev.Run(prog)
	require.NoError(t, err)
	require.NotEqual(t, eval.SigThrow, sig.Kind)
	v, ok := ev.Globals.Lookup("done")
	require.True(t, ok)
	assert.True(t, v.(*value.Bool).Value)
}
