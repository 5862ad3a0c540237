// Package task implements Hemlock's cooperative task runtime (spec
// §4.5): spawn/join/detach, channel rendezvous, sleep, and
// cancellation. No example repo in the retrieval pack models
// concurrency at all, so the scheduler is built directly from the
// spec's prose description mapped onto idiomatic Go concurrency
// primitives (see DESIGN.md).
//
// The spec calls for "cooperative, single OS thread" execution: a task
// runs until it voluntarily yields at a suspension point, and nothing
// else runs while it doesn't. Rather than hand-roll a coroutine
// trampoline, each task gets a real goroutine, and a weight-1
// golang.org/x/sync/semaphore acts as the interpreter's GIL: whichever
// goroutine holds it is the one "currently running" task, and it is
// released only at the spec's named suspension points (sleep,
// channel.recv on empty, channel.send on full, join on a pending
// task), then reacquired before the task resumes. This reproduces the
// spec's scheduling guarantees — sequential-within-a-task, causal
// ordering across tasks, FIFO per channel per direction (inherited
// from Go's native channel semantics) — while still letting Go's own
// scheduler do the goroutine bookkeeping.
package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/hemlock-lang/hemlock/internal/eval"
	"github.com/hemlock-lang/hemlock/internal/value"
)

// Scheduler is the concrete eval.TaskJoiner and builtins.Runtime
// implementation wired in by pkg/hemlock.
type Scheduler struct {
	ev  *eval.Evaluator
	gil *semaphore.Weighted
	eg  *errgroup.Group

	rootCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	tasks   map[*value.Task]*taskEntry
	current *value.Task
}

type taskEntry struct {
	ctx     context.Context
	cancel  context.CancelFunc
	pending []string // signal names awaiting delivery at the next suspension point
	signals map[string]*value.Function
}

// New creates a scheduler bound to ev. ev must not be shared with
// another scheduler: the GIL assumes it is the only thing driving ev
// concurrently.
func New(ev *eval.Evaluator) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	// The goroutine driving the root evaluator starts out holding the
	// GIL, so spawned tasks wait for it to reach a suspension point.
	gil := semaphore.NewWeighted(1)
	gil.TryAcquire(1)
	return &Scheduler{
		ev:      ev,
		gil:     gil,
		eg:      &errgroup.Group{},
		rootCtx: ctx,
		cancel:  cancel,
		tasks:   make(map[*value.Task]*taskEntry),
	}
}

// Spawn creates a task and starts it on its own goroutine; the caller
// does not block (spec §4.5 "does not run it to completion").
func (s *Scheduler) Spawn(fn *value.Function, args []value.Value) (*value.Task, error) {
	t := value.NewTask()
	ctx, cancel := context.WithCancel(s.rootCtx)
	s.mu.Lock()
	s.tasks[t] = &taskEntry{ctx: ctx, cancel: cancel, signals: make(map[string]*value.Function)}
	s.mu.Unlock()

	s.eg.Go(func() (goErr error) {
		defer func() {
			if r := recover(); r != nil {
				msg := fmt.Sprintf("RuntimeError: task panicked: %v", r)
				t.Finish(nil, eval.ThrowValue(value.NewString(msg)))
				goErr = fmt.Errorf("%s", msg)
			}
		}()
		if err := s.gil.Acquire(ctx, 1); err != nil {
			t.Finish(nil, value.ErrCancelledTask)
			return nil
		}
		s.setCurrent(t)
		t.SetRunning()
		result, err := s.ev.Call(fn, args)
		s.clearCurrent(t)
		s.gil.Release(1)

		if ctx.Err() != nil {
			t.Finish(nil, value.ErrCancelledTask)
			return nil
		}
		t.Finish(result, err)
		return nil
	})
	return t, nil
}

// Join suspends the caller until t reaches a terminal state, releasing
// the GIL for the duration so other tasks can run (spec §4.5 "join on
// a not-yet-done task" is a named suspension point).
func (s *Scheduler) Join(t *value.Task) (value.Value, error) {
	callerCtx := s.currentCtx()
	s.gil.Release(1)
	defer s.reacquire()

	select {
	case <-t.DoneCh():
	case <-callerCtx.Done():
		return nil, eval.ThrowValue(value.NewString("Cancelled"))
	}

	result, err := t.Result()
	if err == value.ErrCancelledTask {
		return nil, eval.ThrowValue(value.NewString("Cancelled"))
	}
	return result, err
}

// Detach releases the caller's interest in t; t keeps running (or
// already has) and is reclaimed by Go's GC once unreferenced.
func (s *Scheduler) Detach(t *value.Task) {
	t.MarkDetached()
}

// Sleep suspends the current task for ms milliseconds, or until it is
// cancelled, releasing the GIL meanwhile.
func (s *Scheduler) Sleep(ms int64) error {
	ctx := s.currentCtx()
	s.gil.Release(1)
	defer s.reacquire()

	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return eval.ThrowValue(value.NewString("Cancelled"))
	}
}

// ChannelSend and ChannelRecv implement the builtins.Runtime channel
// hooks: they wrap value.Channel's blocking Send/Recv, releasing the
// GIL for the blocking window exactly like Sleep/Join.
func (s *Scheduler) ChannelSend(ch *value.Channel, v value.Value) error {
	ctx := s.currentCtx()
	s.gil.Release(1)
	defer s.reacquire()
	if err := ch.Send(ctx, v); err != nil {
		if err == value.ErrChannelClosed {
			return eval.ThrowValue(value.NewString("RuntimeError: send on closed channel"))
		}
		return eval.ThrowValue(value.NewString("Cancelled"))
	}
	return nil
}

func (s *Scheduler) ChannelRecv(ch *value.Channel) (value.Value, error) {
	ctx := s.currentCtx()
	s.gil.Release(1)
	defer s.reacquire()
	v, err := ch.Recv(ctx)
	if err != nil {
		if err == value.ErrChannelClosed {
			return nil, eval.ThrowValue(value.NewString("RuntimeError: recv on closed channel"))
		}
		return nil, eval.ThrowValue(value.NewString("Cancelled"))
	}
	return v, nil
}

// Cancel marks t cancelled; per spec §4.5 this does not preempt
// running code, it only makes t's next suspension point raise
// Cancelled.
func (s *Scheduler) Cancel(t *value.Task) {
	s.mu.Lock()
	entry, ok := s.tasks[t]
	s.mu.Unlock()
	if ok {
		entry.cancel()
	}
}

// Signal installs handler for sig on t (spec §4.5 "Signals"). Delivery
// happens at t's next suspension point, run synchronously on t's own
// goroutine before the suspended operation resumes.
func (s *Scheduler) Signal(t *value.Task, sig string, handler *value.Function) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tasks[t]
	if !ok {
		return
	}
	entry.signals[sig] = handler
}

// Raise queues sig for delivery to t at its next suspension point.
func (s *Scheduler) Raise(t *value.Task, sig string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tasks[t]
	if !ok {
		return
	}
	entry.pending = append(entry.pending, sig)
}

func (s *Scheduler) setCurrent(t *value.Task) {
	s.mu.Lock()
	s.current = t
	s.mu.Unlock()
}

func (s *Scheduler) clearCurrent(t *value.Task) {
	s.mu.Lock()
	if s.current == t {
		s.current = nil
	}
	s.mu.Unlock()
}

func (s *Scheduler) currentCtx() context.Context {
	s.mu.Lock()
	t := s.current
	s.mu.Unlock()
	if t == nil {
		return s.rootCtx
	}
	s.mu.Lock()
	entry, ok := s.tasks[t]
	s.mu.Unlock()
	if !ok {
		return s.rootCtx
	}
	return entry.ctx
}

func (s *Scheduler) reacquire() {
	s.gil.Acquire(context.Background(), 1)
	s.mu.Lock()
	t := s.current
	s.mu.Unlock()
	s.deliverPending(t)
}

// deliverPending runs any signal handlers queued for t via Raise,
// synchronously, before the suspended call returns control to t's
// Hemlock code.
func (s *Scheduler) deliverPending(t *value.Task) {
	if t == nil {
		return
	}
	s.mu.Lock()
	entry, ok := s.tasks[t]
	if !ok {
		s.mu.Unlock()
		return
	}
	pending := entry.pending
	entry.pending = nil
	s.mu.Unlock()

	for _, sig := range pending {
		s.mu.Lock()
		handler := entry.signals[sig]
		s.mu.Unlock()
		if handler != nil {
			s.ev.Call(handler, []value.Value{value.NewString(sig)})
		}
	}
}

// Shutdown cancels every outstanding task and waits for their
// goroutines to return, surfacing the first internal (Go-level) panic
// recovered from a task, if any. Hemlock-level throws are not
// returned here — those are consumed per-task via Join.
func (s *Scheduler) Shutdown() error {
	s.cancel()
	return s.eg.Wait()
}
