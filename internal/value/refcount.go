package value

import "sync"

// DestructorCallback is invoked when a heap cell's reference count
// reaches zero. Grounded on the teacher's callback-based destructor
// dispatch (internal/interp/runtime/refcount.go in the teacher repo);
// generalized here from "objects only" to every heap variant that
// owns an OS or heap resource.
type DestructorCallback func(v Value)

// Manager centralizes retain/release across every heap Value variant
// and tracks the best-effort manually-freed pointer set described in
// spec §3.1/§9.
//
// Hemlock is single-threaded per task (spec §5: "only one task
// observes mutation at a time"), so refcounts themselves need no
// atomics — matching the teacher, which also uses plain int counters.
type Manager struct {
	mu            sync.Mutex
	onDestroy     DestructorCallback
	manuallyFreed map[uintptr]bool
}

// NewManager creates a refcount manager with no destructor callback
// registered yet.
func NewManager() *Manager {
	return &Manager{manuallyFreed: make(map[uintptr]bool)}
}

// SetDestructorCallback installs the callback run when any heap value
// reaches refcount zero.
func (m *Manager) SetDestructorCallback(cb DestructorCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDestroy = cb
}

// Retain increments v's reference count, if v is a heap value, and
// returns v unchanged for chaining. Non-heap values pass through.
func (m *Manager) Retain(v Value) Value {
	if h, ok := v.(Heap); ok && h != nil {
		h.retain()
	}
	return v
}

// Release decrements v's reference count, if v is a heap value,
// invoking the destructor callback (and closing any OS resource) when
// it reaches zero. Returns nil, matching the teacher's
// DecrementRef convention of always yielding a fresh nil for the
// caller to assign over the released slot.
func (m *Manager) Release(v Value) Value {
	h, ok := v.(Heap)
	if !ok || h == nil {
		return nil
	}
	if h.RefCount() <= 0 {
		// Already at zero: avoid double-destruction (refcount never
		// goes negative, per spec §3.1 invariant).
		return nil
	}
	if h.release() {
		m.destroy(v)
	}
	return nil
}

func (m *Manager) destroy(v Value) {
	if closer, ok := v.(DestructorHook); ok {
		_ = closer.Close()
	}
	m.mu.Lock()
	cb := m.onDestroy
	m.mu.Unlock()
	if cb != nil {
		cb(v)
	}
}

// MarkManuallyFreed records that a Ptr at addr was explicitly freed by
// user code (e.g. `free(ptr)`), so a later release of the same address
// through the refcounting path does not double-free. Best-effort only
// — see spec §9's open-question resolution: Ptr values are otherwise
// never auto-released.
func (m *Manager) MarkManuallyFreed(addr uintptr) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manuallyFreed[addr] = true
}

// WasManuallyFreed reports whether addr was previously passed to
// MarkManuallyFreed.
func (m *Manager) WasManuallyFreed(addr uintptr) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.manuallyFreed[addr]
}

// ClearManuallyFreed empties the manually-freed set. Called after
// top-level teardown (spec §3.1: "it is cleared after top-level
// teardown").
func (m *Manager) ClearManuallyFreed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.manuallyFreed = make(map[uintptr]bool)
}
