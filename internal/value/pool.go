package value

import (
	"sync"
	"sync/atomic"
)

// Object pooling for the hottest allocations in arithmetic-heavy
// loops: Int and Float. Grounded on the teacher's
// internal/interp/runtime/pool.go (sync.Pool per primitive type, plus
// atomic allocation counters for monitoring). Pooling is optional —
// values not explicitly released are simply garbage collected by Go's
// runtime, exactly as the teacher's doc comment describes.
var (
	intPool = sync.Pool{
		New: func() interface{} {
			poolStats.intAllocs.Add(1)
			return &Int{}
		},
	}
	floatPool = sync.Pool{
		New: func() interface{} {
			poolStats.floatAllocs.Add(1)
			return &Float{}
		},
	}

	poolStats = struct {
		intAllocs, intGets, intPuts       atomic.Uint64
		floatAllocs, floatGets, floatPuts atomic.Uint64
	}{}
)

// PoolInt fetches (and initializes) an *Int from the pool instead of
// allocating directly. Use ReleaseInt to return it once no other
// binding may observe it.
func PoolInt(v int64) *Int {
	poolStats.intGets.Add(1)
	i := intPool.Get().(*Int)
	i.I, i.Width, i.Signed = v, W64, true
	return i
}

// ReleaseInt returns i to the pool. Callers must guarantee no other
// reference to i survives — this is an optimization hook, not part of
// the refcounting contract; nothing else in this module calls it.
func ReleaseInt(i *Int) {
	poolStats.intPuts.Add(1)
	intPool.Put(i)
}

func PoolFloat(v float64) *Float {
	poolStats.floatGets.Add(1)
	f := floatPool.Get().(*Float)
	f.F, f.Width = v, W64
	return f
}

func ReleaseFloat(f *Float) {
	poolStats.floatPuts.Add(1)
	floatPool.Put(f)
}

// PoolStats reports allocation/get/put counters for the numeric pools,
// used by tests and diagnostics to observe pool effectiveness.
type PoolStatsSnapshot struct {
	IntAllocs, IntGets, IntPuts       uint64
	FloatAllocs, FloatGets, FloatPuts uint64
}

func PoolStats() PoolStatsSnapshot {
	return PoolStatsSnapshot{
		IntAllocs:   poolStats.intAllocs.Load(),
		IntGets:     poolStats.intGets.Load(),
		IntPuts:     poolStats.intPuts.Load(),
		FloatAllocs: poolStats.floatAllocs.Load(),
		FloatGets:   poolStats.floatGets.Load(),
		FloatPuts:   poolStats.floatPuts.Load(),
	}
}
