package allocator

import (
	"fmt"
	"unsafe"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// poolConfig is the functional-options configuration for NewPool, following
// the teacher's own Config/Option pattern (internal/allocator/allocator.go)
// generalized to this package's single Pool type.
type poolConfig struct {
	logger            *zap.Logger
	debug             bool
	stats             bool
	systemMemoryLimit uint64
	mapper            mapper
}

// Option configures a Pool at construction time.
type Option func(*poolConfig)

// WithLogger attaches a structured logger; the default is a no-op logger,
// so Pool never pays for logging unless a caller opts in.
func WithLogger(l *zap.Logger) Option {
	return func(c *poolConfig) { c.logger = l }
}

// WithDebug enables the debug-only check that makes Alloc and Free panic
// when called on a closed pool. Free-list well-formedness, size alignment,
// double frees and cross-pool frees are not checked. Leave disabled on the
// hot path in production.
func WithDebug(enabled bool) Option {
	return func(c *poolConfig) { c.debug = enabled }
}

// WithStats enables or disables the optional statistics counters.
// Enabled by default.
func WithStats(enabled bool) Option {
	return func(c *poolConfig) { c.stats = enabled }
}

// WithSystemMemoryLimit refuses to construct a pool whose requested
// capacity exceeds the given ceiling, which callers typically derive from
// SystemMemory().
func WithSystemMemoryLimit(limit uint64) Option {
	return func(c *poolConfig) { c.systemMemoryLimit = limit }
}

// withMapper overrides the mapping shim; unexported, used only by this
// package's own tests to avoid depending on a real OS mapping.
func withMapper(m mapper) Option {
	return func(c *poolConfig) { c.mapper = m }
}

func defaultPoolConfig() *poolConfig {
	return &poolConfig{
		logger: zap.NewNop(),
		stats:  true,
		mapper: defaultMapper,
	}
}

// livePools is the process-wide count of constructed-but-not-yet-closed
// pools, enforcing MaxPools.
var livePools atomic.Int64

// Pool owns one large anonymous mapping, its bump cursor, and its
// per-class free-lists. Once constructed, the backing region is immutable
// until Close; the cursor and free-lists are the only mutable state.
type Pool struct {
	region []byte
	base   unsafe.Pointer
	mapper mapper

	capacity uintptr

	// cursor is authoritative when !concurrent: plain reads/writes, never
	// touched by more than one goroutine by construction. atomicCursor is
	// authoritative when concurrent: a CAS loop rather than a fetch-add, so
	// a failed bounds check never advances the cursor past capacity. Only
	// one of the two is ever live for a given Pool; keeping them as
	// distinct fields is what keeps the non-concurrent cursor atomic-free.
	// The per-class free-list mutexes are taken in both modes.
	cursor       uintptr
	atomicCursor atomic.Uint64

	concurrent bool
	debug      bool

	freelist *freeList
	stats    *Stats
	logger   *zap.Logger

	closed atomic.Bool
}

// NewPool creates a pool backed by a single mapping of at least capacity
// bytes, rounded up to a multiple of MinPoolBytes. concurrent selects the
// threading discipline for the whole lifetime of the pool: a
// single-threaded pool must never be touched by more than one goroutine.
func NewPool(capacity uintptr, concurrent bool, opts ...Option) (*Pool, error) {
	cfg := defaultPoolConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	rounded := alignUp(capacity, MinPoolBytes)
	if rounded == 0 {
		rounded = MinPoolBytes
	}

	if cfg.systemMemoryLimit > 0 && uint64(rounded) > cfg.systemMemoryLimit {
		return nil, fmt.Errorf("%w: requested capacity %d exceeds configured system memory limit %d", ErrPoolExhausted, rounded, cfg.systemMemoryLimit)
	}

	if livePools.Inc() > MaxPools {
		livePools.Dec()
		return nil, ErrTooManyPools
	}

	region, err := cfg.mapper.Map(rounded)
	if err != nil {
		livePools.Dec()
		return nil, err
	}

	p := &Pool{
		region:     region,
		base:       regionBase(region),
		mapper:     cfg.mapper,
		capacity:   rounded,
		concurrent: concurrent,
		debug:      cfg.debug,
		freelist:   &freeList{},
		logger:     cfg.logger,
	}
	if cfg.stats {
		p.stats = &Stats{}
	}

	p.logger.Debug("pool created",
		zap.Uintptr("capacity", rounded),
		zap.Bool("concurrent", concurrent),
	)

	return p, nil
}

// Alloc carves total = HeaderBytes + requested (rounded up, with a
// MinClassBytes floor) bytes from the pool and returns the user-visible
// pointer, or routes to the large path when total would reach or exceed
// MaxSmallChunkBytes.
func (p *Pool) Alloc(requested uintptr) (unsafe.Pointer, error) {
	p.checkOpen()

	total := totalChunkSize(requested)
	if total >= MaxSmallChunkBytes {
		return p.allocLarge(total)
	}

	class := ClassOf(total)
	if class < 0 || class >= NumClasses {
		assertf("alloc: derived invalid class %d for total %d", class, total)
	}

	if chunk, ok := p.freelist.pop(class); ok {
		p.stats.recordHit(total)
		return userPointer(chunk), nil
	}

	offset, ok := p.bump(total)
	if !ok {
		return nil, fmt.Errorf("%w: requested %d bytes (total %d), %d of %d used", ErrPoolExhausted, requested, total, p.used(), p.capacity)
	}

	chunk := unsafe.Add(p.base, offset)
	setChunkSize(chunk, total)
	p.stats.recordMissBumpAlloc(total)

	return userPointer(chunk), nil
}

// allocLarge services an allocation whose total size meets or exceeds
// MaxSmallChunkBytes directly from the mapping shim, bypassing the pool's
// region and free-lists entirely.
func (p *Pool) allocLarge(total uintptr) (unsafe.Pointer, error) {
	region, err := p.mapper.Map(total)
	if err != nil {
		p.logger.Warn("large allocation failed", zap.Uintptr("size", total), zap.Error(err))
		return nil, err
	}

	base := regionBase(region)
	setChunkSize(base, total)
	p.stats.recordLargeAlloc(total)

	p.logger.Debug("large allocation", zap.Uintptr("size", total))

	return userPointer(base), nil
}

// Free releases a pointer previously returned by Alloc against this pool.
// Passing any other pointer, a pointer already freed, or a pointer from a
// different pool is undefined.
func (p *Pool) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	p.checkOpen()

	chunk := chunkFromUser(ptr)
	total := chunkSize(chunk)

	if total >= MaxSmallChunkBytes {
		if err := p.mapper.Unmap(unsafe.Slice((*byte)(chunk), int(total))); err != nil {
			p.logger.Warn("large free failed", zap.Error(err))
		} else {
			p.stats.recordLargeFree(total)
		}

		return
	}

	class := ClassOf(total)
	if class < 0 || class >= NumClasses {
		assertf("free: corrupt or foreign chunk header, class=%d total=%d", class, total)
	}

	p.freelist.push(chunk, class)
	p.stats.recordSmallFree(total)
}

// FreelistHead is a diagnostic accessor returning the raw head chunk
// pointer of a size class, or nil if empty.
func (p *Pool) FreelistHead(class int) unsafe.Pointer {
	if class < 0 || class >= NumClasses {
		return nil
	}

	return p.freelist.head(class)
}

// Stats returns a snapshot of the pool's optional counters. It is the zero
// StatsSnapshot if WithStats(false) was used.
func (p *Pool) Stats() StatsSnapshot {
	return p.stats.Snapshot()
}

// Capacity returns the pool's total region size after rounding.
func (p *Pool) Capacity() uintptr {
	return p.capacity
}

// Close unmaps the pool's region and removes the pool from the live-pool
// count, returning the mapping shim's release error, if any. No attempt is
// made to reclaim or redistribute free-list contents: they live inside the
// region being unmapped. Close is idempotent.
func (p *Pool) Close() error {
	if !p.closed.CAS(false, true) {
		return nil
	}

	livePools.Dec()
	p.logger.Debug("pool destroyed", zap.Uintptr("capacity", p.capacity))

	return p.mapper.Unmap(p.region)
}

// bump advances the cursor by total bytes and returns the offset it
// advanced from, or reports that the pool is exhausted.
func (p *Pool) bump(total uintptr) (uintptr, bool) {
	if !p.concurrent {
		next := p.cursor + total
		if next > p.capacity {
			return 0, false
		}
		old := p.cursor
		p.cursor = next
		return old, true
	}

	for {
		old := p.atomicCursor.Load()
		next := old + uint64(total)
		if next > uint64(p.capacity) {
			return 0, false
		}
		if p.atomicCursor.CAS(old, next) {
			// Belt-and-suspenders recheck: in this CAS encoding the
			// installed value is exactly the pre-checked next, so this
			// never trips, but it costs nothing to keep.
			if next > uint64(p.capacity) {
				p.atomicCursor.Sub(uint64(total))
				return 0, false
			}
			return uintptr(old), true
		}
	}
}

func (p *Pool) used() uintptr {
	if p.concurrent {
		return uintptr(p.atomicCursor.Load())
	}
	return p.cursor
}

func (p *Pool) checkOpen() {
	if p.debug && p.closed.Load() {
		panic("allocator: operation on a closed pool")
	}
}

// assertf reports an internal inconsistency that is never attributable to
// documented caller usage, and always hard aborts regardless of the pool's
// debug setting.
func assertf(format string, args ...any) {
	panic(fmt.Sprintf("allocator: internal inconsistency: "+format, args...))
}
