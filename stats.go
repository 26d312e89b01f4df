package allocator

import (
	"go.uber.org/atomic"

	"github.com/pbnjay/memory"
)

// Stats holds the pool's optional counters: hits and
// misses on the free-list, bytes currently held in free-lists, bytes
// currently in use by small and large allocations, and cumulative
// allocation counts. Statistics are advisory only — nothing in Pool
// branches on a Stats value — and updates use go.uber.org/atomic's typed
// counters rather than bare sync/atomic calls, so every update site reads
// as a plain method call instead of a pointer-and-width pair.
type Stats struct {
	hits          atomic.Uint64
	misses        atomic.Uint64
	freelistBytes atomic.Int64
	smallInUse    atomic.Int64
	largeInUse    atomic.Int64
	smallAllocs   atomic.Uint64
	largeAllocs   atomic.Uint64
}

// StatsSnapshot is an immutable copy of a Stats at one instant.
type StatsSnapshot struct {
	Hits            uint64
	Misses          uint64
	FreelistBytes   int64
	SmallInUseBytes int64
	LargeInUseBytes int64
	SmallAllocs     uint64
	LargeAllocs     uint64
}

// Snapshot copies the current counter values. A nil *Stats (statistics
// disabled via WithStats(false)) yields the zero StatsSnapshot.
func (s *Stats) Snapshot() StatsSnapshot {
	if s == nil {
		return StatsSnapshot{}
	}

	return StatsSnapshot{
		Hits:            s.hits.Load(),
		Misses:          s.misses.Load(),
		FreelistBytes:   s.freelistBytes.Load(),
		SmallInUseBytes: s.smallInUse.Load(),
		LargeInUseBytes: s.largeInUse.Load(),
		SmallAllocs:     s.smallAllocs.Load(),
		LargeAllocs:     s.largeAllocs.Load(),
	}
}

func (s *Stats) recordHit(total uintptr) {
	if s == nil {
		return
	}

	s.hits.Inc()
	s.freelistBytes.Sub(int64(total))
	s.smallInUse.Add(int64(total))
	s.smallAllocs.Inc()
}

func (s *Stats) recordMissBumpAlloc(total uintptr) {
	if s == nil {
		return
	}

	s.misses.Inc()
	s.smallInUse.Add(int64(total))
	s.smallAllocs.Inc()
}

func (s *Stats) recordSmallFree(total uintptr) {
	if s == nil {
		return
	}

	s.smallInUse.Sub(int64(total))
	s.freelistBytes.Add(int64(total))
}

func (s *Stats) recordLargeAlloc(total uintptr) {
	if s == nil {
		return
	}

	s.largeInUse.Add(int64(total))
	s.largeAllocs.Inc()
}

func (s *Stats) recordLargeFree(total uintptr) {
	if s == nil {
		return
	}

	s.largeInUse.Sub(int64(total))
}

// SystemMemory reports the host's total physical memory. It backs
// WithSystemMemoryLimit and replaces the teacher's runtime.MemStats-based
// getSystemMemory() with the ecosystem's dedicated probe.
func SystemMemory() uint64 {
	return memory.TotalMemory()
}
