package allocator

import "errors"

// Sentinel errors reported synchronously from the calls that can fail:
// NewPool, Alloc, and Close (which reports only a failed release of the
// pool's region). Free always appears to succeed from the caller's
// perspective.
var (
	// ErrMapFailed is returned when the mapping shim could not acquire a
	// region from the operating system.
	ErrMapFailed = errors.New("allocator: mapping shim failed to acquire memory")

	// ErrUnmapFailed is returned when the mapping shim could not release a
	// region back to the operating system. Close still marks the pool
	// destroyed; the underlying region is simply leaked.
	ErrUnmapFailed = errors.New("allocator: mapping shim failed to release memory")

	// ErrPoolExhausted is returned by Alloc when a pool's bump cursor has
	// no room left for a small allocation, and by NewPool when the rounded
	// capacity exceeds the limit set with WithSystemMemoryLimit.
	ErrPoolExhausted = errors.New("allocator: pool capacity exhausted")

	// ErrTooManyPools is returned when MaxPools live pools already exist
	// in the process.
	ErrTooManyPools = errors.New("allocator: maximum number of live pools exceeded")
)
