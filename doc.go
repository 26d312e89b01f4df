// Package allocator implements a size-classed arena allocator with a
// segregated free-list cache and a large-object bypass.
//
// Consumers create one or more Pools, each backed by a single large,
// page-aligned anonymous memory mapping, and allocate and release against a
// specific Pool. Allocations smaller than 272 bytes (header included) are
// carved from the pool by bumping a monotonic cursor; freed small
// allocations are retained on per-size-class free-lists and reused before
// any further bump. Allocations at or above that threshold are satisfied by
// direct anonymous mappings and returned to the operating system on
// release.
//
// A Pool may be used from a single goroutine (plain bump cursor) or shared
// across many goroutines (atomic bump cursor), chosen once at construction
// via NewPool's concurrent argument. The per-class free-list mutexes are
// taken in both modes.
package allocator
