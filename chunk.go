package allocator

import "unsafe"

// A chunk is a byte range inside a pool's region, or a standalone mapping
// for the large path, prefixed by an 8-byte size header. On a free-list,
// offsets +8 and +16 hold the doubly-linked prev/next pointers. Every
// class but class 0 totals at least 24 bytes (header + prev + next) so
// the layout always fits; class 0 totals exactly 16 bytes (header + one
// pointer-sized slot), one slot short of a full doubly-linked node, and
// is handled separately below.

func chunkSize(c unsafe.Pointer) uintptr {
	return *(*uintptr)(c)
}

func setChunkSize(c unsafe.Pointer, v uintptr) {
	*(*uintptr)(c) = v
}

func chunkPrev(c unsafe.Pointer) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Add(c, HeaderBytes))
}

func setChunkPrev(c, v unsafe.Pointer) {
	*(*unsafe.Pointer)(unsafe.Add(c, HeaderBytes)) = v
}

func chunkNext(c unsafe.Pointer) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Add(c, 2*HeaderBytes))
}

func setChunkNext(c, v unsafe.Pointer) {
	*(*unsafe.Pointer)(unsafe.Add(c, 2*HeaderBytes)) = v
}

// degenerateNext and setDegenerateNext access class 0's sole free-list link.
// A class-0 chunk totals MinClassBytes (16) bytes: an 8-byte header leaves
// exactly one 8-byte slot, not the two a doubly-linked node needs, so class
// 0's free-list is singly-linked, reusing the slot at +8 that every other
// class uses for prev. freeList.push/pop route to these instead of
// chunkPrev/chunkNext/setChunkPrev/setChunkNext whenever the class is 0.
func degenerateNext(c unsafe.Pointer) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Add(c, HeaderBytes))
}

func setDegenerateNext(c, v unsafe.Pointer) {
	*(*unsafe.Pointer)(unsafe.Add(c, HeaderBytes)) = v
}

// userPointer returns the user-visible pointer for a chunk: the header is
// never exposed to callers.
func userPointer(chunk unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(chunk, HeaderBytes)
}

// chunkFromUser recovers the chunk header from a pointer previously
// returned by Pool.Alloc.
func chunkFromUser(ptr unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(ptr, -HeaderBytes)
}
