package allocator

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// newTestChunk carves an isolated, correctly-sized backing array for a
// single chunk so free-list tests don't need a live Pool.
func newTestChunk(total uintptr) unsafe.Pointer {
	buf := make([]byte, total)
	return unsafe.Pointer(&buf[0])
}

func TestFreeListPopEmptyIsMiss(t *testing.T) {
	var fl freeList
	chunk, ok := fl.pop(3)
	require.False(t, ok)
	require.Nil(t, chunk)
}

// TestFreeListLIFOTwoChunks checks that the most recently pushed chunk
// becomes the head and that the two chunks are linked in both directions.
func TestFreeListLIFOTwoChunks(t *testing.T) {
	var fl freeList
	class := ClassOf(48)
	require.Equal(t, 4, class)

	a := newTestChunk(48)
	b := newTestChunk(48)
	setChunkSize(a, 48)
	setChunkSize(b, 48)

	fl.push(a, class)
	fl.push(b, class)

	require.Equal(t, b, fl.head(class))
	require.Equal(t, a, chunkNext(b))
	require.Equal(t, b, chunkPrev(a))
	require.Nil(t, chunkNext(a))
	require.Nil(t, chunkPrev(b))
}

func TestFreeListRoundTripPopMatchesPush(t *testing.T) {
	var fl freeList
	chunk := newTestChunk(24)
	setChunkSize(chunk, 24)

	fl.push(chunk, 1)
	popped, ok := fl.pop(1)
	require.True(t, ok)
	require.Equal(t, chunk, popped)

	_, ok = fl.pop(1)
	require.False(t, ok)
}

// TestFreeListWellFormedAfterMixedOps checks that after a sequence of
// pushes and pops, the head's prev is nil, and prev/next are mutual
// inverses throughout the chain. Class 0 is excluded here: its
// 16-byte total chunk has no room for a real prev/next pair (see
// TestFreeListClassZeroIsSinglyLinked).
func TestFreeListWellFormedAfterMixedOps(t *testing.T) {
	var fl freeList
	const class = 1
	const total = 24

	chunks := make([]unsafe.Pointer, 5)
	for i := range chunks {
		chunks[i] = newTestChunk(total)
		setChunkSize(chunks[i], total)
		fl.push(chunks[i], class)
	}

	// pop two, push one back, then walk the whole list.
	_, _ = fl.pop(class)
	popped, _ := fl.pop(class)
	fl.push(popped, class)

	assertWellFormed(t, &fl, class)
}

// TestFreeListClassZeroIsSinglyLinked exercises class 0 specifically: its
// 16-byte total chunk (header + one pointer slot) cannot hold both a prev
// and a next pointer, so push/pop must never touch the byte range beyond
// the chunk's own 16 bytes.
func TestFreeListClassZeroIsSinglyLinked(t *testing.T) {
	var fl freeList

	a := newTestChunk(16)
	setChunkSize(a, 16)
	b := newTestChunk(16)
	setChunkSize(b, 16)

	fl.push(a, 0)
	fl.push(b, 0)

	require.Equal(t, b, fl.head(0))

	popped, ok := fl.pop(0)
	require.True(t, ok)
	require.Equal(t, b, popped)

	popped, ok = fl.pop(0)
	require.True(t, ok)
	require.Equal(t, a, popped)

	_, ok = fl.pop(0)
	require.False(t, ok)
}

func assertWellFormed(t *testing.T, fl *freeList, class int) {
	t.Helper()

	head := fl.head(class)
	if head == nil {
		return
	}
	require.Nil(t, chunkPrev(head))

	prev := head
	node := chunkNext(head)
	for node != nil {
		require.Equal(t, prev, chunkPrev(node), "prev/next must be mutual inverses")
		prev = node
		node = chunkNext(node)
	}
}
