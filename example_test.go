package allocator_test

import (
	"fmt"

	"github.com/misachi/allocator"
)

func Example() {
	pool, err := allocator.NewPool(allocator.MinPoolBytes, false)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	ptr, err := pool.Alloc(32)
	if err != nil {
		panic(err)
	}
	pool.Free(ptr)

	fmt.Println(pool.Stats().SmallInUseBytes)
	// Output: 0
}
