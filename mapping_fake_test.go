package allocator

import "fmt"

// memMapper is a pure-Go mapper backed by make([]byte, n), used by this
// package's own tests so they exercise Pool's logic without depending on a
// real OS mapping or a specific platform's mapping_*.go file. failNext lets
// a test inject a one-shot mapping failure.
type memMapper struct {
	failNext bool
}

func (m *memMapper) Map(size uintptr) ([]byte, error) {
	if m.failNext {
		m.failNext = false
		return nil, fmt.Errorf("%w: injected failure", ErrMapFailed)
	}
	return make([]byte, size), nil
}

func (m *memMapper) Unmap(region []byte) error {
	return nil
}
