package platform

import (
	"fmt"
	"sync"
)

// BufferAllocator hands out cursor bitmap buffers. Every buffer returned by
// Allocate must be passed to Release exactly once.
type BufferAllocator interface {
	Allocate(size int) ([]byte, error)
	Release(buf []byte)
}

// MaxCursorBytes is the default bound on a single cursor bitmap (256x256 at
// 4 bytes per pixel). Larger sizes are reported as allocation failures.
const MaxCursorBytes = 256 * 256 * 4

// PoolAllocator recycles buffers between queries so polling does not allocate
// on every tick.
type PoolAllocator struct {
	pool     sync.Pool
	maxBytes int
}

var _ BufferAllocator = (*PoolAllocator)(nil)

// NewPoolAllocator creates an empty buffer pool bounded by MaxCursorBytes.
func NewPoolAllocator() *PoolAllocator {
	return NewPoolAllocatorLimit(MaxCursorBytes)
}

// NewPoolAllocatorLimit creates a pool that refuses buffers larger than
// maxBytes. Zero or negative means no limit.
func NewPoolAllocatorLimit(maxBytes int) *PoolAllocator {
	return &PoolAllocator{maxBytes: maxBytes}
}

// Allocate returns a zeroed buffer of exactly size bytes.
func (p *PoolAllocator) Allocate(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid cursor buffer size %d", size)
	}
	if p.maxBytes > 0 && size > p.maxBytes {
		return nil, fmt.Errorf("cursor buffer size %d exceeds limit %d", size, p.maxBytes)
	}

	if v, ok := p.pool.Get().(*[]byte); ok && cap(*v) >= size {
		buf := (*v)[:size]
		clear(buf)
		return buf, nil
	}
	return make([]byte, size), nil
}

// Release returns buf to the pool. The caller must not touch buf afterwards.
func (p *PoolAllocator) Release(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	buf = buf[:0]
	p.pool.Put(&buf)
}
