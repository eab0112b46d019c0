package bounded

import "unsafe"

// Region carves bounded storage out of one caller-owned buffer.
// It is a bump allocator that never grows: once the buffer is used up,
// further requests return nil. Reset makes the whole buffer available
// again. Not goroutine-safe.
type Region struct {
	buf    []byte
	offset uintptr // next free byte within buf
}

// NewRegion returns a Region over buf.
func NewRegion(buf []byte) *Region {
	return &Region{buf: buf}
}

// AllocBytes returns n bytes of the region, aligned to pointer size.
// Returns nil if n <= 0 or fewer than n bytes remain.
func (r *Region) AllocBytes(n int) []byte {
	return r.alloc(n, unsafe.Sizeof(uintptr(0)))
}

// alloc hands out n bytes whose address is a multiple of align.
func (r *Region) alloc(n int, align uintptr) []byte {
	if n <= 0 || len(r.buf) == 0 {
		return nil
	}
	base := uintptr(unsafe.Pointer(&r.buf[0]))
	mask := align - 1
	off := ((base + r.offset + mask) &^ mask) - base
	if off+uintptr(n) > uintptr(len(r.buf)) {
		return nil
	}
	start := int(off)
	r.offset = off + uintptr(n)
	return r.buf[start : start+n : start+n]
}

// Block carves memory for a Block of n elements of elemSize bytes and
// initializes it with seed. Returns false if n is negative or the region
// is out of room. It panics if elemSize is not positive.
func (r *Region) Block(n, elemSize int, seed []byte) (Block, bool) {
	if elemSize <= 0 {
		panic("bounded: element size must be positive")
	}
	if n < 0 || n > (len(r.buf)-HeaderSize)/elemSize {
		return Block{}, false
	}
	mem := r.AllocBytes(BlockSize(n, elemSize))
	if mem == nil {
		return Block{}, false
	}
	return InitBlock(mem, elemSize, seed), true
}

// Carve returns a zeroed slice of n elements of T taken from the region,
// suitable as backing storage for an Array. T must be plain data, since
// the region's memory is not scanned for pointers. Returns nil if n <= 0
// or the region is out of room.
func Carve[T any](r *Region, n int) []T {
	size := plainSize[T]()
	if n <= 0 {
		return nil
	}
	var zero T
	align := max(unsafe.Alignof(zero), 1)
	b := r.alloc(n*size, align)
	if b == nil {
		return nil
	}
	clear(b)
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}

// Reset makes the whole buffer available again. Memory handed out
// earlier is reused by later requests.
func (r *Region) Reset() {
	r.offset = 0
}

// SizeInUse returns the bytes handed out so far, including alignment padding.
func (r *Region) SizeInUse() int {
	return int(r.offset)
}

// Capacity returns the size of the underlying buffer.
func (r *Region) Capacity() int {
	return len(r.buf)
}

// Available returns the bytes not yet handed out. Alignment may make
// the usable amount slightly smaller.
func (r *Region) Available() int {
	return len(r.buf) - int(r.offset)
}

// Utilization returns the ratio of bytes in use to capacity (0.0 to 1.0).
// Returns 0.0 for an empty region.
func (r *Region) Utilization() float64 {
	if len(r.buf) == 0 {
		return 0
	}
	return float64(r.offset) / float64(len(r.buf))
}
