// Package bounded implements fixed-capacity arrays that live inside
// caller-owned memory. The arrays never allocate, never grow past the
// backing storage they were initialized with, and clamp or ignore
// out-of-range requests instead of failing.
package bounded

import "unsafe"

// arrayMagic marks an Array whose Init has run.
const arrayMagic uint32 = 0x53534131

// Array is a bounded array of T backed by a caller-provided slice.
// The capacity is the length of the backing slice and never changes.
// Not goroutine-safe; callers must synchronize concurrent access.
//
// An Array must not be copied after Init: copies share the backing
// storage but not the length.
type Array[T any] struct {
	data  []T // backing storage, len == cap == capacity
	n     int // elements in use
	magic uint32
}

// New returns an Array over backing, seeded with as many elements of
// seed as fit.
func New[T any](backing []T, seed ...T) Array[T] {
	var a Array[T]
	a.Init(backing, seed)
	return a
}

// Init makes a ready for use over backing. Elements of seed are copied
// in up to the capacity; the length is the number copied.
// Init may be called again to reset an Array onto new storage.
func (a *Array[T]) Init(backing []T, seed []T) {
	a.data = backing[:len(backing):len(backing)]
	a.n = copy(a.data, seed)
	a.magic = arrayMagic
}

// Len returns the number of elements in use.
func (a *Array[T]) Len() int {
	a.panicIfUninit()
	return a.n
}

// Cap returns the fixed capacity in elements.
func (a *Array[T]) Cap() int {
	a.panicIfUninit()
	return len(a.data)
}

// Available returns how many more elements fit before the array is full.
func (a *Array[T]) Available() int {
	a.panicIfUninit()
	return len(a.data) - a.n
}

// ElemSize returns the size of one element in bytes.
func (a *Array[T]) ElemSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// ByteSize returns Len() * ElemSize().
func (a *Array[T]) ByteSize() int {
	return a.Len() * a.ElemSize()
}

// Clear sets the length to zero. Buffer contents are left as they are.
func (a *Array[T]) Clear() {
	a.panicIfUninit()
	a.n = 0
}

// Resize sets the length to n, clamped to [0, Cap()].
// Growing zero-fills the newly exposed elements; shrinking leaves the
// released tail untouched. Returns the resulting length.
func (a *Array[T]) Resize(n int) int {
	a.panicIfUninit()
	if n < 0 {
		n = 0
	}
	if n == a.n {
		return n
	}
	if n > a.n {
		n = min(n, len(a.data))
		clear(a.data[a.n:n])
	}
	a.n = n
	return n
}

// CopyAt overwrites elements starting at index i with src.
// Elements that would land past the capacity are dropped. If i is
// beyond the current length, the gap is zero-filled first. The length
// only ever grows. Returns the number of elements written; a negative
// i, an i past the capacity or an empty src write nothing.
func (a *Array[T]) CopyAt(i int, src []T) int {
	a.panicIfUninit()
	if i < 0 || i > len(a.data) || len(src) == 0 {
		return 0
	}
	if i > a.n {
		clear(a.data[a.n:i])
	}
	w := copy(a.data[i:], src)
	if end := i + w; end > a.n {
		a.n = end
	}
	return w
}

// Append copies src onto the end of the array, dropping whatever does
// not fit. Returns the number of elements appended.
func (a *Array[T]) Append(src ...T) int {
	a.panicIfUninit()
	return a.CopyAt(a.n, src)
}

// AppendArray appends the used elements of other. The append is all or
// nothing: if other does not fit in Available(), a is left unchanged
// and AppendArray returns false.
func (a *Array[T]) AppendArray(other *Array[T]) bool {
	a.panicIfUninit()
	other.panicIfUninit()
	if other.n > len(a.data)-a.n {
		return false
	}
	copy(a.data[a.n:], other.data[:other.n])
	a.n += other.n
	return true
}

// Replace overwrites the contents of a with the used elements of other.
// If other holds more than Cap() elements the copy is clamped. The
// length becomes the number of elements copied, which is returned.
func (a *Array[T]) Replace(other *Array[T]) int {
	a.panicIfUninit()
	other.panicIfUninit()
	a.n = copy(a.data, other.data[:other.n])
	return a.n
}

// SliceInto replaces the contents of dst with the elements of a in
// [start, end). Both start and end must be less than Len(), end must
// not be less than start, and the span must fit in dst's capacity;
// otherwise dst is left unchanged and SliceInto returns false.
func (a *Array[T]) SliceInto(start, end int, dst *Array[T]) bool {
	a.panicIfUninit()
	dst.panicIfUninit()
	if end < start || start < 0 || start >= a.n || end >= a.n {
		return false
	}
	span := end - start
	if span > len(dst.data) {
		return false
	}
	copy(dst.data, a.data[start:end])
	dst.n = span
	return true
}

// Push appends v if there is room. Returns false when the array is full.
func (a *Array[T]) Push(v T) bool {
	a.panicIfUninit()
	if a.n == len(a.data) {
		return false
	}
	a.data[a.n] = v
	a.n++
	return true
}

// Pop removes and returns the last element. On an empty array it
// returns the zero value and false.
func (a *Array[T]) Pop() (T, bool) {
	a.panicIfUninit()
	if a.n == 0 {
		var zero T
		return zero, false
	}
	a.n--
	return a.data[a.n], true
}

// Get returns the element at index i, or the zero value if i is not
// within [0, Len()).
func (a *Array[T]) Get(i int) T {
	v, _ := a.At(i)
	return v
}

// At returns the element at index i and whether i was within [0, Len()).
func (a *Array[T]) At(i int) (T, bool) {
	a.panicIfUninit()
	if i < 0 || i >= a.n {
		var zero T
		return zero, false
	}
	return a.data[i], true
}

// Set stores v at index i if i is within [0, Len()).
func (a *Array[T]) Set(i int, v T) bool {
	a.panicIfUninit()
	if i < 0 || i >= a.n {
		return false
	}
	a.data[i] = v
	return true
}

// Items returns the elements in use. The slice aliases the backing
// storage and is capped at Len(), so appending to it never touches the
// unused tail.
func (a *Array[T]) Items() []T {
	a.panicIfUninit()
	return a.data[:a.n:a.n]
}

// panicIfUninit panics if Init has not run on a.
func (a *Array[T]) panicIfUninit() {
	if a.magic != arrayMagic {
		panic("bounded: Array used before Init")
	}
}
