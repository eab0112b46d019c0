package bounded

import (
	"reflect"
	"unsafe"
)

// plainSize returns the size of T after checking that T is plain data:
// numbers, bools, and arrays or unpadded structs of them. Byte-level
// operations reinterpret memory and are only defined for such types.
func plainSize[T any]() int {
	t := reflect.TypeFor[T]()
	if t.Size() == 0 || !isPlain(t) {
		panic("bounded: element type " + t.String() + " is not plain data")
	}
	return int(t.Size())
}

func isPlain(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return isPlain(t.Elem())
	case reflect.Struct:
		var sum uintptr
		for i := range t.NumField() {
			f := t.Field(i)
			if !isPlain(f.Type) {
				return false
			}
			sum += f.Type.Size()
		}
		// Padding bytes are not preserved by value copies.
		return sum == t.Size()
	}
	return false
}

// asBytes returns the memory of s as a byte slice without copying.
func asBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(s[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*size)
}

// InitBytes is like Init but seeds the array from raw bytes, which are
// reinterpreted as elements in host byte order. len(seed) must be a
// multiple of the element size. T must be plain data.
func (a *Array[T]) InitBytes(backing []T, seed []byte) {
	size := plainSize[T]()
	if len(seed)%size != 0 {
		panic("bounded: seed length is not a multiple of the element size")
	}
	a.Init(backing, nil)
	a.n = copy(asBytes(a.data), seed) / size
}

// CopyBytesAt is the byte-level form of CopyAt: src is written starting
// at element index i, clamped to the end of the backing storage. The
// length grows to cover every whole element written. Returns the number
// of bytes written. T must be plain data.
func (a *Array[T]) CopyBytesAt(i int, src []byte) int {
	size := plainSize[T]()
	a.panicIfUninit()
	if i < 0 || i > len(a.data) || len(src) == 0 {
		return 0
	}
	if i > a.n {
		clear(a.data[a.n:i])
	}
	buf := asBytes(a.data)
	w := copy(buf[i*size:], src)
	if end := (i*size + w) / size; end > a.n {
		a.n = end
	}
	return w
}

// AppendBytes copies src onto the end of the array, dropping bytes past
// the capacity. Returns the number of bytes written. T must be plain data.
func (a *Array[T]) AppendBytes(src []byte) int {
	a.panicIfUninit()
	return a.CopyBytesAt(a.n, src)
}

// Bytes returns the elements in use as raw bytes, aliasing the backing
// storage. T must be plain data.
func (a *Array[T]) Bytes() []byte {
	plainSize[T]()
	a.panicIfUninit()
	return asBytes(a.data[:a.n])
}
