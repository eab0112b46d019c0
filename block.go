package bounded

import (
	"encoding/binary"
	"math"
)

// HeaderSize is the number of bytes a Block reserves at the front of its
// memory for the header.
const HeaderSize = 16

// blockMagic is written at offset 0 of every initialized Block ("SSA1").
const blockMagic uint32 = 0x31415353

// Header field offsets. All fields are little-endian uint32.
const (
	offMagic    = 0
	offCapBytes = 4
	offLen      = 8
	offElemSize = 12
)

// Block is an untyped bounded array whose header is stored in-band, in
// the first HeaderSize bytes of the caller's memory. Any holder of the
// memory can recover the array with OpenBlock. Block values are views:
// two Blocks over the same memory share length and contents.
//
// Not goroutine-safe; callers must synchronize concurrent access.
type Block struct {
	mem []byte
}

// BlockSize returns the number of bytes of memory needed for a Block of
// n elements of elemSize bytes.
func BlockSize(n, elemSize int) int {
	return HeaderSize + n*elemSize
}

// InitBlock writes a Block header into mem and returns the Block. Every
// byte after the header is element storage, so len(mem)-HeaderSize must
// be a multiple of elemSize. Bytes of seed are copied in up to the
// capacity and its whole elements become the initial length.
func InitBlock(mem []byte, elemSize int, seed []byte) Block {
	if elemSize <= 0 {
		panic("bounded: element size must be positive")
	}
	if len(mem) < HeaderSize {
		panic("bounded: memory smaller than block header")
	}
	capBytes := len(mem) - HeaderSize
	if capBytes%elemSize != 0 {
		panic("bounded: block capacity is not a multiple of the element size")
	}
	if uint64(capBytes) > math.MaxUint32 {
		panic("bounded: block capacity exceeds 4 GiB")
	}
	if len(seed)%elemSize != 0 {
		panic("bounded: seed length is not a multiple of the element size")
	}

	le := binary.LittleEndian
	le.PutUint32(mem[offMagic:], blockMagic)
	le.PutUint32(mem[offCapBytes:], uint32(capBytes))
	le.PutUint32(mem[offElemSize:], uint32(elemSize))
	n := copy(mem[HeaderSize:], seed) / elemSize
	le.PutUint32(mem[offLen:], uint32(n))
	return Block{mem: mem}
}

// OpenBlock recovers a Block from memory previously passed to InitBlock.
// It panics if the memory does not carry a valid header.
func OpenBlock(mem []byte) Block {
	b := Block{mem: mem}
	b.header()
	return b
}

// header validates and returns the header fields.
func (b Block) header() (capBytes, n, elemSize int) {
	if len(b.mem) < HeaderSize {
		panic("bounded: Block used before InitBlock")
	}
	le := binary.LittleEndian
	if le.Uint32(b.mem[offMagic:]) != blockMagic {
		panic("bounded: Block used before InitBlock")
	}
	capBytes = int(le.Uint32(b.mem[offCapBytes:]))
	n = int(le.Uint32(b.mem[offLen:]))
	elemSize = int(le.Uint32(b.mem[offElemSize:]))
	if elemSize == 0 || capBytes%elemSize != 0 ||
		HeaderSize+capBytes > len(b.mem) || n > capBytes/elemSize {
		panic("bounded: corrupt Block header")
	}
	return capBytes, n, elemSize
}

func (b Block) setLen(n int) {
	binary.LittleEndian.PutUint32(b.mem[offLen:], uint32(n))
}

// data returns the full element storage.
func (b Block) data(capBytes int) []byte {
	return b.mem[HeaderSize : HeaderSize+capBytes : HeaderSize+capBytes]
}

// Len returns the number of elements in use.
func (b Block) Len() int {
	_, n, _ := b.header()
	return n
}

// Cap returns the capacity in elements.
func (b Block) Cap() int {
	capBytes, _, elemSize := b.header()
	return capBytes / elemSize
}

// ElemSize returns the element size in bytes.
func (b Block) ElemSize() int {
	_, _, elemSize := b.header()
	return elemSize
}

// ByteSize returns Len() * ElemSize().
func (b Block) ByteSize() int {
	_, n, elemSize := b.header()
	return n * elemSize
}

// Available returns how many more elements fit.
func (b Block) Available() int {
	capBytes, n, elemSize := b.header()
	return capBytes/elemSize - n
}

// Clear sets the length to zero without touching the contents.
func (b Block) Clear() {
	b.header()
	b.setLen(0)
}

// Resize sets the length to n, clamped to [0, Cap()], zero-filling any
// newly exposed elements. Returns the resulting length.
func (b Block) Resize(n int) int {
	capBytes, cur, elemSize := b.header()
	if n < 0 {
		n = 0
	}
	if n == cur {
		return n
	}
	if n > cur {
		n = min(n, capBytes/elemSize)
		clear(b.data(capBytes)[cur*elemSize : n*elemSize])
	}
	b.setLen(n)
	return n
}

// CopyAt writes src starting at element index i, clamped to the end of
// the storage. A gap between the current length and i is zero-filled.
// The length grows to cover every whole element written and never
// shrinks. Returns the number of bytes written.
func (b Block) CopyAt(i int, src []byte) int {
	capBytes, n, elemSize := b.header()
	if i < 0 || i > capBytes/elemSize || len(src) == 0 {
		return 0
	}
	data := b.data(capBytes)
	if i > n {
		clear(data[n*elemSize : i*elemSize])
	}
	start := i * elemSize
	w := copy(data[start:], src)
	if end := (start + w) / elemSize; end > n {
		b.setLen(end)
	}
	return w
}

// Append writes src after the last element in use, dropping bytes past
// the capacity. Returns the number of bytes written.
func (b Block) Append(src []byte) int {
	return b.CopyAt(b.Len(), src)
}

// AppendBlock appends the elements in use of other. Nothing is written
// unless all of them fit; the result reports whether the append happened.
// It panics if the element sizes differ.
func (b Block) AppendBlock(other Block) bool {
	capBytes, n, elemSize := b.header()
	_, on, oElemSize := other.header()
	mustMatch(elemSize, oElemSize)
	if on > capBytes/elemSize-n {
		return false
	}
	src := other.Bytes()
	copy(b.data(capBytes)[n*elemSize:], src)
	b.setLen(n + on)
	return true
}

// Replace overwrites the contents with the elements in use of other,
// clamped to the capacity. The length becomes the number of elements
// copied, which is returned. It panics if the element sizes differ.
func (b Block) Replace(other Block) int {
	capBytes, _, elemSize := b.header()
	_, _, oElemSize := other.header()
	mustMatch(elemSize, oElemSize)
	w := copy(b.data(capBytes), other.Bytes()) / elemSize
	b.setLen(w)
	return w
}

// SliceInto replaces the contents of dst with the elements of b in
// [start, end). Both indices must be less than Len(), end must not be
// less than start, and the span must fit in dst; otherwise dst is left
// unchanged and SliceInto returns false. It panics if the element sizes
// differ.
func (b Block) SliceInto(start, end int, dst Block) bool {
	capBytes, n, elemSize := b.header()
	dCapBytes, _, dElemSize := dst.header()
	mustMatch(elemSize, dElemSize)
	if end < start || start < 0 || start >= n || end >= n {
		return false
	}
	span := (end - start) * elemSize
	if span > dCapBytes {
		return false
	}
	copy(dst.data(dCapBytes), b.data(capBytes)[start*elemSize:end*elemSize])
	dst.setLen(end - start)
	return true
}

// Push appends one element. v must be exactly ElemSize() bytes.
// Returns false if v has the wrong size or the block is full.
func (b Block) Push(v []byte) bool {
	capBytes, n, elemSize := b.header()
	if len(v) != elemSize || n == capBytes/elemSize {
		return false
	}
	copy(b.data(capBytes)[n*elemSize:], v)
	b.setLen(n + 1)
	return true
}

// Pop removes the last element and returns its bytes. The returned slice
// aliases the storage and stays valid until the slot is written again.
// On an empty block Pop returns nil and false.
func (b Block) Pop() ([]byte, bool) {
	capBytes, n, elemSize := b.header()
	if n == 0 {
		return nil, false
	}
	n--
	b.setLen(n)
	off := n * elemSize
	return b.data(capBytes)[off : off+elemSize : off+elemSize], true
}

// Get returns the bytes of element i, aliasing the storage, or nil if i
// is not within [0, Len()).
func (b Block) Get(i int) []byte {
	capBytes, n, elemSize := b.header()
	if i < 0 || i >= n {
		return nil
	}
	off := i * elemSize
	return b.data(capBytes)[off : off+elemSize : off+elemSize]
}

// Set overwrites element i with v. It does nothing and returns false if
// i is not within [0, Len()) or v is not exactly ElemSize() bytes.
func (b Block) Set(i int, v []byte) bool {
	capBytes, n, elemSize := b.header()
	if i < 0 || i >= n || len(v) != elemSize {
		return false
	}
	copy(b.data(capBytes)[i*elemSize:], v)
	return true
}

// Bytes returns the elements in use, aliasing the storage.
func (b Block) Bytes() []byte {
	capBytes, n, elemSize := b.header()
	used := n * elemSize
	return b.data(capBytes)[:used:used]
}

func mustMatch(elemSize, other int) {
	if elemSize != other {
		panic("bounded: element size mismatch")
	}
}
