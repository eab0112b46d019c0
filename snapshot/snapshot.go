// Package snapshot persists bounded arrays as self-describing CBOR
// documents and restores them into caller-owned arrays.
//
// A snapshot records the capacity, element size and length of the array
// it was taken from, the elements in use, and a BLAKE3-256 digest of the
// encoded elements. Restoring never grows the destination: elements past
// its capacity are dropped, exactly as with Array.Replace.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"

	"github.com/pavanmanishd/bounded"
)

// Version is the snapshot format written by this package.
const Version = 1

// Kind tells which bounded type a snapshot was taken from.
type Kind uint8

const (
	KindArray Kind = 1 // bounded.Array, items are a CBOR array of T
	KindBlock Kind = 2 // bounded.Block, items are a CBOR byte string
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindBlock:
		return "block"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

var (
	// ErrVersion is returned for snapshots of an unknown format version.
	ErrVersion = errors.New("snapshot: unsupported version")
	// ErrChecksum is returned when the items do not match their digest.
	ErrChecksum = errors.New("snapshot: checksum mismatch")
	// ErrKind is returned when restoring into the wrong bounded type.
	ErrKind = errors.New("snapshot: kind mismatch")
	// ErrElemSize is returned when the destination has a different element size.
	ErrElemSize = errors.New("snapshot: element size mismatch")
	// ErrCorrupt is returned when the items disagree with the header.
	ErrCorrupt = errors.New("snapshot: corrupt items")
)

// Header describes a snapshot without decoding its items.
type Header struct {
	Version  int
	Kind     Kind
	Capacity int // elements
	ElemSize int // bytes
	Len      int // elements
	Sum      [32]byte
}

type envelope struct {
	Version  int             `cbor:"1,keyasint"`
	Kind     Kind            `cbor:"2,keyasint"`
	Capacity int             `cbor:"3,keyasint"`
	ElemSize int             `cbor:"4,keyasint"`
	Len      int             `cbor:"5,keyasint"`
	Items    cbor.RawMessage `cbor:"6,keyasint"`
	Sum      []byte          `cbor:"7,keyasint"`
}

// encMode uses Core Deterministic Encoding so equal arrays always
// produce identical snapshots.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode takes a snapshot of the elements in use of a.
func Encode[T any](a *bounded.Array[T]) ([]byte, error) {
	items, err := encMode.Marshal(a.Items())
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode items: %w", err)
	}
	return seal(KindArray, a.Cap(), a.ElemSize(), a.Len(), items)
}

// Decode restores a snapshot taken with Encode into a, replacing its
// contents. a must already be initialized over its backing storage.
// Returns the number of elements restored, which is less than the
// snapshot's length when a is smaller.
func Decode[T any](data []byte, a *bounded.Array[T]) (int, error) {
	env, err := open(data)
	if err != nil {
		return 0, err
	}
	if env.Kind != KindArray {
		return 0, fmt.Errorf("%w: have %s, want %s", ErrKind, env.Kind, KindArray)
	}
	if env.ElemSize != a.ElemSize() {
		return 0, fmt.Errorf("%w: snapshot has %d bytes, array has %d", ErrElemSize, env.ElemSize, a.ElemSize())
	}
	var items []T
	if err := decMode.Unmarshal(env.Items, &items); err != nil {
		return 0, fmt.Errorf("snapshot: decode items: %w", err)
	}
	if len(items) != env.Len {
		return 0, fmt.Errorf("%w: %d items, header says %d", ErrCorrupt, len(items), env.Len)
	}
	a.Clear()
	return a.Append(items...), nil
}

// EncodeBlock takes a snapshot of the elements in use of b.
func EncodeBlock(b bounded.Block) ([]byte, error) {
	items, err := encMode.Marshal(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode items: %w", err)
	}
	return seal(KindBlock, b.Cap(), b.ElemSize(), b.Len(), items)
}

// DecodeBlock restores a snapshot taken with EncodeBlock into b,
// replacing its contents. Returns the number of elements restored.
func DecodeBlock(data []byte, b bounded.Block) (int, error) {
	env, err := open(data)
	if err != nil {
		return 0, err
	}
	if env.Kind != KindBlock {
		return 0, fmt.Errorf("%w: have %s, want %s", ErrKind, env.Kind, KindBlock)
	}
	if env.ElemSize != b.ElemSize() {
		return 0, fmt.Errorf("%w: snapshot has %d bytes, block has %d", ErrElemSize, env.ElemSize, b.ElemSize())
	}
	var raw []byte
	if err := decMode.Unmarshal(env.Items, &raw); err != nil {
		return 0, fmt.Errorf("snapshot: decode items: %w", err)
	}
	if len(raw) != env.Len*env.ElemSize {
		return 0, fmt.Errorf("%w: %d bytes, header says %d elements", ErrCorrupt, len(raw), env.Len)
	}
	b.Clear()
	b.Append(raw)
	return b.Len(), nil
}

// Inspect verifies a snapshot and returns its header.
func Inspect(data []byte) (Header, error) {
	env, err := open(data)
	if err != nil {
		return Header{}, err
	}
	h := Header{
		Version:  env.Version,
		Kind:     env.Kind,
		Capacity: env.Capacity,
		ElemSize: env.ElemSize,
		Len:      env.Len,
	}
	copy(h.Sum[:], env.Sum)
	return h, nil
}

// Items decodes the items of an array snapshot of T without restoring
// them anywhere.
func Items[T any](data []byte) ([]T, error) {
	env, err := open(data)
	if err != nil {
		return nil, err
	}
	if env.Kind != KindArray {
		return nil, fmt.Errorf("%w: have %s, want %s", ErrKind, env.Kind, KindArray)
	}
	var items []T
	if err := decMode.Unmarshal(env.Items, &items); err != nil {
		return nil, fmt.Errorf("snapshot: decode items: %w", err)
	}
	return items, nil
}

func seal(kind Kind, capacity, elemSize, n int, items []byte) ([]byte, error) {
	sum := blake3.Sum256(items)
	data, err := encMode.Marshal(envelope{
		Version:  Version,
		Kind:     kind,
		Capacity: capacity,
		ElemSize: elemSize,
		Len:      n,
		Items:    items,
		Sum:      sum[:],
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode envelope: %w", err)
	}
	return data, nil
}

func open(data []byte) (envelope, error) {
	var env envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("snapshot: decode envelope: %w", err)
	}
	if env.Version != Version {
		return envelope{}, fmt.Errorf("%w: %d", ErrVersion, env.Version)
	}
	sum := blake3.Sum256(env.Items)
	if !bytes.Equal(sum[:], env.Sum) {
		return envelope{}, ErrChecksum
	}
	if !env.sane() {
		return envelope{}, fmt.Errorf("%w: header (cap %d, len %d, elem size %d)",
			ErrCorrupt, env.Capacity, env.Len, env.ElemSize)
	}
	return env, nil
}

// sane reports whether the header fields describe storage that could
// exist. Every item takes at least one byte of Items, so Len is bounded
// by the size of the data itself.
func (env envelope) sane() bool {
	if env.ElemSize <= 0 || env.Capacity < 0 || env.Len < 0 || env.Len > env.Capacity {
		return false
	}
	if env.Capacity > math.MaxInt/env.ElemSize || env.Len > len(env.Items) {
		return false
	}
	if env.Kind == KindBlock {
		// Block capacities are stored as uint32 bytes.
		if uint64(env.Capacity)*uint64(env.ElemSize) > math.MaxUint32 {
			return false
		}
		if env.Len*env.ElemSize > len(env.Items) {
			return false
		}
	}
	return true
}
