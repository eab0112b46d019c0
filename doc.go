// Package bounded implements fixed-capacity arrays over caller-owned memory.
//
// # Overview
//
// A bounded array has a capacity fixed when it is initialized and a length
// that varies between zero and that capacity. The storage belongs to the
// caller: a field of a larger struct, a stack or package-level array, or a
// piece of a Region. The package never allocates or frees it.
//
// Useful for:
//
//   - Fixed-size tables embedded in larger structs
//   - Memory-constrained code that must not grow
//   - Shared or mapped memory that another party reopens (Block)
//
// # Basic Usage
//
//	var storage [10]uint32
//	a := bounded.New(storage[:])
//
//	a.Append(0, 1, 2, 3)
//	a.Push(4)
//	v := a.Get(2)      // 2
//	_ = a.Get(7)       // 0, past the length
//	a.Resize(8)        // elements 5..7 are zeroed
//	a.Append(make([]uint32, 100)...) // clamped to capacity
//
// Arrays can also live next to their storage in a host struct:
//
//	type table struct {
//		hdr  bounded.Array[uint32]
//		vals [64]uint32
//	}
//
//	var t table
//	t.hdr.Init(t.vals[:], nil)
//
// # Untyped Blocks
//
// Block keeps its header in the first HeaderSize bytes of its memory, so
// the array can be recovered from the memory alone with OpenBlock:
//
//	mem := make([]byte, bounded.BlockSize(16, 4))
//	b := bounded.InitBlock(mem, 4, nil)
//	b.Append([]byte{1, 0, 0, 0})
//	same := bounded.OpenBlock(mem) // same.Len() == 1
//
// # Failure Handling
//
// Out-of-range indices, requests beyond the capacity and empty sources
// never fail: operations clamp or do nothing and report what happened
// through their result (a count or a bool). Contract violations panic:
// using an Array before Init, opening memory without a Block header,
// mixing Blocks of different element sizes, seeds that are not whole
// elements, and byte-level operations on element types that are not plain
// data.
//
// # Thread Safety
//
// Nothing in this package is goroutine-safe. Callers that share an array
// between goroutines must hold their own lock around every call.
//
// # Performance Characteristics
//
//   - Len, Get, Set, Push, Pop: O(1)
//   - Resize, CopyAt, Append, Replace, SliceInto: O(bytes moved)
//   - No allocations
package bounded
