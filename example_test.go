package bounded

import (
	"encoding/binary"
	"fmt"
)

// Example demonstrates basic bounded array usage
func Example() {
	var storage [10]uint32
	a := New(storage[:])
	fmt.Printf("Length: %d, available: %d\n", a.Len(), a.Available())

	a.Append(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	fmt.Printf("After append: length %d, a[9] = %d\n", a.Len(), a.Get(9))

	// A full array drops what does not fit
	n := a.Append(99)
	fmt.Printf("Appended to full array: %d\n", n)

	a.Resize(3)
	a.Resize(5)
	fmt.Printf("After shrink and grow: %v\n", a.Items())

	// Output:
	// Length: 0, available: 10
	// After append: length 10, a[9] = 9
	// Appended to full array: 0
	// After shrink and grow: [0 1 2 0 0]
}

// ExampleArray_SliceInto demonstrates copying a range into another array
func ExampleArray_SliceInto() {
	src := New(make([]uint32, 8), 10, 20, 30, 40, 50, 60)
	dst := New(make([]uint32, 4))

	ok := src.SliceInto(1, 5, &dst)
	fmt.Println(ok, dst.Items())

	// Output:
	// true [20 30 40 50]
}

// ExampleArray_AppendArray demonstrates the all-or-nothing append
func ExampleArray_AppendArray() {
	dst := New(make([]uint32, 4), 1, 2)
	src := New(make([]uint32, 4), 3, 4, 5)

	fmt.Println(dst.AppendArray(&src), dst.Items())
	src.Resize(2)
	fmt.Println(dst.AppendArray(&src), dst.Items())

	// Output:
	// false [1 2]
	// true [1 2 3 4]
}

// ExampleOpenBlock demonstrates recovering a Block from its memory
func ExampleOpenBlock() {
	mem := make([]byte, BlockSize(4, 2))
	b := InitBlock(mem, 2, nil)
	b.Push(binary.LittleEndian.AppendUint16(nil, 7))
	b.Push(binary.LittleEndian.AppendUint16(nil, 9))

	// Only the memory is needed to find the array again
	again := OpenBlock(mem)
	fmt.Printf("Length: %d, element size: %d\n", again.Len(), again.ElemSize())
	fmt.Printf("Second element: %d\n", binary.LittleEndian.Uint16(again.Get(1)))

	// Output:
	// Length: 2, element size: 2
	// Second element: 9
}

// ExampleRegion demonstrates carving several arrays out of one buffer
func ExampleRegion() {
	r := NewRegion(make([]byte, 256))

	ids := New(Carve[uint32](r, 8), 1, 2, 3)
	scores := New(Carve[float64](r, 4), 0.5)
	log, _ := r.Block(16, 1, []byte("boot"))

	fmt.Println(ids.Len(), scores.Len(), string(log.Bytes()))
	fmt.Printf("Region in use: %d of %d bytes\n", r.SizeInUse(), r.Capacity())

	// Output:
	// 3 1 boot
	// Region in use: 96 of 256 bytes
}
