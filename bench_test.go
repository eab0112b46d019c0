package bounded

import (
	"fmt"
	"testing"
)

// BenchmarkPushPop compares tail operations against a builtin slice
func BenchmarkPushPop(b *testing.B) {
	b.Run("Array", func(b *testing.B) {
		var storage [256]uint64
		a := New(storage[:])
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 256; j++ {
				a.Push(uint64(j))
			}
			for a.Len() > 0 {
				a.Pop()
			}
		}
	})

	b.Run("Builtin", func(b *testing.B) {
		s := make([]uint64, 0, 256)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for j := 0; j < 256; j++ {
				s = append(s, uint64(j))
			}
			for len(s) > 0 {
				s = s[:len(s)-1]
			}
		}
	})
}

// BenchmarkAppend measures clamped appends of varying sizes
func BenchmarkAppend(b *testing.B) {
	sizes := []int{8, 64, 512, 4096}

	for _, size := range sizes {
		src := make([]uint32, size)
		b.Run(fmt.Sprintf("Typed_%d", size), func(b *testing.B) {
			a := New(make([]uint32, 4096))
			b.SetBytes(int64(size * 4))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if a.Append(src...) < size {
					a.Clear()
				}
			}
		})

		raw := make([]byte, size*4)
		b.Run(fmt.Sprintf("Bytes_%d", size), func(b *testing.B) {
			a := New(make([]uint32, 4096))
			b.SetBytes(int64(len(raw)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if a.AppendBytes(raw) < len(raw) {
					a.Clear()
				}
			}
		})

		b.Run(fmt.Sprintf("Block_%d", size), func(b *testing.B) {
			blk := InitBlock(make([]byte, BlockSize(4096, 4)), 4, nil)
			b.SetBytes(int64(len(raw)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if blk.Append(raw) < len(raw) {
					blk.Clear()
				}
			}
		})
	}
}

// BenchmarkResize measures grow-with-zero-fill followed by shrink
func BenchmarkResize(b *testing.B) {
	a := New(make([]uint64, 1024))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		a.Resize(1024)
		a.Resize(0)
	}
}

// BenchmarkRegionCarve measures carving many small arrays from one buffer
func BenchmarkRegionCarve(b *testing.B) {
	r := NewRegion(make([]byte, 64*1024))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for j := 0; j < 100; j++ {
			a := New(Carve[uint32](r, 16))
			a.Push(uint32(j))
		}
		r.Reset()
	}
}
