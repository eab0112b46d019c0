package bounded

// Stats is a snapshot of a bounded array's occupancy.
type Stats struct {
	Len           int     // Elements in use
	Cap           int     // Capacity in elements
	Available     int     // Cap - Len
	ElemSize      int     // Bytes per element
	ByteSize      int     // Len * ElemSize
	CapacityBytes int     // Cap * ElemSize
	Utilization   float64 // Len / Cap (0.0-1.0)
}

func newStats(n, capacity, elemSize int) Stats {
	s := Stats{
		Len:           n,
		Cap:           capacity,
		Available:     capacity - n,
		ElemSize:      elemSize,
		ByteSize:      n * elemSize,
		CapacityBytes: capacity * elemSize,
	}
	if capacity > 0 {
		s.Utilization = float64(n) / float64(capacity)
	}
	return s
}

// Stats returns a snapshot of the array's occupancy.
func (a *Array[T]) Stats() Stats {
	a.panicIfUninit()
	return newStats(a.n, len(a.data), a.ElemSize())
}

// Stats returns a snapshot of the block's occupancy.
func (b Block) Stats() Stats {
	capBytes, n, elemSize := b.header()
	return newStats(n, capBytes/elemSize, elemSize)
}
