package fixedblock

// Metrics contains a snapshot of how an allocator's blocks are used.
type Metrics struct {
	BlockSize   int     // Bytes per block
	NumBlocks   int     // Blocks managed
	Available   int     // Blocks on the free list
	InUse       int     // Blocks handed out
	Capacity    int     // Bytes managed
	SizeInUse   int     // Bytes handed out
	Utilization float64 // Ratio of blocks in use to blocks managed (0.0-1.0)
}

func newMetrics(blockSize, numBlocks, available int) Metrics {
	m := Metrics{
		BlockSize: blockSize,
		NumBlocks: numBlocks,
		Available: available,
		InUse:     numBlocks - available,
		Capacity:  ArenaSize(blockSize, numBlocks),
	}
	m.SizeInUse = ArenaSize(blockSize, m.InUse)
	if numBlocks > 0 {
		m.Utilization = float64(m.InUse) / float64(numBlocks)
	}
	return m
}
