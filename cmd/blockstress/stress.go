package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pavanmanishd/fixedblock"
	"github.com/spf13/cobra"
)

var (
	stressThreads    int
	stressIterations int
	stressBlocks     int
	stressBlockSize  int
	stressWidth      int
	stressMapped     bool
)

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVarP(&stressThreads, "threads", "t", 0, "Worker goroutines (BLOCKSTRESS_THREADS)")
	cmd.Flags().IntVarP(&stressIterations, "iterations", "n", 0, "Allocate/free cycles per worker (BLOCKSTRESS_ITERATIONS)")
	cmd.Flags().IntVar(&stressBlocks, "blocks", 0, "Blocks in the arena (BLOCKSTRESS_BLOCKS)")
	cmd.Flags().IntVar(&stressBlockSize, "block-size", 0, "Block size in bytes (BLOCKSTRESS_BLOCK_SIZE)")
	cmd.Flags().IntVar(&stressWidth, "width", 0, "Index width: 8, 16 or 32 (BLOCKSTRESS_INDEX_WIDTH)")
	cmd.Flags().BoolVar(&stressMapped, "mapped", false, "Take the arena from an anonymous mapping (BLOCKSTRESS_MAPPED)")
	rootCmd.AddCommand(cmd)
}

func newStressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run a concurrent allocate/free workload",
		Long: `The stress command starts one goroutine per thread. Each goroutine
repeatedly allocates a block, stamps it with its own id, yields, checks the
stamp and frees the block. At the end every block must be back on the free list.

Example:
  blockstress stress
  blockstress stress --threads 16 --blocks 64 --width 32
  BLOCKSTRESS_ITERATIONS=1000000 blockstress stress --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			applyStressFlags(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runStress(cmd.OutOrStdout(), cfg)
		},
	}
	return cmd
}

// applyStressFlags overrides cfg with the flags given on the command line.
func applyStressFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("threads") {
		cfg.Threads = stressThreads
	}
	if flags.Changed("iterations") {
		cfg.Iterations = stressIterations
	}
	if flags.Changed("blocks") {
		cfg.Blocks = stressBlocks
	}
	if flags.Changed("block-size") {
		cfg.BlockSize = stressBlockSize
	}
	if flags.Changed("width") {
		cfg.IndexWidth = stressWidth
	}
	if flags.Changed("mapped") {
		cfg.Mapped = stressMapped
	}
}

// StressResult is the outcome of one stress run.
type StressResult struct {
	IndexWidth  int           `json:"indexWidth"`
	Threads     int           `json:"threads"`
	Iterations  int           `json:"iterations"`
	Blocks      int           `json:"blocks"`
	BlockSize   int           `json:"blockSize"`
	Mapped      bool          `json:"mapped"`
	Allocations int64         `json:"allocations"`
	Exhausted   int64         `json:"exhausted"`
	Overlaps    int64         `json:"overlaps"`
	Rejected    int64         `json:"rejected"`
	Available   int           `json:"available"`
	Elapsed     time.Duration `json:"elapsedNs"`
}

// OK reports whether the run saw no overlap, no rejected free and no leak.
func (r *StressResult) OK() bool {
	return r.Overlaps == 0 && r.Rejected == 0 && r.Available == r.Blocks
}

func runStress(w io.Writer, cfg *Config) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	log := newLogger(os.Stderr, level)

	var result *StressResult
	switch cfg.IndexWidth {
	case 8:
		result, err = stress[uint8](cfg, log)
	case 16:
		result, err = stress[uint16](cfg, log)
	default:
		result, err = stress[uint32](cfg, log)
	}
	if err != nil {
		return err
	}

	if jsonOut {
		if err := printJSON(w, result); err != nil {
			return err
		}
	} else {
		printStressResult(w, result)
	}
	if !result.OK() {
		return fmt.Errorf("stress run failed: %d overlaps, %d rejected frees, %d of %d blocks returned",
			result.Overlaps, result.Rejected, result.Available, result.Blocks)
	}
	return nil
}

// stress runs the workload on a lock-free SizedAllocator indexed by I.
func stress[I fixedblock.Index](cfg *Config, log *slog.Logger) (*StressResult, error) {
	size := fixedblock.ArenaSize(cfg.BlockSize, cfg.Blocks)
	var arena []byte
	if cfg.Mapped {
		m, err := fixedblock.MapArena(size)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := fixedblock.UnmapArena(m); err != nil {
				log.Warn("unmapping arena", "err", err)
			}
		}()
		arena = m
	} else {
		arena = fixedblock.NewArena(size)
	}

	a, err := fixedblock.NewSized[I](arena, cfg.BlockSize, cfg.Blocks, fixedblock.WithLogger(log))
	if err != nil {
		return nil, err
	}

	var (
		wg          sync.WaitGroup
		allocations atomic.Int64
		exhausted   atomic.Int64
		overlaps    atomic.Int64
		rejected    atomic.Int64
	)
	log.Info("starting stress run",
		"threads", cfg.Threads, "iterations", cfg.Iterations,
		"blocks", cfg.Blocks, "blockSize", cfg.BlockSize, "indexWidth", cfg.IndexWidth)
	start := time.Now()
	for t := 0; t < cfg.Threads; t++ {
		wg.Add(1)
		go func(id byte) {
			defer wg.Done()
			last := cfg.BlockSize - 1
			for i := 0; i < cfg.Iterations; i++ {
				b := a.Allocate()
				if b == nil {
					exhausted.Add(1)
					runtime.Gosched()
					continue
				}
				allocations.Add(1)
				b[last] = id
				runtime.Gosched()
				if b[last] != id {
					overlaps.Add(1)
				}
				if err := a.Deallocate(cfg.Blocks, b); err != nil {
					rejected.Add(1)
				}
			}
		}(byte(t%255 + 1))
	}
	wg.Wait()
	elapsed := time.Since(start)

	avail, err := a.CountAvailable()
	if err != nil {
		return nil, fmt.Errorf("walking free list after run: %w", err)
	}
	log.Debug("stress run finished", "elapsed", elapsed, "available", avail)

	return &StressResult{
		IndexWidth:  cfg.IndexWidth,
		Threads:     cfg.Threads,
		Iterations:  cfg.Iterations,
		Blocks:      cfg.Blocks,
		BlockSize:   cfg.BlockSize,
		Mapped:      cfg.Mapped,
		Allocations: allocations.Load(),
		Exhausted:   exhausted.Load(),
		Overlaps:    overlaps.Load(),
		Rejected:    rejected.Load(),
		Available:   avail,
		Elapsed:     elapsed,
	}, nil
}

func printStressResult(w io.Writer, r *StressResult) {
	fmt.Fprintf(w, "Index width:  %d bits\n", r.IndexWidth)
	fmt.Fprintf(w, "Threads:      %d x %d iterations\n", r.Threads, r.Iterations)
	fmt.Fprintf(w, "Arena:        %d blocks of %d bytes", r.Blocks, r.BlockSize)
	if r.Mapped {
		fmt.Fprint(w, " (mapped)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Allocations:  %d\n", r.Allocations)
	fmt.Fprintf(w, "Exhausted:    %d\n", r.Exhausted)
	fmt.Fprintf(w, "Overlaps:     %d\n", r.Overlaps)
	fmt.Fprintf(w, "Rejected:     %d\n", r.Rejected)
	fmt.Fprintf(w, "Available:    %d/%d\n", r.Available, r.Blocks)
	fmt.Fprintf(w, "Elapsed:      %s\n", r.Elapsed)
	if r.Elapsed > 0 {
		ops := float64(r.Allocations) / r.Elapsed.Seconds()
		fmt.Fprintf(w, "Throughput:   %.0f allocations/s\n", ops)
	}
}
