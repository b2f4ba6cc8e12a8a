// Package workload provides instrumented sample workloads used by
// `perflogger run` to exercise the recorder.
package workload

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexander-akhmetov/perflogger/internal/debug"
	"github.com/alexander-akhmetov/perflogger/internal/recorder"
)

// Region labels recorded by the workloads.
const (
	LabelSpin      = "busyLoop"
	LabelAllocate  = "allocate"
	LabelSleep     = "sleep"
	LabelIteration = "iteration"
)

// Spin runs a busy loop of n steps and records it as LabelSpin. The returned
// checksum keeps the loop from being optimized away.
func Spin(ctx context.Context, n int) uint64 {
	defer recorder.StartFromContext(ctx, LabelSpin).Stop()

	var acc uint64
	for i := range n {
		acc += uint64(i) ^ acc>>3
	}
	return acc
}

// Allocate builds chunks byte slices of size bytes each and records it as
// LabelAllocate. It returns the number of bytes allocated.
func Allocate(ctx context.Context, chunks, size int) int {
	defer recorder.StartFromContext(ctx, LabelAllocate).Stop()

	bufs := make([][]byte, 0, chunks)
	total := 0
	for range chunks {
		b := make([]byte, size)
		if size > 0 {
			b[size-1] = 1
		}
		bufs = append(bufs, b)
		total += len(b)
	}
	return total
}

// Sleep waits for d or until ctx is done, recorded as LabelSleep.
func Sleep(ctx context.Context, d time.Duration) error {
	defer recorder.StartFromContext(ctx, LabelSleep).Stop()

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Config controls Run.
type Config struct {
	Workers    int
	Iterations int
	Spin       int           // busy-loop steps per iteration
	Chunks     int           // allocations per iteration
	ChunkSize  int           // bytes per allocation
	Sleep      time.Duration // pause per iteration
}

// Validate checks that Run can execute the configuration.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if c.Spin < 0 || c.Chunks < 0 || c.ChunkSize < 0 || c.Sleep < 0 {
		return fmt.Errorf("workload sizes must not be negative")
	}
	return nil
}

// Run executes the workloads on cfg.Workers goroutines, each performing
// cfg.Iterations iterations, recording every region on sess. Each iteration
// is itself recorded as LabelIteration. Run stops early when ctx is done and
// returns its error.
func Run(ctx context.Context, sess *recorder.Session, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx = recorder.NewContext(ctx, sess)
	debug.Logf("workload: %d workers x %d iterations", cfg.Workers, cfg.Iterations)

	var wg sync.WaitGroup
	errs := make([]error, cfg.Workers)
	for w := range cfg.Workers {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = runWorker(ctx, cfg)
		}(w)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func runWorker(ctx context.Context, cfg Config) error {
	for range cfg.Iterations {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := iteration(ctx, cfg); err != nil {
			return err
		}
	}
	return nil
}

func iteration(ctx context.Context, cfg Config) error {
	defer recorder.StartFromContext(ctx, LabelIteration).Stop()

	Spin(ctx, cfg.Spin)
	if cfg.Chunks > 0 {
		Allocate(ctx, cfg.Chunks, cfg.ChunkSize)
	}
	if cfg.Sleep > 0 {
		return Sleep(ctx, cfg.Sleep)
	}
	return nil
}
