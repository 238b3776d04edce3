// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gr

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gr/program"
)

// Frame is the work of one closed recording target handed to an executor.
type Frame struct {
	Target   *RenderTarget
	Sequence uint64
	Batches  []Batch
	Programs *program.Cache
}

// Executor turns recorded batches into backend commands. Flush calls
// Execute once per non-empty recording target, in creation order.
type Executor interface {
	Execute(ctx context.Context, f Frame) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, f Frame) error

// Execute calls fn.
func (fn ExecutorFunc) Execute(ctx context.Context, f Frame) error { return fn(ctx, f) }

// ExecutorFactory creates a new executor instance.
type ExecutorFactory func() Executor

var (
	executorMu sync.Mutex
	executors  = gpucontext.NewRegistry[Executor](gpucontext.WithPriority("null"))
)

func init() {
	RegisterExecutor("null", func() Executor { return nullExecutor{} })
	RegisterExecutor("stats", func() Executor { return NewStatsExecutor(false) })
}

// RegisterExecutor makes an executor available by name, typically from the
// init function of a backend package:
//
//	func init() {
//	    gr.RegisterExecutor("vulkan", func() gr.Executor { return newExecutor() })
//	}
//
// RegisterExecutor panics if factory is nil or name is already registered.
func RegisterExecutor(name string, factory ExecutorFactory) {
	executorMu.Lock()
	defer executorMu.Unlock()

	if factory == nil {
		panic("gr: RegisterExecutor factory is nil")
	}
	if executors.Has(name) {
		panic("gr: RegisterExecutor called twice for " + name)
	}
	executors.Register(name, factory)
}

// UnregisterExecutor removes a registered executor. Unknown names are
// ignored.
func UnregisterExecutor(name string) {
	executorMu.Lock()
	defer executorMu.Unlock()
	executors.Unregister(name)
}

// NewExecutor creates the executor registered under name.
func NewExecutor(name string) (Executor, error) {
	if !executors.Has(name) {
		return nil, fmt.Errorf("gr: unknown executor %q (forgotten import?)", name)
	}
	return executors.Get(name), nil
}

// Executors returns the registered executor names, sorted.
func Executors() []string {
	names := executors.Available()
	sort.Strings(names)
	return names
}

// nullExecutor drops every frame.
type nullExecutor struct{}

func (nullExecutor) Execute(context.Context, Frame) error { return nil }

// ExecutorStats summarizes the frames an executor received.
type ExecutorStats struct {
	Frames  int
	Batches int
	ByKind  map[BatchKind]int
}

// StatsExecutor counts batches per kind. With resolvePrograms set it also
// fetches the program of every batch from the frame's program cache, so
// compile failures surface from Flush.
type StatsExecutor struct {
	resolve bool

	mu    sync.Mutex
	stats ExecutorStats
}

var _ Executor = (*StatsExecutor)(nil)

// NewStatsExecutor creates an executor that records batch statistics.
func NewStatsExecutor(resolvePrograms bool) *StatsExecutor {
	return &StatsExecutor{
		resolve: resolvePrograms,
		stats:   ExecutorStats{ByKind: make(map[BatchKind]int)},
	}
}

// Execute records statistics for f.
func (e *StatsExecutor) Execute(ctx context.Context, f Frame) error {
	if e.resolve && f.Programs != nil {
		for _, b := range f.Batches {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := b.Kind().ProgramKey()
			if name == "" {
				continue
			}
			if _, err := f.Programs.Get(name); err != nil {
				return fmt.Errorf("gr: %s batch: %w", b.Kind(), err)
			}
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.Frames++
	e.stats.Batches += len(f.Batches)
	for _, b := range f.Batches {
		e.stats.ByKind[b.Kind()]++
	}
	return nil
}

// Stats returns a snapshot of the counters.
func (e *StatsExecutor) Stats() ExecutorStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := ExecutorStats{Frames: e.stats.Frames, Batches: e.stats.Batches, ByKind: make(map[BatchKind]int, len(e.stats.ByKind))}
	for k, v := range e.stats.ByKind {
		out.ByKind[k] = v
	}
	return out
}
