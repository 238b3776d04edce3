package gr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gr/program"
)

func TestExecutorRegistry(t *testing.T) {
	names := Executors()
	for _, want := range []string{"null", "stats"} {
		found := false
		for _, n := range names {
			found = found || n == want
		}
		if !found {
			t.Errorf("Executors() = %v, missing %q", names, want)
		}
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("Executors() = %v, not sorted", names)
		}
	}

	if _, err := NewExecutor("stats"); err != nil {
		t.Errorf("NewExecutor(stats) error = %v", err)
	}
	_, err := NewExecutor("metal")
	if err == nil || !strings.Contains(err.Error(), "forgotten import") {
		t.Errorf("NewExecutor(metal) error = %v, want unknown executor", err)
	}
}

func TestRegisterExecutor(t *testing.T) {
	const name = "test-register"
	RegisterExecutor(name, func() Executor { return nullExecutor{} })
	t.Cleanup(func() { UnregisterExecutor(name) })

	if _, err := NewExecutor(name); err != nil {
		t.Fatalf("NewExecutor(%q) error = %v", name, err)
	}

	tests := []struct {
		name    string
		factory ExecutorFactory
	}{
		{"duplicate", func() Executor { return nullExecutor{} }},
		{"nil factory", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("RegisterExecutor() did not panic")
				}
			}()
			RegisterExecutor(name, tt.factory)
		})
	}

	UnregisterExecutor(name)
	if _, err := NewExecutor(name); err == nil {
		t.Errorf("NewExecutor(%q) after Unregister succeeded, want error", name)
	}
}

func TestStatsExecutorResolvesPrograms(t *testing.T) {
	errCompile := errors.New("compile failed")
	cache := program.NewCache(program.WithCompiler(func(string) ([]byte, error) {
		return make([]byte, 8), nil
	}))
	batches := []Batch{
		newClearBatch(IRectWH(10, 10), gputypes.ColorWhite, true),
		newFillRectBatch(false, Identity(), RectWH(5, 5), nil, nil),
		newFillRectBatch(true, Identity(), RectWH(5, 5), nil, nil),
	}

	e := NewStatsExecutor(true)
	if err := e.Execute(context.Background(), Frame{Batches: batches, Programs: cache}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := cache.Len(); got != 2 {
		t.Errorf("compiled programs = %d, want 2 (solid, coverage)", got)
	}
	s := e.Stats()
	if s.Frames != 1 || s.Batches != 3 || s.ByKind[BatchClear] != 1 {
		t.Errorf("Stats() = %+v, want 1 frame, 3 batches, 1 clear", s)
	}

	failing := program.NewCache(program.WithCompiler(func(string) ([]byte, error) { return nil, errCompile }))
	if err := e.Execute(context.Background(), Frame{Batches: batches, Programs: failing}); !errors.Is(err, errCompile) {
		t.Errorf("Execute() with failing compiler = %v, want %v", err, errCompile)
	}
	if got := e.Stats().Frames; got != 1 {
		t.Errorf("Frames after failed Execute = %d, want 1", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Execute(ctx, Frame{Batches: batches, Programs: cache}); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() with cancelled ctx = %v, want %v", err, context.Canceled)
	}
}

func TestStatsSnapshotIsCopy(t *testing.T) {
	e := NewStatsExecutor(false)
	if err := e.Execute(context.Background(), Frame{Batches: []Batch{newClearBatch(IRectWH(1, 1), gputypes.ColorWhite, true)}}); err != nil {
		t.Fatal(err)
	}
	s := e.Stats()
	s.ByKind[BatchClear] = 99
	if got := e.Stats().ByKind[BatchClear]; got != 1 {
		t.Errorf("ByKind after mutating snapshot = %d, want 1", got)
	}
}
