package gr

import (
	"testing"

	"github.com/gogpu/gr/program"
)

// TestDefaultManagerOptions tests the defaults used by NewDrawingManager.
func TestDefaultManagerOptions(t *testing.T) {
	o := defaultManagerOptions()
	if _, ok := o.executor.(nullExecutor); !ok {
		t.Errorf("executor = %T, want nullExecutor", o.executor)
	}
	if o.flushThreshold != DefaultFlushThreshold {
		t.Errorf("flushThreshold = %d, want %d", o.flushThreshold, DefaultFlushThreshold)
	}
	if !o.instanced {
		t.Error("instanced = false, want true")
	}
	if o.maskCacheSize != DefaultMaskCacheSize {
		t.Errorf("maskCacheSize = %d, want %d", o.maskCacheSize, DefaultMaskCacheSize)
	}
	if o.programs != nil || len(o.pathRenderers) != 0 {
		t.Error("programs and pathRenderers should be unset by default")
	}
}

func TestManagerOptions(t *testing.T) {
	stats := NewStatsExecutor(false)
	cache := program.NewCache()
	o := defaultManagerOptions()
	for _, opt := range []ManagerOption{
		WithExecutor(stats),
		WithExecutor(nil),
		WithFlushThreshold(0),
		WithInstancedRendering(false),
		WithPathRenderers(DefaultPathRenderer{}),
		WithPathRenderers(AAConvexPathRenderer{}),
		WithProgramCache(cache),
		WithMaskCacheSize(-3),
	} {
		opt(&o)
	}
	if o.executor != Executor(stats) {
		t.Errorf("executor = %T, want the stats executor", o.executor)
	}
	if o.flushThreshold != 0 {
		t.Errorf("flushThreshold = %d, want 0", o.flushThreshold)
	}
	if o.instanced {
		t.Error("instanced = true, want false")
	}
	if len(o.pathRenderers) != 2 {
		t.Errorf("len(pathRenderers) = %d, want 2", len(o.pathRenderers))
	}
	if o.programs != cache {
		t.Error("programs not set")
	}
	if o.maskCacheSize != 0 {
		t.Errorf("maskCacheSize = %d, want 0", o.maskCacheSize)
	}
}

func TestNewDrawingManagerInstanced(t *testing.T) {
	tests := []struct {
		name string
		caps *Caps
		opts []ManagerOption
		want bool
	}{
		{"caps without instancing", NewCaps(), nil, false},
		{"caps with instancing", NewCaps(WithInstancedSupport(true)), nil, true},
		{"disabled by option", NewCaps(WithInstancedSupport(true)), []ManagerOption{WithInstancedRendering(false)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewDrawingManager(tt.caps, tt.opts...)
			if err != nil {
				t.Fatalf("NewDrawingManager() error = %v", err)
			}
			if got := m.instanced != nil; got != tt.want {
				t.Errorf("instanced facility = %v, want %v", got, tt.want)
			}
		})
	}
	if _, err := NewDrawingManager(nil); err != ErrNilCaps {
		t.Errorf("NewDrawingManager(nil) error = %v, want ErrNilCaps", err)
	}
}
