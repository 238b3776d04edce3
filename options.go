package gr

import "github.com/gogpu/gr/program"

// DefaultFlushThreshold is the number of completed draws after which the
// drawing manager flushes on its own.
const DefaultFlushThreshold = 4096

// DefaultMaskCacheSize is the number of software coverage masks a drawing
// manager keeps for reuse.
const DefaultMaskCacheSize = 64

// ManagerOption configures a DrawingManager during creation.
//
// Example:
//
//	stats := gr.NewStatsExecutor(false)
//	m, err := gr.NewDrawingManager(caps,
//	    gr.WithExecutor(stats),
//	    gr.WithFlushThreshold(0),
//	)
type ManagerOption func(*managerOptions)

type managerOptions struct {
	executor       Executor
	flushThreshold int
	instanced      bool
	pathRenderers  []PathRenderer
	programs       *program.Cache
	maskCacheSize  int
}

func defaultManagerOptions() managerOptions {
	return managerOptions{
		executor:       nullExecutor{},
		flushThreshold: DefaultFlushThreshold,
		instanced:      true,
		maskCacheSize:  DefaultMaskCacheSize,
	}
}

// WithExecutor sets the executor that receives flushed work. A nil
// executor keeps the default, which discards everything.
func WithExecutor(e Executor) ManagerOption {
	return func(o *managerOptions) {
		if e != nil {
			o.executor = e
		}
	}
}

// WithFlushThreshold sets how many completed draws trigger an automatic
// flush. Zero or a negative value disables automatic flushing.
func WithFlushThreshold(n int) ManagerOption {
	return func(o *managerOptions) {
		o.flushThreshold = n
	}
}

// WithInstancedRendering enables or disables the instanced rendering
// facility. It is only used when the caps report instancing support.
func WithInstancedRendering(on bool) ManagerOption {
	return func(o *managerOptions) {
		o.instanced = on
	}
}

// WithPathRenderers inserts custom path renderers ahead of the built-in
// chain.
func WithPathRenderers(rs ...PathRenderer) ManagerOption {
	return func(o *managerOptions) {
		o.pathRenderers = append(o.pathRenderers, rs...)
	}
}

// WithProgramCache shares a program cache between managers. By default
// each manager creates its own on first use.
func WithProgramCache(c *program.Cache) ManagerOption {
	return func(o *managerOptions) {
		o.programs = c
	}
}

// WithMaskCacheSize sets how many software coverage masks are kept between
// draws. Zero disables the cache.
func WithMaskCacheSize(n int) ManagerOption {
	return func(o *managerOptions) {
		o.maskCacheSize = max(n, 0)
	}
}
