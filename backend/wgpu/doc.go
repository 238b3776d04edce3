// Package wgpu executes recorded gr frames on a wgpu HAL device.
//
// Importing the package registers the "wgpu" executor:
//
//	import _ "github.com/gogpu/gr/backend/wgpu"
//
//	exec, err := gr.NewExecutor("wgpu")
//	...
//	mgr, err := gr.NewDrawingManager(caps, gr.WithExecutor(exec))
//
// The executor draws solid geometry: rect fills and strokes, nested rects,
// convex fans, stencil-then-cover passes, hairlines, dashes, caller
// vertices, and oval and round-rect fills. Coverage anti-aliasing is left
// to multisampling, so coverage batches rasterize without their edge ramp.
// Batches that need textures (text, atlases, nine-patches, masks) are
// counted as skipped.
package wgpu
