package gr

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/gr/text"
)

func newTestManager(t *testing.T, caps *Caps, opts ...ManagerOption) *DrawingManager {
	t.Helper()
	if caps == nil {
		caps = NewCaps()
	}
	opts = append([]ManagerOption{WithFlushThreshold(0)}, opts...)
	m, err := NewDrawingManager(caps, opts...)
	if err != nil {
		t.Fatalf("NewDrawingManager() error = %v", err)
	}
	return m
}

func newTestTarget(t *testing.T, caps *Caps, samples int, stencil bool) *RenderTarget {
	t.Helper()
	desc := RenderTargetDesc{Width: 100, Height: 100, Format: gputypes.TextureFormatRGBA8Unorm, SampleCount: samples, Label: t.Name()}
	if stencil {
		desc.StencilFormat = gputypes.TextureFormatDepth24PlusStencil8
	}
	rt, err := NewRenderTarget(caps, desc)
	if err != nil {
		t.Fatalf("NewRenderTarget() error = %v", err)
	}
	return rt
}

func newTestContext(t *testing.T, m *DrawingManager, rt *RenderTarget) *RenderContext {
	t.Helper()
	rc, err := m.NewRenderContext(rt, NewOwnerToken(), SurfaceProps{})
	if err != nil {
		t.Fatalf("NewRenderContext() error = %v", err)
	}
	return rc
}

// setup returns a manager and a context drawing into a 100x100 target.
func setup(t *testing.T, caps *Caps, samples int, stencil bool) (*DrawingManager, *RenderContext) {
	t.Helper()
	if caps == nil {
		caps = NewCaps()
	}
	m := newTestManager(t, caps)
	return m, newTestContext(t, m, newTestTarget(t, caps, samples, stencil))
}

func recorded(rc *RenderContext) []Batch {
	if t := rc.RecordingHandle().Target(); t != nil {
		return t.Batches()
	}
	return nil
}

func kinds(bs []Batch) []BatchKind {
	out := make([]BatchKind, len(bs))
	for i, b := range bs {
		out[i] = b.Kind()
	}
	return out
}

func sameKinds(a, b []BatchKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func lShapePath() *Path {
	return rectPathFromPoints(Pt(10, 10), Pt(60, 10), Pt(60, 30), Pt(30, 30), Pt(30, 60), Pt(10, 60))
}

func nearRect(a, b Rect) bool {
	const eps = 1e-9
	return math.Abs(a.Left-b.Left) < eps && math.Abs(a.Top-b.Top) < eps &&
		math.Abs(a.Right-b.Right) < eps && math.Abs(a.Bottom-b.Bottom) < eps
}

func TestClippedOutDrawRecordsNothing(t *testing.T) {
	m, rc := setup(t, nil, 0, false)
	clip := RectClip{Rect: RectLTRB(0, 0, 10, 10)}
	red := NewPaint(gputypes.ColorRed)

	rc.DrawRect(clip, red, Identity(), RectLTRB(50, 50, 60, 60), nil)
	rc.DrawOval(clip, red.WithAntiAlias(true), Identity(), RectLTRB(50, 50, 60, 60), SimpleFill())
	rc.DrawPath(clip, red.WithAntiAlias(true), Identity(), lShapePath().Transform(Translate(30, 30)), SimpleFill())

	if got := recorded(rc); len(got) != 0 {
		t.Errorf("recorded batches = %v, want none", kinds(got))
	}
	if m.pending != 0 {
		t.Errorf("pending draws = %d, want 0", m.pending)
	}
}

func TestFillRectToRectCrop(t *testing.T) {
	tests := []struct {
		name      string
		m         Matrix
		wantRect  Rect
		wantLocal Rect
	}{
		{"identity", Identity(), RectLTRB(0, 0, 50, 100), RectLTRB(0, 0, 5, 10)},
		{"scaled", Scale(2, 2), RectLTRB(0, 0, 25, 50), RectLTRB(0, 0, 2.5, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rc := setup(t, nil, 0, false)
			clip := RectClip{Rect: RectLTRB(0, 0, 50, 100)}
			rc.FillRectToRect(clip, NewPaint(gputypes.ColorBlue), tt.m, RectLTRB(0, 0, 100, 100), RectLTRB(0, 0, 10, 10))

			got := recorded(rc)
			if len(got) != 1 {
				t.Fatalf("recorded %d batches, want 1", len(got))
			}
			b, ok := got[0].(*FillRectBatch)
			if !ok {
				t.Fatalf("batch = %T, want *FillRectBatch", got[0])
			}
			if !nearRect(b.Rect, tt.wantRect) {
				t.Errorf("Rect = %+v, want %+v", b.Rect, tt.wantRect)
			}
			if b.LocalRect == nil || !nearRect(*b.LocalRect, tt.wantLocal) {
				t.Errorf("LocalRect = %+v, want %+v", b.LocalRect, tt.wantLocal)
			}
		})
	}
}

func TestFullTargetFill(t *testing.T) {
	cover := RectLTRB(-10, -10, 200, 200)

	t.Run("opaque becomes clear", func(t *testing.T) {
		_, rc := setup(t, nil, 0, false)
		rc.DrawRect(NoClip{}, NewPaint(gputypes.ColorRed).WithAntiAlias(true), Identity(), cover, nil)
		got := recorded(rc)
		if len(got) != 1 {
			t.Fatalf("recorded %v, want one clear", kinds(got))
		}
		c, ok := got[0].(*ClearBatch)
		if !ok {
			t.Fatalf("batch = %T, want *ClearBatch", got[0])
		}
		if !c.FullTarget || c.Rect != IRectWH(100, 100) || c.LoadOp() != gputypes.LoadOpClear {
			t.Errorf("clear = %+v, want full target %v", c.Rect, IRectWH(100, 100))
		}
		if c.Color != gputypes.ColorRed {
			t.Errorf("clear color = %v, want %v", c.Color, gputypes.ColorRed)
		}
	})

	t.Run("translucent stays a fill", func(t *testing.T) {
		_, rc := setup(t, nil, 0, false)
		rc.DrawRect(NoClip{}, NewPaint(gputypes.ColorRed.WithAlpha(0.5)), Identity(), cover, nil)
		got := recorded(rc)
		if !sameKinds(kinds(got), []BatchKind{BatchNonAAFillRect}) {
			t.Fatalf("recorded %v, want [nonaa_fill_rect]", kinds(got))
		}
		if r := got[0].(*FillRectBatch).Rect; r != RectLTRB(0, 0, 100, 100) {
			t.Errorf("cropped rect = %+v, want target bounds", r)
		}
	})

	t.Run("clip prevents clear", func(t *testing.T) {
		_, rc := setup(t, nil, 0, false)
		rc.DrawRect(RectClip{Rect: RectLTRB(0, 0, 50, 50)}, NewPaint(gputypes.ColorRed), Identity(), cover, nil)
		if got := kinds(recorded(rc)); !sameKinds(got, []BatchKind{BatchNonAAFillRect}) {
			t.Errorf("recorded %v, want [nonaa_fill_rect]", got)
		}
	})

	t.Run("draw instead of clear", func(t *testing.T) {
		_, rc := setup(t, NewCaps(WithDrawInsteadOfClear(true)), 0, false)
		rc.Clear(nil, gputypes.ColorRed, false)
		got := recorded(rc)
		if !sameKinds(kinds(got), []BatchKind{BatchDiscard, BatchNonAAFillRect}) {
			t.Fatalf("recorded %v, want [discard nonaa_fill_rect]", kinds(got))
		}
		if bs := got[1].Pipeline().Blend; bs != gputypes.BlendStateReplace() {
			t.Errorf("fill blend = %+v, want replace", bs)
		}
	})

	t.Run("draw instead of clear opaque fill", func(t *testing.T) {
		_, rc := setup(t, NewCaps(WithDrawInsteadOfClear(true)), 0, false)
		rc.DrawRect(NoClip{}, NewPaint(gputypes.ColorRed), Identity(), cover, nil)
		got := recorded(rc)
		if !sameKinds(kinds(got), []BatchKind{BatchDiscard, BatchNonAAFillRect}) {
			t.Fatalf("recorded %v, want [discard nonaa_fill_rect]", kinds(got))
		}
		if r := got[1].(*FillRectBatch).Rect; r != RectLTRB(0, 0, 100, 100) {
			t.Errorf("cropped rect = %+v, want target bounds", r)
		}
	})

	t.Run("draw instead of clear translucent fill", func(t *testing.T) {
		_, rc := setup(t, NewCaps(WithDrawInsteadOfClear(true)), 0, false)
		rc.DrawRect(NoClip{}, NewPaint(gputypes.ColorRed.WithAlpha(0.5)), Identity(), cover, nil)
		if got := kinds(recorded(rc)); !sameKinds(got, []BatchKind{BatchNonAAFillRect}) {
			t.Errorf("recorded %v, want [nonaa_fill_rect]", got)
		}
	})
}

func TestClearRect(t *testing.T) {
	_, rc := setup(t, nil, 0, false)
	rc.Clear(&IRect{Left: 10, Top: 10, Right: 20, Bottom: 20}, gputypes.ColorBlue, false)
	rc.Clear(&IRect{Left: 200, Top: 200, Right: 300, Bottom: 300}, gputypes.ColorBlue, false)
	rc.Clear(&IRect{Left: 90, Top: 90, Right: 300, Bottom: 300}, gputypes.ColorBlue, false)

	got := recorded(rc)
	if len(got) != 2 {
		t.Fatalf("recorded %v, want two clears", kinds(got))
	}
	want := []IRect{{10, 10, 20, 20}, {90, 90, 100, 100}}
	for i, b := range got {
		c := b.(*ClearBatch)
		if c.FullTarget || c.Rect != want[i] {
			t.Errorf("clear %d = %+v (full %v), want %+v", i, c.Rect, c.FullTarget, want[i])
		}
	}
}

func TestZeroAreaStrokeRect(t *testing.T) {
	vertical := RectLTRB(10, 10, 10, 50)
	tests := []struct {
		name     string
		r        Rect
		join     Join
		aa       bool
		wantKind []BatchKind
		wantRect Rect
	}{
		{"miter", vertical, JoinMiter, false, []BatchKind{BatchNonAAFillRect}, RectLTRB(8, 8, 12, 52)},
		{"bevel vertical", vertical, JoinBevel, false, []BatchKind{BatchNonAAFillRect}, RectLTRB(8, 10, 12, 50)},
		{"bevel horizontal", RectLTRB(10, 10, 50, 10), JoinBevel, false, []BatchKind{BatchNonAAFillRect}, RectLTRB(10, 8, 50, 12)},
		{"round aa", vertical, JoinRound, true, []BatchKind{BatchRRect}, Rect{}},
		{"round non-aa", vertical, JoinRound, false, []BatchKind{BatchConvexPath}, Rect{}},
		{"round point", RectLTRB(10, 10, 10, 10), JoinRound, false, nil, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rc := setup(t, nil, 0, false)
			st := StrokeStyle(4, CapButt, tt.join, DefaultMiterLimit)
			rc.DrawRect(NoClip{}, NewPaint(gputypes.ColorRed).WithAntiAlias(tt.aa), Identity(), tt.r, &st)

			got := recorded(rc)
			if !sameKinds(kinds(got), tt.wantKind) {
				t.Fatalf("recorded %v, want %v", kinds(got), tt.wantKind)
			}
			if fr, ok := firstBatch(got).(*FillRectBatch); ok && fr.Rect != tt.wantRect {
				t.Errorf("fill rect = %+v, want %+v", fr.Rect, tt.wantRect)
			}
		})
	}
}

func firstBatch(bs []Batch) Batch {
	if len(bs) == 0 {
		return nil
	}
	return bs[0]
}

func TestDrawDRRectMatchesEvenOddPath(t *testing.T) {
	outer := RRectFromRectXY(RectLTRB(10, 10, 90, 90), 20, 20)
	inner := RRectFromRectXY(RectLTRB(30, 30, 70, 70), 10, 10)

	_, rc := setup(t, nil, 0, false)
	rc.DrawDRRect(NoClip{}, NewPaint(gputypes.ColorRed), Identity(), outer, inner)
	got := recorded(rc)
	if !sameKinds(kinds(got), []BatchKind{BatchNonAAFillRect}) {
		t.Fatalf("recorded %v, want [nonaa_fill_rect]", kinds(got))
	}
	effects := got[0].Pipeline().Coverage
	if len(effects) != 2 {
		t.Fatalf("coverage effects = %d, want 2", len(effects))
	}

	path := NewPath()
	path.AddRRect(inner, DirectionCW)
	path.AddRRect(outer, DirectionCW)
	path.SetFillType(FillEvenOdd)

	for _, p := range []Point{Pt(50, 50), Pt(20, 50), Pt(5, 5), Pt(12, 12), Pt(31, 31), Pt(50, 20)} {
		cov := 1.0
		for _, e := range effects {
			cov *= e.Coverage(p)
		}
		want := 0.0
		if path.Contains(p) {
			want = 1
		}
		if cov != want {
			t.Errorf("coverage at %v = %v, want %v", p, cov, want)
		}
	}
}

func TestDrawDRRectRotatedFallsBackToPath(t *testing.T) {
	outer := RRectFromRectXY(RectLTRB(10, 10, 90, 90), 20, 20)
	inner := RRectFromRectXY(RectLTRB(30, 30, 70, 70), 10, 10)

	_, rc := setup(t, nil, 0, true)
	rc.DrawDRRect(NoClip{}, NewPaint(gputypes.ColorRed), Translate(50, 0).Multiply(Rotate(0.3)), outer, inner)
	got := recorded(rc)
	if !sameKinds(kinds(got), []BatchKind{BatchStencilPath, BatchCover}) {
		t.Fatalf("recorded %v, want [stencil_path cover]", kinds(got))
	}
	for _, b := range got {
		if b.Pipeline().Stencil == nil {
			t.Errorf("%v has no stencil state", b.Kind())
		}
	}
	if sp := got[0].(*StencilPathBatch); sp.FillType != FillEvenOdd {
		t.Errorf("stencil fill = %v, want even-odd", sp.FillType)
	}
}

func TestAAModeSelection(t *testing.T) {
	tests := []struct {
		name     string
		samples  int
		m        Matrix
		wantKind BatchKind
		wantHWAA bool
	}{
		{"coverage aa", 0, Identity(), BatchAAFillRect, false},
		{"msaa target", 4, Identity(), BatchNonAAFillRect, true},
		{"rotated coverage aa", 0, Rotate(0.3), BatchAAFillRect, false},
		{"sheared falls back to path", 0, Shear(0.5, 0), BatchConvexPath, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rc := setup(t, nil, tt.samples, false)
			rc.DrawRect(NoClip{}, NewPaint(gputypes.ColorBlue).WithAntiAlias(true), tt.m, RectLTRB(10, 10, 20, 20), nil)
			got := recorded(rc)
			if len(got) != 1 {
				t.Fatalf("recorded %v, want one batch", kinds(got))
			}
			if got[0].Kind() != tt.wantKind {
				t.Errorf("kind = %v, want %v", got[0].Kind(), tt.wantKind)
			}
			if pl := got[0].Pipeline(); pl.HWAA != tt.wantHWAA {
				t.Errorf("HWAA = %v, want %v", pl.HWAA, tt.wantHWAA)
			}
		})
	}
}

func TestDrawPathDispatch(t *testing.T) {
	nested := NewPath()
	nested.AddRect(RectLTRB(10, 10, 90, 90), DirectionCW)
	nested.AddRect(RectLTRB(20, 20, 80, 80), DirectionCCW)

	line := NewPath()
	line.MoveTo(10, 50)
	line.LineTo(90, 50)

	emptyInverse := NewPath()
	emptyInverse.SetFillType(FillInverseWinding)

	dash := Dash{Intervals: []float64{4, 4}}
	dashed := StrokeStyle(2, CapButt, JoinMiter, DefaultMiterLimit).WithDash(dash)

	tests := []struct {
		name    string
		path    *Path
		style   Style
		aa      bool
		stencil bool
		want    []BatchKind
	}{
		{"aa nested rects", nested, SimpleFill(), true, false, []BatchKind{BatchAAFillNestedRects}},
		{"aa oval", PathFromOval(RectLTRB(20, 20, 60, 40), DirectionCW), SimpleFill(), true, false, []BatchKind{BatchOval}},
		{"non-aa oval", PathFromOval(RectLTRB(20, 20, 60, 40), DirectionCW), SimpleFill(), false, false, []BatchKind{BatchConvexPath}},
		{"aa concave uses software", lShapePath(), SimpleFill(), true, false, []BatchKind{BatchMask}},
		{"non-aa concave", lShapePath(), SimpleFill(), false, true, []BatchKind{BatchStencilPath, BatchCover}},
		{"aa hairline", line, Hairline(), true, false, []BatchKind{BatchHairline}},
		{"non-aa hairline", line, Hairline(), false, false, []BatchKind{BatchVertices}},
		{"aa dashed line", line, dashed, true, false, []BatchKind{BatchDashLine}},
		{"aa dashed oval", PathFromOval(RectLTRB(20, 20, 80, 80), DirectionCW), dashed, true, false, []BatchKind{BatchMask}},
		{"empty inverse fills target", emptyInverse, SimpleFill(), false, false, []BatchKind{BatchClear}},
		{"empty", NewPath(), SimpleFill(), true, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rc := setup(t, nil, 0, tt.stencil)
			rc.DrawPath(NoClip{}, NewPaint(gputypes.ColorRed).WithAntiAlias(tt.aa), Identity(), tt.path, tt.style)
			if got := kinds(recorded(rc)); !sameKinds(got, tt.want) {
				t.Errorf("DrawPath() recorded %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDrawPathOvalCircle(t *testing.T) {
	_, rc := setup(t, nil, 0, false)
	rc.DrawPath(NoClip{}, NewPaint(gputypes.ColorRed).WithAntiAlias(true), Identity(),
		PathFromOval(RectLTRB(20, 20, 60, 60), DirectionCW), SimpleFill())
	got := recorded(rc)
	if len(got) != 1 {
		t.Fatalf("recorded %v, want one oval", kinds(got))
	}
	if o, ok := got[0].(*OvalBatch); !ok || !o.Circle {
		t.Errorf("batch = %#v, want a circle OvalBatch", got[0])
	}
}

func TestNonAAHairlineTopology(t *testing.T) {
	_, rc := setup(t, nil, 0, false)
	line := NewPath()
	line.MoveTo(10, 50)
	line.LineTo(90, 50)
	rc.DrawPath(NoClip{}, NewPaint(gputypes.ColorRed), Identity(), line, Hairline())
	got := recorded(rc)
	if len(got) != 1 {
		t.Fatalf("recorded %v, want one batch", kinds(got))
	}
	if topo := got[0].Pipeline().Topology; topo != gputypes.PrimitiveTopologyLineList {
		t.Errorf("topology = %v, want line list", topo)
	}
}

func TestMultiPassFillWithoutStencilBufferUsesMask(t *testing.T) {
	outer := RRectFromRectXY(RectLTRB(10, 10, 90, 90), 20, 20)
	inner := RRectFromRectXY(RectLTRB(30, 30, 70, 70), 10, 10)
	inverse := PathFromRect(RectLTRB(20, 20, 60, 60), DirectionCW)
	inverse.SetFillType(FillInverseWinding)
	red := NewPaint(gputypes.ColorRed)

	tests := []struct {
		name string
		draw func(rc *RenderContext)
	}{
		{"concave path", func(rc *RenderContext) {
			rc.DrawPath(NoClip{}, red, Identity(), lShapePath(), SimpleFill())
		}},
		{"inverse convex path", func(rc *RenderContext) {
			rc.DrawPath(NoClip{}, red, Identity(), inverse, SimpleFill())
		}},
		{"rotated drrect", func(rc *RenderContext) {
			rc.DrawDRRect(NoClip{}, red, Translate(50, 0).Multiply(Rotate(0.3)), outer, inner)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rc := setup(t, nil, 0, false)
			tt.draw(rc)
			got := recorded(rc)
			if !sameKinds(kinds(got), []BatchKind{BatchMask}) {
				t.Fatalf("recorded %v, want [mask]", kinds(got))
			}
			if got[0].Pipeline().Stencil != nil {
				t.Error("mask batch has stencil state on a target without stencil")
			}
		})
	}
}

func TestRecordingOrderAcrossDependencies(t *testing.T) {
	caps := NewCaps()
	type frame struct {
		rt  *RenderTarget
		seq uint64
		n   int
	}
	var frames []frame
	exec := ExecutorFunc(func(_ context.Context, f Frame) error {
		frames = append(frames, frame{f.Target, f.Sequence, len(f.Batches)})
		return nil
	})
	m := newTestManager(t, caps, WithExecutor(exec))
	rtA := newTestTarget(t, caps, 0, false)
	rtB := newTestTarget(t, caps, 0, false)
	a := newTestContext(t, m, rtA)
	b := newTestContext(t, m, rtB)
	paint := NewPaint(gputypes.ColorBlue.WithAlpha(0.5))
	r := RectLTRB(10, 10, 20, 20)

	a.DrawRect(NoClip{}, paint, Identity(), r, nil)
	a1 := a.RecordingHandle().Target()
	b.DrawRect(NoClip{}, paint, Identity(), r, nil)
	b.AddDependency(rtA)
	if !a1.IsClosed() {
		t.Fatal("AddDependency() did not close the source recording target")
	}
	if deps := b.RecordingHandle().Target().Dependencies(); len(deps) != 1 || deps[0] != a1 {
		t.Errorf("Dependencies() = %v, want [%p]", deps, a1)
	}
	if !a.RecordingHandle().Stale() {
		t.Error("handle of closed target is not stale")
	}

	a.DrawRect(NoClip{}, paint, Identity(), r, nil)
	a.DrawRect(NoClip{}, paint, Identity(), r, nil)
	if a.RecordingHandle().Target() == a1 {
		t.Fatal("draw after close appended to the closed target")
	}
	if got := len(m.Recordings()); got != 3 {
		t.Fatalf("Recordings() = %d, want 3", got)
	}

	if err := m.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	wantRT := []*RenderTarget{rtA, rtB, rtA}
	wantN := []int{1, 1, 2}
	if len(frames) != len(wantRT) {
		t.Fatalf("executed %d frames, want %d", len(frames), len(wantRT))
	}
	for i, f := range frames {
		if f.rt != wantRT[i] || f.n != wantN[i] {
			t.Errorf("frame %d = %s with %d batches, want %s with %d", i, f.rt.Label(), f.n, wantRT[i].Label(), wantN[i])
		}
		if i > 0 && f.seq <= frames[i-1].seq {
			t.Errorf("frame %d sequence %d not after %d", i, f.seq, frames[i-1].seq)
		}
	}
	if got := len(m.Recordings()); got != 0 {
		t.Errorf("Recordings() after Flush = %d, want 0", got)
	}
}

func TestAbandonedManagerDropsDraws(t *testing.T) {
	m, rc := setup(t, nil, 0, false)
	rc.DrawRect(NoClip{}, NewPaint(gputypes.ColorRed), Identity(), RectLTRB(0, 0, 10, 10), nil)
	m.Abandon()

	rc.DrawRect(NoClip{}, NewPaint(gputypes.ColorRed), Identity(), RectLTRB(0, 0, 10, 10), nil)
	if got := len(m.Recordings()); got != 0 {
		t.Errorf("Recordings() after Abandon = %d, want 0", got)
	}
	if err := m.Flush(context.Background()); !errors.Is(err, ErrAbandoned) {
		t.Errorf("Flush() error = %v, want %v", err, ErrAbandoned)
	}
	if _, err := m.NewRenderContext(rc.RenderTarget(), NewOwnerToken(), SurfaceProps{}); !errors.Is(err, ErrAbandoned) {
		t.Errorf("NewRenderContext() error = %v, want %v", err, ErrAbandoned)
	}
	if rc.StencilPath(NoClip{}, false, Identity(), lShapePath()) {
		t.Error("StencilPath() after Abandon = true, want false")
	}
}

func TestValidate(t *testing.T) {
	caps := NewCaps()
	m := newTestManager(t, caps)
	rt := newTestTarget(t, caps, 0, false)
	other := newTestTarget(t, caps, 0, false)
	rc := newTestContext(t, m, rt)

	if err := rc.Validate(); err != nil {
		t.Fatalf("Validate() on fresh context = %v, want nil", err)
	}
	rc.DrawRect(NoClip{}, NewPaint(gputypes.ColorRed), Identity(), RectLTRB(0, 0, 10, 10), nil)
	if err := rc.Validate(); err != nil {
		t.Fatalf("Validate() after draw = %v, want nil", err)
	}

	saved := rc.handle
	rc.handle = newRecordingHandle(m.AcquireRecordingTarget(other))
	if err := rc.Validate(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Validate() with foreign target = %v, want %v", err, ErrInvalidState)
	}

	rc.handle = RecordingHandle{target: saved.target, epoch: saved.epoch + 1000}
	if err := rc.Validate(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Validate() with wrong epoch = %v, want %v", err, ErrInvalidState)
	}

	rc.handle = saved
	saved.target.Close()
	if err := rc.Validate(); err != nil {
		t.Errorf("Validate() with closed target = %v, want nil", err)
	}
}

func TestDrawAndStencilPath(t *testing.T) {
	tests := []struct {
		name    string
		path    *Path
		stencil bool
		ok      bool
		want    []BatchKind
	}{
		{"concave with user stencil", lShapePath(), true, false, nil},
		{"convex with user stencil", PathFromRect(RectLTRB(10, 10, 40, 40), DirectionCW), true, true, []BatchKind{BatchConvexPath}},
		{"convex without stencil buffer", PathFromRect(RectLTRB(10, 10, 40, 40), DirectionCW), false, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rc := setup(t, nil, 0, tt.stencil)
			ok := rc.DrawAndStencilPath(NoClip{}, &StencilDirect, RegionReplace, false, false, Identity(), tt.path)
			if ok != tt.ok {
				t.Fatalf("DrawAndStencilPath() = %v, want %v", ok, tt.ok)
			}
			got := recorded(rc)
			if !sameKinds(kinds(got), tt.want) {
				t.Fatalf("recorded %v, want %v", kinds(got), tt.want)
			}
			for _, b := range got {
				if b.Pipeline().Stencil == nil {
					t.Errorf("%v has no stencil state", b.Kind())
				}
			}
		})
	}
}

func TestDrawAndStencilRect(t *testing.T) {
	tests := []struct {
		name    string
		stencil bool
		ok      bool
		want    []BatchKind
	}{
		{"stencil buffer", true, true, []BatchKind{BatchNonAAFillRect}},
		{"no stencil buffer", false, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rc := setup(t, nil, 0, tt.stencil)
			ok := rc.DrawAndStencilRect(NoClip{}, &StencilDirect, RegionReplace, false, false, Identity(), RectLTRB(10, 10, 40, 40))
			if ok != tt.ok {
				t.Fatalf("DrawAndStencilRect() = %v, want %v", ok, tt.ok)
			}
			if got := kinds(recorded(rc)); !sameKinds(got, tt.want) {
				t.Errorf("recorded %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStencilPath(t *testing.T) {
	tests := []struct {
		name    string
		path    *Path
		stencil bool
		ok      bool
		want    []BatchKind
	}{
		{"concave", lShapePath(), true, true, []BatchKind{BatchStencilPath}},
		{"convex", PathFromRect(RectLTRB(10, 10, 40, 40), DirectionCW), true, true, []BatchKind{BatchConvexPath}},
		{"no stencil buffer", lShapePath(), false, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rc := setup(t, nil, 0, tt.stencil)
			if ok := rc.StencilPath(NoClip{}, false, Identity(), tt.path); ok != tt.ok {
				t.Fatalf("StencilPath() = %v, want %v", ok, tt.ok)
			}
			got := recorded(rc)
			if !sameKinds(kinds(got), tt.want) {
				t.Fatalf("recorded %v, want %v", kinds(got), tt.want)
			}
			for _, b := range got {
				pl := b.Pipeline()
				if pl.WriteMask != gputypes.ColorWriteMaskNone {
					t.Errorf("%v write mask = %v, want none", b.Kind(), pl.WriteMask)
				}
				if pl.Stencil == nil {
					t.Errorf("%v has no stencil state", b.Kind())
				}
			}
		})
	}
}

func TestClearStencilClip(t *testing.T) {
	_, rc := setup(t, nil, 0, true)
	rc.ClearStencilClip(IRect{Left: 50, Top: 50, Right: 150, Bottom: 150}, true)
	got := recorded(rc)
	if len(got) != 1 {
		t.Fatalf("recorded %v, want one batch", kinds(got))
	}
	b := got[0].(*ClearStencilClipBatch)
	if want := (IRect{Left: 50, Top: 50, Right: 100, Bottom: 100}); b.Rect != want || !b.InsideClip {
		t.Errorf("ClearStencilClip() = %+v inside %v, want %+v inside true", b.Rect, b.InsideClip, want)
	}

	_, noStencil := setup(t, nil, 0, false)
	noStencil.ClearStencilClip(IRectWH(10, 10), false)
	if got := recorded(noStencil); len(got) != 0 {
		t.Errorf("recorded %v on target without stencil, want none", kinds(got))
	}
}

func TestDrawVertices(t *testing.T) {
	tri := []Point{Pt(10, 10), Pt(30, 10), Pt(20, 30)}
	tests := []struct {
		name       string
		v          Vertices
		aa         bool
		wantBounds *Rect
	}{
		{"aa triangles", Vertices{Topology: gputypes.PrimitiveTopologyTriangleList, Positions: tri}, true, &Rect{Left: 10, Top: 10, Right: 30, Bottom: 30}},
		{"non-aa outsets", Vertices{Topology: gputypes.PrimitiveTopologyTriangleList, Positions: tri}, false, &Rect{Left: 9.5, Top: 9.5, Right: 30.5, Bottom: 30.5}},
		{"aa lines outset", Vertices{Topology: gputypes.PrimitiveTopologyLineList, Positions: tri[:2]}, true, &Rect{Left: 9.5, Top: 9.5, Right: 30.5, Bottom: 10.5}},
		{"index out of range", Vertices{Topology: gputypes.PrimitiveTopologyTriangleList, Positions: tri, Indices: []uint16{0, 1, 3}}, true, nil},
		{"color count mismatch", Vertices{Topology: gputypes.PrimitiveTopologyTriangleList, Positions: tri, Colors: []gputypes.Color{gputypes.ColorRed}}, true, nil},
		{"non-finite", Vertices{Topology: gputypes.PrimitiveTopologyTriangleList, Positions: []Point{Pt(0, 0), Pt(math.Inf(1), 0), Pt(0, 1)}}, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rc := setup(t, nil, 0, false)
			rc.DrawVertices(NoClip{}, NewPaint(gputypes.ColorRed).WithAntiAlias(tt.aa), Identity(), tt.v)
			got := recorded(rc)
			if tt.wantBounds == nil {
				if len(got) != 0 {
					t.Errorf("recorded %v, want none", kinds(got))
				}
				return
			}
			if len(got) != 1 {
				t.Fatalf("recorded %v, want one batch", kinds(got))
			}
			if b := got[0].Bounds(); b != *tt.wantBounds {
				t.Errorf("Bounds() = %+v, want %+v", b, *tt.wantBounds)
			}
			if topo := got[0].Pipeline().Topology; topo != tt.v.Topology {
				t.Errorf("topology = %v, want %v", topo, tt.v.Topology)
			}
		})
	}
}

func TestDrawImageNine(t *testing.T) {
	tests := []struct {
		name   string
		center IRect
		dst    Rect
		want   int
	}{
		{"valid", IRect{Left: 4, Top: 4, Right: 12, Bottom: 12}, RectLTRB(0, 0, 80, 40), 1},
		{"empty center", IRect{Left: 4, Top: 4, Right: 4, Bottom: 12}, RectLTRB(0, 0, 80, 40), 0},
		{"center outside image", IRect{Left: 4, Top: 4, Right: 20, Bottom: 12}, RectLTRB(0, 0, 80, 40), 0},
		{"empty dst", IRect{Left: 4, Top: 4, Right: 12, Bottom: 12}, RectLTRB(0, 0, 0, 40), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rc := setup(t, nil, 0, false)
			rc.DrawImageNine(NoClip{}, NewPaint(gputypes.ColorWhite), Identity(), 16, 16, tt.center, tt.dst)
			if got := len(recorded(rc)); got != tt.want {
				t.Errorf("DrawImageNine() recorded %d batches, want %d", got, tt.want)
			}
		})
	}
}

func TestDrawAtlas(t *testing.T) {
	_, rc := setup(t, nil, 0, false)
	xforms := []RSXform{{SCos: 1, Tx: 10, Ty: 10}, {SCos: 2, Tx: 50, Ty: 20}}
	tex := []Rect{RectWH(8, 8), RectWH(4, 4)}
	rc.DrawAtlas(NoClip{}, NewPaint(gputypes.ColorWhite), Identity(), xforms, tex, nil)
	rc.DrawAtlas(NoClip{}, NewPaint(gputypes.ColorWhite), Identity(), xforms, tex[:1], nil)

	got := recorded(rc)
	if len(got) != 1 {
		t.Fatalf("recorded %v, want one atlas", kinds(got))
	}
	if want := RectLTRB(10, 10, 58, 28); got[0].Bounds() != want {
		t.Errorf("Bounds() = %+v, want %+v", got[0].Bounds(), want)
	}
}

func TestDrawText(t *testing.T) {
	f, err := text.ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFont() error = %v", err)
	}
	m, rc := setup(t, nil, 0, false)
	rc.props.GammaCorrect = true
	rc.DrawText(NoClip{}, NewPaint(gputypes.ColorRed), Identity(), f, 16, "Hello", 10, 50)

	got := recorded(rc)
	if len(got) != 1 {
		t.Fatalf("recorded %v, want one text batch", kinds(got))
	}
	tb, ok := got[0].(*TextBatch)
	if !ok {
		t.Fatalf("batch = %T, want *TextBatch", got[0])
	}
	if len(tb.Quads) == 0 {
		t.Error("TextBatch has no quads")
	}
	if !tb.GammaCorrect {
		t.Error("GammaCorrect = false, want true")
	}
	if m.glyphs == nil {
		t.Error("glyph atlas was not created")
	}
}

func TestOverlapsClip(t *testing.T) {
	clip := IRect{Left: 0, Top: 0, Right: 10, Bottom: 10}
	tests := []struct {
		name string
		b    Rect
		clip IRect
		want bool
	}{
		{"inside", RectLTRB(2, 2, 4, 4), clip, true},
		{"touching edge", RectLTRB(10, 2, 12, 4), clip, false},
		{"separated", RectLTRB(20, 20, 30, 30), clip, false},
		{"zero width on edge", RectLTRB(10, 2, 10, 4), clip, true},
		{"zero width outside", RectLTRB(11, 2, 11, 4), clip, false},
		{"empty clip", RectLTRB(2, 2, 4, 4), IRect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlapsClip(tt.b, tt.clip); got != tt.want {
				t.Errorf("overlapsClip(%+v, %+v) = %v, want %v", tt.b, tt.clip, got, tt.want)
			}
		})
	}
}
