// Command grdemo records a demo scene through a drawing manager and prints
// what the executor did with it. The stats executor counts batches; the
// wgpu executor draws them on the first GPU adapter found.
package main

import (
	"context"
	"flag"
	"image/color"
	"log"
	"log/slog"
	"math"
	"os"
	"sort"

	"github.com/gogpu/gputypes"
	_ "github.com/gogpu/wgpu/hal/allbackends"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/gr"
	"github.com/gogpu/gr/backend/wgpu"
	"github.com/gogpu/gr/program"
	"github.com/gogpu/gr/text"
)

func main() {
	var (
		width     = flag.Int("width", 800, "target width")
		height    = flag.Int("height", 600, "target height")
		samples   = flag.Int("msaa", 0, "color sample count (0 or 1 disables MSAA)")
		stencil   = flag.Bool("stencil", true, "attach a stencil buffer")
		threshold = flag.Int("flush", gr.DefaultFlushThreshold, "completed draws between automatic flushes (0 disables)")
		compile   = flag.Bool("compile", false, "compile the program of every batch at flush")
		instanced = flag.Bool("instanced", false, "enable instanced rendering")
		executor  = flag.String("executor", "stats", "executor: stats or wgpu")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	gr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	caps := gr.NewCaps(gr.WithInstancedSupport(*instanced))
	stats := gr.NewStatsExecutor(*compile)
	var exec gr.Executor = stats
	var gpu *wgpu.Executor
	switch *executor {
	case "stats":
	case "wgpu":
		var err error
		gpu, err = wgpu.Open()
		if err != nil {
			log.Fatalf("wgpu: %v", err)
		}
		defer gpu.Destroy()
		log.Printf("adapter: %s", gpu.Info())
		exec = gpu
	default:
		log.Fatalf("unknown executor %q", *executor)
	}
	mgr, err := gr.NewDrawingManager(caps,
		gr.WithExecutor(exec),
		gr.WithFlushThreshold(*threshold),
		gr.WithProgramCache(program.NewCache()),
	)
	if err != nil {
		log.Fatalf("drawing manager: %v", err)
	}

	desc := gr.RenderTargetDesc{
		Width:       *width,
		Height:      *height,
		Format:      gputypes.TextureFormatRGBA8Unorm,
		SampleCount: *samples,
		Label:       "demo",
	}
	if *stencil {
		desc.StencilFormat = gputypes.TextureFormatDepth24PlusStencil8
	}
	rt, err := gr.NewRenderTarget(caps, desc)
	if err != nil {
		log.Fatalf("render target: %v", err)
	}
	rc, err := mgr.NewRenderContext(rt, gr.NewOwnerToken(), gr.SurfaceProps{})
	if err != nil {
		log.Fatalf("render context: %v", err)
	}

	rc.Clear(nil, rgb(colornames.Midnightblue), true)
	drawShapes(rc)
	drawTransforms(rc)
	drawPaths(rc)
	drawText(rc)

	if err := mgr.Flush(context.Background()); err != nil {
		log.Fatalf("flush: %v", err)
	}
	if gpu != nil {
		reportGPU(gpu.Stats())
	} else {
		report(stats.Stats())
	}
	if s := mgr.MaskCacheStats(); s.Hits+s.Misses > 0 {
		log.Printf("mask cache: %d entries, hit rate %.2f", s.Len, s.HitRate())
	}
}

func rgb(c color.RGBA) gputypes.Color {
	return gputypes.NewColor(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

func drawShapes(rc *gr.RenderContext) {
	clip := gr.NoClip{}
	id := gr.Identity()

	for i, c := range []color.RGBA{colornames.Tomato, colornames.Limegreen, colornames.Royalblue} {
		p := gr.NewPaint(rgb(c).WithAlpha(0.8)).WithAntiAlias(true)
		x := 150 + 50*float64(i%2)
		y := 150 + 50*float64(i/2)
		rc.DrawOval(clip, p, id, gr.RectLTRB(x-60, y-60, x+60, y+60), gr.SimpleFill())
	}

	gold := gr.NewPaint(rgb(colornames.Gold)).WithAntiAlias(true)
	rc.DrawRRect(clip, gold, id, gr.RRectFromRectXY(gr.RectLTRB(350, 100, 470, 180), 15, 15), gr.SimpleFill())

	white := gr.NewPaint(rgb(colornames.White)).WithAntiAlias(true)
	st := gr.StrokeStyle(4, gr.CapButt, gr.JoinMiter, gr.DefaultMiterLimit)
	rc.DrawRect(clip, white, id, gr.RectLTRB(350, 100, 470, 180), &st)

	outer := gr.RRectFromRectXY(gr.RectLTRB(500, 260, 620, 380), 24, 24)
	inner := gr.RRectFromRectXY(gr.RectLTRB(530, 290, 590, 350), 10, 10)
	rc.DrawDRRect(clip, gr.NewPaint(rgb(colornames.Orchid)).WithAntiAlias(true), id, outer, inner)
}

func drawTransforms(rc *gr.RenderContext) {
	for i := 0; i < 8; i++ {
		m := gr.Translate(600, 150).Multiply(gr.Rotate(float64(i) * math.Pi / 4))
		c := colornames.Map[[]string{"red", "orange", "yellow", "green", "cyan", "blue", "purple", "magenta"}[i]]
		rc.DrawRect(gr.NoClip{}, gr.NewPaint(rgb(c)).WithAntiAlias(true), m, gr.RectLTRB(-30, -30, 30, 30), nil)
	}
}

func drawPaths(rc *gr.RenderContext) {
	wave := gr.NewPath()
	wave.MoveTo(150, 400)
	wave.CubicTo(200, 350, 250, 450, 300, 400)
	wave.CubicTo(350, 370, 400, 430, 450, 400)
	st := gr.StrokeStyle(6, gr.CapRound, gr.JoinRound, 0)
	rc.DrawPath(gr.NoClip{}, gr.NewPaint(rgb(colornames.Darkorange)).WithAntiAlias(true), gr.Identity(), wave, st)

	const points = 5
	star := gr.NewPath()
	for i := 0; i < points*2; i++ {
		r := 60.0
		if i%2 == 1 {
			r = 30
		}
		a := float64(i)*math.Pi/points - math.Pi/2
		x, y := 550+r*math.Cos(a), 400+r*math.Sin(a)
		if i == 0 {
			star.MoveTo(x, y)
		} else {
			star.LineTo(x, y)
		}
	}
	star.Close()
	rc.DrawPath(gr.NoClip{}, gr.NewPaint(rgb(colornames.Yellow)), gr.Identity(), star, gr.SimpleFill())

	dashed := gr.StrokeStyle(3, gr.CapButt, gr.JoinMiter, 0).WithDash(gr.Dash{Intervals: []float64{12, 6}})
	line := gr.NewPath()
	line.MoveTo(100, 520)
	line.LineTo(700, 520)
	rc.DrawPath(gr.NoClip{}, gr.NewPaint(rgb(colornames.Lightgray)).WithAntiAlias(true), gr.Identity(), line, dashed)
}

func drawText(rc *gr.RenderContext) {
	f, err := text.ParseFont(goregular.TTF)
	if err != nil {
		log.Printf("font: %v", err)
		return
	}
	rc.DrawText(gr.NoClip{}, gr.NewPaint(rgb(colornames.White)), gr.Identity(), f, 24, "gr demo", 40, 570)
}

func report(s gr.ExecutorStats) {
	log.Printf("executed %d frames, %d batches", s.Frames, s.Batches)
	kinds := make([]gr.BatchKind, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		log.Printf("  %-22s %d", k, s.ByKind[k])
	}
}

func reportGPU(s wgpu.Stats) {
	log.Printf("submitted %d frames, %d draws", s.Frames, s.Draws)
	kinds := make([]gr.BatchKind, 0, len(s.Skipped))
	for k := range s.Skipped {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		log.Printf("  skipped %-14s %d", k, s.Skipped[k])
	}
}
