package stroke

import "math"

// maxDashSegments bounds the output of a single Dash call.
const maxDashSegments = 100000

// Dash splits contours into the "on" runs of the interval pattern. Intervals
// alternate on and off lengths; phase offsets the start of the pattern.
// The pattern restarts at every contour. The result contains open contours
// only; nil is returned when the pattern is unusable.
func Dash(contours []Contour, intervals []float64, phase float64) []Contour {
	if len(intervals) == 0 || len(intervals)%2 != 0 {
		return nil
	}
	var total float64
	for _, v := range intervals {
		if v < 0 {
			return nil
		}
		total += v
	}
	if total <= 0 {
		return nil
	}
	phase = math.Mod(phase, total)
	if phase < 0 {
		phase += total
	}

	var out []Contour
	for _, c := range contours {
		pts := c.Points
		if c.Closed && len(pts) > 1 {
			pts = append(append([]Point(nil), pts...), pts[0])
		}
		idx, rem := startInterval(intervals, phase)
		on := idx%2 == 0
		var run []Point
		if on && len(pts) > 0 {
			run = []Point{pts[0]}
		}
		for i := 0; i+1 < len(pts); i++ {
			a, b := pts[i], pts[i+1]
			segLen := b.Sub(a).Length()
			pos := 0.0
			for segLen-pos > rem {
				pos += rem
				p := a.Lerp(b, pos/segLen)
				if on {
					run = append(run, p)
					out = append(out, Contour{Points: run})
					run = nil
				} else {
					run = []Point{p}
				}
				on = !on
				idx = (idx + 1) % len(intervals)
				rem = intervals[idx]
				if len(out) > maxDashSegments {
					return out
				}
			}
			rem -= segLen - pos
			if on {
				run = append(run, b)
			}
		}
		if on && len(run) > 1 {
			out = append(out, Contour{Points: run})
		}
	}
	return out
}

// startInterval returns the interval index containing phase and the length
// remaining in it.
func startInterval(intervals []float64, phase float64) (int, float64) {
	for i, v := range intervals {
		if phase < v {
			return i, v - phase
		}
		phase -= v
	}
	return 0, intervals[0]
}
