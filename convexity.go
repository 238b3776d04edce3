package gr

// convexityEpsilon is the tolerance for cross product comparisons.
// Values below this threshold are treated as zero (collinear edges).
const convexityEpsilon = 1e-10

// ConvexityResult provides detailed convexity analysis of a polygon.
type ConvexityResult struct {
	// Convex is true if all turns go the same direction.
	Convex bool

	// Winding is +1 for clockwise in y-down space, -1 for counter-clockwise,
	// 0 for degenerate polygons.
	Winding int
}

// AnalyzeConvexity checks that all cross products of consecutive edge
// vectors share a sign. The polygon is treated as closed. Collinear edges
// are permitted. A polygon that turns more than once around (a star) is
// rejected by also requiring the edge directions to sweep one revolution.
func AnalyzeConvexity(points []Point) ConvexityResult {
	var result ConvexityResult
	n := len(points)
	if n < 3 {
		return result
	}

	var positive, negative, xSignChanges int
	lastSign := 0
	for i := 0; i < n; i++ {
		p0 := points[i]
		p1 := points[(i+1)%n]
		p2 := points[(i+2)%n]
		e1 := p1.Sub(p0)
		e2 := p2.Sub(p1)
		cross := e1.Cross(e2)
		if cross > convexityEpsilon {
			positive++
		} else if cross < -convexityEpsilon {
			negative++
		}

		// Count sign changes of the edge x-direction; a convex polygon has
		// at most two.
		s := 0
		if e1.X > convexityEpsilon {
			s = 1
		} else if e1.X < -convexityEpsilon {
			s = -1
		}
		if s != 0 {
			if lastSign != 0 && s != lastSign {
				xSignChanges++
			}
			lastSign = s
		}
	}
	if positive == 0 && negative == 0 {
		return result
	}
	if positive > 0 && negative > 0 {
		return result
	}
	if xSignChanges > 2 {
		return result
	}
	result.Convex = true
	if positive > 0 {
		result.Winding = 1
	} else {
		result.Winding = -1
	}
	return result
}

// IsConvex reports whether the path is a single convex contour.
func (p *Path) IsConvex() bool {
	switch p.hint.kind {
	case hintRect, hintOval, hintRRect:
		return true
	}
	contours := p.Flatten(DefaultFlattenTolerance)
	if len(contours) != 1 {
		return false
	}
	return AnalyzeConvexity(contours[0].Points).Convex
}
