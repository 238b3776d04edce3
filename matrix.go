package gr

import "math"

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// matrixNearlyZero matches the tolerance used for right-angle checks.
const matrixNearlyZero = 1.0 / 4096

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{A: cos, B: -sin, D: sin, E: cos}
}

// Shear creates a shear matrix.
func Shear(x, y float64) Matrix {
	return Matrix{A: 1, B: x, D: y, E: 1}
}

// Multiply multiplies two matrices (m * other); other is applied first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// TransformVector applies the transformation to a vector (no translation).
func (m Matrix) TransformVector(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y,
		Y: m.D*p.X + m.E*p.Y,
	}
}

// Determinant returns the determinant of the linear part.
func (m Matrix) Determinant() float64 {
	return m.A*m.E - m.B*m.D
}

// Invert returns the inverse matrix. ok is false when the matrix is singular
// or produces non-finite values.
func (m Matrix) Invert() (inv Matrix, ok bool) {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Matrix{}, false
	}
	invDet := 1.0 / det
	inv = Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
	for _, v := range [6]float64{inv.A, inv.B, inv.C, inv.D, inv.E, inv.F} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Matrix{}, false
		}
	}
	return inv, true
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// IsTranslation returns true if the matrix is only a translation.
func (m Matrix) IsTranslation() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}

// IsScaleTranslate reports whether the matrix has no rotation or skew.
func (m Matrix) IsScaleTranslate() bool {
	return m.B == 0 && m.D == 0
}

// RectStaysRect reports whether mapping an axis-aligned rect yields an
// axis-aligned rect: scale/translate or a 90 degree rotation, non-degenerate.
func (m Matrix) RectStaysRect() bool {
	if m.B == 0 && m.D == 0 {
		return m.A != 0 && m.E != 0
	}
	return m.A == 0 && m.E == 0 && m.B != 0 && m.D != 0
}

// PreservesRightAngles reports whether the matrix maps perpendicular vectors
// to perpendicular vectors (similarity plus non-uniform axis scale, no skew).
func (m Matrix) PreservesRightAngles() bool {
	if math.Abs(m.Determinant()) <= matrixNearlyZero*matrixNearlyZero {
		return false
	}
	c0 := Point{m.A, m.D}
	c1 := Point{m.B, m.E}
	return math.Abs(c0.Dot(c1)) <= matrixNearlyZero*matrixNearlyZero
}

// IsSimilarity reports whether the matrix is a uniform scale, rotation and
// translation, with no skew or reflection-dependent stretch.
func (m Matrix) IsSimilarity() bool {
	if !m.PreservesRightAngles() {
		return false
	}
	sx := math.Hypot(m.A, m.D)
	sy := math.Hypot(m.B, m.E)
	return math.Abs(sx-sy) <= matrixNearlyZero*math.Max(sx, sy)
}

// MapRect returns the bounds of r after transformation.
func (m Matrix) MapRect(r Rect) Rect {
	if m.IsScaleTranslate() {
		out := Rect{
			Left: r.Left*m.A + m.C, Top: r.Top*m.E + m.F,
			Right: r.Right*m.A + m.C, Bottom: r.Bottom*m.E + m.F,
		}
		return out.Sorted()
	}
	q := m.MapRectToQuad(r)
	return boundsOf(q[:])
}

// MapRectToQuad returns the four transformed corners of r (clockwise from
// the top-left corner in source space).
func (m Matrix) MapRectToQuad(r Rect) [4]Point {
	c := r.corners()
	for i := range c {
		c[i] = m.TransformPoint(c[i])
	}
	return c
}

// ScaleFactors returns the min and max scale the matrix applies to a unit vector.
func (m Matrix) ScaleFactors() (minScale, maxScale float64) {
	// Singular values of the 2x2 linear part.
	a, b, c, d := m.A, m.B, m.D, m.E
	s1 := a*a + b*b + c*c + d*d
	det := a*d - b*c
	disc := math.Sqrt(math.Max(0, s1*s1-4*det*det))
	maxScale = math.Sqrt((s1 + disc) / 2)
	minScale = math.Sqrt(math.Max(0, (s1-disc)/2))
	return minScale, maxScale
}

func boundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Left: pts[0].X, Top: pts[0].Y, Right: pts[0].X, Bottom: pts[0].Y}
	for _, p := range pts[1:] {
		r.Left = math.Min(r.Left, p.X)
		r.Top = math.Min(r.Top, p.Y)
		r.Right = math.Max(r.Right, p.X)
		r.Bottom = math.Max(r.Bottom, p.Y)
	}
	return r
}
