// Package stroke converts stroked and dashed polylines into fill geometry.
//
// Expand turns every contour into a set of closed polygons whose union
// under the non-zero rule is the stroke:
//   - one quad per segment, offset by half the width on both sides
//   - one polygon per interior vertex for the join (miter, round, or bevel)
//   - one polygon per open end for the cap (butt adds nothing)
//
// All emitted polygons share the same orientation, so overlaps never cancel.
//
// Dash splits contours into open "on" runs before stroking.
package stroke
