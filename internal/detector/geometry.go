package detector

import "math"

// Distance calculates the Euclidean distance between two landmarks in 3D
// normalized space. NaN coordinates propagate to the result.
func Distance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Distance2D calculates the Euclidean distance between two landmarks in the
// image plane, ignoring depth.
func Distance2D(a, b Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
