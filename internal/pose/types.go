// Package pose decides whether a detected face is front-facing enough to be
// worth keeping in a capture dataset. It consumes landmark coordinates from a
// detector and applies an eye-center/nose-offset heuristic.
package pose

// Point is a single landmark coordinate in normalized [0,1] image space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmarks holds the landmark regions required for the frontal pose check.
// Each region is a set of points; detectors with different granularity may
// report a single point or a full contour per region.
type Landmarks struct {
	LeftEye  []Point `json:"left_eye"`
	RightEye []Point `json:"right_eye"`
	NoseTip  []Point `json:"nose_tip"`
}

// Decision is the outcome of a frontal pose check. OffsetRatio is kept for
// diagnostics even when the frame is accepted.
type Decision struct {
	Accepted    bool    `json:"accepted"`
	OffsetRatio float64 `json:"offset_ratio"`
}
