package pose

import (
	"errors"
	"math"
)

// ErrMissingLandmarks indicates that a required landmark region is absent,
// empty, or degenerate (zero inter-eye distance).
var ErrMissingLandmarks = errors.New("missing required landmarks")

// DefaultMaxOffset is the default accept threshold for the nose offset ratio.
const DefaultMaxOffset = 0.35

// Evaluator checks whether a face is looking forward. The check projects the
// nose tip onto the eye axis: a frontal face has its nose near the midpoint
// between the eyes, so the offset normalized by the inter-eye distance stays
// small regardless of image resolution.
type Evaluator struct {
	maxOffset float64
}

// NewEvaluator creates an evaluator with the given accept threshold.
// Non-positive thresholds fall back to DefaultMaxOffset.
func NewEvaluator(maxOffset float64) *Evaluator {
	if maxOffset <= 0 {
		maxOffset = DefaultMaxOffset
	}
	return &Evaluator{maxOffset: maxOffset}
}

// MaxOffset returns the configured accept threshold.
func (e *Evaluator) MaxOffset() float64 {
	return e.maxOffset
}

// Evaluate runs the frontal pose check on one face. The decision boundary is
// inclusive: offsetRatio == maxOffset is accepted.
func (e *Evaluator) Evaluate(lm Landmarks) (Decision, error) {
	leftX, ok := meanX(lm.LeftEye)
	if !ok {
		return Decision{}, ErrMissingLandmarks
	}
	rightX, ok := meanX(lm.RightEye)
	if !ok {
		return Decision{}, ErrMissingLandmarks
	}
	noseX, ok := meanX(lm.NoseTip)
	if !ok {
		return Decision{}, ErrMissingLandmarks
	}

	eyeDistance := math.Abs(leftX - rightX)
	if eyeDistance == 0 {
		// Detector glitch. Rejecting here keeps the ratio finite.
		return Decision{}, ErrMissingLandmarks
	}

	eyeCenterX := (leftX + rightX) / 2
	ratio := math.Abs(noseX-eyeCenterX) / eyeDistance

	return Decision{
		Accepted:    ratio <= e.maxOffset,
		OffsetRatio: ratio,
	}, nil
}

// meanX returns the mean horizontal coordinate of a landmark region.
// Reports false for an empty region.
func meanX(points []Point) (float64, bool) {
	if len(points) == 0 {
		return 0, false
	}
	var sum float64
	for _, p := range points {
		sum += p.X
	}
	return sum / float64(len(points)), true
}
