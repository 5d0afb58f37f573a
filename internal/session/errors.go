package session

import "errors"

// Per-frame rejection reasons. All of them are recoverable: the frame is
// discarded, the counter stays put and the session keeps accepting frames.
var (
	// ErrNoActiveSession indicates a capture attempt before anyone was identified.
	ErrNoActiveSession = errors.New("no active capture session, identify a person first")

	// ErrNoFaceDetected indicates the detector found no face in the frame.
	ErrNoFaceDetected = errors.New("no face detected")

	// ErrMultipleFacesDetected indicates the detector found more than one face.
	ErrMultipleFacesDetected = errors.New("multiple faces detected")

	// ErrSidewaysPose indicates the face is turned too far from frontal.
	ErrSidewaysPose = errors.New("face is turned too much sideways")

	// ErrQuotaReached indicates the person already has the full photo quota.
	ErrQuotaReached = errors.New("photo quota reached")
)
