package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/kozaktomas/face-capture/internal/constants"
	"github.com/kozaktomas/face-capture/internal/dataset"
	"github.com/kozaktomas/face-capture/internal/pose"
	"github.com/kozaktomas/face-capture/internal/session"
)

// CaptureHandler handles frame submission.
type CaptureHandler struct {
	workflow Workflow
}

// NewCaptureHandler creates a new capture handler.
func NewCaptureHandler(workflow Workflow) *CaptureHandler {
	return &CaptureHandler{workflow: workflow}
}

// captureResponse is the JSON body for accepted frames.
type captureResponse struct {
	Accepted    bool                `json:"accepted"`
	Photo       *dataset.SavedPhoto `json:"photo,omitempty"`
	OffsetRatio float64             `json:"offset_ratio"`
	Count       int                 `json:"count"`
	Quota       int                 `json:"quota"`
	State       session.State       `json:"state"`
	RemoteID    string              `json:"remote_id,omitempty"`
	MirrorError string              `json:"mirror_error,omitempty"`
}

// rejectionResponse is the JSON body for rejected frames.
type rejectionResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
	Error    string `json:"error"`
}

// rejectionReason maps per-frame rejections to stable reason codes for the
// frontend. Unknown errors are not rejections and get a 500 instead.
func rejectionReason(err error) (string, bool) {
	switch {
	case errors.Is(err, session.ErrNoActiveSession):
		return "no_active_session", true
	case errors.Is(err, session.ErrQuotaReached):
		return "quota_reached", true
	case errors.Is(err, session.ErrNoFaceDetected):
		return "no_face", true
	case errors.Is(err, session.ErrMultipleFacesDetected):
		return "multiple_faces", true
	case errors.Is(err, session.ErrSidewaysPose):
		return "sideways_pose", true
	case errors.Is(err, pose.ErrMissingLandmarks):
		return "missing_landmarks", true
	}
	return "", false
}

// Capture accepts one webcam frame as a multipart "frame" file and runs it
// through the capture workflow.
func (h *CaptureHandler) Capture(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	file, _, err := r.FormFile("frame")
	if err != nil {
		respondError(w, http.StatusBadRequest, "frame file is required")
		return
	}
	defer file.Close()

	frame, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read frame data")
		return
	}

	result, err := h.workflow.Capture(r.Context(), frame)
	if err != nil {
		if reason, ok := rejectionReason(err); ok {
			respondJSON(w, http.StatusUnprocessableEntity, rejectionResponse{
				Reason: reason,
				Error:  err.Error(),
			})
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, captureResponse{
		Accepted:    true,
		Photo:       &result.Photo,
		OffsetRatio: result.OffsetRatio,
		Count:       result.Count,
		Quota:       result.Quota,
		State:       result.State,
		RemoteID:    result.RemoteID,
		MirrorError: result.MirrorError,
	})
}
