// Package session drives the per-person capture workflow: identify a person,
// accept or reject frames, count accepted photos and stop at the quota.
package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kozaktomas/face-capture/internal/constants"
	"github.com/kozaktomas/face-capture/internal/dataset"
	"github.com/kozaktomas/face-capture/internal/pose"
)

// State is the lifecycle phase of a capture session.
type State string

const (
	StateIdle      State = "idle"      // no person identified
	StateCapturing State = "capturing" // person identified, counter below quota
	StateComplete  State = "complete"  // quota reached, captures disabled
)

// Detector finds faces in a frame and reports their landmarks.
type Detector interface {
	DetectFaces(ctx context.Context, image []byte) ([]pose.Landmarks, error)
}

// Store persists accepted frames per person key.
type Store interface {
	EnsureFolder(personKey string) (string, error)
	Folder(personKey string) string
	Save(personKey string, data []byte) (dataset.SavedPhoto, error)
	List(personKey string) ([]string, error)
}

// Mirror optionally copies accepted photos to a remote library. It receives
// the encoded bytes directly so a mirror never has to read the file back from
// disk.
type Mirror interface {
	MirrorPhoto(ctx context.Context, personKey, fileName string, data []byte) (string, error)
}

// Recorder optionally keeps capture history in a database. Recording is
// best-effort: failures are logged and never affect the session.
type Recorder interface {
	StartSession(ctx context.Context, sessionID, personKey, personName string) error
	RecordCapture(ctx context.Context, sessionID, personKey, filename string, offsetRatio float64) error
}

// CaptureResult describes one accepted frame.
type CaptureResult struct {
	Photo       dataset.SavedPhoto
	OffsetRatio float64
	Count       int
	Quota       int
	State       State
	RemoteID    string // remote file ID when mirroring succeeded
	MirrorError string // non-empty when the local save succeeded but the mirror did not
}

// Status is a display snapshot of the session.
type Status struct {
	State     State    `json:"state"`
	Name      string   `json:"name"`
	PersonKey string   `json:"person_key"`
	Count     int      `json:"count"`
	Quota     int      `json:"quota"`
	Folder    string   `json:"folder,omitempty"`
	Files     []string `json:"files,omitempty"`
}

// Session is the capture state machine for one person at a time. All
// operations are serialized; concurrent frame submissions cannot both observe
// the same counter value.
type Session struct {
	detector Detector
	store    Store
	eval     *pose.Evaluator
	mirror   Mirror   // may be nil
	recorder Recorder // may be nil
	quota    int

	mu        sync.Mutex
	id        string
	state     State
	name      string // raw name for display
	lastName  string // last submitted name, used to detect redundant re-submission
	personKey string
	counter   int
}

// New creates an idle session. Mirror and recorder may be nil.
func New(detector Detector, store Store, eval *pose.Evaluator, quota int, mirror Mirror, recorder Recorder) *Session {
	if quota <= 0 {
		quota = constants.DefaultQuota
	}
	return &Session{
		detector: detector,
		store:    store,
		eval:     eval,
		mirror:   mirror,
		recorder: recorder,
		quota:    quota,
		state:    StateIdle,
	}
}

// Identify switches the session to a person. Submitting the same name again
// is a no-op so a UI redraw never resets an in-progress counter; a genuinely
// new name resets the counter to zero even if the person's folder already
// holds photos from an earlier run. An empty name clears the session back to
// Idle.
func (s *Session) Identify(ctx context.Context, name string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		s.reset()
		return s.statusLocked(), nil
	}

	if trimmed == s.lastName {
		return s.statusLocked(), nil
	}

	key := pose.PersonKey(trimmed)
	if _, err := s.store.EnsureFolder(key); err != nil {
		return s.statusLocked(), fmt.Errorf("could not prepare folder for %q: %w", key, err)
	}

	s.id = uuid.NewString()
	s.state = StateCapturing
	s.name = trimmed
	s.lastName = trimmed
	s.personKey = key
	s.counter = 0

	if s.recorder != nil {
		if err := s.recorder.StartSession(ctx, s.id, key, trimmed); err != nil {
			log.Printf("warning: could not record session start: %v", err)
		}
	}

	return s.statusLocked(), nil
}

// Capture runs one frame through detection, the pose check and storage.
// The counter only moves after the store confirms the write; any rejection or
// storage failure leaves the session exactly as it was.
func (s *Session) Capture(ctx context.Context, frame []byte) (*CaptureResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIdle:
		return nil, ErrNoActiveSession
	case StateComplete:
		return nil, ErrQuotaReached
	}

	faces, err := s.detector.DetectFaces(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("landmark detection failed: %w", err)
	}
	if len(faces) == 0 {
		return nil, ErrNoFaceDetected
	}
	if len(faces) > 1 {
		return nil, fmt.Errorf("%w: got %d", ErrMultipleFacesDetected, len(faces))
	}

	decision, err := s.eval.Evaluate(faces[0])
	if err != nil {
		return nil, err
	}
	if !decision.Accepted {
		return nil, fmt.Errorf("%w (offset ratio %.2f, max %.2f)", ErrSidewaysPose, decision.OffsetRatio, s.eval.MaxOffset())
	}

	saved, err := s.store.Save(s.personKey, frame)
	if err != nil {
		return nil, fmt.Errorf("could not store frame: %w", err)
	}

	s.counter++
	if s.counter >= s.quota {
		s.state = StateComplete
	}

	result := &CaptureResult{
		Photo:       saved,
		OffsetRatio: decision.OffsetRatio,
		Count:       s.counter,
		Quota:       s.quota,
		State:       s.state,
	}

	if s.mirror != nil {
		remoteID, err := s.mirror.MirrorPhoto(ctx, s.personKey, saved.Filename, saved.Data)
		if err != nil {
			// The local copy is the durability authority; a failed mirror is
			// reported but never undoes the capture.
			result.MirrorError = err.Error()
		} else {
			result.RemoteID = remoteID
		}
	}

	if s.recorder != nil {
		if err := s.recorder.RecordCapture(ctx, s.id, s.personKey, saved.Filename, decision.OffsetRatio); err != nil {
			log.Printf("warning: could not record capture: %v", err)
		}
	}

	return result, nil
}

// Status returns a display snapshot including the sorted saved filenames.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Session) statusLocked() Status {
	status := Status{
		State:     s.state,
		Name:      s.name,
		PersonKey: s.personKey,
		Count:     s.counter,
		Quota:     s.quota,
	}
	if s.personKey != "" {
		status.Folder = s.store.Folder(s.personKey)
		files, err := s.store.List(s.personKey)
		if err != nil {
			log.Printf("warning: could not list folder for %q: %v", s.personKey, err)
		}
		status.Files = files
	}
	return status
}

func (s *Session) reset() {
	s.id = ""
	s.state = StateIdle
	s.name = ""
	s.lastName = ""
	s.personKey = ""
	s.counter = 0
}
