// Package estimator ties the size model and the registry into a session
// with a running total, as driven by the shell and the HTTP API.
package estimator

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/storagecalc/internal/config"
	"github.com/lehigh-university-libraries/storagecalc/internal/footprint"
	"github.com/lehigh-university-libraries/storagecalc/internal/registry"
)

// Session is one estimation run: every image created, every group
// compressed, and the signed running total of both.
type Session struct {
	ID        string
	CreatedAt time.Time

	pyramid  footprint.Pyramid
	registry *registry.Registry
	groups   []registry.GroupResult
	events   []Event
	total    int64
}

// EventKind tells which list an Event indexes.
type EventKind string

const (
	EventImage EventKind = "image"
	EventGroup EventKind = "group"
)

// Event records one step of a session in the order it ran. Index points
// into Images() or Groups(), depending on Kind.
type Event struct {
	Kind  EventKind `json:"kind" yaml:"kind"`
	Index int       `json:"index" yaml:"index"`
}

// NewSession starts an empty session. A nil cfg uses config.Default().
func NewSession(cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		pyramid:   cfg.PyramidModel(),
		registry:  cfg.NewRegistry(),
	}
}

// Create estimates a new image and adds its size to the total.
func (s *Session) Create(format footprint.Format, width, height uint64) (*registry.Image, error) {
	codec, err := footprint.NewCodec(format, s.pyramid)
	if err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}

	img := s.registry.Add(codec, width, height)
	s.events = append(s.events, Event{Kind: EventImage, Index: s.registry.Len() - 1})
	size := img.Size()
	s.total += int64(size)

	slog.Debug("Image registered",
		"session_id", s.ID,
		"id", img.ID(),
		"format", format.String(),
		"width", width,
		"height", height,
		"size", size)

	return img, nil
}

// Group compresses the given identifiers and adds the delta to the total.
func (s *Session) Group(ids []int) registry.GroupResult {
	res := s.registry.Group(ids)
	s.events = append(s.events, Event{Kind: EventGroup, Index: len(s.groups)})
	s.groups = append(s.groups, res)
	s.total += res.Delta
	return res
}

// Levels returns the pyramid levels stored for img.
func (s *Session) Levels(img *registry.Image) []footprint.Level {
	switch img.Format() {
	case footprint.FormatJP2:
		return nil
	default:
		return s.pyramid.Levels(img.Codec(), img.Width(), img.Height())
	}
}

// Total is the sum of every created image's size plus every group delta.
func (s *Session) Total() int64 {
	return s.total
}

// Images returns the session's images in creation order.
func (s *Session) Images() []*registry.Image {
	return s.registry.Images()
}

// Groups returns every group compressed so far, oldest first.
func (s *Session) Groups() []registry.GroupResult {
	out := make([]registry.GroupResult, len(s.groups))
	copy(out, s.groups)
	return out
}

// Events returns every image creation and group compression in the order
// they happened.
func (s *Session) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
