package estimator

import (
	"testing"

	"github.com/lehigh-university-libraries/storagecalc/internal/config"
	"github.com/lehigh-university-libraries/storagecalc/internal/footprint"
)

func TestSessionRunningTotal(t *testing.T) {
	s := NewSession(nil)

	if s.ID == "" {
		t.Error("Expected a session ID")
	}

	jpg, err := s.Create(footprint.FormatBaseline, 1000, 1000)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if jpg.Size() != 262500 {
		t.Errorf("Expected baseline size=262500, got %d", jpg.Size())
	}

	bmp, err := s.Create(footprint.FormatBMP, 100, 100)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if s.Total() != 272500 {
		t.Errorf("Expected Total=272500, got %d", s.Total())
	}

	res := s.Group([]int{jpg.ID(), bmp.ID()})
	// round(272500 / ln 5) - 272500
	if res.Delta != -103186 {
		t.Errorf("Expected Delta=-103186, got %d", res.Delta)
	}
	if s.Total() != 272500-103186 {
		t.Errorf("Expected Total=%d, got %d", 272500-103186, s.Total())
	}

	s.Group([]int{jpg.ID()})
	if len(s.Groups()) != 2 {
		t.Errorf("Expected 2 groups, got %d", len(s.Groups()))
	}
	if s.Total() != 272500-103186 {
		t.Errorf("Expected regroup to keep the total, got %d", s.Total())
	}
}

func TestSessionCreateRejectsUnknownFormat(t *testing.T) {
	s := NewSession(nil)
	if _, err := s.Create(footprint.Format(0), 10, 10); err == nil {
		t.Error("Expected error for unknown format")
	}
	if len(s.Images()) != 0 {
		t.Errorf("Expected 0 images, got %d", len(s.Images()))
	}
}

func TestSessionUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Pyramid.MinSize = 1

	s := NewSession(cfg)
	img, err := s.Create(footprint.FormatBMP, 8, 8)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// 64 + 4x4 + 2x2
	if img.Size() != 84 {
		t.Errorf("Expected Size=84, got %d", img.Size())
	}
	if got := len(s.Levels(img)); got != 2 {
		t.Errorf("Expected 2 levels, got %d", got)
	}
}

func TestSessionLevelsSkipsJP2(t *testing.T) {
	s := NewSession(nil)
	img, err := s.Create(footprint.FormatJP2, 4000, 4000)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if levels := s.Levels(img); levels != nil {
		t.Errorf("Expected no levels, got %+v", levels)
	}
}

func TestSessionEventsKeepOrder(t *testing.T) {
	s := NewSession(nil)
	if _, err := s.Create(footprint.FormatBMP, 10, 10); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	s.Group([]int{1})
	if _, err := s.Create(footprint.FormatJP2, 10, 10); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	s.Group([]int{2})

	expected := []Event{
		{Kind: EventImage, Index: 0},
		{Kind: EventGroup, Index: 0},
		{Kind: EventImage, Index: 1},
		{Kind: EventGroup, Index: 1},
	}
	events := s.Events()
	if len(events) != len(expected) {
		t.Fatalf("Expected %d events, got %d: %+v", len(expected), len(events), events)
	}
	for i := range expected {
		if events[i] != expected[i] {
			t.Errorf("Expected event %d=%+v, got %+v", i, expected[i], events[i])
		}
	}
}
