// Package report exports a finished estimation session as a YAML summary or
// a Parquet ledger, and renders either back as text, JSON or CSV.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/storagecalc/internal/estimator"
	"github.com/lehigh-university-libraries/storagecalc/internal/registry"
	"gopkg.in/yaml.v3"
)

// ImageRow is one estimated image.
type ImageRow struct {
	ID      int    `yaml:"id" json:"id"`
	Format  string `yaml:"format" json:"format"`
	Width   uint64 `yaml:"width" json:"width"`
	Height  uint64 `yaml:"height" json:"height"`
	Size    uint64 `yaml:"size" json:"size"`
	Grouped bool   `yaml:"grouped" json:"grouped"`
}

// Summary is the exported state of a session.
type Summary struct {
	SessionID string                 `yaml:"session_id" json:"session_id"`
	CreatedAt time.Time              `yaml:"created_at" json:"created_at"`
	Images    []ImageRow             `yaml:"images" json:"images"`
	Groups    []registry.GroupResult `yaml:"groups" json:"groups"`
	Events    []estimator.Event      `yaml:"events,omitempty" json:"events,omitempty"`
	Total     int64                  `yaml:"total" json:"total"`
}

// Summarize captures the current state of s.
func Summarize(s *estimator.Session) Summary {
	images := s.Images()
	sum := Summary{
		SessionID: s.ID,
		CreatedAt: s.CreatedAt,
		Images:    make([]ImageRow, 0, len(images)),
		Groups:    s.Groups(),
		Events:    s.Events(),
		Total:     s.Total(),
	}
	for _, img := range images {
		sum.Images = append(sum.Images, ImageRow{
			ID:      img.ID(),
			Format:  img.Format().Tag(),
			Width:   img.Width(),
			Height:  img.Height(),
			Size:    img.Size(),
			Grouped: img.Grouped(),
		})
	}
	return sum
}

// SaveYAML writes sum to filename, creating parent directories.
func SaveYAML(filename string, sum Summary) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	data, err := yaml.Marshal(&sum)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}

// LoadYAML reads a summary written by SaveYAML.
func LoadYAML(filename string) (Summary, error) {
	var sum Summary
	data, err := os.ReadFile(filename)
	if err != nil {
		return sum, fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, &sum); err != nil {
		return sum, fmt.Errorf("failed to parse YAML file %s: %w", filename, err)
	}
	return sum, nil
}
