package models

import "github.com/lehigh-university-libraries/storagecalc/internal/registry"

// CreateImageRequest asks a session to estimate one image
type CreateImageRequest struct {
	Format string `json:"format"` // "jpg", "jp2", "bmp", ...
	Width  uint64 `json:"width"`
	Height uint64 `json:"height"`
}

// ImageResponse is the estimate for a newly created image
type ImageResponse struct {
	ID     int    `json:"id"`
	Format string `json:"format"`
	Width  uint64 `json:"width"`
	Height uint64 `json:"height"`
	Size   uint64 `json:"size"`
	Total  int64  `json:"total"`
}

// GroupRequest lists the image ids to compress together
type GroupRequest struct {
	IDs []int `json:"ids"`
}

// GroupResponse is the outcome of a group compression and the new total
type GroupResponse struct {
	registry.GroupResult
	Total int64 `json:"total"`
}

// SessionCreated is returned when a session is opened
type SessionCreated struct {
	ID string `json:"id"`
}
