// Package footprint estimates the encoded size of an image from its format
// and dimensions, including the overhead of its resolution pyramid.
package footprint

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownFormat is returned by ParseFormat for unrecognised tags.
var ErrUnknownFormat = errors.New("unknown image format")

// Format identifies a codec family
type Format int

const (
	FormatBaseline Format = iota + 1
	FormatJP2
	FormatBMP
)

const (
	baselineScale = 0.2
	jp2Scale      = 0.4
	jp2Offset     = 16
)

// String returns the label printed next to an estimate.
func (f Format) String() string {
	switch f {
	case FormatBaseline:
		return "JPEG/Baseline"
	case FormatJP2:
		return "JP2/2000"
	case FormatBMP:
		return "BMP"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Tag returns the canonical lower-case tag accepted by ParseFormat.
func (f Format) Tag() string {
	switch f {
	case FormatBaseline:
		return "jpg"
	case FormatJP2:
		return "jp2"
	case FormatBMP:
		return "bmp"
	default:
		return ""
	}
}

// ParseFormat maps a case-insensitive tag to a Format.
func ParseFormat(tag string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "baseline", "jpeg", "jpg", "j":
		return FormatBaseline, nil
	case "jp2", "jpeg2000":
		return FormatJP2, nil
	case "bmp":
		return FormatBMP, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, tag)
	}
}

// Sizer computes the size of a single resolution level.
type Sizer interface {
	BaseSize(w, h uint64) uint64
}

// Codec is the per-format size model. Size includes any pyramid overhead
// the format carries.
type Codec interface {
	Sizer
	Format() Format
	Size(w, h uint64) uint64
}

// NewCodec returns the codec for f. The pyramid is ignored by formats that
// do not store one.
func NewCodec(f Format, p Pyramid) (Codec, error) {
	switch f {
	case FormatBaseline:
		return Baseline{Pyramid: p}, nil
	case FormatJP2:
		return JP2{}, nil
	case FormatBMP:
		return BMP{Pyramid: p}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
}

// Baseline models baseline JPEG.
type Baseline struct {
	Pyramid Pyramid
}

func (Baseline) Format() Format { return FormatBaseline }

func (Baseline) BaseSize(w, h uint64) uint64 {
	return uint64(math.Round(float64(w*h) * baselineScale))
}

func (b Baseline) Size(w, h uint64) uint64 {
	return b.BaseSize(w, h) + b.Pyramid.Cost(b, w, h)
}

// JP2 models JPEG 2000, whose wavelet levels already give multi-resolution
// access, so no pyramid is added.
type JP2 struct{}

func (JP2) Format() Format { return FormatJP2 }

func (JP2) BaseSize(w, h uint64) uint64 {
	pixels := float64(w * h)
	denom := math.Log(math.Log(pixels + jp2Offset))
	// w*h+16 >= 16 keeps denom near 1.02 at minimum; guard anyway.
	if denom <= 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return 0
	}
	return uint64(math.Round(pixels * jp2Scale / denom))
}

func (j JP2) Size(w, h uint64) uint64 {
	return j.BaseSize(w, h)
}

// BMP models an uncompressed bitmap at one byte per pixel.
type BMP struct {
	Pyramid Pyramid
}

func (BMP) Format() Format { return FormatBMP }

func (BMP) BaseSize(w, h uint64) uint64 {
	return w * h
}

func (b BMP) Size(w, h uint64) uint64 {
	return b.BaseSize(w, h) + b.Pyramid.Cost(b, w, h)
}
