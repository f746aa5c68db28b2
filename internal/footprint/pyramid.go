package footprint

import "math"

// DefaultMinSize is the pyramid floor: a level is only stored while both
// halved dimensions stay strictly above it.
const DefaultMinSize uint64 = 128

// Level is one half-resolution copy added to a pyramid.
type Level struct {
	Width  uint64
	Height uint64
	Size   uint64
}

// Pyramid computes the storage of successively halved copies of an image.
// The zero value uses DefaultMinSize.
type Pyramid struct {
	MinSize uint64
}

// NewPyramid returns a pyramid with the given floor. Floors below 1 would
// never terminate (round(1/2) == 1) and fall back to DefaultMinSize.
func NewPyramid(minSize uint64) Pyramid {
	if minSize < 1 {
		minSize = DefaultMinSize
	}
	return Pyramid{MinSize: minSize}
}

func (p Pyramid) floor() uint64 {
	if p.MinSize < 1 {
		return DefaultMinSize
	}
	return p.MinSize
}

// Cost returns the total bytes of every level below (w, h), sized with s.
func (p Pyramid) Cost(s Sizer, w, h uint64) uint64 {
	var total uint64
	p.walk(s, w, h, func(l Level) {
		total += l.Size
	})
	return total
}

// Levels lists the levels Cost would add, largest first.
func (p Pyramid) Levels(s Sizer, w, h uint64) []Level {
	var levels []Level
	p.walk(s, w, h, func(l Level) {
		levels = append(levels, l)
	})
	return levels
}

func (p Pyramid) walk(s Sizer, w, h uint64, visit func(Level)) {
	limit := p.floor()
	for {
		w, h = half(w), half(h)
		if w <= limit || h <= limit {
			return
		}
		visit(Level{Width: w, Height: h, Size: s.BaseSize(w, h)})
	}
}

func half(v uint64) uint64 {
	return uint64(math.Round(float64(v) / 2))
}
