package registry

import "github.com/lehigh-university-libraries/storagecalc/internal/footprint"

// Image is one estimated asset. Dimensions and codec are fixed at
// construction; the grouped flag is owned by the Registry.
type Image struct {
	id      int
	width   uint64
	height  uint64
	codec   footprint.Codec
	grouped bool
}

// NewImage builds an image with an identifier taken from ids.
func NewImage(ids *IDAllocator, codec footprint.Codec, width, height uint64) *Image {
	return &Image{
		id:     ids.Next(),
		width:  width,
		height: height,
		codec:  codec,
	}
}

func (i *Image) ID() int { return i.id }
func (i *Image) Width() uint64 { return i.width }
func (i *Image) Height() uint64 { return i.height }
func (i *Image) Format() footprint.Format { return i.codec.Format() }
func (i *Image) Codec() footprint.Codec { return i.codec }

// Grouped reports whether the image was already consumed by a group.
func (i *Image) Grouped() bool { return i.grouped }

// Size returns the total encoded size, pyramid included.
func (i *Image) Size() uint64 {
	return i.codec.Size(i.width, i.height)
}
