// Package registry tracks the images estimated during a run and combines
// groups of them into a single compressed total.
package registry

import (
	"log/slog"
	"math"

	"github.com/lehigh-university-libraries/storagecalc/internal/footprint"
)

// DefaultCompressionFactor is added to the member count before taking the
// logarithm that discounts a group.
const DefaultCompressionFactor = 3

// Member is an image consumed by a group, with the size it contributed.
type Member struct {
	ID     int    `json:"id" yaml:"id"`
	Format string `json:"format" yaml:"format"`
	Size   uint64 `json:"size" yaml:"size"`
}

// GroupResult describes one call to CompressGroup.
type GroupResult struct {
	Requested      []int    `json:"requested" yaml:"requested"`
	Members        []Member `json:"members" yaml:"members"`
	PreCompression uint64   `json:"pre_compression" yaml:"pre_compression"`
	Compressed     uint64   `json:"compressed" yaml:"compressed"`
	// Delta is Compressed - PreCompression, added to a running total.
	Delta int64 `json:"delta" yaml:"delta"`
}

// Registry owns every image created in a run, in insertion order, and the
// identifiers requested for the next group. It is not safe for concurrent
// use.
type Registry struct {
	ids               *IDAllocator
	compressionFactor float64
	images            []*Image
	pending           []int
}

// New returns an empty registry. A nil allocator starts at DefaultFirstID;
// a factor that would make the discount undefined (<= 1) falls back to
// DefaultCompressionFactor.
func New(ids *IDAllocator, compressionFactor float64) *Registry {
	if ids == nil {
		ids = NewIDAllocator(DefaultFirstID)
	}
	if compressionFactor <= 1 || math.IsNaN(compressionFactor) || math.IsInf(compressionFactor, 0) {
		compressionFactor = DefaultCompressionFactor
	}
	return &Registry{
		ids:               ids,
		compressionFactor: compressionFactor,
	}
}

// IDs returns the allocator images for this registry should be built with.
func (r *Registry) IDs() *IDAllocator {
	return r.ids
}

// Register appends img. Nil images are ignored.
func (r *Registry) Register(img *Image) {
	if img == nil {
		return
	}
	r.images = append(r.images, img)
}

// Add builds an image with the next identifier and registers it.
func (r *Registry) Add(codec footprint.Codec, width, height uint64) *Image {
	img := NewImage(r.ids, codec, width, height)
	r.Register(img)
	return img
}

// Images returns the registered images in insertion order.
func (r *Registry) Images() []*Image {
	out := make([]*Image, len(r.images))
	copy(out, r.images)
	return out
}

// Get returns the first image registered under id.
func (r *Registry) Get(id int) (*Image, bool) {
	for _, img := range r.images {
		if img.id == id {
			return img, true
		}
	}
	return nil, false
}

// Len returns the number of registered images.
func (r *Registry) Len() int {
	return len(r.images)
}

// RequestGroup stores ids for the next CompressGroup call, replacing any
// earlier request. Duplicates and unknown identifiers are allowed.
func (r *Registry) RequestGroup(ids []int) {
	r.pending = append(r.pending[:0], ids...)
}

// Pending returns the identifiers waiting for the next CompressGroup call.
func (r *Registry) Pending() []int {
	out := make([]int, len(r.pending))
	copy(out, r.pending)
	return out
}

// CompressGroup consumes every pending identifier that names an image not
// yet grouped and returns the discounted total. Each image is counted at
// most once over the registry's lifetime; unknown or already grouped
// identifiers contribute nothing. The pending list is always cleared.
func (r *Registry) CompressGroup() GroupResult {
	res := GroupResult{
		Requested: r.Pending(),
		Members:   []Member{},
	}
	defer func() { r.pending = r.pending[:0] }()

	for _, id := range r.pending {
		for _, img := range r.images {
			if img.id != id || img.grouped {
				continue
			}
			size := img.Size()
			res.PreCompression += size
			res.Members = append(res.Members, Member{ID: img.id, Format: img.Format().String(), Size: size})
			img.grouped = true
		}
	}

	res.Compressed = r.compress(res.PreCompression, len(res.Members))
	res.Delta = int64(res.Compressed) - int64(res.PreCompression)

	slog.Debug("Compressed group",
		"requested", len(res.Requested),
		"matched", len(res.Members),
		"pre_compression", res.PreCompression,
		"compressed", res.Compressed,
		"delta", res.Delta)

	return res
}

// Group is RequestGroup followed by CompressGroup.
func (r *Registry) Group(ids []int) GroupResult {
	r.RequestGroup(ids)
	return r.CompressGroup()
}

func (r *Registry) compress(total uint64, matched int) uint64 {
	if total == 0 {
		return 0
	}
	return uint64(math.Round(float64(total) / math.Log(float64(matched)+r.compressionFactor)))
}
