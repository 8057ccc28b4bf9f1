package copymachine

import (
	"github.com/venkuppu-chn/cortx/pkg/cm"
)

// Chunk is one unit of data movement. The copy machine relocates
// degraded chunks one batch at a time.
type Chunk struct {
	Volume string
	Name   string
	Size   uint64
}

// Repository provides an interface for accessing the chunk store and
// the descriptor archive.
type Repository interface {
	// DegradedChunks returns the chunks the given operation kind
	// needs to relocate, in scan order.
	DegradedChunks(kind cm.Kind) ([]Chunk, error)

	// Relocate moves one chunk to its target location and returns
	// the number of bytes written.
	Relocate(kind cm.Kind, c Chunk) (uint64, error)

	// ArchiveDescriptor stores the final snapshot of a reaped
	// operation instance.
	ArchiveDescriptor(snap cm.Snapshot) error

	// ArchivedDescriptors returns the stored final snapshots of the
	// given kind, oldest first.
	ArchivedDescriptors(kind cm.Kind) ([]cm.Snapshot, error)
}
