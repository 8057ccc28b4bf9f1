package inmem

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/venkuppu-chn/cortx/app/ds/usecase/copymachine"
	"github.com/venkuppu-chn/cortx/pkg/cm"
)

// CopyMachineRepository is an in-memory chunk index and descriptor
// archive. The failure-detection layer registers degraded chunks; the
// copy machine drains them.
type CopyMachineRepository struct {
	mu       sync.Mutex
	degraded map[cm.Kind][]copymachine.Chunk
	archive  map[cm.Kind][]cm.Snapshot
}

// NewCopyMachineRepository returns a new instance of an in-memory
// copy-machine repository.
func NewCopyMachineRepository() *CopyMachineRepository {
	return &CopyMachineRepository{
		degraded: make(map[cm.Kind][]copymachine.Chunk),
		archive:  make(map[cm.Kind][]cm.Snapshot),
	}
}

// SetDegraded replaces the set of chunks the given kind has to move.
func (r *CopyMachineRepository) SetDegraded(kind cm.Kind, chunks []copymachine.Chunk) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := make([]copymachine.Chunk, len(chunks))
	copy(cp, chunks)
	r.degraded[kind] = cp
}

// DegradedChunks returns the chunks the given kind needs to relocate.
func (r *CopyMachineRepository) DegradedChunks(kind cm.Kind) ([]copymachine.Chunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chunks := r.degraded[kind]
	out := make([]copymachine.Chunk, len(chunks))
	copy(out, chunks)
	return out, nil
}

// Relocate moves one chunk and drops it from the degraded set.
func (r *CopyMachineRepository) Relocate(kind cm.Kind, c copymachine.Chunk) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chunks := r.degraded[kind]
	for i, d := range chunks {
		if d.Volume == c.Volume && d.Name == c.Name {
			r.degraded[kind] = append(chunks[:i], chunks[i+1:]...)
			return d.Size, nil
		}
	}

	return 0, errors.Errorf("chunk %s/%s is not degraded", c.Volume, c.Name)
}

// ArchiveDescriptor stores the final snapshot of a reaped instance.
func (r *CopyMachineRepository) ArchiveDescriptor(snap cm.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.archive[snap.Kind] = append(r.archive[snap.Kind], snap)
	return nil
}

// ArchivedDescriptors returns the stored snapshots, oldest first.
func (r *CopyMachineRepository) ArchivedDescriptors(kind cm.Kind) ([]cm.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snaps := r.archive[kind]
	out := make([]cm.Snapshot, len(snaps))
	copy(out, snaps)
	return out, nil
}
