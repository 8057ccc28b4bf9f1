// Package topology reports the number and characteristics of the
// logical processors of this node. The control plane consults it once
// at startup to size its worker pools; it is a static, read-mostly
// snapshot and is refreshed only by building a new Service.
package topology

import (
	"runtime"

	"github.com/pkg/errors"
)

// ID is a logical processor identifier.
type ID uint32

// InvalidID marks a processor id that matches no processor.
const InvalidID = ID(^uint32(0))

// EnumKind selects which processor set Enumerate reports.
type EnumKind int

const (
	// Possible is the maximum set of processors the node can attach.
	Possible EnumKind = iota
	// Available is the set of processors currently configured.
	Available
	// Online is the set of processors currently enabled.
	Online
)

func (k EnumKind) String() string {
	switch k {
	case Possible:
		return "possible"
	case Available:
		return "available"
	case Online:
		return "online"
	default:
		return "unknown"
	}
}

// Descr describes one logical processor: its cache-sharing domains and
// its pipeline affinity group.
type Descr struct {
	ID       ID
	NumaNode uint32
	L1       uint32
	L2       uint32
	L1Size   uint64
	L2Size   uint64
	Pipeline uint32
}

// Service answers processor-topology queries.
type Service interface {
	// MaxProcessorCount returns the maximum number of processors
	// this node can handle.
	MaxProcessorCount() uint32

	// Enumerate returns the bitmap of the requested processor set.
	Enumerate(k EnumKind) (Bitmap, error)

	// Describe returns the description of one processor.
	Describe(id ID) (Descr, error)
}

// User-mode defaults; without platform probing every processor gets
// its own L1 and shares an L2 per pair, mirroring the id-generation
// rules of the platform layer.
const (
	defaultL1Size = 32 << 10
	defaultL2Size = 1 << 20
)

type snapshot struct {
	max       uint32
	possible  Bitmap
	available Bitmap
	online    Bitmap
	descrs    []Descr
}

// New builds a topology snapshot of the running node. Every logical
// processor the runtime reports is possible, available and online.
func New() Service {
	n := uint32(runtime.NumCPU())
	descrs := make([]Descr, n)
	for i := uint32(0); i < n; i++ {
		descrs[i] = Descr{
			ID:       ID(i),
			NumaNode: 0,
			L1:       i,
			L2:       i / 2,
			L1Size:   defaultL1Size,
			L2Size:   defaultL2Size,
			Pipeline: i,
		}
	}
	return NewFromDescr(descrs)
}

// NewFromDescr builds a snapshot from explicit processor descriptions.
// All described processors are reported online.
func NewFromDescr(descrs []Descr) Service {
	max := uint32(len(descrs))
	s := &snapshot{
		max:       max,
		possible:  NewBitmap(max),
		available: NewBitmap(max),
		online:    NewBitmap(max),
		descrs:    descrs,
	}
	for _, d := range descrs {
		s.possible.Set(d.ID)
		s.available.Set(d.ID)
		s.online.Set(d.ID)
	}
	return s
}

func (s *snapshot) MaxProcessorCount() uint32 {
	return s.max
}

func (s *snapshot) Enumerate(k EnumKind) (Bitmap, error) {
	switch k {
	case Possible:
		return s.possible.clone(), nil
	case Available:
		return s.available.clone(), nil
	case Online:
		return s.online.clone(), nil
	default:
		return Bitmap{}, errors.Errorf("unknown enumerate kind: %d", k)
	}
}

func (s *snapshot) Describe(id ID) (Descr, error) {
	for _, d := range s.descrs {
		if d.ID == id {
			return d, nil
		}
	}
	return Descr{}, errors.Errorf("no processor with id %d", id)
}
