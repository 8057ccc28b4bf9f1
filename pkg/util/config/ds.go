package config

// Ds holds info required to set a storage node daemon.
type Ds struct {
	// ID is the uuid of the storage node.
	ID string

	// ServerAddr is the address of the storage node.
	ServerAddr string
	// ServerPort is the port of the storage node.
	ServerPort string

	// WorkDir is a working directory of the ds.
	WorkDir string

	// Security config.
	Security Security

	// CopyMachine config.
	CopyMachine CopyMachine

	// LogLocation is the file path of ds logging.
	// Default output path is stderr.
	LogLocation string
}

// CopyMachine holds tuning knobs of the repair/rebalance control plane.
// All durations are strings parsed with time.ParseDuration at use sites.
type CopyMachine struct {
	// ExclusionWait is the bounded time a control request waits for
	// exclusive access to an operation descriptor before it is
	// rejected as busy.
	ExclusionWait string

	// WorkerTick is the interval between data-movement batches.
	WorkerTick string

	// BatchSize is the number of chunks relocated per tick.
	BatchSize string
}
