package scheduler

import "time"

// Config holds the scheduler's tunable knobs. DefaultConfig supplies
// fixed defaults; no field is read from the environment.
type Config struct {
	// MinRetryTick is the minimum inter-attempt delay for nodes with
	// retry < 0 (infinite retry), per spec.md §4.6.
	MinRetryTick time.Duration
	// CancelSiblingsOnError controls behavior when a node fails
	// terminally with err_return=true: false (default) lets already
	// running sibling tasks finish; true cancels them immediately.
	// spec.md §9 leaves this an open, configurable question — default
	// matches "the reference appears to let them continue".
	CancelSiblingsOnError bool
}

// DefaultConfig returns the engine's default tuning.
func DefaultConfig() Config {
	return Config{
		MinRetryTick:          200 * time.Millisecond,
		CancelSiblingsOnError: false,
	}
}
