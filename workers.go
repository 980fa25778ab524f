package abbreviator

import "runtime"

// Worker sizing constants.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxWorkers caps batch concurrency. Rewriting is CPU-bound, so more
	// workers than cores only adds scheduling overhead.
	MaxWorkers = 32
)

// ResolveWorkers determines the batch worker count.
// Priority: explicit workers > GOMAXPROCS.
// Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return min(workers, MaxWorkers)
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0)
	return max(MinWorkers, min(n, MaxWorkers))
}
