package common

import "runtime"

// OptimalWorkerCount sizes a worker pool for n independent jobs: small
// workloads are not over-parallelized, large ones use every CPU. Always
// returns at least 1 for n > 0.
func OptimalWorkerCount(n int) int {
	if n <= 0 {
		return 0
	}

	numCPU := runtime.NumCPU()

	var workers int
	switch {
	case n < 100:
		workers = min(numCPU/2, n)
	case n < 1000:
		workers = min(numCPU, 8)
	default:
		workers = numCPU
	}

	return max(workers, 1)
}
