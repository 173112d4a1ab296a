package util

import (
	"runtime"
)

func GetAppName() string {
	return "RotationHub CE"
}

// DetermineWorkers falls back to a worker count based on the available cpus when configured is not positive.
func DetermineWorkers(configured int) int {
	if configured > 0 {
		return configured
	}

	return max(runtime.GOMAXPROCS(0), 1)
}
