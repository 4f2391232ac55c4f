package utils

import (
	"fmt"
	"math"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	bToMb := func(b uint64) float64 {
		return float64(b) / 1024 / 1024
	}
	return fmt.Sprintf("Heap = %.2f MiB, Sys = %.2f MiB, NumGC = %v",
		bToMb(m.HeapAlloc), bToMb(m.Sys), m.NumGC)
}

// FirstNonFinite is the index of the first NaN or Inf in v, -1 when all are finite.
func FirstNonFinite(v []float64) int {
	for i, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return i
		}
	}
	return -1
}
