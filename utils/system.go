package utils

import (
	"fmt"
	"math"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// NonFinitePoints lists the (phi, theta) indices where any component is NaN or Inf
func NonFinitePoints(g VectorGrid) (points [][2]int) {
	var (
		nPhi, nTheta = g.Dims()
		gD           = g.Data()
	)
	for i := 0; i < nPhi; i++ {
		for j := 0; j < nTheta; j++ {
			ind := 3 * (j + nTheta*i)
			if !IsFinite(gD[ind]) || !IsFinite(gD[ind+1]) || !IsFinite(gD[ind+2]) {
				points = append(points, [2]int{i, j})
			}
		}
	}
	return
}
