package utils

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionMap(t *testing.T) {
	{ // Bucket sizes differ by at most one and cover every row
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				maxK := pm.GetBucketDimension(np)
				histo[maxK]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1]))
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
}

func TestParallelDegree(t *testing.T) {
	assert.Equal(t, 4, ParallelDegree(4, 100))
	assert.Equal(t, 1, ParallelDegree(8, 3))
	NP := ParallelDegree(0, 1<<20)
	assert.True(t, NP >= 1)
}

func TestRunPartitioned(t *testing.T) {
	for _, NP := range []int{1, 2, 3, 7, 16} {
		var (
			maxIndex = 37
			pm       = NewPartitionMap(NP, maxIndex)
			visits   = make([]int32, maxIndex)
			calls    int32
		)
		pm.RunPartitioned(func(np, kMin, kMax int) {
			atomic.AddInt32(&calls, 1)
			for k := kMin; k < kMax; k++ {
				atomic.AddInt32(&visits[k], 1)
			}
		})
		for k := range visits {
			require.Equal(t, int32(1), visits[k], "row %d, NP %d", k, NP)
		}
		assert.Equal(t, int32(NP), calls)
	}
	{ // Empty buckets are not dispatched
		var calls int32
		pm := NewPartitionMap(8, 3)
		pm.RunPartitioned(func(np, kMin, kMax int) {
			atomic.AddInt32(&calls, 1)
		})
		assert.Equal(t, int32(3), calls)
	}
}
