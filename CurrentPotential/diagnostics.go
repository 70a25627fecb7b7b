package CurrentPotential

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/notargets/gowinding/utils"
)

// KStats summarizes a current density field over its winding surface. The
// normal magnitude |n| is the area element of the quadrature, so the
// surface averages below are |n| weighted. Points where K is not finite
// are reported in NonFinite and left out of every statistic.
type KStats struct {
	MaxK            float64 // max |K|
	RMSK            float64 // sqrt( sum(|K|^2 |n|) / sum(|n|) )
	SquaredIntegral float64 // 0.5 * mean(|K|^2 |n|)
	Finite          int
	NonFinite       [][2]int
}

func Summarize(K, normal utils.VectorGrid) (ks KStats) {
	var (
		absK = K.Norms().Data()
		absN = normal.Norms().Data()
		k2   = make([]float64, 0, len(absK))
		w    = make([]float64, 0, len(absK))
		kMag = make([]float64, 0, len(absK))
	)
	ks.NonFinite = utils.NonFinitePoints(K)
	for ij, kn := range absK {
		if !utils.IsFinite(kn) || !utils.IsFinite(absN[ij]) {
			continue
		}
		kMag = append(kMag, kn)
		k2 = append(k2, kn*kn)
		w = append(w, absN[ij])
	}
	ks.Finite = len(kMag)
	if ks.Finite == 0 {
		return
	}
	ks.MaxK = floats.Max(kMag)
	if floats.Sum(w) > 0 {
		ks.RMSK = math.Sqrt(stat.Mean(k2, w))
	}
	ks.SquaredIntegral = 0.5 * floats.Dot(k2, w) / float64(ks.Finite)
	return
}
