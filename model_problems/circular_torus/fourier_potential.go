package circular_torus

import (
	"math"

	"github.com/notargets/gowinding/utils"
)

type Mode struct {
	M, N      int // Poloidal and toroidal mode numbers
	Amplitude float64
}

// FourierPotential is the single valued part of a current potential,
//
//	Phi(phi, theta) = sum_mn A_mn sin(2pi (m theta - n phi))
//
// sampled on the quadrature of a Torus, with exact derivatives.
type FourierPotential struct {
	Modes              []Mode
	phi                utils.ScalarGrid
	phidash1, phidash2 utils.ScalarGrid
}

func NewFourierPotential(tor *Torus, modes ...Mode) (fp *FourierPotential) {
	fp = &FourierPotential{
		Modes:    modes,
		phi:      utils.NewScalarGrid(tor.NPhi, tor.NTheta),
		phidash1: utils.NewScalarGrid(tor.NPhi, tor.NTheta),
		phidash2: utils.NewScalarGrid(tor.NPhi, tor.NTheta),
	}
	var (
		twoPi    = 2 * math.Pi
		pD       = fp.phi.Data()
		p1D, p2D = fp.phidash1.Data(), fp.phidash2.Data()
	)
	for i, phi := range tor.QuadPhi {
		for j, theta := range tor.QuadTheta {
			ij := j + tor.NTheta*i
			for _, md := range modes {
				s, c := math.Sincos(twoPi * (float64(md.M)*theta - float64(md.N)*phi))
				pD[ij] += md.Amplitude * s
				p1D[ij] += -twoPi * float64(md.N) * md.Amplitude * c
				p2D[ij] += twoPi * float64(md.M) * md.Amplitude * c
			}
		}
	}
	return
}

func (fp *FourierPotential) Phi() utils.ScalarGrid { return fp.phi }

func (fp *FourierPotential) Phidash1() utils.ScalarField { return fp.phidash1 }
func (fp *FourierPotential) Phidash2() utils.ScalarField { return fp.phidash2 }

func (fp *FourierPotential) Phidash1Grid() utils.ScalarGrid { return fp.phidash1 }
func (fp *FourierPotential) Phidash2Grid() utils.ScalarGrid { return fp.phidash2 }
