package circular_torus

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/gowinding/utils"
)

/*
	Analytic winding surface used to exercise the current density kernel.
	Angles are fractions of a turn, phi, theta in [0, 1):

		gamma(phi, theta) = ( (R0 + a cos 2pi theta) cos 2pi phi,
		                      (R0 + a cos 2pi theta) sin 2pi phi,
		                       a sin 2pi theta )

	gammadash1 = d gamma / d phi, gammadash2 = d gamma / d theta, and
	normal = gammadash1 x gammadash2, which is not unit length.
*/
type Torus struct {
	R0, A         float64 // Major and minor radius
	NPhi, NTheta  int
	QuadPhi       []float64
	QuadTheta     []float64
	gamma         utils.VectorGrid
	dg1, dg2, nrm utils.VectorGrid
}

func NewTorus(R0, a float64, nPhi, nTheta int) (tor *Torus) {
	tor = &Torus{
		R0:        R0,
		A:         a,
		NPhi:      nPhi,
		NTheta:    nTheta,
		QuadPhi:   utils.Quadpoints(nPhi),
		QuadTheta: utils.Quadpoints(nTheta),
		gamma:     utils.NewVectorGrid(nPhi, nTheta),
		dg1:       utils.NewVectorGrid(nPhi, nTheta),
		dg2:       utils.NewVectorGrid(nPhi, nTheta),
		nrm:       utils.NewVectorGrid(nPhi, nTheta),
	}
	var (
		twoPi = 2 * math.Pi
	)
	for i, phi := range tor.QuadPhi {
		sp, cp := math.Sincos(twoPi * phi)
		for j, theta := range tor.QuadTheta {
			st, ct := math.Sincos(twoPi * theta)
			rho := R0 + a*ct
			tor.gamma.SetVec(i, j, r3.Vec{X: rho * cp, Y: rho * sp, Z: a * st})
			d1 := r3.Vec{X: -twoPi * rho * sp, Y: twoPi * rho * cp, Z: 0}
			d2 := r3.Vec{X: -twoPi * a * st * cp, Y: -twoPi * a * st * sp, Z: twoPi * a * ct}
			tor.dg1.SetVec(i, j, d1)
			tor.dg2.SetVec(i, j, d2)
			tor.nrm.SetVec(i, j, r3.Cross(d1, d2))
		}
	}
	return
}

func (tor *Torus) Gamma() utils.VectorGrid { return tor.gamma }

func (tor *Torus) GammaDash1() utils.VectorField { return tor.dg1 }
func (tor *Torus) GammaDash2() utils.VectorField { return tor.dg2 }
func (tor *Torus) Normal() utils.VectorField     { return tor.nrm }

// Concrete grid accessors for callers that want the dense storage
func (tor *Torus) GammaDash1Grid() utils.VectorGrid { return tor.dg1 }
func (tor *Torus) GammaDash2Grid() utils.VectorGrid { return tor.dg2 }
func (tor *Torus) NormalGrid() utils.VectorGrid     { return tor.nrm }

// AreaElement is |normal| = 4 pi^2 a (R0 + a cos 2pi theta), exact
func (tor *Torus) AreaElement(theta float64) float64 {
	return 4 * math.Pi * math.Pi * tor.A * (tor.R0 + tor.A*math.Cos(2*math.Pi*theta))
}

// Area sums the area element over the quadrature, exact for this surface
func (tor *Torus) Area() (area float64) {
	nrm := tor.nrm.Norms().Data()
	for _, n := range nrm {
		area += n
	}
	area /= float64(tor.NPhi * tor.NTheta)
	return
}
