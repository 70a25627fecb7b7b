package CurrentPotential

import (
	"math"

	"github.com/notargets/gowinding/utils"
)

/*
	Sheet current density from a current potential on a winding surface.

	K = n x grad(Phi) / |n|, written in the covariant basis of the surface:
		N x grad(theta) = -dr/dphi
		N x grad(phi)   =  dr/dtheta
	so that
		K = (-dPhi/dtheta dr/dphi + dPhi/dphi dr/dtheta) / |N|
	where the secular (net current) parts are added to the single valued
	derivatives before use:
		dPhi/dtheta = Phidash2 + I_toroidal
		dPhi/dphi   = Phidash1 + I_poloidal

	Every (phi, theta) point is independent. There is no guard on |N| == 0,
	a degenerate normal produces Inf or NaN at that point only.
*/

// ComputeK allocates the output grid and fills it serially
func ComputeK(Phidash1, Phidash2 utils.ScalarField, dg1, dg2, normal utils.VectorField,
	netToroidal, netPoloidal float64) (K utils.VectorGrid) {
	var (
		nPhi, nTheta = Phidash1.Dims()
	)
	K = utils.NewVectorGrid(nPhi, nTheta)
	ComputeKInto(K, Phidash1, Phidash2, dg1, dg2, normal, netToroidal, netPoloidal)
	return
}

// ComputeKInto writes every point of K. Shapes are not checked.
func ComputeKInto(K utils.VectorGrid, Phidash1, Phidash2 utils.ScalarField, dg1, dg2, normal utils.VectorField,
	netToroidal, netPoloidal float64) {
	var (
		nPhi, _ = K.Dims()
	)
	computeRows(K, Phidash1, Phidash2, dg1, dg2, normal, netToroidal, netPoloidal, 0, nPhi)
}

// computeRows fills phi rows [iMin, iMax) of K
func computeRows(K utils.VectorGrid, Phidash1, Phidash2 utils.ScalarField, dg1, dg2, normal utils.VectorField,
	netToroidal, netPoloidal float64, iMin, iMax int) {
	p1, ok1 := Phidash1.(utils.ScalarGrid)
	p2, ok2 := Phidash2.(utils.ScalarGrid)
	d1, ok3 := dg1.(utils.VectorGrid)
	d2, ok4 := dg2.(utils.VectorGrid)
	n, ok5 := normal.(utils.VectorGrid)
	if ok1 && ok2 && ok3 && ok4 && ok5 {
		computeRowsDense(K, p1, p2, d1, d2, n, netToroidal, netPoloidal, iMin, iMax)
		return
	}
	var (
		_, nTheta = K.Dims()
	)
	for i := iMin; i < iMax; i++ {
		for j := 0; j < nTheta; j++ {
			nx, ny, nz := normal.At(i, j, 0), normal.At(i, j, 1), normal.At(i, j, 2)
			normn := math.Sqrt(nx*nx + ny*ny + nz*nz)
			effPhi := Phidash2.At(i, j) + netToroidal
			effTheta := Phidash1.At(i, j) + netPoloidal
			for c := 0; c < 3; c++ {
				K.Set(i, j, c, (-dg1.At(i, j, c)*effPhi+dg2.At(i, j, c)*effTheta)/normn)
			}
		}
	}
}

func computeRowsDense(K utils.VectorGrid, Phidash1, Phidash2 utils.ScalarGrid, dg1, dg2, normal utils.VectorGrid,
	netToroidal, netPoloidal float64, iMin, iMax int) {
	var (
		_, nTheta = K.Dims()
		kD        = K.Data()
		p1D, p2D  = Phidash1.Data(), Phidash2.Data()
		d1D, d2D  = dg1.Data(), dg2.Data()
		nD        = normal.Data()
	)
	for i := iMin; i < iMax; i++ {
		for j := 0; j < nTheta; j++ {
			ij := j + nTheta*i
			ind := 3 * ij
			nx, ny, nz := nD[ind], nD[ind+1], nD[ind+2]
			normn := math.Sqrt(nx*nx + ny*ny + nz*nz)
			effPhi := p2D[ij] + netToroidal
			effTheta := p1D[ij] + netPoloidal
			kD[ind] = (-d1D[ind]*effPhi + d2D[ind]*effTheta) / normn
			kD[ind+1] = (-d1D[ind+1]*effPhi + d2D[ind+1]*effTheta) / normn
			kD[ind+2] = (-d1D[ind+2]*effPhi + d2D[ind+2]*effTheta) / normn
		}
	}
}
