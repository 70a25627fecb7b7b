package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ScalarField is any (phi, theta) sampled scalar quantity
type ScalarField interface {
	Dims() (nPhi, nTheta int)
	At(i, j int) float64
}

// VectorField is any (phi, theta) sampled 3-vector quantity, c indexes x,y,z
type VectorField interface {
	Dims() (nPhi, nTheta int)
	At(i, j, c int) float64
}

// ScalarGrid stores one value per quadrature point, row major, phi is the row
type ScalarGrid struct {
	M *mat.Dense
}

func NewScalarGrid(nPhi, nTheta int, dataO ...[]float64) (R ScalarGrid) {
	var data []float64
	if len(dataO) != 0 {
		if len(dataO[0]) != nPhi*nTheta {
			err := fmt.Errorf("mismatch in allocation: NewScalarGrid nPhi,nTheta = %v,%v, len(data[0]) = %v\n",
				nPhi, nTheta, len(dataO[0]))
			panic(err)
		}
		data = dataO[0]
	} else {
		data = make([]float64, nPhi*nTheta)
	}
	R = ScalarGrid{mat.NewDense(nPhi, nTheta, data)}
	return
}

func (g ScalarGrid) Dims() (nPhi, nTheta int) { return g.M.Dims() }
func (g ScalarGrid) At(i, j int) float64       { return g.M.At(i, j) }
func (g ScalarGrid) Set(i, j int, val float64) { g.M.Set(i, j, val) }
func (g ScalarGrid) Data() []float64           { return g.M.RawMatrix().Data }

// VectorGrid stores three components per quadrature point. The backing
// matrix is (nPhi*nTheta) x 3 row major, so the flat data is laid out in
// (phi, theta, component) order.
type VectorGrid struct {
	M            *mat.Dense
	nPhi, nTheta int
}

func NewVectorGrid(nPhi, nTheta int, dataO ...[]float64) (R VectorGrid) {
	var data []float64
	if len(dataO) != 0 {
		if len(dataO[0]) != 3*nPhi*nTheta {
			err := fmt.Errorf("mismatch in allocation: NewVectorGrid nPhi,nTheta = %v,%v, len(data[0]) = %v\n",
				nPhi, nTheta, len(dataO[0]))
			panic(err)
		}
		data = dataO[0]
	} else {
		data = make([]float64, 3*nPhi*nTheta)
	}
	R = VectorGrid{
		M:      mat.NewDense(nPhi*nTheta, 3, data),
		nPhi:   nPhi,
		nTheta: nTheta,
	}
	return
}

// NewVectorGridConst fills every point with the same vector
func NewVectorGridConst(nPhi, nTheta int, v r3.Vec) (R VectorGrid) {
	R = NewVectorGrid(nPhi, nTheta)
	for i := 0; i < nPhi; i++ {
		for j := 0; j < nTheta; j++ {
			R.SetVec(i, j, v)
		}
	}
	return
}

func (g VectorGrid) Dims() (nPhi, nTheta int) { return g.nPhi, g.nTheta }
func (g VectorGrid) Shape() [3]int             { return [3]int{g.nPhi, g.nTheta, 3} }
func (g VectorGrid) At(i, j, c int) float64    { return g.M.At(i*g.nTheta+j, c) }
func (g VectorGrid) Set(i, j, c int, val float64) {
	g.M.Set(i*g.nTheta+j, c, val)
}
func (g VectorGrid) Data() []float64 { return g.M.RawMatrix().Data }

func (g VectorGrid) Vec(i, j int) r3.Vec {
	var (
		row = g.M.RawRowView(i*g.nTheta + j)
	)
	return r3.Vec{X: row[0], Y: row[1], Z: row[2]}
}

func (g VectorGrid) SetVec(i, j int, v r3.Vec) {
	var (
		row = g.M.RawRowView(i*g.nTheta + j)
	)
	row[0], row[1], row[2] = v.X, v.Y, v.Z
}

func (g VectorGrid) Scale(a float64) VectorGrid {
	g.M.Scale(a, g.M)
	return g
}

// Norms returns the pointwise Euclidean length
func (g VectorGrid) Norms() (N ScalarGrid) {
	N = NewScalarGrid(g.nPhi, g.nTheta)
	var (
		nD = N.Data()
		gD = g.Data()
	)
	for ij := range nD {
		x, y, z := gD[3*ij], gD[3*ij+1], gD[3*ij+2]
		nD[ij] = math.Sqrt(x*x + y*y + z*z)
	}
	return
}

func (g VectorGrid) Copy() (R VectorGrid) {
	R = NewVectorGrid(g.nPhi, g.nTheta)
	copy(R.Data(), g.Data())
	return
}
