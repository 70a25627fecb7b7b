package CurrentPotential

import (
	"errors"
	"fmt"

	"github.com/notargets/gowinding/utils"
)

var (
	ErrShapeMismatch = errors.New("grid shape mismatch")
	ErrEmptyGrid     = errors.New("empty quadrature grid")
	ErrMissingField  = errors.New("missing field")
)

type dimensioned interface {
	Dims() (nPhi, nTheta int)
}

// CheckShapes verifies every input shares the (phi, theta) dimensions of
// Phidash1. The kernel itself never validates, callers do it here.
func CheckShapes(Phidash1, Phidash2 utils.ScalarField, dg1, dg2, normal utils.VectorField) (err error) {
	var (
		names  = []string{"Phidash1", "Phidash2", "gammadash1", "gammadash2", "normal"}
		fields = []dimensioned{Phidash1, Phidash2, dg1, dg2, normal}
	)
	for i, f := range fields {
		if isNil(f) {
			return fmt.Errorf("%w: %s", ErrMissingField, names[i])
		}
	}
	nPhi, nTheta := Phidash1.Dims()
	if nPhi <= 0 || nTheta <= 0 {
		return fmt.Errorf("%w: Phidash1 is %dx%d", ErrEmptyGrid, nPhi, nTheta)
	}
	for i, f := range fields[1:] {
		if err = checkDims(names[i+1], f, nPhi, nTheta); err != nil {
			return
		}
	}
	return
}

func checkDims(name string, f dimensioned, nPhi, nTheta int) error {
	p, t := f.Dims()
	if p != nPhi || t != nTheta {
		return fmt.Errorf("%w: %s is %dx%d, expected %dx%d", ErrShapeMismatch, name, p, t, nPhi, nTheta)
	}
	return nil
}

func isNil(f dimensioned) bool {
	switch v := f.(type) {
	case nil:
		return true
	case utils.ScalarGrid:
		return v.M == nil
	case utils.VectorGrid:
		return v.M == nil
	}
	return false
}
