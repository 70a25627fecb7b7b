package CurrentPotential

import (
	"fmt"
	"reflect"

	"github.com/notargets/gowinding/utils"
)

// Potential supplies the single valued derivatives of the current potential
// at the quadrature points of its winding surface.
type Potential interface {
	Phidash1() utils.ScalarField // dPhi/dphi
	Phidash2() utils.ScalarField // dPhi/dtheta
}

// WindingSurface supplies the surface tangents and the (unnormalized) normal
type WindingSurface interface {
	GammaDash1() utils.VectorField
	GammaDash2() utils.VectorField
	Normal() utils.VectorField
}

type CurrentPotential struct {
	netToroidalCurrentAmperes float64
	netPoloidalCurrentAmperes float64
	ProcLimit                 int // Max goroutines per evaluation, 0 = one per CPU
}

func NewCurrentPotential(netToroidal, netPoloidal float64, ProcLimit int) (cp *CurrentPotential) {
	cp = &CurrentPotential{
		netToroidalCurrentAmperes: netToroidal,
		netPoloidalCurrentAmperes: netPoloidal,
		ProcLimit:                 ProcLimit,
	}
	return
}

func (cp *CurrentPotential) NetCurrents() (toroidal, poloidal float64) {
	return cp.netToroidalCurrentAmperes, cp.netPoloidalCurrentAmperes
}

// K evaluates the current density in parallel over phi rows, no validation
func (cp *CurrentPotential) K(Phidash1, Phidash2 utils.ScalarField, dg1, dg2, normal utils.VectorField) (K utils.VectorGrid) {
	var (
		nPhi, nTheta = Phidash1.Dims()
	)
	K = utils.NewVectorGrid(nPhi, nTheta)
	cp.KInto(K, Phidash1, Phidash2, dg1, dg2, normal)
	return
}

func (cp *CurrentPotential) KInto(K utils.VectorGrid, Phidash1, Phidash2 utils.ScalarField, dg1, dg2, normal utils.VectorField) {
	var (
		nPhi, _ = K.Dims()
		pm      = utils.NewPartitionMap(utils.ParallelDegree(cp.ProcLimit, nPhi), nPhi)
	)
	// Each bucket owns a disjoint set of phi rows of K
	pm.RunPartitioned(func(np, iMin, iMax int) {
		computeRows(K, Phidash1, Phidash2, dg1, dg2, normal,
			cp.netToroidalCurrentAmperes, cp.netPoloidalCurrentAmperes, iMin, iMax)
	})
}

// Evaluate pulls the inputs from the collaborators, checks their shapes and
// computes K. A nil collaborator, or a nil pointer in its place, returns
// ErrMissingField.
func (cp *CurrentPotential) Evaluate(pot Potential, ws WindingSurface) (K utils.VectorGrid, err error) {
	var (
		Phidash1, Phidash2 utils.ScalarField
		dg1, dg2, normal   utils.VectorField
	)
	if Phidash1, Phidash2, dg1, dg2, normal, err = gather(pot, ws); err != nil {
		return
	}
	nPhi, nTheta := Phidash1.Dims()
	K = utils.NewVectorGrid(nPhi, nTheta)
	cp.KInto(K, Phidash1, Phidash2, dg1, dg2, normal)
	return
}

// EvaluateInto is Evaluate with caller owned output
func (cp *CurrentPotential) EvaluateInto(K utils.VectorGrid, pot Potential, ws WindingSurface) (err error) {
	var (
		Phidash1, Phidash2 utils.ScalarField
		dg1, dg2, normal   utils.VectorField
	)
	if Phidash1, Phidash2, dg1, dg2, normal, err = gather(pot, ws); err != nil {
		return
	}
	if K.M == nil {
		return fmt.Errorf("%w: output K", ErrMissingField)
	}
	nPhi, nTheta := Phidash1.Dims()
	if err = checkDims("K", K, nPhi, nTheta); err != nil {
		return
	}
	cp.KInto(K, Phidash1, Phidash2, dg1, dg2, normal)
	return
}

func gather(pot Potential, ws WindingSurface) (Phidash1, Phidash2 utils.ScalarField,
	dg1, dg2, normal utils.VectorField, err error) {
	if isNilCollaborator(pot) {
		err = fmt.Errorf("%w: current potential", ErrMissingField)
		return
	}
	if isNilCollaborator(ws) {
		err = fmt.Errorf("%w: winding surface", ErrMissingField)
		return
	}
	Phidash1, Phidash2 = pot.Phidash1(), pot.Phidash2()
	dg1, dg2, normal = ws.GammaDash1(), ws.GammaDash2(), ws.Normal()
	if err = CheckShapes(Phidash1, Phidash2, dg1, dg2, normal); err != nil {
		err = fmt.Errorf("current density inputs: %w", err)
	}
	return
}

// isNilCollaborator also catches a nil pointer stored in the interface,
// whose accessors would dereference nil
func isNilCollaborator(c any) bool {
	if c == nil {
		return true
	}
	switch v := reflect.ValueOf(c); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
