//go:build occa

package CurrentPotential

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"

	"github.com/notargets/gowinding/utils"
)

// ThetaTile is the inner (thread) dimension of the kernel. Theta is walked
// in tiles of this size so a block stays under the CUDA limit of 1024
// threads for any NTheta.
const ThetaTile = 256

// Outer loops over phi rows and theta tiles map to blocks, the inner loop
// over one tile to threads. Data layout matches utils.ScalarGrid /
// utils.VectorGrid.
var currentDensityKernelSource = fmt.Sprintf(`
#define THETA_TILE %d
@kernel void currentDensity(
	const int nPhi,
	const int nTheta,
	const double netToroidal,
	const double netPoloidal,
	const double* Phidash1,
	const double* Phidash2,
	const double* dg1,
	const double* dg2,
	const double* normal,
	double* K
) {
	for (int i = 0; i < nPhi; ++i; @outer(0)) {
		for (int jt = 0; jt < nTheta; jt += THETA_TILE; @outer(1)) {
			for (int jj = 0; jj < THETA_TILE; ++jj; @inner(0)) {
				const int j = jt + jj;
				if (j < nTheta) {
					const int ij = j + nTheta*i;
					const int ind = 3*ij;
					const double nx = normal[ind];
					const double ny = normal[ind+1];
					const double nz = normal[ind+2];
					const double normn = sqrt(nx*nx + ny*ny + nz*nz);
					const double effPhi = Phidash2[ij] + netToroidal;
					const double effTheta = Phidash1[ij] + netPoloidal;
					K[ind]   = (-dg1[ind]*effPhi   + dg2[ind]*effTheta)/normn;
					K[ind+1] = (-dg1[ind+1]*effPhi + dg2[ind+1]*effTheta)/normn;
					K[ind+2] = (-dg1[ind+2]*effPhi + dg2[ind+2]*effTheta)/normn;
				}
			}
		}
	}
}
`, ThetaTile)

const currentDensityKernelName = "currentDensity"

// NewDevice tries the parallel OCCA backends first and falls back to Serial
func NewDevice() (device *gocca.OCCADevice, err error) {
	backends := []string{
		`{"mode": "OpenMP"}`,
		`{"mode": "CUDA", "device_id": 0}`,
		`{"mode": "Serial"}`,
	}
	for _, props := range backends {
		if device, err = gocca.NewDevice(props); err == nil {
			return
		}
	}
	return nil, fmt.Errorf("unable to create any OCCA device: %w", err)
}

// OCCAKernel runs the current density kernel on an OCCA device for a fixed
// quadrature grid size. Device buffers are allocated once and reused. Any
// NTheta is accepted, theta is split into ThetaTile sized thread blocks.
type OCCAKernel struct {
	NPhi, NTheta int
	device       *gocca.OCCADevice
	kernel       *gocca.OCCAKernel
	memory       map[string]*gocca.OCCAMemory
}

func NewOCCAKernel(device *gocca.OCCADevice, nPhi, nTheta int) (dk *OCCAKernel, err error) {
	if nPhi <= 0 || nTheta <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, nPhi, nTheta)
	}
	dk = &OCCAKernel{
		NPhi:   nPhi,
		NTheta: nTheta,
		device: device,
		memory: make(map[string]*gocca.OCCAMemory),
	}
	if device.Mode() == "OpenMP" {
		// OpenMP builds do not get -O3 by default
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		dk.kernel, err = device.BuildKernelFromString(currentDensityKernelSource, currentDensityKernelName, props)
	} else {
		dk.kernel, err = device.BuildKernelFromString(currentDensityKernelSource, currentDensityKernelName, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build kernel %s: %w", currentDensityKernelName, err)
	}
	if dk.kernel == nil {
		return nil, fmt.Errorf("kernel build returned nil for %s", currentDensityKernelName)
	}
	var (
		scalarBytes = int64(nPhi * nTheta * 8)
		vectorBytes = 3 * scalarBytes
	)
	for _, name := range []string{"Phidash1", "Phidash2"} {
		dk.memory[name] = device.Malloc(scalarBytes, nil, nil)
	}
	for _, name := range []string{"dg1", "dg2", "normal", "K"} {
		dk.memory[name] = device.Malloc(vectorBytes, nil, nil)
	}
	return
}

func (dk *OCCAKernel) ComputeInto(K utils.VectorGrid, Phidash1, Phidash2 utils.ScalarGrid, dg1, dg2, normal utils.VectorGrid,
	netToroidal, netPoloidal float64) (err error) {
	if err = CheckShapes(Phidash1, Phidash2, dg1, dg2, normal); err != nil {
		return
	}
	if err = checkDims("K", K, dk.NPhi, dk.NTheta); err != nil {
		return
	}
	if err = checkDims("Phidash1", Phidash1, dk.NPhi, dk.NTheta); err != nil {
		return
	}
	copyIn := func(name string, data []float64) {
		dk.memory[name].CopyFrom(unsafe.Pointer(&data[0]), int64(len(data)*8))
	}
	copyIn("Phidash1", Phidash1.Data())
	copyIn("Phidash2", Phidash2.Data())
	copyIn("dg1", dg1.Data())
	copyIn("dg2", dg2.Data())
	copyIn("normal", normal.Data())

	dk.kernel.SetRunDims(
		gocca.OCCADim{X: uint64(dk.NPhi), Y: uint64(dk.thetaTiles()), Z: 1},
		gocca.OCCADim{X: ThetaTile, Y: 1, Z: 1},
	)
	if err = dk.kernel.RunWithArgs(dk.NPhi, dk.NTheta, netToroidal, netPoloidal,
		dk.memory["Phidash1"], dk.memory["Phidash2"],
		dk.memory["dg1"], dk.memory["dg2"], dk.memory["normal"],
		dk.memory["K"]); err != nil {
		return fmt.Errorf("kernel %s execution failed: %w", currentDensityKernelName, err)
	}
	kD := K.Data()
	dk.memory["K"].CopyTo(unsafe.Pointer(&kD[0]), int64(len(kD)*8))
	return
}

func (dk *OCCAKernel) thetaTiles() int {
	return (dk.NTheta + ThetaTile - 1) / ThetaTile
}

// Compute allocates the output grid
func (dk *OCCAKernel) Compute(Phidash1, Phidash2 utils.ScalarGrid, dg1, dg2, normal utils.VectorGrid,
	netToroidal, netPoloidal float64) (K utils.VectorGrid, err error) {
	K = utils.NewVectorGrid(dk.NPhi, dk.NTheta)
	err = dk.ComputeInto(K, Phidash1, Phidash2, dg1, dg2, normal, netToroidal, netPoloidal)
	return
}

func (dk *OCCAKernel) Free() {
	if dk.kernel != nil {
		dk.kernel.Free()
	}
	for _, mem := range dk.memory {
		if mem != nil {
			mem.Free()
		}
	}
}
