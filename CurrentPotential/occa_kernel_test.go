//go:build occa

package CurrentPotential

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/notargets/gocca"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gowinding/model_problems/circular_torus"
	"github.com/notargets/gowinding/utils"
)

func createTestDevice(t *testing.T) *gocca.OCCADevice {
	device, err := gocca.NewDevice(`{"mode": "Serial"}`)
	if err != nil {
		t.Fatalf("Failed to create device: %v", err)
	}
	return device
}

func TestOCCAKernel_MatchesHost(t *testing.T) {
	device := createTestDevice(t)
	defer device.Free()

	var (
		nPhi, nTheta = 20, 12
		rng          = rand.New(rand.NewSource(21))
		tor          = circular_torus.NewTorus(1.3, 0.35, nPhi, nTheta)
		p1, p2       = randomScalar(rng, nPhi, nTheta), randomScalar(rng, nPhi, nTheta)
	)
	dk, err := NewOCCAKernel(device, nPhi, nTheta)
	require.NoError(t, err)
	defer dk.Free()

	host := ComputeK(p1, p2, tor.GammaDash1(), tor.GammaDash2(), tor.Normal(), 2.e3, -7.e3)
	K, err := dk.Compute(p1, p2, tor.GammaDash1Grid(), tor.GammaDash2Grid(), tor.NormalGrid(), 2.e3, -7.e3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, host.Data(), K.Data(), 1.e-8)

	{ // Buffers are reused across calls
		K2, err := dk.Compute(p2, p1, tor.GammaDash1Grid(), tor.GammaDash2Grid(), tor.NormalGrid(), 0, 0)
		require.NoError(t, err)
		host2 := ComputeK(p2, p1, tor.GammaDash1(), tor.GammaDash2(), tor.Normal(), 0, 0)
		assert.InDeltaSlice(t, host2.Data(), K2.Data(), 1.e-8)
	}
}

func TestOCCAKernel_ThetaTiles(t *testing.T) {
	device := createTestDevice(t)
	defer device.Free()

	// More theta points than one thread block, with a partial last tile
	for _, nTheta := range []int{ThetaTile - 1, ThetaTile, 2*ThetaTile + 37} {
		var (
			nPhi   = 3
			rng    = rand.New(rand.NewSource(int64(nTheta)))
			tor    = circular_torus.NewTorus(1.3, 0.35, nPhi, nTheta)
			p1, p2 = randomScalar(rng, nPhi, nTheta), randomScalar(rng, nPhi, nTheta)
		)
		dk, err := NewOCCAKernel(device, nPhi, nTheta)
		require.NoError(t, err)
		assert.Equal(t, (nTheta+ThetaTile-1)/ThetaTile, dk.thetaTiles())
		host := ComputeK(p1, p2, tor.GammaDash1(), tor.GammaDash2(), tor.Normal(), 5.e2, 3.e3)
		K, err := dk.Compute(p1, p2, tor.GammaDash1Grid(), tor.GammaDash2Grid(), tor.NormalGrid(), 5.e2, 3.e3)
		require.NoError(t, err)
		assert.InDeltaSlice(t, host.Data(), K.Data(), 1.e-8, "nTheta %d", nTheta)
		dk.Free()
	}
}

func TestOCCAKernel_Errors(t *testing.T) {
	device := createTestDevice(t)
	defer device.Free()

	_, err := NewOCCAKernel(device, 0, 4)
	assert.True(t, errors.Is(err, ErrEmptyGrid))

	dk, err := NewOCCAKernel(device, 4, 4)
	require.NoError(t, err)
	defer dk.Free()
	var (
		s = utils.NewScalarGrid(4, 5)
		v = utils.NewVectorGrid(4, 5)
	)
	_, err = dk.Compute(s, s, v, v, v, 0, 0)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}
