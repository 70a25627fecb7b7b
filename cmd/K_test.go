package cmd

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gowinding/CurrentPotential"
	"github.com/notargets/gowinding/InputParameters"
	"github.com/notargets/gowinding/model_problems/circular_torus"
)

const testInput = `
Title: "Poloidal current only"
NPhi: 10
NTheta: 16
MajorRadius: 2.
MinorRadius: 0.5
NetToroidalCurrent: 0.
NetPoloidalCurrent: 1.e6
ProcLimit: 3
`

func writeInput(t *testing.T, contents string) string {
	fileName := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(fileName, []byte(contents), 0644))
	return fileName
}

func TestRunK(t *testing.T) {
	mk := &ModelK{ICFile: writeInput(t, testInput), Iterations: 2}
	ip, err := processInputK(mk)
	require.NoError(t, err)
	assert.Equal(t, InputParameters.BackendCPU, ip.Backend)

	var buf bytes.Buffer
	ks, err := RunK(mk, ip, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Poloidal current only")
	assert.Equal(t, 10*16, ks.Finite)
	assert.Nil(t, ks.NonFinite)
	// |K| = I / (2 pi rho), largest on the inboard side
	assert.InEpsilon(t, 1.e6/(2*math.Pi*1.5), ks.MaxK, 1.e-12)
}

func TestRunK_Modes(t *testing.T) {
	modeInput := `
Title: "Helical modes"
NPhi: 12
NTheta: 10
MajorRadius: 1.5
MinorRadius: 0.4
NetToroidalCurrent: 2.e4
NetPoloidalCurrent: 3.e5
Modes:
  - {PoloidalMode: 1, ToroidalMode: 2, Amplitude: 4.e4}
  - {PoloidalMode: 2, ToroidalMode: -3, Amplitude: 1.e4}
ProcLimit: 2
`
	mk := &ModelK{ICFile: writeInput(t, modeInput)}
	ip, err := processInputK(mk)
	require.NoError(t, err)
	require.Len(t, ip.Modes, 2)
	assert.Equal(t, 2, ip.Modes[0].N)
	assert.Equal(t, -3, ip.Modes[1].N)

	var buf bytes.Buffer
	ks, err := RunK(mk, ip, &buf)
	require.NoError(t, err)

	var (
		tor = circular_torus.NewTorus(1.5, 0.4, 12, 10)
		fp  = circular_torus.NewFourierPotential(tor,
			circular_torus.Mode{M: 1, N: 2, Amplitude: 4.e4},
			circular_torus.Mode{M: 2, N: -3, Amplitude: 1.e4})
		K = CurrentPotential.ComputeK(fp.Phidash1(), fp.Phidash2(),
			tor.GammaDash1(), tor.GammaDash2(), tor.Normal(), 2.e4, 3.e5)
		expected = CurrentPotential.Summarize(K, tor.NormalGrid())
	)
	assert.Equal(t, expected.Finite, ks.Finite)
	assert.InEpsilon(t, expected.MaxK, ks.MaxK, 1.e-12)
	assert.InEpsilon(t, expected.RMSK, ks.RMSK, 1.e-12)
	assert.InEpsilon(t, expected.SquaredIntegral, ks.SquaredIntegral, 1.e-12)
	{ // The toroidal mode numbers change the answer
		noN := circular_torus.NewFourierPotential(tor,
			circular_torus.Mode{M: 1, N: 0, Amplitude: 4.e4},
			circular_torus.Mode{M: 2, N: 0, Amplitude: 1.e4})
		K0 := CurrentPotential.ComputeK(noN.Phidash1(), noN.Phidash2(),
			tor.GammaDash1(), tor.GammaDash2(), tor.Normal(), 2.e4, 3.e5)
		ks0 := CurrentPotential.Summarize(K0, tor.NormalGrid())
		assert.Greater(t, math.Abs(ks0.RMSK-ks.RMSK), 1.e-6*ks.RMSK)
	}
}

func TestProcessInputK(t *testing.T) {
	{ // Defaults without an input file
		mk := &ModelK{}
		ip, err := processInputK(mk)
		require.NoError(t, err)
		assert.Equal(t, InputParameters.DefaultInputParametersK().NPhi, ip.NPhi)
		assert.Equal(t, 1, mk.Iterations)
	}
	{ // Overrides from config or environment
		viper.Set("nphi", 12)
		viper.Set("procs", 2)
		defer func() {
			viper.Set("nphi", 0)
			viper.Set("procs", 0)
		}()
		ip, err := processInputK(&ModelK{ICFile: writeInput(t, testInput)})
		require.NoError(t, err)
		assert.Equal(t, 12, ip.NPhi)
		assert.Equal(t, 16, ip.NTheta)
		assert.Equal(t, 2, ip.ProcLimit)
	}
	{ // Errors
		_, err := processInputK(&ModelK{ICFile: filepath.Join(t.TempDir(), "missing.yaml")})
		assert.Error(t, err)
		_, err = processInputK(&ModelK{ICFile: writeInput(t, "NPhi: [1, 2]")})
		assert.Error(t, err)
		_, err = processInputK(&ModelK{ICFile: writeInput(t, "NPhi: 4\nNTheta: 4\nMajorRadius: 1\nMinorRadius: 2\n")})
		assert.ErrorContains(t, err, "MinorRadius")
	}
}

func TestKCmd(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"K", "-I", writeInput(t, testInput), "-n", "3"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "= NPhi x NTheta")
}
