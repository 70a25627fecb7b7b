/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gowinding/CurrentPotential"
	"github.com/notargets/gowinding/InputParameters"
	"github.com/notargets/gowinding/model_problems/circular_torus"
	"github.com/notargets/gowinding/utils"
)

type ModelK struct {
	ICFile     string
	Iterations int
	ProfileDir string
	Perf       bool
}

// evaluator fills K for one backend, reusing its buffers between calls
type evaluator interface {
	EvaluateInto(K utils.VectorGrid) error
	Free()
}

// KCmd represents the K command
var KCmd = &cobra.Command{
	Use:   "K",
	Short: "Evaluate the surface current density on a circular torus winding surface",
	Long: `Evaluate the surface current density on a circular torus winding surface.

The current potential is a sum of Fourier modes read from the input file,
the net toroidal and poloidal currents add the secular part.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			mk = &ModelK{}
			ip *InputParameters.InputParametersK
		)
		if mk.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		mk.Iterations, _ = cmd.Flags().GetInt("iterations")
		mk.ProfileDir, _ = cmd.Flags().GetString("profile")
		mk.Perf, _ = cmd.Flags().GetBool("perf")
		if ip, err = processInputK(mk); err != nil {
			return
		}
		if mk.ProfileDir != "" {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(mk.ProfileDir), profile.Quiet).Stop()
		}
		_, err = RunK(mk, ip, cmd.OutOrStdout())
		return
	},
}

func init() {
	rootCmd.AddCommand(KCmd)
	KCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- NPhi, NTheta\n\t- MajorRadius, MinorRadius\n\t- NetToroidalCurrent, NetPoloidalCurrent")
	KCmd.Flags().IntP("iterations", "n", 1, "number of evaluations to time")
	KCmd.Flags().String("profile", "", "directory for a CPU profile of the run")
	KCmd.Flags().Bool("perf", false, "count CPU cycles for one evaluation (linux)")
	KCmd.Flags().Int("nphi", 0, "override NPhi")
	KCmd.Flags().Int("ntheta", 0, "override NTheta")
	KCmd.Flags().Int("procs", 0, "override ProcLimit")
	for _, name := range []string{"nphi", "ntheta", "procs"} {
		if err := viper.BindPFlag(name, KCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func processInputK(mk *ModelK) (ip *InputParameters.InputParametersK, err error) {
	if len(mk.ICFile) == 0 {
		log.Warn("no input parameters file (-I, --inputConditionsFile), using defaults")
		log.Debugf("Example File:%s", InputParameters.ExampleFile)
		ip = InputParameters.DefaultInputParametersK()
	} else {
		var data []byte
		if data, err = os.ReadFile(mk.ICFile); err != nil {
			return nil, fmt.Errorf("reading input parameters: %w", err)
		}
		ip = &InputParameters.InputParametersK{}
		if err = ip.Parse(data); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", mk.ICFile, err)
		}
	}
	if n := viper.GetInt("nphi"); n > 0 {
		ip.NPhi = n
	}
	if n := viper.GetInt("ntheta"); n > 0 {
		ip.NTheta = n
	}
	if n := viper.GetInt("procs"); n > 0 {
		ip.ProcLimit = n
	}
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	if mk.Iterations < 1 {
		mk.Iterations = 1
	}
	return
}

func RunK(mk *ModelK, ip *InputParameters.InputParametersK, w io.Writer) (ks CurrentPotential.KStats, err error) {
	ip.Print(w)
	var (
		tor   = circular_torus.NewTorus(ip.MajorRadius, ip.MinorRadius, ip.NPhi, ip.NTheta)
		modes = make([]circular_torus.Mode, len(ip.Modes))
	)
	for i, md := range ip.Modes {
		modes[i] = circular_torus.Mode{M: md.M, N: md.N, Amplitude: md.Amplitude}
	}
	fp := circular_torus.NewFourierPotential(tor, modes...)

	var ev evaluator
	if ev, err = newEvaluator(ip, fp, tor); err != nil {
		return
	}
	defer ev.Free()

	log.WithFields(log.Fields{
		"nphi":       ip.NPhi,
		"ntheta":     ip.NTheta,
		"backend":    ip.Backend,
		"goroutines": utils.ParallelDegree(ip.ProcLimit, ip.NPhi),
		"modes":      len(modes),
	}).Info("evaluating current density")

	K := utils.NewVectorGrid(ip.NPhi, ip.NTheta)
	start := time.Now()
	for n := 0; n < mk.Iterations; n++ {
		if err = ev.EvaluateInto(K); err != nil {
			return
		}
	}
	elapsed := time.Since(start)
	log.WithFields(log.Fields{
		"iterations":    mk.Iterations,
		"elapsed":       elapsed,
		"per_iteration": elapsed / time.Duration(mk.Iterations),
	}).Info("evaluation complete")
	log.Debug(utils.GetMemUsage())

	if mk.Perf {
		cycles, perr := countCycles(func() error { return ev.EvaluateInto(K) })
		if perr != nil {
			log.WithError(perr).Warn("cpu cycle count unavailable")
		} else {
			log.WithField("cycles", cycles).Info("cpu cycles for one evaluation")
		}
	}

	ks = CurrentPotential.Summarize(K, tor.NormalGrid())
	fields := log.Fields{
		"max_K":            ks.MaxK,
		"rms_K":            ks.RMSK,
		"squared_integral": ks.SquaredIntegral,
		"finite":           ks.Finite,
	}
	if len(ks.NonFinite) != 0 {
		fields["non_finite"] = len(ks.NonFinite)
		log.WithFields(fields).Warn("current density has non finite points")
	} else {
		log.WithFields(fields).Info("current density")
	}
	return
}

type cpuEvaluator struct {
	cp  *CurrentPotential.CurrentPotential
	pot CurrentPotential.Potential
	ws  CurrentPotential.WindingSurface
}

func (ce *cpuEvaluator) EvaluateInto(K utils.VectorGrid) error {
	return ce.cp.EvaluateInto(K, ce.pot, ce.ws)
}

func (ce *cpuEvaluator) Free() {}

func newEvaluator(ip *InputParameters.InputParametersK, fp *circular_torus.FourierPotential,
	tor *circular_torus.Torus) (ev evaluator, err error) {
	switch ip.Backend {
	case InputParameters.BackendOCCA:
		return newOCCAEvaluator(ip, fp, tor)
	default:
		ev = &cpuEvaluator{
			cp:  CurrentPotential.NewCurrentPotential(ip.NetToroidalCurrent, ip.NetPoloidalCurrent, ip.ProcLimit),
			pot: fp,
			ws:  tor,
		}
	}
	return
}
