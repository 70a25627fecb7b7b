//go:build occa

package cmd

import (
	"fmt"

	"github.com/notargets/gocca"
	log "github.com/sirupsen/logrus"

	"github.com/notargets/gowinding/CurrentPotential"
	"github.com/notargets/gowinding/InputParameters"
	"github.com/notargets/gowinding/model_problems/circular_torus"
	"github.com/notargets/gowinding/utils"
)

type occaEvaluator struct {
	device     *gocca.OCCADevice
	dk         *CurrentPotential.OCCAKernel
	fp         *circular_torus.FourierPotential
	tor        *circular_torus.Torus
	netT, netP float64
}

func newOCCAEvaluator(ip *InputParameters.InputParametersK, fp *circular_torus.FourierPotential,
	tor *circular_torus.Torus) (ev evaluator, err error) {
	oe := &occaEvaluator{fp: fp, tor: tor, netT: ip.NetToroidalCurrent, netP: ip.NetPoloidalCurrent}
	if ip.OCCADevice != "" {
		oe.device, err = gocca.NewDevice(ip.OCCADevice)
	} else {
		oe.device, err = CurrentPotential.NewDevice()
	}
	if err != nil {
		return nil, fmt.Errorf("creating OCCA device: %w", err)
	}
	log.WithField("mode", oe.device.Mode()).Info("OCCA device")
	if oe.dk, err = CurrentPotential.NewOCCAKernel(oe.device, ip.NPhi, ip.NTheta); err != nil {
		oe.device.Free()
		return nil, err
	}
	return oe, nil
}

func (oe *occaEvaluator) EvaluateInto(K utils.VectorGrid) error {
	return oe.dk.ComputeInto(K, oe.fp.Phidash1Grid(), oe.fp.Phidash2Grid(),
		oe.tor.GammaDash1Grid(), oe.tor.GammaDash2Grid(), oe.tor.NormalGrid(), oe.netT, oe.netP)
}

func (oe *occaEvaluator) Free() {
	oe.dk.Free()
	oe.device.Free()
}
