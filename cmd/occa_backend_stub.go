//go:build !occa

package cmd

import (
	"errors"

	"github.com/notargets/gowinding/InputParameters"
	"github.com/notargets/gowinding/model_problems/circular_torus"
)

var errNoOCCA = errors.New("occa backend unavailable, rebuild with -tags occa")

func newOCCAEvaluator(ip *InputParameters.InputParametersK, fp *circular_torus.FourierPotential,
	tor *circular_torus.Torus) (evaluator, error) {
	return nil, errNoOCCA
}
