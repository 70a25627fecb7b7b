package InputParameters

import (
	"fmt"
	"io"

	"github.com/ghodss/yaml"
)

// ModeParameters is one term A sin(2 pi (M theta - N phi)) of the current
// potential. The YAML keys avoid bare N / Y, which YAML 1.1 reads as booleans.
type ModeParameters struct {
	M         int     `json:"PoloidalMode"`
	N         int     `json:"ToroidalMode"`
	Amplitude float64 `json:"Amplitude"`
}

// Parameters obtained from the YAML input file for a current density evaluation
type InputParametersK struct {
	Title              string           `json:"Title"`
	NPhi               int              `json:"NPhi"`
	NTheta             int              `json:"NTheta"`
	MajorRadius        float64          `json:"MajorRadius"`
	MinorRadius        float64          `json:"MinorRadius"`
	NetToroidalCurrent float64          `json:"NetToroidalCurrent"` // Amperes
	NetPoloidalCurrent float64          `json:"NetPoloidalCurrent"` // Amperes
	Modes              []ModeParameters `json:"Modes"`
	ProcLimit          int              `json:"ProcLimit"`
	Backend            string           `json:"Backend"`    // cpu or occa
	OCCADevice         string           `json:"OCCADevice"` // OCCA device properties, JSON
}

const (
	BackendCPU  = "cpu"
	BackendOCCA = "occa"
)

const ExampleFile = `
########################################
Title: "Circular torus"
NPhi: 64
NTheta: 32
MajorRadius: 1.0
MinorRadius: 0.3
NetToroidalCurrent: 0.
NetPoloidalCurrent: 1.e6
Modes:
  - {PoloidalMode: 1, ToroidalMode: 1, Amplitude: 1.e4}
ProcLimit: 0 # 0 = one goroutine per CPU
Backend: cpu # or occa
########################################
`

func DefaultInputParametersK() (ip *InputParametersK) {
	ip = &InputParametersK{}
	if err := ip.Parse([]byte(ExampleFile)); err != nil {
		panic(err)
	}
	return
}

func (ip *InputParametersK) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersK) Validate() (err error) {
	switch {
	case ip.NPhi <= 0 || ip.NTheta <= 0:
		err = fmt.Errorf("grid dimensions must be positive, have NPhi = %d, NTheta = %d", ip.NPhi, ip.NTheta)
	case ip.MajorRadius <= 0 || ip.MinorRadius <= 0:
		err = fmt.Errorf("radii must be positive, have MajorRadius = %v, MinorRadius = %v",
			ip.MajorRadius, ip.MinorRadius)
	case ip.MinorRadius >= ip.MajorRadius:
		err = fmt.Errorf("MinorRadius %v must be less than MajorRadius %v", ip.MinorRadius, ip.MajorRadius)
	case ip.ProcLimit < 0:
		err = fmt.Errorf("ProcLimit must not be negative, have %d", ip.ProcLimit)
	}
	if err != nil {
		return
	}
	switch ip.Backend {
	case "":
		ip.Backend = BackendCPU
	case BackendCPU, BackendOCCA:
	default:
		err = fmt.Errorf("unknown backend %q, must be %q or %q", ip.Backend, BackendCPU, BackendOCCA)
	}
	return
}

func (ip *InputParametersK) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%d x %d]\t\t= NPhi x NTheta\n", ip.NPhi, ip.NTheta)
	fmt.Fprintf(w, "%8.5f\t\t= MajorRadius\n", ip.MajorRadius)
	fmt.Fprintf(w, "%8.5f\t\t= MinorRadius\n", ip.MinorRadius)
	fmt.Fprintf(w, "%12.5e\t= NetToroidalCurrent\n", ip.NetToroidalCurrent)
	fmt.Fprintf(w, "%12.5e\t= NetPoloidalCurrent\n", ip.NetPoloidalCurrent)
	for i, md := range ip.Modes {
		fmt.Fprintf(w, "Modes[%d] = PoloidalMode: %d, ToroidalMode: %d, Amplitude: %v\n", i, md.M, md.N, md.Amplitude)
	}
	fmt.Fprintf(w, "[%d]\t\t\t= ProcLimit\n", ip.ProcLimit)
	fmt.Fprintf(w, "[%s]\t\t\t= Backend\n", ip.Backend)
}
