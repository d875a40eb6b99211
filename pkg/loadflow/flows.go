package loadflow

import (
	"fmt"
	"math/cmplx"
)

// Branch carries one branch's per-unit impedance and, after ComputeBranchFlows,
// its power flows. Losses are the sum of forward and reverse complex power.
type Branch struct {
	FromBus     string     `json:"from_bus"`
	ToBus       string     `json:"to_bus"`
	ImpedancePU complex128 `json:"-"`

	PFromPU float64 `json:"p_from_pu"`
	QFromPU float64 `json:"q_from_pu"`
	PToPU   float64 `json:"p_to_pu"`
	QToPU   float64 `json:"q_to_pu"`
	PLossPU float64 `json:"p_loss_pu"`
	QLossPU float64 `json:"q_loss_pu"`
}

// ComputeBranchFlows derives branch power flows from solved bus voltages:
// I_ij = (V_i − V_j)·y and S_ij = V_i·conj(I_ij). Branches with zero
// impedance or unknown endpoints are rejected.
func ComputeBranchFlows(buses map[string]BusState, branches []Branch) ([]Branch, error) {
	out := make([]Branch, len(branches))
	for k, br := range branches {
		from, ok := buses[br.FromBus]
		if !ok {
			return nil, fmt.Errorf("loadflow: branch endpoint %q not solved", br.FromBus)
		}
		to, ok := buses[br.ToBus]
		if !ok {
			return nil, fmt.Errorf("loadflow: branch endpoint %q not solved", br.ToBus)
		}
		if br.ImpedancePU == 0 {
			return nil, fmt.Errorf("loadflow: branch %s-%s has zero impedance", br.FromBus, br.ToBus)
		}

		y := 1.0 / br.ImpedancePU
		vi := from.Voltage()
		vj := to.Voltage()

		sij := vi * cmplx.Conj((vi-vj)*y)
		sji := vj * cmplx.Conj((vj-vi)*y)

		br.PFromPU = real(sij)
		br.QFromPU = imag(sij)
		br.PToPU = real(sji)
		br.QToPU = imag(sji)
		br.PLossPU = br.PFromPU + br.PToPU
		br.QLossPU = br.QFromPU + br.QToPU
		out[k] = br
	}
	return out, nil
}

// TotalBranchLosses sums real and reactive losses over computed branches.
func TotalBranchLosses(branches []Branch) (pLoss, qLoss float64) {
	for _, br := range branches {
		pLoss += br.PLossPU
		qLoss += br.QLossPU
	}
	return pLoss, qLoss
}
