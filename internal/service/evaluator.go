package service

import (
	"math/big"

	"github.com/agrochain/agrochain-bridge/internal/model"
)

// Evaluation is the outcome of checking one climate reading against a
// policy's trigger conditions.
type Evaluation struct {
	Triggered     bool                    `json:"triggered"`
	Parameter     *model.ClimateParameter `json:"parameter,omitempty"`
	ObservedValue int64                   `json:"observedValue"`
	PayoutAmount  *big.Int                `json:"payoutAmount"`
}

// EvaluateTrigger checks a reading against the policy's parameters.
// Only the first parameter matching the reading's type is considered.
// The trigger fires on strict inequality: observed below the threshold
// for a shortfall condition, above it for an excess condition. Equality
// never fires. The payout is coverage scaled by the parameter's basis
// points, floor-divided and capped at coverage.
func EvaluateTrigger(params []model.ClimateParameter, coverage *big.Int, reading model.ClimateReading) Evaluation {
	eval := Evaluation{
		ObservedValue: reading.Value,
		PayoutAmount:  big.NewInt(0),
	}

	var match *model.ClimateParameter
	for i := range params {
		if params[i].ParameterType == reading.ParameterType {
			match = &params[i]
			break
		}
	}
	if match == nil {
		return eval
	}
	eval.Parameter = match

	threshold := match.ThresholdValue
	if threshold == nil {
		return eval
	}
	observed := big.NewInt(reading.Value)

	cmp := observed.Cmp(threshold)
	triggered := (cmp < 0 && !match.TriggerAbove) || (cmp > 0 && match.TriggerAbove)
	if !triggered {
		return eval
	}

	eval.Triggered = true
	eval.PayoutAmount = payoutAmount(coverage, match.PayoutPercentage)
	return eval
}

// payoutAmount computes coverage * basisPoints / 10000 with big.Int
// floor division, capped at coverage. Policies created through this
// service never carry more than 10000 bp, but ledger-held parameters
// are not under that validation.
func payoutAmount(coverage, basisPoints *big.Int) *big.Int {
	if coverage == nil || basisPoints == nil {
		return big.NewInt(0)
	}
	amount := new(big.Int).Mul(coverage, basisPoints)
	amount.Div(amount, big.NewInt(model.BasisPointDenominator))
	if amount.Cmp(coverage) > 0 {
		return new(big.Int).Set(coverage)
	}
	return amount
}
