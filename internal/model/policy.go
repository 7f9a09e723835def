package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BasisPointDenominator is the payout percentage scale: 10000 = 100%.
const BasisPointDenominator = 10000

// ClimateParameter is one trigger condition attached to a policy.
// Immutable once the policy is created on-ledger.
type ClimateParameter struct {
	ParameterType    string   `json:"parameterType"`
	ThresholdValue   *big.Int `json:"thresholdValue"`
	PeriodInDays     *big.Int `json:"periodInDays"`
	TriggerAbove     bool     `json:"triggerAbove"`
	PayoutPercentage *big.Int `json:"payoutPercentage"` // basis points, 0..10000
}

// Policy mirrors the on-ledger policy record. It is never mutated locally;
// state transitions happen through ledger transactions only.
type Policy struct {
	ID             *big.Int           `json:"id"`
	Farmer         common.Address     `json:"farmer"`
	CoverageAmount *big.Int           `json:"coverageAmount"`
	Premium        *big.Int           `json:"premium"`
	StartDate      *big.Int           `json:"startDate"`
	EndDate        *big.Int           `json:"endDate"`
	Active         bool               `json:"active"`
	Claimed        bool               `json:"claimed"`
	ClaimPaid      bool               `json:"claimPaid"`
	ClaimAmount    *big.Int           `json:"claimAmount"`
	ZKProofHash    string             `json:"zkProofHash"`
	Region         string             `json:"region"`
	CropType       string             `json:"cropType"`
	Parameters     []ClimateParameter `json:"parameters"`
}

// ParameterFor returns the first parameter matching parameterType, in
// declaration order. Callers depend on this ordering: a policy carrying
// two parameters of the same type is evaluated against the first only.
func (p *Policy) ParameterFor(parameterType string) *ClimateParameter {
	for i := range p.Parameters {
		if p.Parameters[i].ParameterType == parameterType {
			return &p.Parameters[i]
		}
	}
	return nil
}

// ClimateReading is a single normalized weather measurement. It is
// produced per request and never persisted.
type ClimateReading struct {
	ParameterType string `json:"parameterType"`
	Region        string `json:"region"`
	Value         int64  `json:"value"` // scaled integer, see weather package
	ObservedAt    int64  `json:"observedAt"`
}
