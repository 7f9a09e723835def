package model

// Request bodies for the HTTP surface. Field names follow the wire
// format consumed by the frontend (camelCase).

// ClimateParameterRequest is the wire form of a trigger condition.
type ClimateParameterRequest struct {
	ParameterType    string `json:"parameterType" binding:"required"`
	ThresholdValue   int64  `json:"thresholdValue"`
	PeriodInDays     uint32 `json:"periodInDays"`
	TriggerAbove     bool   `json:"triggerAbove"`
	PayoutPercentage uint32 `json:"payoutPercentage"`
}

// CreatePolicyRequest creates a new policy on the ledger.
// CoverageAmount and Premium are denominated in wei.
type CreatePolicyRequest struct {
	Farmer         string                    `json:"farmer" binding:"required"`
	CoverageAmount uint64                    `json:"coverageAmount"`
	StartDate      int64                     `json:"startDate"`
	EndDate        int64                     `json:"endDate"`
	Region         string                    `json:"region" binding:"required"`
	CropType       string                    `json:"cropType" binding:"required"`
	Parameters     []ClimateParameterRequest `json:"parameters" binding:"required"`
	ZKProofHash    string                    `json:"zkProofHash"`
}

// ActivatePolicyRequest pays the premium for a created policy.
type ActivatePolicyRequest struct {
	Premium uint64 `json:"premium"`
}

// ClimateDataRequest asks for a trigger evaluation against live weather.
type ClimateDataRequest struct {
	ParameterType string `json:"parameterType" binding:"required"`
	Region        string `json:"region" binding:"required"`
}

// AddCapitalRequest deposits capital into the treasury, in wei.
type AddCapitalRequest struct {
	Amount uint64 `json:"amount"`
}

// CreateProposalRequest opens a governance proposal.
type CreateProposalRequest struct {
	Description    string `json:"description" binding:"required"`
	TargetContract string `json:"targetContract" binding:"required"`
	CallData       string `json:"callData"`
}

// VoteProposalRequest casts a vote on an open proposal.
type VoteProposalRequest struct {
	Support bool `json:"support"`
}

// AddRegionRequest registers a supported region.
type AddRegionRequest struct {
	Region string `json:"region" binding:"required"`
}

// AddCropRequest registers a supported crop type.
type AddCropRequest struct {
	Crop string `json:"crop" binding:"required"`
}

// SetOracleRequest assigns the oracle for a region.
type SetOracleRequest struct {
	Region        string `json:"region" binding:"required"`
	OracleAddress string `json:"oracleAddress" binding:"required"`
}

// TransferTokensRequest transfers governance tokens from the admin account.
type TransferTokensRequest struct {
	Amount uint64 `json:"amount"`
}

// VerifyProofRequest carries a zero-knowledge proof and its public signals.
type VerifyProofRequest struct {
	Proof         interface{} `json:"proof" binding:"required"`
	PublicSignals interface{} `json:"publicSignals" binding:"required"`
}
