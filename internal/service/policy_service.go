package service

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/agrochain/agrochain-bridge/internal/contract"
	"github.com/agrochain/agrochain-bridge/internal/metrics"
	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/internal/receipt"
	"github.com/agrochain/agrochain-bridge/internal/weather"
	"github.com/agrochain/agrochain-bridge/pkg/logger"
)

// WarningListingUnsupported is surfaced on list responses when the
// deployed contract exposes no matching list query.
const WarningListingUnsupported = "policy listing not supported by deployed contract"

// CreatePolicyResult reports a created policy and how its ID was
// recovered from the receipt.
type CreatePolicyResult struct {
	PolicyID      *big.Int `json:"policyId"`
	IDSource      string   `json:"idSource"`
	LowConfidence bool     `json:"lowConfidence"`
	TxResult
}

// ClaimResult reports one claim evaluation, including the payout
// transaction when the trigger fired.
type ClaimResult struct {
	PolicyID   *big.Int   `json:"policyId"`
	Evaluation Evaluation `json:"evaluation"`
	Paid       bool       `json:"paid"`
	TxResult   *TxResult  `json:"tx,omitempty"`
}

// CancelResult reports a cancellation attempt. RefundAmount is filled
// when the contract emitted it with the cancellation event.
type CancelResult struct {
	PolicyID     *big.Int  `json:"policyId"`
	Success      bool      `json:"success"`
	RefundAmount *big.Int  `json:"refundAmount,omitempty"`
	Warning      string    `json:"warning,omitempty"`
	TxResult     *TxResult `json:"tx,omitempty"`
}

// PolicyList is a list response plus an optional degradation warning.
type PolicyList struct {
	PolicyIDs []*big.Int `json:"policyIds"`
	Warning   string     `json:"warning,omitempty"`
}

// PolicyStatus summarizes a policy's lifecycle position.
type PolicyStatus struct {
	PolicyID *big.Int      `json:"policyId"`
	Status   string        `json:"status"`
	Policy   *model.Policy `json:"policy,omitempty"`
}

// PolicyService drives the policy lifecycle: creation, activation,
// claim evaluation and payout.
type PolicyService struct {
	insurance *contract.Insurance
	nft       *contract.PolicyNFT
	weather   WeatherSource
	sender    Sender
	extractor IDExtractor
}

// NewPolicyService wires the policy service.
func NewPolicyService(insurance *contract.Insurance, nft *contract.PolicyNFT,
	weatherSource WeatherSource, sender Sender, extractor IDExtractor) *PolicyService {
	return &PolicyService{
		insurance: insurance,
		nft:       nft,
		weather:   weatherSource,
		sender:    sender,
		extractor: extractor,
	}
}

// Create validates the request, submits createPolicy and recovers the
// new policy ID from the receipt.
func (s *PolicyService) Create(ctx context.Context, req *model.CreatePolicyRequest) (*CreatePolicyResult, error) {
	params, err := validateCreateRequest(req)
	if err != nil {
		return nil, err
	}
	farmer := common.HexToAddress(req.Farmer)

	data, err := s.insurance.PackCreatePolicy(
		farmer,
		new(big.Int).SetUint64(req.CoverageAmount),
		big.NewInt(req.StartDate),
		big.NewInt(req.EndDate),
		req.Region,
		req.CropType,
		params,
		req.ZKProofHash,
	)
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "encoding createPolicy")
	}

	rcpt, err := submit(ctx, s.sender, "create_policy", s.insurance.Address(), data, nil)
	if err != nil {
		return nil, err
	}

	emitters := []common.Address{s.insurance.Address()}
	if s.nft != nil {
		emitters = append(emitters, s.nft.Address())
	}
	created := s.extractor.ExtractCreatedID(ctx, rcpt, emitters, farmer)
	metrics.RecordPolicyCreated(created.Source)

	logger.Info("policy created",
		zap.String("policy_id", created.ID.String()),
		zap.String("id_source", created.Source),
		zap.String("farmer", farmer.Hex()),
		zap.String("region", req.Region),
	)

	return &CreatePolicyResult{
		PolicyID:      created.ID,
		IDSource:      created.Source,
		LowConfidence: created.LowConfidence,
		TxResult:      txResult(rcpt),
	}, nil
}

// Activate pays the premium for a created policy. The premium rides as
// transaction value.
func (s *PolicyService) Activate(ctx context.Context, policyID *big.Int, premium uint64) (*TxResult, error) {
	if policyID == nil || policyID.Sign() <= 0 {
		return nil, model.ErrValidation.WithMessage("policy id must be positive")
	}

	data, err := s.insurance.PackActivatePolicy(policyID)
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "encoding activatePolicy")
	}

	rcpt, err := submit(ctx, s.sender, "activate_policy", s.insurance.Address(), data, new(big.Int).SetUint64(premium))
	if err != nil {
		return nil, err
	}

	result := txResult(rcpt)
	return &result, nil
}

// Cancel cancels a created policy. A deployment without a cancel
// operation degrades to a warning instead of failing.
func (s *PolicyService) Cancel(ctx context.Context, policyID *big.Int) (*CancelResult, error) {
	if policyID == nil || policyID.Sign() <= 0 {
		return nil, model.ErrValidation.WithMessage("policy id must be positive")
	}
	if !s.insurance.Has("cancelPolicy") {
		return &CancelResult{
			PolicyID: policyID,
			Warning:  "cancellation not supported by deployed contract",
		}, nil
	}

	data, err := s.insurance.PackCancelPolicy(policyID)
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "encoding cancelPolicy")
	}

	rcpt, err := submit(ctx, s.sender, "cancel_policy", s.insurance.Address(), data, nil)
	if err != nil {
		return nil, err
	}

	tx := txResult(rcpt)
	result := &CancelResult{PolicyID: policyID, Success: true, TxResult: &tx}
	for _, ev := range receipt.ExtractEvent(s.insurance.BoundContract, "PolicyCancelled", rcpt) {
		if refund, ok := ev.Fields["refundAmount"].(*big.Int); ok {
			result.RefundAmount = refund
			break
		}
	}
	return result, nil
}

// Get reads a policy record. A zero record means no such policy.
func (s *PolicyService) Get(ctx context.Context, policyID *big.Int) (*model.Policy, error) {
	policy, err := s.insurance.GetPolicy(ctx, policyID)
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "reading policy %s", policyID)
	}
	if policy.ID == nil || policy.ID.Sign() == 0 {
		return nil, model.ErrNotFound.WithMessagef("policy %s not found", policyID)
	}
	return policy, nil
}

// Active lists active policy IDs. A deployment without a global list
// degrades to an empty list plus a warning.
func (s *PolicyService) Active(ctx context.Context) (*PolicyList, error) {
	ids, err := s.insurance.ActivePolicies(ctx)
	if err != nil {
		if err == contract.ErrNotSupported {
			return &PolicyList{PolicyIDs: []*big.Int{}, Warning: WarningListingUnsupported}, nil
		}
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "listing active policies")
	}
	if ids == nil {
		ids = []*big.Int{}
	}
	return &PolicyList{PolicyIDs: ids}, nil
}

// ForFarmer lists policy IDs owned by farmer, with the same degraded
// mode as Active.
func (s *PolicyService) ForFarmer(ctx context.Context, farmer string) (*PolicyList, error) {
	if !common.IsHexAddress(farmer) {
		return nil, model.ErrValidation.WithMessagef("invalid farmer address: %s", farmer)
	}

	ids, err := s.insurance.UserPolicies(ctx, common.HexToAddress(farmer))
	if err != nil {
		if err == contract.ErrNotSupported {
			return &PolicyList{PolicyIDs: []*big.Int{}, Warning: WarningListingUnsupported}, nil
		}
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "listing policies for %s", farmer)
	}
	if ids == nil {
		ids = []*big.Int{}
	}
	return &PolicyList{PolicyIDs: ids}, nil
}

// Status reports where a policy sits in its lifecycle.
func (s *PolicyService) Status(ctx context.Context, policyID *big.Int) (*PolicyStatus, error) {
	policy, err := s.Get(ctx, policyID)
	if err != nil {
		return nil, err
	}

	status := "created"
	switch {
	case policy.ClaimPaid:
		status = "claim_paid"
	case policy.Claimed:
		status = "claimed"
	case policy.Active:
		status = "active"
	}

	return &PolicyStatus{
		PolicyID: policy.ID,
		Status:   status,
		Policy:   policy,
	}, nil
}

// EvaluateClaim fetches the requested live reading and checks it
// against the policy's matching trigger parameter, paying out when the
// trigger fires. The request names the parameter and region to read,
// mirroring the oracle submission shape. A policy that is inactive or
// already claimed is rejected; a parameter type outside the provider
// table is a configuration error.
func (s *PolicyService) EvaluateClaim(ctx context.Context, policyID *big.Int, req *model.ClimateDataRequest) (*ClaimResult, error) {
	if !weather.IsSupported(req.ParameterType) {
		return nil, model.ErrConfiguration.WithMessagef("unsupported climate parameter: %s", req.ParameterType)
	}
	if req.Region == "" {
		return nil, model.ErrValidation.WithMessage("region is required")
	}

	policy, err := s.Get(ctx, policyID)
	if err != nil {
		return nil, err
	}
	if !policy.Active {
		metrics.RecordClaimEvaluation("rejected")
		return nil, model.ErrValidation.WithMessagef("policy %s is not active", policyID)
	}
	if policy.Claimed || policy.ClaimPaid {
		metrics.RecordClaimEvaluation("rejected")
		return nil, model.ErrValidation.WithMessagef("policy %s already has a claim", policyID)
	}
	if len(policy.Parameters) == 0 {
		return nil, model.ErrConfiguration.WithMessagef("policy %s has no trigger parameters", policyID)
	}

	reading, err := s.weather.Reading(ctx, req.Region, req.ParameterType)
	if err != nil {
		return nil, err
	}

	eval := EvaluateTrigger(policy.Parameters, policy.CoverageAmount, reading)
	result := &ClaimResult{PolicyID: policy.ID, Evaluation: eval}
	if !eval.Triggered {
		metrics.RecordClaimEvaluation("not_triggered")
		return result, nil
	}
	metrics.RecordClaimEvaluation("triggered")

	logger.Info("claim trigger fired",
		zap.String("policy_id", policy.ID.String()),
		zap.String("parameter", eval.Parameter.ParameterType),
		zap.Int64("observed", eval.ObservedValue),
		zap.String("threshold", eval.Parameter.ThresholdValue.String()),
		zap.String("payout", eval.PayoutAmount.String()),
	)

	data, err := s.insurance.PackProcessClaim(policy.ID, eval.PayoutAmount)
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "encoding processClaim")
	}
	rcpt, err := submit(ctx, s.sender, "process_claim", s.insurance.Address(), data, nil)
	if err != nil {
		return nil, err
	}
	metrics.RecordPayout()

	tx := txResult(rcpt)
	result.Paid = true
	result.TxResult = &tx
	return result, nil
}

// TokenURI reads the NFT metadata URI for a policy token.
func (s *PolicyService) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	uri, err := s.nft.TokenURI(ctx, tokenID)
	if err != nil {
		if err == contract.ErrNotSupported {
			return "", model.ErrNotFound.WithMessage("token metadata not supported by deployed contract")
		}
		return "", model.WrapWithMessage(model.ErrTransaction, err, "reading token URI")
	}
	return uri, nil
}

// Metadata reads the NFT-side policy summary for a policy token.
func (s *PolicyService) Metadata(ctx context.Context, tokenID *big.Int) (*contract.PolicyMetadata, error) {
	meta, err := s.nft.Metadata(ctx, tokenID)
	if err != nil {
		if err == contract.ErrNotSupported {
			return nil, model.ErrNotFound.WithMessage("policy metadata not supported by deployed contract")
		}
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "reading policy metadata")
	}
	return meta, nil
}

// validateCreateRequest checks request invariants and converts the wire
// parameters into model form.
func validateCreateRequest(req *model.CreatePolicyRequest) ([]model.ClimateParameter, error) {
	if !common.IsHexAddress(req.Farmer) {
		return nil, model.ErrValidation.WithMessagef("invalid farmer address: %s", req.Farmer)
	}
	if req.CoverageAmount == 0 {
		return nil, model.ErrValidation.WithMessage("coverage amount must be positive")
	}
	if req.StartDate <= time.Now().Unix() {
		return nil, model.ErrValidation.WithMessage("start date must be in the future")
	}
	if req.EndDate <= req.StartDate {
		return nil, model.ErrValidation.WithMessage("end date must be after start date")
	}
	if req.ZKProofHash == "" {
		return nil, model.ErrValidation.WithMessage("zk proof hash is required")
	}
	if len(req.Parameters) == 0 {
		return nil, model.ErrValidation.WithMessage("at least one climate parameter is required")
	}

	params := make([]model.ClimateParameter, len(req.Parameters))
	for i, p := range req.Parameters {
		if p.PayoutPercentage == 0 || p.PayoutPercentage > model.BasisPointDenominator {
			return nil, model.ErrValidation.WithMessagef(
				"payout percentage must be within 1..%d basis points", model.BasisPointDenominator)
		}
		if p.ThresholdValue < 0 {
			return nil, model.ErrValidation.WithMessage("threshold value must not be negative")
		}
		params[i] = model.ClimateParameter{
			ParameterType:    p.ParameterType,
			ThresholdValue:   big.NewInt(p.ThresholdValue),
			PeriodInDays:     big.NewInt(int64(p.PeriodInDays)),
			TriggerAbove:     p.TriggerAbove,
			PayoutPercentage: big.NewInt(int64(p.PayoutPercentage)),
		}
	}
	return params, nil
}
