package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/pkg/logger"
)

// QueryVariant tags how policy lists can be read from the deployed
// insurance contract. It is resolved once at binding time; callers
// branch on the tag instead of probing per call.
type QueryVariant int

const (
	// QueryVariantActiveList exposes a global active-policy list.
	QueryVariantActiveList QueryVariant = iota
	// QueryVariantPerOwner only exposes per-owner policy lists.
	QueryVariantPerOwner
	// QueryVariantNone exposes no list queries at all.
	QueryVariantNone
)

func (v QueryVariant) String() string {
	switch v {
	case QueryVariantActiveList:
		return "active_list"
	case QueryVariantPerOwner:
		return "per_owner"
	default:
		return "none"
	}
}

// rawParameter mirrors the ClimateParameter tuple layout.
type rawParameter struct {
	ParameterType    string
	ThresholdValue   *big.Int
	PeriodInDays     *big.Int
	TriggerAbove     bool
	PayoutPercentage *big.Int
}

// rawPolicy mirrors the getPolicy output list.
type rawPolicy struct {
	Id             *big.Int
	Farmer         common.Address
	CoverageAmount *big.Int
	Premium        *big.Int
	StartDate      *big.Int
	EndDate        *big.Int
	Active         bool
	Claimed        bool
	ClaimPaid      bool
	ClaimAmount    *big.Int
	ZkProofHash    string
	Region         string
	CropType       string
}

// Insurance is the typed binding for the crop-insurance contract.
type Insurance struct {
	*BoundContract
	variant QueryVariant
}

// NewInsurance binds the insurance contract and resolves its list-query
// variant from the deployed ABI.
func NewInsurance(address common.Address, abiJSON string, backend CallBackend) (*Insurance, error) {
	bound, err := Bind("insurance", address, abiJSON, backend)
	if err != nil {
		return nil, err
	}

	variant := QueryVariantNone
	switch {
	case bound.Has("getActivePolicies"):
		variant = QueryVariantActiveList
	case bound.Has("getUserPolicies"):
		variant = QueryVariantPerOwner
	}

	logger.Info("insurance contract bound",
		zap.String("address", address.Hex()),
		zap.String("query_variant", variant.String()),
		zap.Int("operations", len(bound.Operations())),
	)

	return &Insurance{BoundContract: bound, variant: variant}, nil
}

// Variant returns the resolved list-query variant.
func (c *Insurance) Variant() QueryVariant {
	return c.variant
}

// PackCreatePolicy encodes a createPolicy call.
func (c *Insurance) PackCreatePolicy(farmer common.Address, coverage, startDate, endDate *big.Int,
	region, cropType string, params []model.ClimateParameter, zkProofHash string) ([]byte, error) {

	raw := make([]rawParameter, len(params))
	for i, p := range params {
		raw[i] = rawParameter{
			ParameterType:    p.ParameterType,
			ThresholdValue:   p.ThresholdValue,
			PeriodInDays:     p.PeriodInDays,
			TriggerAbove:     p.TriggerAbove,
			PayoutPercentage: p.PayoutPercentage,
		}
	}

	return c.Pack("createPolicy", farmer, coverage, startDate, endDate, region, cropType, raw, zkProofHash)
}

// PackActivatePolicy encodes an activatePolicy call. The premium rides
// along as transaction value.
func (c *Insurance) PackActivatePolicy(policyID *big.Int) ([]byte, error) {
	return c.Pack("activatePolicy", policyID)
}

// PackCancelPolicy encodes a cancelPolicy call.
func (c *Insurance) PackCancelPolicy(policyID *big.Int) ([]byte, error) {
	return c.Pack("cancelPolicy", policyID)
}

// PackProcessClaim encodes a processClaim call.
func (c *Insurance) PackProcessClaim(policyID, claimAmount *big.Int) ([]byte, error) {
	return c.Pack("processClaim", policyID, claimAmount)
}

// PackAddRegion encodes an addSupportedRegion call.
func (c *Insurance) PackAddRegion(region string) ([]byte, error) {
	return c.Pack("addSupportedRegion", region)
}

// PackAddCrop encodes an addSupportedCrop call.
func (c *Insurance) PackAddCrop(cropType string) ([]byte, error) {
	return c.Pack("addSupportedCrop", cropType)
}

// GetPolicy reads a policy record, including its trigger parameters
// when the deployed contract exposes them.
func (c *Insurance) GetPolicy(ctx context.Context, policyID *big.Int) (*model.Policy, error) {
	var raw rawPolicy
	if err := c.Call(ctx, &raw, "getPolicy", policyID); err != nil {
		return nil, err
	}

	policy := &model.Policy{
		ID:             raw.Id,
		Farmer:         raw.Farmer,
		CoverageAmount: raw.CoverageAmount,
		Premium:        raw.Premium,
		StartDate:      raw.StartDate,
		EndDate:        raw.EndDate,
		Active:         raw.Active,
		Claimed:        raw.Claimed,
		ClaimPaid:      raw.ClaimPaid,
		ClaimAmount:    raw.ClaimAmount,
		ZKProofHash:    raw.ZkProofHash,
		Region:         raw.Region,
		CropType:       raw.CropType,
	}

	if c.Has("getPolicyParameters") {
		var rawParams []rawParameter
		if err := c.Call(ctx, &rawParams, "getPolicyParameters", policyID); err != nil {
			return nil, err
		}
		policy.Parameters = make([]model.ClimateParameter, len(rawParams))
		for i, p := range rawParams {
			policy.Parameters[i] = model.ClimateParameter{
				ParameterType:    p.ParameterType,
				ThresholdValue:   p.ThresholdValue,
				PeriodInDays:     p.PeriodInDays,
				TriggerAbove:     p.TriggerAbove,
				PayoutPercentage: p.PayoutPercentage,
			}
		}
	}

	return policy, nil
}

// ActivePolicies returns the global active-policy ID list, or
// ErrNotSupported under any other query variant.
func (c *Insurance) ActivePolicies(ctx context.Context) ([]*big.Int, error) {
	if c.variant != QueryVariantActiveList {
		return nil, ErrNotSupported
	}
	var ids []*big.Int
	if err := c.Call(ctx, &ids, "getActivePolicies"); err != nil {
		return nil, err
	}
	return ids, nil
}

// UserPolicies returns the policy IDs owned by user, or ErrNotSupported
// when the deployed contract has no per-owner query.
func (c *Insurance) UserPolicies(ctx context.Context, user common.Address) ([]*big.Int, error) {
	if !c.Has("getUserPolicies") {
		return nil, ErrNotSupported
	}
	var ids []*big.Int
	if err := c.Call(ctx, &ids, "getUserPolicies", user); err != nil {
		return nil, err
	}
	return ids, nil
}

// SupportedRegions lists the registered regions, or ErrNotSupported.
func (c *Insurance) SupportedRegions(ctx context.Context) ([]string, error) {
	if !c.Has("getSupportedRegions") {
		return nil, ErrNotSupported
	}
	var regions []string
	if err := c.Call(ctx, &regions, "getSupportedRegions"); err != nil {
		return nil, err
	}
	return regions, nil
}

// SupportedCrops lists the registered crop types, or ErrNotSupported.
func (c *Insurance) SupportedCrops(ctx context.Context) ([]string, error) {
	if !c.Has("getSupportedCrops") {
		return nil, ErrNotSupported
	}
	var crops []string
	if err := c.Call(ctx, &crops, "getSupportedCrops"); err != nil {
		return nil, err
	}
	return crops, nil
}

// PolicyCount returns the total number of policies ever created, or
// ErrNotSupported when the counter is not exposed.
func (c *Insurance) PolicyCount(ctx context.Context) (*big.Int, error) {
	if !c.Has("policyCounter") {
		return nil, ErrNotSupported
	}
	var count *big.Int
	if err := c.Call(ctx, &count, "policyCounter"); err != nil {
		return nil, err
	}
	return count, nil
}
