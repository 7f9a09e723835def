package service

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/agrochain/agrochain-bridge/internal/contract"
	"github.com/agrochain/agrochain-bridge/internal/model"
)

// AdminService performs the registry operations behind /admin routes:
// supported regions and crops on the insurance contract, oracle
// assignment on the oracle registry.
type AdminService struct {
	insurance *contract.Insurance
	oracle    *contract.Oracle
	sender    Sender
}

// NewAdminService wires the admin service.
func NewAdminService(insurance *contract.Insurance, oracle *contract.Oracle, sender Sender) *AdminService {
	return &AdminService{insurance: insurance, oracle: oracle, sender: sender}
}

// RegistryList is a registry listing plus an optional degradation
// warning when the deployed contract exposes no such query.
type RegistryList struct {
	Items   []string `json:"items"`
	Warning string   `json:"warning,omitempty"`
}

// Regions lists the registered regions.
func (s *AdminService) Regions(ctx context.Context) (*RegistryList, error) {
	return s.registryList(ctx, s.insurance.SupportedRegions, "region listing not supported by deployed contract")
}

// Crops lists the registered crop types.
func (s *AdminService) Crops(ctx context.Context) (*RegistryList, error) {
	return s.registryList(ctx, s.insurance.SupportedCrops, "crop listing not supported by deployed contract")
}

func (s *AdminService) registryList(ctx context.Context,
	query func(context.Context) ([]string, error), warning string) (*RegistryList, error) {

	items, err := query(ctx)
	if err != nil {
		if err == contract.ErrNotSupported {
			return &RegistryList{Items: []string{}, Warning: warning}, nil
		}
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "reading registry")
	}
	if items == nil {
		items = []string{}
	}
	return &RegistryList{Items: items}, nil
}

// AddRegion registers a supported region on the insurance contract.
func (s *AdminService) AddRegion(ctx context.Context, region string) (*TxResult, error) {
	if region == "" {
		return nil, model.ErrValidation.WithMessage("region is required")
	}

	data, err := s.insurance.PackAddRegion(region)
	if err != nil {
		if err == contract.ErrNotSupported {
			return nil, model.ErrConfiguration.WithMessage("deployed contract has no region registry")
		}
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "encoding addSupportedRegion")
	}

	rcpt, err := submit(ctx, s.sender, "add_region", s.insurance.Address(), data, nil)
	if err != nil {
		return nil, err
	}

	result := txResult(rcpt)
	return &result, nil
}

// AddCrop registers a supported crop type on the insurance contract.
func (s *AdminService) AddCrop(ctx context.Context, crop string) (*TxResult, error) {
	if crop == "" {
		return nil, model.ErrValidation.WithMessage("crop is required")
	}

	data, err := s.insurance.PackAddCrop(crop)
	if err != nil {
		if err == contract.ErrNotSupported {
			return nil, model.ErrConfiguration.WithMessage("deployed contract has no crop registry")
		}
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "encoding addSupportedCrop")
	}

	rcpt, err := submit(ctx, s.sender, "add_crop", s.insurance.Address(), data, nil)
	if err != nil {
		return nil, err
	}

	result := txResult(rcpt)
	return &result, nil
}

// SetOracle assigns the authorized oracle for a region.
func (s *AdminService) SetOracle(ctx context.Context, req *model.SetOracleRequest) (*TxResult, error) {
	if !common.IsHexAddress(req.OracleAddress) {
		return nil, model.ErrValidation.WithMessagef("invalid oracle address: %s", req.OracleAddress)
	}

	data, err := s.oracle.PackSetRegionOracle(req.Region, common.HexToAddress(req.OracleAddress))
	if err != nil {
		if err == contract.ErrNotSupported {
			return nil, model.ErrConfiguration.WithMessage("deployed oracle has no region assignment")
		}
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "encoding setRegionOracle")
	}

	rcpt, err := submit(ctx, s.sender, "set_region_oracle", s.oracle.Address(), data, nil)
	if err != nil {
		return nil, err
	}

	result := txResult(rcpt)
	return &result, nil
}
