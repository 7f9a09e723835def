package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/agrochain/agrochain-bridge/internal/contract"
	"github.com/agrochain/agrochain-bridge/internal/weather"
)

// ChainStatusSource is the slice of the ledger client the status
// service reads.
type ChainStatusSource interface {
	ChainID() int64
	Address() common.Address
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	HealthCheck(ctx context.Context) error
}

// ContractStatus describes one bound contract for the status endpoint.
type ContractStatus struct {
	Address    string   `json:"address"`
	Operations []string `json:"operations"`
	Variant    string   `json:"queryVariant,omitempty"`
}

// SystemStatus is the full status report.
type SystemStatus struct {
	Service         string                    `json:"service"`
	Env             string                    `json:"env"`
	ChainID         int64                     `json:"chainId"`
	BlockNumber     uint64                    `json:"blockNumber"`
	LedgerReachable bool                      `json:"ledgerReachable"`
	AdminAddress    string                    `json:"adminAddress"`
	AdminBalance    *big.Int                  `json:"adminBalance,omitempty"`
	AdminBalanceEth string                    `json:"adminBalanceEther,omitempty"`
	Contracts       map[string]ContractStatus `json:"contracts"`
	WeatherParams   []string                  `json:"weatherParameters"`
}

// DashboardStats aggregates the figures the frontend dashboard shows.
type DashboardStats struct {
	TotalPolicies  *big.Int       `json:"totalPolicies,omitempty"`
	ActivePolicies int            `json:"activePolicies"`
	Treasury       *TreasuryStats `json:"treasury"`
	TokenSupply    *big.Int       `json:"tokenSupply,omitempty"`
	Warning        string         `json:"warning,omitempty"`
}

// StatusService answers the status and dashboard queries.
type StatusService struct {
	serviceName string
	env         string
	chain       ChainStatusSource
	insurance   *contract.Insurance
	oracle      *contract.Oracle
	treasury    *TreasuryService
	governance  *contract.Governance
	token       *contract.Token
	nft         *contract.PolicyNFT
}

// NewStatusService wires the status service.
func NewStatusService(serviceName, env string, chain ChainStatusSource,
	insurance *contract.Insurance, oracle *contract.Oracle, treasury *TreasuryService,
	governance *contract.Governance, token *contract.Token, nft *contract.PolicyNFT) *StatusService {
	return &StatusService{
		serviceName: serviceName,
		env:         env,
		chain:       chain,
		insurance:   insurance,
		oracle:      oracle,
		treasury:    treasury,
		governance:  governance,
		token:       token,
		nft:         nft,
	}
}

// Status reports ledger connectivity and every contract's capability
// set. Never errors; an unreachable ledger shows up in the report.
func (s *StatusService) Status(ctx context.Context) *SystemStatus {
	status := &SystemStatus{
		Service:       s.serviceName,
		Env:           s.env,
		ChainID:       s.chain.ChainID(),
		AdminAddress:  s.chain.Address().Hex(),
		WeatherParams: weather.SupportedParameters(),
		Contracts:     make(map[string]ContractStatus, 6),
	}

	if block, err := s.chain.BlockNumber(ctx); err == nil {
		status.LedgerReachable = true
		status.BlockNumber = block
	}
	if balance, err := s.chain.BalanceAt(ctx, s.chain.Address(), nil); err == nil && balance != nil {
		status.AdminBalance = balance
		status.AdminBalanceEth = weiToEther(balance)
	}

	insurance := contractStatus(s.insurance.BoundContract)
	insurance.Variant = s.insurance.Variant().String()
	status.Contracts[s.insurance.Name()] = insurance

	for _, c := range []*contract.BoundContract{
		s.oracle.BoundContract,
		s.governance.BoundContract,
		s.token.BoundContract,
		s.nft.BoundContract,
	} {
		status.Contracts[c.Name()] = contractStatus(c)
	}
	status.Contracts[s.treasury.treasury.Name()] = contractStatus(s.treasury.treasury.BoundContract)

	return status
}

// Dashboard aggregates policy, treasury and token figures. Missing
// capabilities degrade individual figures instead of failing the whole
// report.
func (s *StatusService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	if count, err := s.insurance.PolicyCount(ctx); err == nil {
		stats.TotalPolicies = count
	}

	if ids, err := s.insurance.ActivePolicies(ctx); err == nil {
		stats.ActivePolicies = len(ids)
	} else if err == contract.ErrNotSupported {
		stats.Warning = WarningListingUnsupported
	}

	treasury, err := s.treasury.Stats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Treasury = treasury

	if supply, err := s.token.TotalSupply(ctx); err == nil {
		stats.TokenSupply = supply
	}

	return stats, nil
}

func contractStatus(c *contract.BoundContract) ContractStatus {
	return ContractStatus{
		Address:    c.Address().Hex(),
		Operations: c.Operations(),
	}
}
