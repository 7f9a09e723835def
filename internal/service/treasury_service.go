package service

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/agrochain/agrochain-bridge/internal/contract"
	"github.com/agrochain/agrochain-bridge/internal/model"
)

// TreasuryStats reports the capital pool, in wei and in ether for
// human-facing dashboards.
type TreasuryStats struct {
	TotalCapital      *big.Int `json:"totalCapital"`
	TotalCapitalEther string   `json:"totalCapitalEther"`
	TotalPayouts      *big.Int `json:"totalPayouts,omitempty"`
	TotalPayoutsEther string   `json:"totalPayoutsEther,omitempty"`
	Warning           string   `json:"warning,omitempty"`
}

// TreasuryService manages the capital pool backing payouts.
type TreasuryService struct {
	treasury *contract.Treasury
	sender   Sender
}

// NewTreasuryService wires the treasury service.
func NewTreasuryService(treasury *contract.Treasury, sender Sender) *TreasuryService {
	return &TreasuryService{treasury: treasury, sender: sender}
}

// AddCapital deposits amount wei into the treasury.
func (s *TreasuryService) AddCapital(ctx context.Context, amount uint64) (*TxResult, error) {
	if amount == 0 {
		return nil, model.ErrValidation.WithMessage("capital amount must be positive")
	}

	data, err := s.treasury.PackAddCapital()
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "encoding addCapital")
	}

	rcpt, err := submit(ctx, s.sender, "add_capital", s.treasury.Address(), data, new(big.Int).SetUint64(amount))
	if err != nil {
		return nil, err
	}

	result := txResult(rcpt)
	return &result, nil
}

// Stats reads the pool totals. A deployment without the payout counter
// still reports capital, with a warning for the missing figure.
func (s *TreasuryService) Stats(ctx context.Context) (*TreasuryStats, error) {
	capital, err := s.treasury.TotalCapital(ctx)
	if err != nil {
		if err == contract.ErrNotSupported {
			return &TreasuryStats{
				TotalCapital:      big.NewInt(0),
				TotalCapitalEther: "0",
				Warning:           "treasury totals not supported by deployed contract",
			}, nil
		}
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "reading treasury capital")
	}

	stats := &TreasuryStats{
		TotalCapital:      capital,
		TotalCapitalEther: weiToEther(capital),
	}

	payouts, err := s.treasury.TotalPayouts(ctx)
	switch {
	case err == contract.ErrNotSupported:
		stats.Warning = "payout totals not supported by deployed contract"
	case err != nil:
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "reading treasury payouts")
	default:
		stats.TotalPayouts = payouts
		stats.TotalPayoutsEther = weiToEther(payouts)
	}

	return stats, nil
}

// TreasuryHealth reports whether the pool can back its payouts.
type TreasuryHealth struct {
	Healthy bool `json:"healthy"`
	*TreasuryStats
}

// Health reads the pool totals and judges solvency: the pool is healthy
// while recorded payouts do not exceed recorded capital.
func (s *TreasuryService) Health(ctx context.Context) (*TreasuryHealth, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	healthy := stats.TotalCapital != nil && stats.TotalCapital.Sign() > 0
	if healthy && stats.TotalPayouts != nil {
		healthy = stats.TotalPayouts.Cmp(stats.TotalCapital) <= 0
	}

	return &TreasuryHealth{Healthy: healthy, TreasuryStats: stats}, nil
}

// weiToEther renders a wei amount as a decimal ether string.
func weiToEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -18).String()
}
