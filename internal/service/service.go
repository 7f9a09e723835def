// Package service implements the bridge's business operations on top
// of the contract bindings, the transaction sender and the weather
// adapter. Handlers call services; services never touch HTTP.
package service

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/agrochain/agrochain-bridge/internal/metrics"
	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/internal/receipt"
	"github.com/agrochain/agrochain-bridge/internal/weather"
)

// Sender submits state-changing calls to the ledger.
type Sender interface {
	Submit(ctx context.Context, to common.Address, data []byte, value *big.Int) (*types.Receipt, error)
}

// WeatherSource provides normalized climate readings.
type WeatherSource interface {
	Reading(ctx context.Context, region, parameterType string) (model.ClimateReading, error)
	FetchCurrent(ctx context.Context, region string) (*weather.CurrentConditions, error)
}

// IDExtractor recovers created-record IDs from receipts.
type IDExtractor interface {
	ExtractCreatedID(ctx context.Context, rcpt *types.Receipt, emitters []common.Address, owner common.Address) receipt.CreatedID
}

// TxResult summarizes a confirmed transaction for API responses.
type TxResult struct {
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
	GasUsed     uint64 `json:"gasUsed"`
}

// submit forwards to the sender and records transaction metrics under
// the given operation label.
func submit(ctx context.Context, sender Sender, operation string, to common.Address, data []byte, value *big.Int) (*types.Receipt, error) {
	start := time.Now()
	rcpt, err := sender.Submit(ctx, to, data, value)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		status := "failed"
		if errors.Is(err, context.DeadlineExceeded) {
			status = "timeout"
		}
		metrics.RecordBlockchainTx(operation, status, elapsed, 0)
		return nil, err
	}
	metrics.RecordBlockchainTx(operation, "confirmed", elapsed, rcpt.GasUsed)
	return rcpt, nil
}

func txResult(rcpt *types.Receipt) TxResult {
	result := TxResult{
		TxHash:  rcpt.TxHash.Hex(),
		GasUsed: rcpt.GasUsed,
	}
	if rcpt.BlockNumber != nil {
		result.BlockNumber = rcpt.BlockNumber.Uint64()
	}
	return result
}
