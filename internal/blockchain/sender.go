package blockchain

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"go.uber.org/zap"

	"github.com/agrochain/agrochain-bridge/internal/metrics"
	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/pkg/logger"
)

// SenderBackend is the slice of the ledger client the sender needs.
type SenderBackend interface {
	Address() common.Address
	ChainID() int64
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SignTransaction(tx *types.Transaction) (*types.Transaction, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// TxSender builds, signs, broadcasts and confirms admin transactions.
// The nonce-read through broadcast section runs under a mutex, so two
// concurrent submissions can never observe the same pending nonce.
type TxSender struct {
	backend        SenderBackend
	gasLimit       uint64
	confirmTimeout time.Duration
	pollInterval   time.Duration

	mu sync.Mutex
}

// SenderConfig configures the transaction sender.
type SenderConfig struct {
	GasLimit       uint64
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

// NewTxSender builds a sender on top of backend.
func NewTxSender(backend SenderBackend, cfg *SenderConfig) *TxSender {
	gasLimit := cfg.GasLimit
	if gasLimit == 0 {
		gasLimit = 2000000
	}
	confirmTimeout := cfg.ConfirmTimeout
	if confirmTimeout == 0 {
		confirmTimeout = 90 * time.Second
	}
	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &TxSender{
		backend:        backend,
		gasLimit:       gasLimit,
		confirmTimeout: confirmTimeout,
		pollInterval:   pollInterval,
	}
}

// Submit sends a state-changing call to a contract and waits for the
// receipt. value is the native amount attached to the call; nil means
// zero. The returned receipt has status 1; a reverted or unconfirmed
// transaction is an error. On confirmation timeout the transaction is
// NOT retracted — the error message carries the broadcast hash so the
// caller can follow up out of band.
func (s *TxSender) Submit(ctx context.Context, to common.Address, data []byte, value *big.Int) (*types.Receipt, error) {
	tx, err := s.broadcast(ctx, to, data, value)
	if err != nil {
		return nil, err
	}

	logger.Info("transaction broadcast",
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.String("to", to.Hex()),
		zap.Uint64("nonce", tx.Nonce()),
	)

	receipt, err := s.waitMined(ctx, tx.Hash())
	if err != nil {
		return nil, err
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, model.ErrTransaction.WithMessagef("transaction reverted: %s", tx.Hash().Hex())
	}

	logger.Info("transaction confirmed",
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.Uint64("block", receipt.BlockNumber.Uint64()),
		zap.Uint64("gas_used", receipt.GasUsed),
	)
	return receipt, nil
}

// broadcast serializes nonce assignment, signing and broadcast behind
// the sender mutex.
func (s *TxSender) broadcast(ctx context.Context, to common.Address, data []byte, value *big.Int) (*types.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce, err := s.backend.PendingNonceAt(ctx, s.backend.Address())
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "fetching pending nonce")
	}

	gasPrice, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "fetching gas price")
	}
	gwei, _ := new(big.Float).Quo(new(big.Float).SetInt(gasPrice), big.NewFloat(params.GWei)).Float64()
	metrics.UpdateGasPrice(gwei)

	if value == nil {
		value = big.NewInt(0)
	}

	tx := types.NewTransaction(nonce, to, value, s.gasLimit, gasPrice, data)

	signed, err := s.backend.SignTransaction(tx)
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "signing transaction")
	}

	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "broadcasting transaction")
	}

	return signed, nil
}

// waitMined polls for the receipt until the transaction is mined or the
// confirmation budget runs out. The budget is layered onto the caller's
// context, so an earlier request deadline still wins.
func (s *TxSender) waitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := s.backend.TransactionReceipt(waitCtx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ErrTxNotFound) && waitCtx.Err() == nil {
			return nil, model.WrapWithMessage(model.ErrTransaction, err, "querying receipt for tx %s", txHash.Hex())
		}

		select {
		case <-waitCtx.Done():
			return nil, model.WrapWithMessage(model.ErrTransaction, waitCtx.Err(),
				"confirmation timed out for tx %s (transaction not retracted)", txHash.Hex())
		case <-ticker.C:
		}
	}
}
