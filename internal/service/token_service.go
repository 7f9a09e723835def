package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/agrochain/agrochain-bridge/internal/contract"
	"github.com/agrochain/agrochain-bridge/internal/model"
)

// TokenBalance reports a holder's governance token balance.
type TokenBalance struct {
	Account string   `json:"account"`
	Balance *big.Int `json:"balance"`
}

// TokenService exposes the governance token operations the bridge
// performs on behalf of the admin account.
type TokenService struct {
	token  *contract.Token
	sender Sender
}

// NewTokenService wires the token service.
func NewTokenService(token *contract.Token, sender Sender) *TokenService {
	return &TokenService{token: token, sender: sender}
}

// Transfer sends amount governance tokens from the admin account to a
// recipient.
func (s *TokenService) Transfer(ctx context.Context, to string, amount uint64) (*TxResult, error) {
	if !common.IsHexAddress(to) {
		return nil, model.ErrValidation.WithMessagef("invalid recipient address: %s", to)
	}
	if amount == 0 {
		return nil, model.ErrValidation.WithMessage("transfer amount must be positive")
	}

	data, err := s.token.PackTransfer(common.HexToAddress(to), new(big.Int).SetUint64(amount))
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "encoding transfer")
	}

	rcpt, err := submit(ctx, s.sender, "token_transfer", s.token.Address(), data, nil)
	if err != nil {
		return nil, err
	}

	result := txResult(rcpt)
	return &result, nil
}

// Balance reads the token balance of account.
func (s *TokenService) Balance(ctx context.Context, account string) (*TokenBalance, error) {
	if !common.IsHexAddress(account) {
		return nil, model.ErrValidation.WithMessagef("invalid account address: %s", account)
	}

	addr := common.HexToAddress(account)
	balance, err := s.token.BalanceOf(ctx, addr)
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "reading token balance")
	}

	return &TokenBalance{Account: addr.Hex(), Balance: balance}, nil
}
