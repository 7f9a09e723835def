package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Token is the typed binding for the governance token.
type Token struct {
	*BoundContract
}

// NewToken binds the token contract.
func NewToken(address common.Address, abiJSON string, backend CallBackend) (*Token, error) {
	bound, err := Bind("token", address, abiJSON, backend)
	if err != nil {
		return nil, err
	}
	return &Token{BoundContract: bound}, nil
}

// PackTransfer encodes a transfer call.
func (c *Token) PackTransfer(to common.Address, amount *big.Int) ([]byte, error) {
	return c.Pack("transfer", to, amount)
}

// BalanceOf reads the token balance of account.
func (c *Token) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	var balance *big.Int
	if err := c.Call(ctx, &balance, "balanceOf", account); err != nil {
		return nil, err
	}
	return balance, nil
}

// TotalSupply reads the token supply, or ErrNotSupported.
func (c *Token) TotalSupply(ctx context.Context) (*big.Int, error) {
	if !c.Has("totalSupply") {
		return nil, ErrNotSupported
	}
	var supply *big.Int
	if err := c.Call(ctx, &supply, "totalSupply"); err != nil {
		return nil, err
	}
	return supply, nil
}
