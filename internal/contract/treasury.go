package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Treasury is the typed binding for the capital pool contract.
type Treasury struct {
	*BoundContract
}

// NewTreasury binds the treasury contract.
func NewTreasury(address common.Address, abiJSON string, backend CallBackend) (*Treasury, error) {
	bound, err := Bind("treasury", address, abiJSON, backend)
	if err != nil {
		return nil, err
	}
	return &Treasury{BoundContract: bound}, nil
}

// PackAddCapital encodes an addCapital call. The deposit rides along as
// transaction value.
func (c *Treasury) PackAddCapital() ([]byte, error) {
	return c.Pack("addCapital")
}

// TotalCapital reads the pooled capital, or ErrNotSupported.
func (c *Treasury) TotalCapital(ctx context.Context) (*big.Int, error) {
	if !c.Has("totalCapital") {
		return nil, ErrNotSupported
	}
	var amount *big.Int
	if err := c.Call(ctx, &amount, "totalCapital"); err != nil {
		return nil, err
	}
	return amount, nil
}

// TotalPayouts reads the lifetime payout sum, or ErrNotSupported.
func (c *Treasury) TotalPayouts(ctx context.Context) (*big.Int, error) {
	if !c.Has("totalPayouts") {
		return nil, ErrNotSupported
	}
	var amount *big.Int
	if err := c.Call(ctx, &amount, "totalPayouts"); err != nil {
		return nil, err
	}
	return amount, nil
}
