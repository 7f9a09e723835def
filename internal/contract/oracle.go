package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Oracle is the typed binding for the climate oracle registry.
type Oracle struct {
	*BoundContract
}

// NewOracle binds the oracle contract.
func NewOracle(address common.Address, abiJSON string, backend CallBackend) (*Oracle, error) {
	bound, err := Bind("oracle", address, abiJSON, backend)
	if err != nil {
		return nil, err
	}
	return &Oracle{BoundContract: bound}, nil
}

// PackSetRegionOracle encodes a setRegionOracle call.
func (c *Oracle) PackSetRegionOracle(region string, oracle common.Address) ([]byte, error) {
	return c.Pack("setRegionOracle", region, oracle)
}

// PackSubmitObservation encodes a submitObservation call.
func (c *Oracle) PackSubmitObservation(region, parameterType string, value *big.Int) ([]byte, error) {
	return c.Pack("submitObservation", region, parameterType, value)
}

// RegionOracle reads the oracle assigned to region, or ErrNotSupported.
func (c *Oracle) RegionOracle(ctx context.Context, region string) (common.Address, error) {
	if !c.Has("getRegionOracle") {
		return common.Address{}, ErrNotSupported
	}
	var oracle common.Address
	if err := c.Call(ctx, &oracle, "getRegionOracle", region); err != nil {
		return common.Address{}, err
	}
	return oracle, nil
}
