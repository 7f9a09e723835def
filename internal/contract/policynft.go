package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PolicyMetadata mirrors the NFT-side policy summary.
type PolicyMetadata struct {
	Region         string   `json:"region"`
	CropType       string   `json:"cropType"`
	CoverageAmount *big.Int `json:"coverageAmount"`
}

// PolicyNFT is the typed binding for the policy ownership token.
type PolicyNFT struct {
	*BoundContract
}

// NewPolicyNFT binds the policy NFT contract.
func NewPolicyNFT(address common.Address, abiJSON string, backend CallBackend) (*PolicyNFT, error) {
	bound, err := Bind("policy_nft", address, abiJSON, backend)
	if err != nil {
		return nil, err
	}
	return &PolicyNFT{BoundContract: bound}, nil
}

// OwnerOf reads the owner of tokenID.
func (c *PolicyNFT) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	var owner common.Address
	if err := c.Call(ctx, &owner, "ownerOf", tokenID); err != nil {
		return common.Address{}, err
	}
	return owner, nil
}

// TokenURI reads the metadata URI of tokenID, or ErrNotSupported.
func (c *PolicyNFT) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	if !c.Has("tokenURI") {
		return "", ErrNotSupported
	}
	var uri string
	if err := c.Call(ctx, &uri, "tokenURI", tokenID); err != nil {
		return "", err
	}
	return uri, nil
}

// Metadata reads the on-ledger policy summary, or ErrNotSupported.
func (c *PolicyNFT) Metadata(ctx context.Context, tokenID *big.Int) (*PolicyMetadata, error) {
	if !c.Has("getPolicyMetadata") {
		return nil, ErrNotSupported
	}
	var meta PolicyMetadata
	if err := c.Call(ctx, &meta, "getPolicyMetadata", tokenID); err != nil {
		return nil, err
	}
	return &meta, nil
}
