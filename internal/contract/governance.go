package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Proposal mirrors the on-ledger governance proposal record.
type Proposal struct {
	Id           *big.Int       `json:"id"`
	Proposer     common.Address `json:"proposer"`
	Description  string         `json:"description"`
	VotesFor     *big.Int       `json:"votesFor"`
	VotesAgainst *big.Int       `json:"votesAgainst"`
	Executed     bool           `json:"executed"`
}

// Governance is the typed binding for the governance contract.
type Governance struct {
	*BoundContract
}

// NewGovernance binds the governance contract.
func NewGovernance(address common.Address, abiJSON string, backend CallBackend) (*Governance, error) {
	bound, err := Bind("governance", address, abiJSON, backend)
	if err != nil {
		return nil, err
	}
	return &Governance{BoundContract: bound}, nil
}

// PackCreateProposal encodes a createProposal call.
func (c *Governance) PackCreateProposal(description string, target common.Address, callData []byte) ([]byte, error) {
	return c.Pack("createProposal", description, target, callData)
}

// PackVote encodes a vote call.
func (c *Governance) PackVote(proposalID *big.Int, support bool) ([]byte, error) {
	return c.Pack("vote", proposalID, support)
}

// PackExecuteProposal encodes an executeProposal call.
func (c *Governance) PackExecuteProposal(proposalID *big.Int) ([]byte, error) {
	return c.Pack("executeProposal", proposalID)
}

// GetProposal reads a proposal record.
func (c *Governance) GetProposal(ctx context.Context, proposalID *big.Int) (*Proposal, error) {
	var proposal Proposal
	if err := c.Call(ctx, &proposal, "getProposal", proposalID); err != nil {
		return nil, err
	}
	return &proposal, nil
}
