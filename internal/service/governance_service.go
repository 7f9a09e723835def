package service

import (
	"context"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/agrochain/agrochain-bridge/internal/contract"
	"github.com/agrochain/agrochain-bridge/internal/model"
)

// CreateProposalResult reports a created proposal.
type CreateProposalResult struct {
	ProposalID    *big.Int `json:"proposalId"`
	IDSource      string   `json:"idSource"`
	LowConfidence bool     `json:"lowConfidence"`
	TxResult
}

// GovernanceService drives proposal creation, voting and execution.
type GovernanceService struct {
	governance *contract.Governance
	sender     Sender
	extractor  IDExtractor
}

// NewGovernanceService wires the governance service.
func NewGovernanceService(governance *contract.Governance, sender Sender, extractor IDExtractor) *GovernanceService {
	return &GovernanceService{governance: governance, sender: sender, extractor: extractor}
}

// CreateProposal opens a new proposal targeting a protocol contract.
func (s *GovernanceService) CreateProposal(ctx context.Context, req *model.CreateProposalRequest) (*CreateProposalResult, error) {
	if !common.IsHexAddress(req.TargetContract) {
		return nil, model.ErrValidation.WithMessagef("invalid target contract address: %s", req.TargetContract)
	}

	callData, err := decodeHexPayload(req.CallData)
	if err != nil {
		return nil, model.ErrValidation.WithMessage("call data must be hex encoded")
	}

	data, err := s.governance.PackCreateProposal(req.Description, common.HexToAddress(req.TargetContract), callData)
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "encoding createProposal")
	}

	rcpt, err := submit(ctx, s.sender, "create_proposal", s.governance.Address(), data, nil)
	if err != nil {
		return nil, err
	}

	created := s.extractor.ExtractCreatedID(ctx, rcpt,
		[]common.Address{s.governance.Address()}, common.Address{})

	return &CreateProposalResult{
		ProposalID:    created.ID,
		IDSource:      created.Source,
		LowConfidence: created.LowConfidence,
		TxResult:      txResult(rcpt),
	}, nil
}

// Vote casts the admin vote on a proposal.
func (s *GovernanceService) Vote(ctx context.Context, proposalID *big.Int, support bool) (*TxResult, error) {
	if proposalID == nil || proposalID.Sign() <= 0 {
		return nil, model.ErrValidation.WithMessage("proposal id must be positive")
	}

	data, err := s.governance.PackVote(proposalID, support)
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "encoding vote")
	}

	rcpt, err := submit(ctx, s.sender, "vote", s.governance.Address(), data, nil)
	if err != nil {
		return nil, err
	}

	result := txResult(rcpt)
	return &result, nil
}

// Execute runs an accepted proposal.
func (s *GovernanceService) Execute(ctx context.Context, proposalID *big.Int) (*TxResult, error) {
	if proposalID == nil || proposalID.Sign() <= 0 {
		return nil, model.ErrValidation.WithMessage("proposal id must be positive")
	}

	data, err := s.governance.PackExecuteProposal(proposalID)
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "encoding executeProposal")
	}

	rcpt, err := submit(ctx, s.sender, "execute_proposal", s.governance.Address(), data, nil)
	if err != nil {
		return nil, err
	}

	result := txResult(rcpt)
	return &result, nil
}

// Get reads a proposal record.
func (s *GovernanceService) Get(ctx context.Context, proposalID *big.Int) (*contract.Proposal, error) {
	proposal, err := s.governance.GetProposal(ctx, proposalID)
	if err != nil {
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "reading proposal %s", proposalID)
	}
	if proposal.Id == nil || proposal.Id.Sign() == 0 {
		return nil, model.ErrNotFound.WithMessagef("proposal %s not found", proposalID)
	}
	return proposal, nil
}

func decodeHexPayload(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
