package contract

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/agrochain/agrochain-bridge/pkg/logger"
)

// The constants below carry the reference ABI for each contract in the
// suite. When a Foundry artifact directory is configured the deployed
// ABI is loaded from disk instead, so a deployment that trimmed or
// renamed operations is reflected in the capability set.

// InsuranceABI covers the parametric crop-insurance contract.
const InsuranceABI = `[
	{
		"type": "function",
		"name": "createPolicy",
		"inputs": [
			{"name": "farmer", "type": "address"},
			{"name": "coverageAmount", "type": "uint256"},
			{"name": "startDate", "type": "uint256"},
			{"name": "endDate", "type": "uint256"},
			{"name": "region", "type": "string"},
			{"name": "cropType", "type": "string"},
			{
				"name": "parameters",
				"type": "tuple[]",
				"components": [
					{"name": "parameterType", "type": "string"},
					{"name": "thresholdValue", "type": "uint256"},
					{"name": "periodInDays", "type": "uint256"},
					{"name": "triggerAbove", "type": "bool"},
					{"name": "payoutPercentage", "type": "uint256"}
				]
			},
			{"name": "zkProofHash", "type": "string"}
		],
		"outputs": [{"name": "policyId", "type": "uint256"}],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "activatePolicy",
		"inputs": [{"name": "policyId", "type": "uint256"}],
		"outputs": [],
		"stateMutability": "payable"
	},
	{
		"type": "function",
		"name": "processClaim",
		"inputs": [
			{"name": "policyId", "type": "uint256"},
			{"name": "claimAmount", "type": "uint256"}
		],
		"outputs": [],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "cancelPolicy",
		"inputs": [{"name": "policyId", "type": "uint256"}],
		"outputs": [],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "getPolicy",
		"inputs": [{"name": "policyId", "type": "uint256"}],
		"outputs": [
			{"name": "id", "type": "uint256"},
			{"name": "farmer", "type": "address"},
			{"name": "coverageAmount", "type": "uint256"},
			{"name": "premium", "type": "uint256"},
			{"name": "startDate", "type": "uint256"},
			{"name": "endDate", "type": "uint256"},
			{"name": "active", "type": "bool"},
			{"name": "claimed", "type": "bool"},
			{"name": "claimPaid", "type": "bool"},
			{"name": "claimAmount", "type": "uint256"},
			{"name": "zkProofHash", "type": "string"},
			{"name": "region", "type": "string"},
			{"name": "cropType", "type": "string"}
		],
		"stateMutability": "view"
	},
	{
		"type": "function",
		"name": "getPolicyParameters",
		"inputs": [{"name": "policyId", "type": "uint256"}],
		"outputs": [
			{
				"name": "parameters",
				"type": "tuple[]",
				"components": [
					{"name": "parameterType", "type": "string"},
					{"name": "thresholdValue", "type": "uint256"},
					{"name": "periodInDays", "type": "uint256"},
					{"name": "triggerAbove", "type": "bool"},
					{"name": "payoutPercentage", "type": "uint256"}
				]
			}
		],
		"stateMutability": "view"
	},
	{
		"type": "function",
		"name": "getActivePolicies",
		"inputs": [],
		"outputs": [{"name": "policyIds", "type": "uint256[]"}],
		"stateMutability": "view"
	},
	{
		"type": "function",
		"name": "getUserPolicies",
		"inputs": [{"name": "user", "type": "address"}],
		"outputs": [{"name": "policyIds", "type": "uint256[]"}],
		"stateMutability": "view"
	},
	{
		"type": "function",
		"name": "policyCounter",
		"inputs": [],
		"outputs": [{"name": "count", "type": "uint256"}],
		"stateMutability": "view"
	},
	{
		"type": "function",
		"name": "addSupportedRegion",
		"inputs": [{"name": "region", "type": "string"}],
		"outputs": [],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "addSupportedCrop",
		"inputs": [{"name": "cropType", "type": "string"}],
		"outputs": [],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "getSupportedRegions",
		"inputs": [],
		"outputs": [{"name": "regions", "type": "string[]"}],
		"stateMutability": "view"
	},
	{
		"type": "function",
		"name": "getSupportedCrops",
		"inputs": [],
		"outputs": [{"name": "crops", "type": "string[]"}],
		"stateMutability": "view"
	},
	{
		"type": "event",
		"name": "PolicyCreated",
		"inputs": [
			{"name": "policyId", "type": "uint256", "indexed": true},
			{"name": "farmer", "type": "address", "indexed": true},
			{"name": "coverageAmount", "type": "uint256", "indexed": false}
		]
	},
	{
		"type": "event",
		"name": "PolicyActivated",
		"inputs": [
			{"name": "policyId", "type": "uint256", "indexed": true},
			{"name": "premium", "type": "uint256", "indexed": false}
		]
	},
	{
		"type": "event",
		"name": "PolicyCancelled",
		"inputs": [
			{"name": "policyId", "type": "uint256", "indexed": true},
			{"name": "refundAmount", "type": "uint256", "indexed": false}
		]
	},
	{
		"type": "event",
		"name": "ClaimProcessed",
		"inputs": [
			{"name": "policyId", "type": "uint256", "indexed": true},
			{"name": "farmer", "type": "address", "indexed": true},
			{"name": "amount", "type": "uint256", "indexed": false}
		]
	}
]`

// OracleABI covers the climate oracle registry.
const OracleABI = `[
	{
		"type": "function",
		"name": "setRegionOracle",
		"inputs": [
			{"name": "region", "type": "string"},
			{"name": "oracle", "type": "address"}
		],
		"outputs": [],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "submitObservation",
		"inputs": [
			{"name": "region", "type": "string"},
			{"name": "parameterType", "type": "string"},
			{"name": "value", "type": "uint256"}
		],
		"outputs": [],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "getRegionOracle",
		"inputs": [{"name": "region", "type": "string"}],
		"outputs": [{"name": "oracle", "type": "address"}],
		"stateMutability": "view"
	},
	{
		"type": "event",
		"name": "ObservationSubmitted",
		"inputs": [
			{"name": "region", "type": "string", "indexed": false},
			{"name": "parameterType", "type": "string", "indexed": false},
			{"name": "value", "type": "uint256", "indexed": false}
		]
	}
]`

// TreasuryABI covers the capital pool backing payouts.
const TreasuryABI = `[
	{
		"type": "function",
		"name": "addCapital",
		"inputs": [],
		"outputs": [],
		"stateMutability": "payable"
	},
	{
		"type": "function",
		"name": "totalCapital",
		"inputs": [],
		"outputs": [{"name": "amount", "type": "uint256"}],
		"stateMutability": "view"
	},
	{
		"type": "function",
		"name": "totalPayouts",
		"inputs": [],
		"outputs": [{"name": "amount", "type": "uint256"}],
		"stateMutability": "view"
	},
	{
		"type": "event",
		"name": "CapitalAdded",
		"inputs": [
			{"name": "provider", "type": "address", "indexed": true},
			{"name": "amount", "type": "uint256", "indexed": false}
		]
	}
]`

// GovernanceABI covers protocol governance proposals.
const GovernanceABI = `[
	{
		"type": "function",
		"name": "createProposal",
		"inputs": [
			{"name": "description", "type": "string"},
			{"name": "targetContract", "type": "address"},
			{"name": "callData", "type": "bytes"}
		],
		"outputs": [{"name": "proposalId", "type": "uint256"}],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "vote",
		"inputs": [
			{"name": "proposalId", "type": "uint256"},
			{"name": "support", "type": "bool"}
		],
		"outputs": [],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "executeProposal",
		"inputs": [{"name": "proposalId", "type": "uint256"}],
		"outputs": [],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "getProposal",
		"inputs": [{"name": "proposalId", "type": "uint256"}],
		"outputs": [
			{"name": "id", "type": "uint256"},
			{"name": "proposer", "type": "address"},
			{"name": "description", "type": "string"},
			{"name": "votesFor", "type": "uint256"},
			{"name": "votesAgainst", "type": "uint256"},
			{"name": "executed", "type": "bool"}
		],
		"stateMutability": "view"
	},
	{
		"type": "event",
		"name": "ProposalCreated",
		"inputs": [
			{"name": "proposalId", "type": "uint256", "indexed": true},
			{"name": "proposer", "type": "address", "indexed": true}
		]
	}
]`

// TokenABI covers the governance token (ERC-20 subset the bridge uses).
const TokenABI = `[
	{
		"type": "function",
		"name": "transfer",
		"inputs": [
			{"name": "to", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"outputs": [{"name": "success", "type": "bool"}],
		"stateMutability": "nonpayable"
	},
	{
		"type": "function",
		"name": "balanceOf",
		"inputs": [{"name": "account", "type": "address"}],
		"outputs": [{"name": "balance", "type": "uint256"}],
		"stateMutability": "view"
	},
	{
		"type": "function",
		"name": "totalSupply",
		"inputs": [],
		"outputs": [{"name": "supply", "type": "uint256"}],
		"stateMutability": "view"
	},
	{
		"type": "event",
		"name": "Transfer",
		"inputs": [
			{"name": "from", "type": "address", "indexed": true},
			{"name": "to", "type": "address", "indexed": true},
			{"name": "value", "type": "uint256", "indexed": false}
		]
	}
]`

// PolicyNFTABI covers the policy ownership token (ERC-721 subset).
const PolicyNFTABI = `[
	{
		"type": "function",
		"name": "ownerOf",
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"outputs": [{"name": "owner", "type": "address"}],
		"stateMutability": "view"
	},
	{
		"type": "function",
		"name": "tokenURI",
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"outputs": [{"name": "uri", "type": "string"}],
		"stateMutability": "view"
	},
	{
		"type": "function",
		"name": "getPolicyMetadata",
		"inputs": [{"name": "tokenId", "type": "uint256"}],
		"outputs": [
			{"name": "region", "type": "string"},
			{"name": "cropType", "type": "string"},
			{"name": "coverageAmount", "type": "uint256"}
		],
		"stateMutability": "view"
	},
	{
		"type": "event",
		"name": "Transfer",
		"inputs": [
			{"name": "from", "type": "address", "indexed": true},
			{"name": "to", "type": "address", "indexed": true},
			{"name": "tokenId", "type": "uint256", "indexed": true}
		]
	}
]`

// foundryArtifact is the slice of a Foundry build artifact we read.
type foundryArtifact struct {
	ABI json.RawMessage `json:"abi"`
}

// LoadABI resolves the ABI for a named contract. With an artifact
// directory configured it prefers <dir>/<Name>.sol/<Name>.json and
// falls back to the embedded reference ABI when the artifact is
// missing or unreadable.
func LoadABI(artifactDir, name, fallback string) string {
	if artifactDir == "" {
		return fallback
	}

	candidates := []string{
		filepath.Join(artifactDir, name+".sol", name+".json"),
		filepath.Join(artifactDir, name+".json"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var artifact foundryArtifact
		if err := json.Unmarshal(data, &artifact); err != nil || len(artifact.ABI) == 0 {
			logger.Warn("malformed contract artifact, using embedded ABI",
				zap.String("contract", name),
				zap.String("path", path),
			)
			return fallback
		}
		logger.Info("loaded contract ABI from artifact",
			zap.String("contract", name),
			zap.String("path", path),
		)
		return string(artifact.ABI)
	}

	logger.Debug("no artifact found, using embedded ABI", zap.String("contract", name))
	return fallback
}
