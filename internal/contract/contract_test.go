package contract

import (
	"context"
	"encoding/hex"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend answers read-only calls by method selector.
type fakeBackend struct {
	responses map[string][]byte
	calls     int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{responses: make(map[string][]byte)}
}

// respond registers the packed output for a method of parsed.
func (f *fakeBackend) respond(t *testing.T, parsed abi.ABI, method string, outputs ...interface{}) {
	t.Helper()
	m, ok := parsed.Methods[method]
	require.True(t, ok, "method %s not in ABI", method)
	packed, err := m.Outputs.Pack(outputs...)
	require.NoError(t, err)
	f.responses[hex.EncodeToString(m.ID)] = packed
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.calls++
	if len(msg.Data) < 4 {
		return nil, nil
	}
	return f.responses[hex.EncodeToString(msg.Data[:4])], nil
}

var testAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

func TestBind(t *testing.T) {
	bound, err := Bind("insurance", testAddr, InsuranceABI, newFakeBackend())
	require.NoError(t, err)

	assert.Equal(t, "insurance", bound.Name())
	assert.Equal(t, testAddr, bound.Address())
}

func TestBind_InvalidABI(t *testing.T) {
	_, err := Bind("broken", testAddr, "not json", newFakeBackend())
	assert.Error(t, err)
}

func TestCapabilities(t *testing.T) {
	bound, err := Bind("insurance", testAddr, InsuranceABI, newFakeBackend())
	require.NoError(t, err)

	assert.True(t, bound.Has("createPolicy"))
	assert.True(t, bound.Has("getActivePolicies"))
	assert.False(t, bound.Has("selfDestruct"))

	assert.True(t, bound.HasEvent("PolicyCreated"))
	assert.False(t, bound.HasEvent("Burned"))

	ops := bound.Operations()
	assert.Contains(t, ops, "activatePolicy")
	assert.Contains(t, ops, "processClaim")
	assert.IsType(t, []string{}, ops)

	// stable across calls
	again := bound.Operations()
	assert.Equal(t, ops, again)

	// sorted
	for i := 1; i < len(ops); i++ {
		assert.LessOrEqual(t, ops[i-1], ops[i])
	}
}

func TestEventTopic(t *testing.T) {
	bound, err := Bind("insurance", testAddr, InsuranceABI, newFakeBackend())
	require.NoError(t, err)

	assert.NotEqual(t, common.Hash{}, bound.EventTopic("PolicyCreated"))
	assert.Equal(t, common.Hash{}, bound.EventTopic("NoSuchEvent"))
}

func TestPack_UnknownMethod(t *testing.T) {
	bound, err := Bind("insurance", testAddr, InsuranceABI, newFakeBackend())
	require.NoError(t, err)

	_, err = bound.Pack("nonexistent")
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestCall_UnpacksResult(t *testing.T) {
	backend := newFakeBackend()
	token, err := NewToken(testAddr, TokenABI, backend)
	require.NoError(t, err)

	backend.respond(t, token.ABI(), "balanceOf", big.NewInt(12345))

	balance, err := token.BalanceOf(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, int64(12345), balance.Int64())
}

func TestCall_EmptyResult(t *testing.T) {
	token, err := NewToken(testAddr, TokenABI, newFakeBackend())
	require.NoError(t, err)

	_, err = token.BalanceOf(context.Background(), testAddr)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestLoadABI(t *testing.T) {
	t.Run("no artifact dir uses fallback", func(t *testing.T) {
		assert.Equal(t, TokenABI, LoadABI("", "GovernanceToken", TokenABI))
	})

	t.Run("foundry layout", func(t *testing.T) {
		dir := t.TempDir()
		artifactDir := filepath.Join(dir, "CropInsurance.sol")
		require.NoError(t, os.MkdirAll(artifactDir, 0755))

		artifact := `{"abi": [{"type": "function", "name": "ping", "inputs": [], "outputs": [], "stateMutability": "view"}]}`
		require.NoError(t, os.WriteFile(filepath.Join(artifactDir, "CropInsurance.json"), []byte(artifact), 0644))

		loaded := LoadABI(dir, "CropInsurance", InsuranceABI)
		bound, err := Bind("insurance", testAddr, loaded, newFakeBackend())
		require.NoError(t, err)
		assert.True(t, bound.Has("ping"))
		assert.False(t, bound.Has("createPolicy"))
	})

	t.Run("flat layout", func(t *testing.T) {
		dir := t.TempDir()
		artifact := `{"abi": [{"type": "function", "name": "pong", "inputs": [], "outputs": [], "stateMutability": "view"}]}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Treasury.json"), []byte(artifact), 0644))

		loaded := LoadABI(dir, "Treasury", TreasuryABI)
		bound, err := Bind("treasury", testAddr, loaded, newFakeBackend())
		require.NoError(t, err)
		assert.True(t, bound.Has("pong"))
	})

	t.Run("malformed artifact falls back", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Treasury.json"), []byte("{broken"), 0644))

		assert.Equal(t, TreasuryABI, LoadABI(dir, "Treasury", TreasuryABI))
	})

	t.Run("missing artifact falls back", func(t *testing.T) {
		assert.Equal(t, OracleABI, LoadABI(t.TempDir(), "ClimateOracle", OracleABI))
	})
}

func TestAllReferenceABIsParse(t *testing.T) {
	for name, abiJSON := range map[string]string{
		"insurance":  InsuranceABI,
		"oracle":     OracleABI,
		"treasury":   TreasuryABI,
		"governance": GovernanceABI,
		"token":      TokenABI,
		"policy_nft": PolicyNFTABI,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Bind(name, testAddr, abiJSON, newFakeBackend())
			assert.NoError(t, err)
		})
	}
}
