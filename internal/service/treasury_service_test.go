package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agrochain/agrochain-bridge/internal/contract"
	"github.com/agrochain/agrochain-bridge/internal/model"
)

func newTreasury(t *testing.T, abiJSON string, backend contract.CallBackend) *contract.Treasury {
	t.Helper()
	treasury, err := contract.NewTreasury(insuranceAddr, abiJSON, backend)
	require.NoError(t, err)
	return treasury
}

func TestTreasuryService_AddCapital(t *testing.T) {
	backend := newFakeCallBackend()
	treasury := newTreasury(t, contract.TreasuryABI, backend)
	sender := &mockSender{}

	sender.On("Submit", mock.Anything, treasury.Address(), mock.Anything, big.NewInt(1000000)).
		Return(successReceipt(), nil)

	svc := NewTreasuryService(treasury, sender)
	result, err := svc.AddCapital(context.Background(), 1000000)
	require.NoError(t, err)
	assert.Equal(t, successReceipt().TxHash.Hex(), result.TxHash)
	sender.AssertExpectations(t)
}

func TestTreasuryService_AddCapital_ZeroAmount(t *testing.T) {
	svc := NewTreasuryService(newTreasury(t, contract.TreasuryABI, newFakeCallBackend()), &mockSender{})

	_, err := svc.AddCapital(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestTreasuryService_Stats(t *testing.T) {
	backend := newFakeCallBackend()
	treasury := newTreasury(t, contract.TreasuryABI, backend)

	// 1.5 ether of capital, 0.25 ether paid out
	capital, _ := new(big.Int).SetString("1500000000000000000", 10)
	payouts, _ := new(big.Int).SetString("250000000000000000", 10)
	backend.respond(t, treasury.ABI(), "totalCapital", capital)
	backend.respond(t, treasury.ABI(), "totalPayouts", payouts)

	svc := NewTreasuryService(treasury, &mockSender{})
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalCapital.Cmp(capital))
	assert.Equal(t, "1.5", stats.TotalCapitalEther)
	assert.Equal(t, "0.25", stats.TotalPayoutsEther)
	assert.Empty(t, stats.Warning)
}

func TestTreasuryService_Stats_NoPayoutCounter(t *testing.T) {
	trimmedABI := `[
		{"type": "function", "name": "addCapital", "inputs": [], "outputs": [], "stateMutability": "payable"},
		{"type": "function", "name": "totalCapital", "inputs": [], "outputs": [{"name": "amount", "type": "uint256"}], "stateMutability": "view"}
	]`
	backend := newFakeCallBackend()
	treasury := newTreasury(t, trimmedABI, backend)
	backend.respond(t, treasury.ABI(), "totalCapital", big.NewInt(5))

	svc := NewTreasuryService(treasury, &mockSender{})
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.TotalCapital.Int64())
	assert.Nil(t, stats.TotalPayouts)
	assert.NotEmpty(t, stats.Warning)
}

func TestWeiToEther(t *testing.T) {
	one, _ := new(big.Int).SetString("1000000000000000000", 10)
	assert.Equal(t, "1", weiToEther(one))
	assert.Equal(t, "0", weiToEther(nil))
	assert.Equal(t, "0.000000000000000001", weiToEther(big.NewInt(1)))
}

func TestTreasuryService_Health(t *testing.T) {
	backend := newFakeCallBackend()
	treasury := newTreasury(t, contract.TreasuryABI, backend)
	backend.respond(t, treasury.ABI(), "totalCapital", big.NewInt(1000))
	backend.respond(t, treasury.ABI(), "totalPayouts", big.NewInt(999))

	svc := NewTreasuryService(treasury, &mockSender{})
	health, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, health.Healthy)
}

func TestTreasuryService_Health_PayoutsExceedCapital(t *testing.T) {
	backend := newFakeCallBackend()
	treasury := newTreasury(t, contract.TreasuryABI, backend)
	backend.respond(t, treasury.ABI(), "totalCapital", big.NewInt(100))
	backend.respond(t, treasury.ABI(), "totalPayouts", big.NewInt(101))

	svc := NewTreasuryService(treasury, &mockSender{})
	health, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.False(t, health.Healthy)
}

func TestTreasuryService_Health_EmptyPool(t *testing.T) {
	backend := newFakeCallBackend()
	treasury := newTreasury(t, contract.TreasuryABI, backend)
	backend.respond(t, treasury.ABI(), "totalCapital", big.NewInt(0))
	backend.respond(t, treasury.ABI(), "totalPayouts", big.NewInt(0))

	svc := NewTreasuryService(treasury, &mockSender{})
	health, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.False(t, health.Healthy)
}
