package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agrochain/agrochain-bridge/internal/contract"
	"github.com/agrochain/agrochain-bridge/internal/model"
)

var oracleAddr = common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")

func newAdminService(t *testing.T, backend contract.CallBackend, sender Sender) (*AdminService, *contract.Insurance) {
	t.Helper()
	ins := newInsurance(t, backend)
	oracle, err := contract.NewOracle(oracleAddr, contract.OracleABI, backend)
	require.NoError(t, err)
	return NewAdminService(ins, oracle, sender), ins
}

func TestAdminService_AddRegion(t *testing.T) {
	sender := &mockSender{}
	sender.On("Submit", mock.Anything, insuranceAddr, mock.Anything, (*big.Int)(nil)).
		Return(successReceipt(), nil)

	svc, ins := newAdminService(t, newFakeCallBackend(), sender)
	result, err := svc.AddRegion(context.Background(), "Nairobi")
	require.NoError(t, err)
	assert.Equal(t, successReceipt().TxHash.Hex(), result.TxHash)

	data := sender.Calls[0].Arguments.Get(2).([]byte)
	assert.Equal(t, ins.ABI().Methods["addSupportedRegion"].ID, data[:4])
}

func TestAdminService_AddRegion_Empty(t *testing.T) {
	svc, _ := newAdminService(t, newFakeCallBackend(), &mockSender{})
	_, err := svc.AddRegion(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestAdminService_Regions(t *testing.T) {
	backend := newFakeCallBackend()
	svc, ins := newAdminService(t, backend, &mockSender{})
	backend.respond(t, ins.ABI(), "getSupportedRegions", []string{"Nairobi", "Mombasa"})

	list, err := svc.Regions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Nairobi", "Mombasa"}, list.Items)
	assert.Empty(t, list.Warning)
}

func TestAdminService_Regions_Degraded(t *testing.T) {
	backend := newFakeCallBackend()
	trimmedABI := `[{"type": "function", "name": "createPolicy", "inputs": [], "outputs": [], "stateMutability": "nonpayable"}]`
	ins, err := contract.NewInsurance(insuranceAddr, trimmedABI, backend)
	require.NoError(t, err)
	oracle, err := contract.NewOracle(oracleAddr, contract.OracleABI, backend)
	require.NoError(t, err)

	svc := NewAdminService(ins, oracle, &mockSender{})
	list, err := svc.Regions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.NotEmpty(t, list.Warning)
}

func TestAdminService_SetOracle(t *testing.T) {
	sender := &mockSender{}
	sender.On("Submit", mock.Anything, oracleAddr, mock.Anything, (*big.Int)(nil)).
		Return(successReceipt(), nil)

	svc, _ := newAdminService(t, newFakeCallBackend(), sender)
	_, err := svc.SetOracle(context.Background(), &model.SetOracleRequest{
		Region:        "Nairobi",
		OracleAddress: farmerAddr.Hex(),
	})
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestAdminService_SetOracle_BadAddress(t *testing.T) {
	svc, _ := newAdminService(t, newFakeCallBackend(), &mockSender{})
	_, err := svc.SetOracle(context.Background(), &model.SetOracleRequest{
		Region:        "Nairobi",
		OracleAddress: "nope",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrValidation))
}
