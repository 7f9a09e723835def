package service

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/agrochain/agrochain-bridge/internal/contract"
	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/internal/weather"
	"github.com/agrochain/agrochain-bridge/pkg/logger"
)

// ObservationResult reports a reading pushed to the on-ledger oracle.
type ObservationResult struct {
	Reading model.ClimateReading `json:"reading"`
	TxResult
}

// ClimateService exposes live weather reads and oracle submissions.
type ClimateService struct {
	weather WeatherSource
	oracle  *contract.Oracle
	sender  Sender
}

// NewClimateService wires the climate service.
func NewClimateService(weatherSource WeatherSource, oracle *contract.Oracle, sender Sender) *ClimateService {
	return &ClimateService{weather: weatherSource, oracle: oracle, sender: sender}
}

// Check fetches the current scaled value of one parameter in a region.
func (s *ClimateService) Check(ctx context.Context, req *model.ClimateDataRequest) (model.ClimateReading, error) {
	return s.weather.Reading(ctx, req.Region, req.ParameterType)
}

// Current fetches the full normalized snapshot for a region.
func (s *ClimateService) Current(ctx context.Context, region string) (*weather.CurrentConditions, error) {
	if region == "" {
		return nil, model.ErrValidation.WithMessage("region is required")
	}
	return s.weather.FetchCurrent(ctx, region)
}

// SubmitObservation fetches a live reading and pushes it to the oracle
// contract so on-ledger consumers see the same value the evaluator saw.
func (s *ClimateService) SubmitObservation(ctx context.Context, region, parameterType string) (*ObservationResult, error) {
	reading, err := s.weather.Reading(ctx, region, parameterType)
	if err != nil {
		return nil, err
	}
	if reading.Value < 0 {
		return nil, model.ErrConfiguration.WithMessagef(
			"negative reading %d cannot be submitted on-ledger", reading.Value)
	}

	data, err := s.oracle.PackSubmitObservation(region, parameterType, big.NewInt(reading.Value))
	if err != nil {
		if err == contract.ErrNotSupported {
			return nil, model.ErrConfiguration.WithMessage("oracle contract does not accept observations")
		}
		return nil, model.WrapWithMessage(model.ErrTransaction, err, "encoding submitObservation")
	}

	rcpt, err := submit(ctx, s.sender, "submit_observation", s.oracle.Address(), data, nil)
	if err != nil {
		return nil, err
	}

	logger.Info("observation submitted",
		zap.String("region", region),
		zap.String("parameter", parameterType),
		zap.Int64("value", reading.Value),
	)

	return &ObservationResult{Reading: reading, TxResult: txResult(rcpt)}, nil
}
