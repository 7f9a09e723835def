// Package weather fetches live measurements from the OpenWeather current
// weather API and normalizes them into the scaled integer units the
// insurance contracts are denominated in.
package weather

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/agrochain/agrochain-bridge/internal/config"
	"github.com/agrochain/agrochain-bridge/internal/metrics"
	"github.com/agrochain/agrochain-bridge/internal/model"
	"github.com/agrochain/agrochain-bridge/pkg/logger"
)

// mapping locates one parameter inside the provider payload and scales
// the float reading into the contract's integer unit.
type mapping struct {
	section    string
	field      string
	multiplier float64
}

// parameterMappings is the static parameter table. The scaled value is
// truncated toward zero, matching the integer unit the contracts store.
var parameterMappings = map[string]mapping{
	"rainfall":    {section: "rain", field: "1h", multiplier: 1000},
	"temperature": {section: "main", field: "temp", multiplier: 1000},
	"humidity":    {section: "main", field: "humidity", multiplier: 100},
	"wind_speed":  {section: "wind", field: "speed", multiplier: 1000},
	"pressure":    {section: "main", field: "pressure", multiplier: 10},
	"clouds":      {section: "clouds", field: "all", multiplier: 100},
}

// SupportedParameters returns the parameter types the adapter can resolve.
func SupportedParameters() []string {
	out := make([]string, 0, len(parameterMappings))
	for name := range parameterMappings {
		out = append(out, name)
	}
	return out
}

// IsSupported reports whether parameterType has a provider mapping.
func IsSupported(parameterType string) bool {
	_, ok := parameterMappings[parameterType]
	return ok
}

// CurrentConditions is the full normalized snapshot for a region, every
// field already scaled into contract units.
type CurrentConditions struct {
	Region      string           `json:"region"`
	Description string           `json:"description"`
	Readings    map[string]int64 `json:"readings"`
	ObservedAt  int64            `json:"observedAt"`
}

// Client talks to the OpenWeather current weather endpoint. One request
// per call, no caching, no retries; failures map onto the service error
// taxonomy for the caller to translate.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient builds a provider client from configuration. The API key is
// attached to every request and never logged.
func NewClient(cfg *config.WeatherConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.TimeoutDuration()},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// Fetch returns the scaled current value of one parameter in a region.
// A parameter the provider payload omits reads as zero.
func (c *Client) Fetch(ctx context.Context, region, parameterType string) (int64, error) {
	m, ok := parameterMappings[parameterType]
	if !ok {
		return 0, model.ErrConfiguration.WithMessagef("unsupported climate parameter: %s", parameterType)
	}

	payload, err := c.query(ctx, region)
	if err != nil {
		return 0, err
	}

	value := extract(payload, m)
	logger.Debug("fetched climate reading",
		zap.String("region", region),
		zap.String("parameter", parameterType),
		zap.Int64("value", value),
	)
	return value, nil
}

// FetchCurrent returns the full normalized snapshot for a region.
func (c *Client) FetchCurrent(ctx context.Context, region string) (*CurrentConditions, error) {
	payload, err := c.query(ctx, region)
	if err != nil {
		return nil, err
	}

	readings := make(map[string]int64, len(parameterMappings))
	for name, m := range parameterMappings {
		readings[name] = extract(payload, m)
	}

	description := ""
	if arr, ok := payload["weather"].([]interface{}); ok && len(arr) > 0 {
		if entry, ok := arr[0].(map[string]interface{}); ok {
			description, _ = entry["description"].(string)
		}
	}

	observedAt := time.Now().Unix()
	if dt, ok := payload["dt"].(float64); ok {
		observedAt = int64(dt)
	}

	return &CurrentConditions{
		Region:      region,
		Description: description,
		Readings:    readings,
		ObservedAt:  observedAt,
	}, nil
}

// query performs one provider round trip and decodes the JSON body.
func (c *Client) query(ctx context.Context, region string) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("q", region)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, model.Wrap(model.ErrTransport, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordWeatherRequest("transport_error", elapsed)
		return nil, model.WrapWithMessage(model.ErrTransport, err, "weather provider unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordWeatherRequest("transport_error", elapsed)
		return nil, model.WrapWithMessage(model.ErrTransport, err, "reading weather provider response")
	}

	if resp.StatusCode != http.StatusOK {
		metrics.RecordWeatherRequest("transport_error", elapsed)
		return nil, model.ErrTransport.WithMessagef("weather provider returned status %d", resp.StatusCode)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.RecordWeatherRequest("malformed", elapsed)
		return nil, model.WrapWithMessage(model.ErrConfiguration, err, "malformed weather provider response")
	}

	metrics.RecordWeatherRequest("ok", elapsed)
	return payload, nil
}

// extract pulls one mapped field out of the decoded payload and scales
// it. Missing sections or fields read as zero; a dry spell simply has
// no "rain" section.
func extract(payload map[string]interface{}, m mapping) int64 {
	section, ok := payload[m.section].(map[string]interface{})
	if !ok {
		return 0
	}
	raw, ok := section[m.field].(float64)
	if !ok {
		return 0
	}
	return int64(raw * m.multiplier)
}

// Reading assembles a model.ClimateReading for the evaluator.
func (c *Client) Reading(ctx context.Context, region, parameterType string) (model.ClimateReading, error) {
	value, err := c.Fetch(ctx, region, parameterType)
	if err != nil {
		return model.ClimateReading{}, err
	}
	return model.ClimateReading{
		ParameterType: parameterType,
		Region:        region,
		Value:         value,
		ObservedAt:    time.Now().Unix(),
	}, nil
}
