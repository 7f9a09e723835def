package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrochain/agrochain-bridge/internal/config"
	"github.com/agrochain/agrochain-bridge/internal/model"
)

const samplePayload = `{
	"weather": [{"description": "light rain"}],
	"main": {"temp": 23.456, "humidity": 65, "pressure": 1013},
	"wind": {"speed": 3.2},
	"clouds": {"all": 75},
	"rain": {"1h": 5.5},
	"dt": 1700000000
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(&config.WeatherConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: 5,
	})
	return client, srv
}

func TestFetchScaling(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePayload))
	})

	cases := []struct {
		parameter string
		expected  int64
	}{
		{"rainfall", 5500},
		{"temperature", 23456}, // 23.456 * 1000, truncated
		{"humidity", 6500},
		{"wind_speed", 3200},
		{"pressure", 10130},
		{"clouds", 7500},
	}

	for _, tc := range cases {
		t.Run(tc.parameter, func(t *testing.T) {
			value, err := client.Fetch(context.Background(), "Nairobi", tc.parameter)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, value)
		})
	}
}

func TestFetchTruncatesTowardZero(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main": {"temp": 19.9999}}`))
	})

	value, err := client.Fetch(context.Background(), "Nairobi", "temperature")
	require.NoError(t, err)
	assert.Equal(t, int64(19999), value)
}

func TestFetchMissingSectionReadsZero(t *testing.T) {
	// no "rain" section on a dry day
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main": {"temp": 30.0, "humidity": 40}}`))
	})

	value, err := client.Fetch(context.Background(), "Nairobi", "rainfall")
	require.NoError(t, err)
	assert.Equal(t, int64(0), value)
}

func TestFetchUnsupportedParameter(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.Fetch(context.Background(), "Nairobi", "soil_moisture")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfiguration))
	assert.False(t, called, "unsupported parameter must not reach the provider")
}

func TestFetchProviderError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Fetch(context.Background(), "Nairobi", "temperature")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrTransport))
}

func TestFetchMalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.Fetch(context.Background(), "Nairobi", "temperature")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConfiguration))
}

func TestFetchUnreachableProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(&config.WeatherConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: 1,
	})

	_, err := client.Fetch(context.Background(), "Nairobi", "temperature")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrTransport))
}

func TestFetchSendsAPIKeyAndRegion(t *testing.T) {
	var query map[string][]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(samplePayload))
	})

	_, err := client.Fetch(context.Background(), "Central Valley", "temperature")
	require.NoError(t, err)
	assert.Equal(t, "test-key", query["appid"][0])
	assert.Equal(t, "Central Valley", query["q"][0])
	assert.Equal(t, "metric", query["units"][0])
}

func TestFetchCurrent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePayload))
	})

	snapshot, err := client.FetchCurrent(context.Background(), "Nairobi")
	require.NoError(t, err)

	assert.Equal(t, "Nairobi", snapshot.Region)
	assert.Equal(t, "light rain", snapshot.Description)
	assert.Equal(t, int64(1700000000), snapshot.ObservedAt)
	assert.Equal(t, int64(23456), snapshot.Readings["temperature"])
	assert.Equal(t, int64(5500), snapshot.Readings["rainfall"])
	assert.Equal(t, int64(6500), snapshot.Readings["humidity"])
	assert.Len(t, snapshot.Readings, len(parameterMappings))
}

func TestReading(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePayload))
	})

	reading, err := client.Reading(context.Background(), "Nairobi", "humidity")
	require.NoError(t, err)
	assert.Equal(t, "humidity", reading.ParameterType)
	assert.Equal(t, "Nairobi", reading.Region)
	assert.Equal(t, int64(6500), reading.Value)
	assert.NotZero(t, reading.ObservedAt)
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("rainfall"))
	assert.True(t, IsSupported("pressure"))
	assert.False(t, IsSupported("uv_index"))
	assert.Len(t, SupportedParameters(), 6)
}
