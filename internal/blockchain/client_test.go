package blockchain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientConfig_Validation(t *testing.T) {
	t.Run("empty RPC URLs", func(t *testing.T) {
		cfg := &ClientConfig{
			ChainID: 31337,
			RPCURLs: []string{},
		}

		_, err := NewClient(cfg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one RPC URL is required")
	})

	t.Run("invalid private key", func(t *testing.T) {
		cfg := &ClientConfig{
			ChainID:    31337,
			PrivateKey: "invalid-key",
			RPCURLs:    []string{"http://localhost:8545"},
		}

		_, err := NewClient(cfg)
		assert.Error(t, err)
	})

	t.Run("valid private key format", func(t *testing.T) {
		// 64 hex chars = 32 byte private key
		validKey := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
		cfg := &ClientConfig{
			ChainID:    31337,
			PrivateKey: validKey,
			RPCURLs:    []string{"http://localhost:8545"},
		}

		// key parsing succeeds; the dial is what fails
		_, err := NewClient(cfg)
		assert.Error(t, err)
		assert.NotContains(t, err.Error(), "invalid")
	})
}

func TestRPCEndpoint_Fields(t *testing.T) {
	ep := &RPCEndpoint{
		URL:        "http://localhost:8545",
		IsHealthy:  true,
		LatencyMs:  50,
		LastBlock:  12345,
		ErrorCount: 0,
		LastCheck:  time.Now(),
	}

	assert.Equal(t, "http://localhost:8545", ep.URL)
	assert.True(t, ep.IsHealthy)
	assert.Equal(t, int64(50), ep.LatencyMs)
	assert.Equal(t, uint64(12345), ep.LastBlock)
}

func TestClient_AddressAndChainID(t *testing.T) {
	c := &Client{
		chainID: 31337,
		endpoints: []*RPCEndpoint{
			{URL: "http://localhost:8545", IsHealthy: true},
		},
		maxRetries:      3,
		retryInterval:   time.Second,
		healthCheckFreq: 30 * time.Second,
	}

	assert.Equal(t, int64(31337), c.ChainID())

	// zero address without a configured key
	assert.Equal(t, "0x0000000000000000000000000000000000000000", c.Address().Hex())
}

func TestClient_HealthyEndpoints(t *testing.T) {
	c := &Client{
		endpoints: []*RPCEndpoint{
			{URL: "http://rpc1.example.com", IsHealthy: true},
			{URL: "http://rpc2.example.com", IsHealthy: false},
			{URL: "http://rpc3.example.com", IsHealthy: true},
		},
	}

	healthy := c.HealthyEndpoints()
	assert.Len(t, healthy, 2)
	assert.Equal(t, "http://rpc1.example.com", healthy[0].URL)
	assert.Equal(t, "http://rpc3.example.com", healthy[1].URL)
}

func TestClient_HealthyEndpoints_Empty(t *testing.T) {
	c := &Client{
		endpoints: []*RPCEndpoint{
			{URL: "http://rpc1.example.com", IsHealthy: false},
			{URL: "http://rpc2.example.com", IsHealthy: false},
		},
	}

	assert.Len(t, c.HealthyEndpoints(), 0)
}

func TestClient_Close(t *testing.T) {
	c := &Client{
		endpoints: []*RPCEndpoint{
			{URL: "http://localhost:8545", IsHealthy: true},
		},
	}

	c.Close()
	c.Close() // idempotent
}

func TestClient_SignTransaction_NoPrivateKey(t *testing.T) {
	c := &Client{
		chainID: 31337,
	}

	_, err := c.SignTransaction(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "private key not configured")
}
