package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnvVars(t *testing.T) {
	t.Run("simple variable", func(t *testing.T) {
		os.Setenv("TEST_VAR", "hello")
		defer os.Unsetenv("TEST_VAR")

		result := expandEnvVars("value is ${TEST_VAR}")
		assert.Equal(t, "value is hello", result)
	})

	t.Run("variable with default", func(t *testing.T) {
		result := expandEnvVars("value is ${NOT_EXISTS:default_value}")
		assert.Equal(t, "value is default_value", result)
	})

	t.Run("variable with default overridden", func(t *testing.T) {
		os.Setenv("MY_VAR", "actual_value")
		defer os.Unsetenv("MY_VAR")

		result := expandEnvVars("value is ${MY_VAR:default_value}")
		assert.Equal(t, "value is actual_value", result)
	})

	t.Run("multiple variables", func(t *testing.T) {
		os.Setenv("VAR1", "first")
		os.Setenv("VAR2", "second")
		defer os.Unsetenv("VAR1")
		defer os.Unsetenv("VAR2")

		result := expandEnvVars("${VAR1} and ${VAR2}")
		assert.Equal(t, "first and second", result)
	})

	t.Run("no variables", func(t *testing.T) {
		result := expandEnvVars("no variables here")
		assert.Equal(t, "no variables here", result)
	})

	t.Run("empty default", func(t *testing.T) {
		result := expandEnvVars("value is ${NOT_EXISTS:}")
		assert.Equal(t, "value is ", result)
	})

	t.Run("default with colon", func(t *testing.T) {
		result := expandEnvVars("value is ${NOT_EXISTS:default:with:colons}")
		assert.Equal(t, "value is default:with:colons", result)
	})
}

func TestSetDefaults(t *testing.T) {
	t.Run("all defaults", func(t *testing.T) {
		cfg := &Config{}
		setDefaults(cfg)

		assert.Equal(t, "agrochain-bridge", cfg.Service.Name)
		assert.Equal(t, 8000, cfg.Service.HTTPPort)
		assert.Equal(t, "dev", cfg.Service.Env)

		assert.Equal(t, int64(31337), cfg.Blockchain.ChainID)
		assert.Equal(t, uint64(2000000), cfg.Blockchain.GasLimit)
		assert.Equal(t, 90, cfg.Blockchain.ConfirmTimeout)

		assert.Equal(t, "https://api.openweathermap.org/data/2.5/weather", cfg.Weather.BaseURL)
		assert.Equal(t, 10, cfg.Weather.Timeout)

		assert.Equal(t, "snarkjs", cfg.ZK.SnarkJSBin)

		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("partial config", func(t *testing.T) {
		cfg := &Config{
			Service: ServiceConfig{
				Name:     "custom-name",
				HTTPPort: 9999,
			},
			Blockchain: BlockchainConfig{
				ChainID: 11155111, // Sepolia
			},
		}
		setDefaults(cfg)

		assert.Equal(t, "custom-name", cfg.Service.Name)
		assert.Equal(t, 9999, cfg.Service.HTTPPort)
		assert.Equal(t, int64(11155111), cfg.Blockchain.ChainID)

		assert.Equal(t, "dev", cfg.Service.Env)
		assert.Equal(t, 90, cfg.Blockchain.ConfirmTimeout)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{
			Blockchain: BlockchainConfig{
				RPCURL:          "http://localhost:8545",
				AdminPrivateKey: "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
				Contracts: ContractAddresses{
					Insurance:  "0x5FbDB2315678afecb367f032d93F642f64180aa3",
					Oracle:     "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512",
					Treasury:   "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0",
					Governance: "0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9",
					Token:      "0xDc64a140Aa3E981100a9becA4E685f962f0cF6C9",
					PolicyNFT:  "0x5FC8d32690cc91D4c39d9d3abcBD16989F875707",
				},
			},
			Weather: WeatherConfig{APIKey: "test-key"},
		}
		setDefaults(cfg)
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing rpc url", func(t *testing.T) {
		cfg := valid()
		cfg.Blockchain.RPCURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing admin key", func(t *testing.T) {
		cfg := valid()
		cfg.Blockchain.AdminPrivateKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing weather api key", func(t *testing.T) {
		cfg := valid()
		cfg.Weather.APIKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("malformed contract address", func(t *testing.T) {
		cfg := valid()
		cfg.Blockchain.Contracts.Treasury = "not-an-address"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "treasury")
	})

	t.Run("empty contract address", func(t *testing.T) {
		cfg := valid()
		cfg.Blockchain.Contracts.PolicyNFT = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestGetEnvString(t *testing.T) {
	t.Run("env variable exists", func(t *testing.T) {
		os.Setenv("TEST_STRING", "hello")
		defer os.Unsetenv("TEST_STRING")

		result := GetEnvString("TEST_STRING", "default")
		assert.Equal(t, "hello", result)
	})

	t.Run("env variable not exists", func(t *testing.T) {
		result := GetEnvString("NOT_EXISTS_STRING", "default")
		assert.Equal(t, "default", result)
	})
}

func TestLoad(t *testing.T) {
	validYAML := `
service:
  name: agrochain-bridge-test
  http_port: 8001
  env: test

blockchain:
  rpc_url: http://localhost:8545
  chain_id: 31337
  admin_private_key: ${ADMIN_PRIVATE_KEY:ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80}
  contracts:
    insurance: "0x5FbDB2315678afecb367f032d93F642f64180aa3"
    oracle: "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
    treasury: "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"
    governance: "0xCf7Ed3AccA5a467e9e704C703E8D87F634fB0Fc9"
    token: "0xDc64a140Aa3E981100a9becA4E685f962f0cF6C9"
    policy_nft: "0x5FC8d32690cc91D4c39d9d3abcBD16989F875707"

weather:
  api_key: ${OPENWEATHER_API_KEY:test-key}
  timeout: 5

log:
  level: debug
  format: console
`

	t.Run("file not exists", func(t *testing.T) {
		_, err := Load("/path/to/nonexistent/config.yaml")
		assert.Error(t, err)
	})

	t.Run("valid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")

		err := os.WriteFile(configPath, []byte(validYAML), 0644)
		assert.NoError(t, err)

		cfg, err := Load(configPath)
		assert.NoError(t, err)
		assert.NotNil(t, cfg)

		assert.Equal(t, "agrochain-bridge-test", cfg.Service.Name)
		assert.Equal(t, 8001, cfg.Service.HTTPPort)
		assert.Equal(t, "test", cfg.Service.Env)
		assert.Equal(t, "test-key", cfg.Weather.APIKey) // default expanded
		assert.Equal(t, 5, cfg.Weather.Timeout)
		assert.Equal(t, "debug", cfg.Log.Level)

		// unset keys pick up defaults
		assert.Equal(t, uint64(2000000), cfg.Blockchain.GasLimit)
		assert.Equal(t, 90, cfg.Blockchain.ConfirmTimeout)
	})

	t.Run("config with env override", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")

		err := os.WriteFile(configPath, []byte(validYAML), 0644)
		assert.NoError(t, err)

		os.Setenv("OPENWEATHER_API_KEY", "real-key")
		defer os.Unsetenv("OPENWEATHER_API_KEY")

		cfg, err := Load(configPath)
		assert.NoError(t, err)
		assert.Equal(t, "real-key", cfg.Weather.APIKey)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.yaml")

		invalidContent := `
service:
  name: [this is not valid
  http_port 8000
`
		err := os.WriteFile(configPath, []byte(invalidContent), 0644)
		assert.NoError(t, err)

		_, err = Load(configPath)
		assert.Error(t, err)
	})

	t.Run("bad contract address fails load", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")

		cfgContent := `
blockchain:
  rpc_url: http://localhost:8545
  admin_private_key: abc
  contracts:
    insurance: "0xZZZB2315678afecb367f032d93F642f64180aa3"

weather:
  api_key: k
`
		err := os.WriteFile(configPath, []byte(cfgContent), 0644)
		assert.NoError(t, err)

		_, err = Load(configPath)
		assert.Error(t, err)
	})
}
