package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Service    ServiceConfig    `yaml:"service" json:"service"`
	Blockchain BlockchainConfig `yaml:"blockchain" json:"blockchain"`
	Weather    WeatherConfig    `yaml:"weather" json:"weather"`
	ZK         ZKConfig         `yaml:"zk" json:"zk"`
	Log        LogConfig        `yaml:"log" json:"log"`
}

// ServiceConfig holds process-level settings.
type ServiceConfig struct {
	Name     string `yaml:"name" json:"name"`
	HTTPPort int    `yaml:"http_port" json:"http_port"`
	Env      string `yaml:"env" json:"env"`
}

// ContractAddresses lists every deployed contract the bridge talks to.
type ContractAddresses struct {
	Insurance  string `yaml:"insurance" json:"insurance"`
	Oracle     string `yaml:"oracle" json:"oracle"`
	Treasury   string `yaml:"treasury" json:"treasury"`
	Governance string `yaml:"governance" json:"governance"`
	Token      string `yaml:"token" json:"token"`
	PolicyNFT  string `yaml:"policy_nft" json:"policy_nft"`
}

// BlockchainConfig holds ledger connectivity and signing settings.
type BlockchainConfig struct {
	RPCURL          string            `yaml:"rpc_url" json:"rpc_url"`
	BackupRPCURLs   []string          `yaml:"backup_rpc_urls" json:"backup_rpc_urls"`
	ChainID         int64             `yaml:"chain_id" json:"chain_id"`
	AdminPrivateKey string            `yaml:"admin_private_key" json:"-"`
	GasLimit        uint64            `yaml:"gas_limit" json:"gas_limit"`
	ConfirmTimeout  int               `yaml:"confirm_timeout" json:"confirm_timeout"` // seconds
	Contracts       ContractAddresses `yaml:"contracts" json:"contracts"`
	ABIDir          string            `yaml:"abi_dir" json:"abi_dir"`
}

// ConfirmTimeoutDuration returns the receipt wait budget.
func (b *BlockchainConfig) ConfirmTimeoutDuration() time.Duration {
	return time.Duration(b.ConfirmTimeout) * time.Second
}

// WeatherConfig holds the external weather provider settings.
type WeatherConfig struct {
	APIKey  string `yaml:"api_key" json:"-"`
	BaseURL string `yaml:"base_url" json:"base_url"`
	Timeout int    `yaml:"timeout" json:"timeout"` // seconds
}

// TimeoutDuration returns the per-request budget for provider calls.
func (w *WeatherConfig) TimeoutDuration() time.Duration {
	return time.Duration(w.Timeout) * time.Second
}

// ZKConfig holds the external proof-verifier tool settings.
type ZKConfig struct {
	VerificationKey string `yaml:"verification_key" json:"verification_key"`
	SnarkJSBin      string `yaml:"snarkjs_bin" json:"snarkjs_bin"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Load reads the configuration file, expands environment variables and
// validates the result. Validation failures abort startup.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	content := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, err
	}

	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the process cannot run without.
func (c *Config) Validate() error {
	if c.Blockchain.RPCURL == "" {
		return fmt.Errorf("blockchain.rpc_url is required")
	}
	if c.Blockchain.AdminPrivateKey == "" {
		return fmt.Errorf("blockchain.admin_private_key is required")
	}
	if c.Weather.APIKey == "" {
		return fmt.Errorf("weather.api_key is required")
	}

	addresses := []struct {
		name string
		addr string
	}{
		{"insurance", c.Blockchain.Contracts.Insurance},
		{"oracle", c.Blockchain.Contracts.Oracle},
		{"treasury", c.Blockchain.Contracts.Treasury},
		{"governance", c.Blockchain.Contracts.Governance},
		{"token", c.Blockchain.Contracts.Token},
		{"policy_nft", c.Blockchain.Contracts.PolicyNFT},
	}
	for _, entry := range addresses {
		if !common.IsHexAddress(entry.addr) {
			return fmt.Errorf("invalid %s contract address: %q", entry.name, entry.addr)
		}
	}

	return nil
}

// expandEnvVars expands ${VAR:default} placeholders.
func expandEnvVars(s string) string {
	result := s
	for {
		start := strings.Index(result, "${")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}")
		if end == -1 {
			break
		}
		end += start

		expr := result[start+2 : end]
		parts := strings.SplitN(expr, ":", 2)
		varName := parts[0]
		defaultVal := ""
		if len(parts) > 1 {
			defaultVal = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			value = defaultVal
		}

		result = result[:start] + value + result[end+1:]
	}
	return result
}

func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "agrochain-bridge"
	}
	if cfg.Service.HTTPPort == 0 {
		cfg.Service.HTTPPort = 8000
	}
	if cfg.Service.Env == "" {
		cfg.Service.Env = "dev"
	}

	if cfg.Blockchain.ChainID == 0 {
		cfg.Blockchain.ChainID = 31337 // local anvil
	}
	if cfg.Blockchain.GasLimit == 0 {
		cfg.Blockchain.GasLimit = 2000000
	}
	if cfg.Blockchain.ConfirmTimeout == 0 {
		cfg.Blockchain.ConfirmTimeout = 90
	}

	if cfg.Weather.BaseURL == "" {
		cfg.Weather.BaseURL = "https://api.openweathermap.org/data/2.5/weather"
	}
	if cfg.Weather.Timeout == 0 {
		cfg.Weather.Timeout = 10
	}

	if cfg.ZK.SnarkJSBin == "" {
		cfg.ZK.SnarkJSBin = "snarkjs"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// GetEnvString reads a string environment variable with a fallback.
func GetEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
