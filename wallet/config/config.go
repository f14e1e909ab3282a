// Package config loads wallet configuration from environment
// variables, following fail-fast validation at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default endpoints point at public test networks. Mainnet operation is
// out of scope; nothing validates against mainnet chain IDs on purpose,
// but the defaults never reach real funds.
const (
	defaultEVMRPCURL    = "https://ethereum-sepolia-rpc.publicnode.com"
	defaultEVMChainID   = 11155111 // Sepolia
	defaultSolanaRPCURL = "https://api.devnet.solana.com"
)

// Config holds all application configuration loaded from environment
// variables.
type Config struct {
	LogLevel string

	// EVM chain configuration
	EVMRPCURL  string
	EVMChainID int64

	// Solana chain configuration
	SolanaRPCURL string

	// Confirmation polling
	ConfirmPollInterval time.Duration
}

// Load reads configuration from environment variables and validates all
// fields. Returns an error if any value is invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	var errs []error

	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	cfg.EVMRPCURL = getEnvOrDefault("EVM_RPC_URL", defaultEVMRPCURL)
	cfg.SolanaRPCURL = getEnvOrDefault("SOLANA_RPC_URL", defaultSolanaRPCURL)

	chainID, err := parseInt64("EVM_CHAIN_ID", defaultEVMChainID)
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.EVMChainID = chainID
	}

	pollInterval, err := parseDuration("CONFIRM_POLL_INTERVAL", "2s")
	if err != nil {
		errs = append(errs, err)
	} else {
		cfg.ConfirmPollInterval = pollInterval
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %v", errs)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is like Load but panics if configuration is invalid.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks if the configuration is valid. Useful for testing
// configuration without loading from env.
func (c *Config) Validate() error {
	var errs []error

	if c.EVMRPCURL == "" {
		errs = append(errs, fmt.Errorf("EVMRPCURL is required"))
	}
	if c.SolanaRPCURL == "" {
		errs = append(errs, fmt.Errorf("SolanaRPCURL is required"))
	}
	if c.EVMChainID <= 0 {
		errs = append(errs, fmt.Errorf("EVMChainID must be positive"))
	}
	if c.ConfirmPollInterval < 100*time.Millisecond {
		errs = append(errs, fmt.Errorf("ConfirmPollInterval must be at least 100ms"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}
	return nil
}

// getEnvOrDefault returns the environment variable value or a default
// if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration from an environment variable or uses
// a default.
func parseDuration(key, defaultValue string) (time.Duration, error) {
	value := getEnvOrDefault(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return duration, nil
}

// parseInt64 parses an integer from an environment variable or uses a
// default.
func parseInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return result, nil
}
