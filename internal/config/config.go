// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	SwapAPIURL   string   `mapstructure:"swap_api_url"`
	RPCList      []string `mapstructure:"rpc_list"`
	WalletsFile  string   `mapstructure:"wallets_file"`
	WalletName   string   `mapstructure:"wallet_name"`
	DebugLogging bool     `mapstructure:"debug_logging"`

	// Настройки исполнения по умолчанию; могут быть переопределены
	// вызывающей стороной при каждом свапе.
	Commitment            string `mapstructure:"commitment"`
	SkipPreflight         bool   `mapstructure:"skip_preflight"`
	MaxRetries            int    `mapstructure:"max_retries"`
	RetryTimeoutMs        int    `mapstructure:"retry_timeout_ms"`
	ResendIntervalMs      int    `mapstructure:"resend_interval_ms"`
	PollIntervalMs        int    `mapstructure:"poll_interval_ms"`
	BlockHeightBuffer     int    `mapstructure:"last_valid_block_height_buffer"`
	SkipConfirmationCheck bool   `mapstructure:"skip_confirmation_check"`
}

const (
	DefaultSwapAPIURL       = "https://swap-v2.solanatracker.io"
	DefaultMaxRetries       = 30
	DefaultRetryTimeoutMs   = 30_000
	DefaultResendIntervalMs = 1_000
	DefaultPollIntervalMs   = 1_000
	DefaultBlockBuffer      = 150
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"swap_api_url":                   DefaultSwapAPIURL,
		"commitment":                     "confirmed",
		"skip_preflight":                 true,
		"max_retries":                    DefaultMaxRetries,
		"retry_timeout_ms":               DefaultRetryTimeoutMs,
		"resend_interval_ms":             DefaultResendIntervalMs,
		"poll_interval_ms":               DefaultPollIntervalMs,
		"last_valid_block_height_buffer": DefaultBlockBuffer,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return errors.New("invalid RPC URL protocol")
		}
	}
	if err := validateURLWithCache(cfg.SwapAPIURL, "http"); err != nil {
		return errors.New("invalid swap API URL")
	}
	if cfg.WalletsFile == "" {
		return errors.New("missing wallets_file in configuration")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.MaxRetries <= 0 {
		return errors.New("invalid max_retries")
	}
	if cfg.RetryTimeoutMs <= 0 {
		return errors.New("invalid retry_timeout_ms")
	}
	if cfg.ResendIntervalMs <= 0 {
		return errors.New("invalid resend_interval_ms")
	}
	if cfg.PollIntervalMs <= 0 {
		return errors.New("invalid poll_interval_ms")
	}
	if cfg.BlockHeightBuffer < 0 {
		return errors.New("invalid last_valid_block_height_buffer")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("SOLANA_SWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envAPIURL := v.GetString("API_URL")
	if envAPIURL != "" {
		cfg.SwapAPIURL = envAPIURL
	}

	envRPCList := v.GetString("RPC_LIST")
	if envRPCList != "" {
		rpcs := strings.Split(envRPCList, ",")
		var cleanRPCs []string
		for _, rpc := range rpcs {
			clean := strings.TrimSpace(rpc)
			if clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}
	return nil
}
