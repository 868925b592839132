package config

import (
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} placeholders in config values.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} placeholders with environment values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

// Defaults returns the built-in configuration. The RPC endpoints are the
// public ones the original deployment shipped with.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           3000,
			Bind:           "loopback",
			AllowedOrigins: []string{"*"},
		},
		RPC: RPCConfig{
			Ethereum: "https://eth.llamarpc.com",
			Sepolia:  "https://eth-sepolia.public.blastapi.io",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		CowSwap: CowSwapConfig{
			TokenListURL: "https://files.cow.fi/tokens/CowSwap.json",
		},
		TokenStore: TokenStoreConfig{
			Path: "data/tokens.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config file, fills defaults, applies environment
// overrides, and expands secret placeholders. A missing file yields
// defaults plus environment overrides.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			expandSensitiveFields(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &Error{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// applyDefaults fills zero-value fields after a partial YAML load.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if cfg.Server.Bind == "" {
		cfg.Server.Bind = def.Server.Bind
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = def.Server.AllowedOrigins
	}
	if cfg.RPC.Ethereum == "" {
		cfg.RPC.Ethereum = def.RPC.Ethereum
	}
	if cfg.RPC.Sepolia == "" {
		cfg.RPC.Sepolia = def.RPC.Sepolia
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = def.Gemini.Model
	}
	if cfg.CowSwap.TokenListURL == "" {
		cfg.CowSwap.TokenListURL = def.CowSwap.TokenListURL
	}
	if cfg.TokenStore.Path == "" {
		cfg.TokenStore.Path = def.TokenStore.Path
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}

// applyEnvOverrides reads the environment variables the original
// deployment used, plus ALPHASWAP_* server overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ALPHASWAP_BIND"); v != "" {
		cfg.Server.Bind = v
	}
	if v := os.Getenv("ALPHASWAP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RPC_URL_ETHEREUM"); v != "" {
		cfg.RPC.Ethereum = v
	}
	if v := os.Getenv("RPC_URL_SEPOLIA"); v != "" {
		cfg.RPC.Sepolia = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("COW_SWAP_TOKEN_LIST_URL"); v != "" {
		cfg.CowSwap.TokenListURL = v
	}
}

// expandSensitiveFields resolves ${ENV_VAR} placeholders in credentials
// so the API key never has to live in the config file itself.
func expandSensitiveFields(cfg *Config) {
	cfg.Gemini.APIKey = expandEnvVars(cfg.Gemini.APIKey)
}
