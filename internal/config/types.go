// Package config loads and validates the AlphaSwap backend configuration
// from YAML with environment overrides.
package config

// Config is the root configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server,omitempty"`
	RPC        RPCConfig        `yaml:"rpc,omitempty"`
	Gemini     GeminiConfig     `yaml:"gemini,omitempty"`
	CowSwap    CowSwapConfig    `yaml:"cowswap,omitempty"`
	TokenStore TokenStoreConfig `yaml:"tokenStore,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port,omitempty"`
	Bind           string   `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string   `yaml:"customBindHost,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// RPCConfig holds read-only JSON-RPC endpoints per network.
type RPCConfig struct {
	Ethereum string `yaml:"ethereum,omitempty"`
	Sepolia  string `yaml:"sepolia,omitempty"`
}

// URLForNetwork returns the RPC endpoint for a network tag. Unknown tags
// resolve to the mainnet endpoint, matching the chain-id mapping.
func (r RPCConfig) URLForNetwork(network string) string {
	if network == "sepolia" {
		return r.Sepolia
	}
	return r.Ethereum
}

// GeminiConfig configures the LLM used for intent parsing. APIKey may be
// written as ${GEMINI_API_KEY} to pull from the environment.
type GeminiConfig struct {
	APIKey string `yaml:"apiKey,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

// CowSwapConfig configures the order-book collaborator.
type CowSwapConfig struct {
	TokenListURL string `yaml:"tokenListUrl,omitempty"`
}

// TokenStoreConfig locates the flat token cache file.
type TokenStoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}
