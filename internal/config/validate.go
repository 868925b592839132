package config

import "fmt"

// Error is a configuration parse or validation failure.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

// Issue is one validation finding with the config path it concerns.
type Issue struct {
	Path    string
	Message string
}

// Validate checks the loaded config for values that would make the
// server misbehave. It returns all findings rather than stopping at the
// first one.
func Validate(cfg *Config) []Issue {
	var issues []Issue

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		issues = append(issues, Issue{
			Path:    "server.port",
			Message: fmt.Sprintf("port %d out of range 1-65535", cfg.Server.Port),
		})
	}

	switch cfg.Server.Bind {
	case "loopback", "lan", "custom":
	default:
		issues = append(issues, Issue{
			Path:    "server.bind",
			Message: fmt.Sprintf("unknown bind mode %q (expected loopback, lan, or custom)", cfg.Server.Bind),
		})
	}
	if cfg.Server.Bind == "custom" && cfg.Server.CustomBindHost == "" {
		issues = append(issues, Issue{
			Path:    "server.customBindHost",
			Message: "bind mode custom requires customBindHost",
		})
	}

	if cfg.RPC.Ethereum == "" {
		issues = append(issues, Issue{Path: "rpc.ethereum", Message: "ethereum RPC URL is required"})
	}
	if cfg.RPC.Sepolia == "" {
		issues = append(issues, Issue{Path: "rpc.sepolia", Message: "sepolia RPC URL is required"})
	}
	if cfg.Gemini.Model == "" {
		issues = append(issues, Issue{Path: "gemini.model", Message: "gemini model is required"})
	}
	if cfg.CowSwap.TokenListURL == "" {
		issues = append(issues, Issue{Path: "cowswap.tokenListUrl", Message: "token list URL is required"})
	}
	if cfg.TokenStore.Path == "" {
		issues = append(issues, Issue{Path: "tokenStore.path", Message: "token store path is required"})
	}

	return issues
}
