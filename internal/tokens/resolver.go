package tokens

import (
	"regexp"
	"strings"

	"github.com/alphaswap/alphaswap/internal/domain"
)

// addressPattern is the strict ERC-20 address shape: 0x plus exactly
// forty hex digits, case-insensitive.
var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidAddress reports whether s is a well-formed 20-byte hex address.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// builtinAddresses is the fallback symbol table used when the token store
// has no match. ETH maps to the native-asset placeholder on both networks.
var builtinAddresses = map[string]map[string]string{
	"ETH": {
		domain.NetworkEthereum: domain.NativeTokenAddress,
		domain.NetworkSepolia:  domain.NativeTokenAddress,
	},
	"WETH": {
		domain.NetworkEthereum: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		domain.NetworkSepolia:  "0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14",
	},
	"USDC": {
		domain.NetworkEthereum: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		domain.NetworkSepolia:  "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238",
	},
	"DAI": {
		domain.NetworkEthereum: "0x6B175474E89094C44Da98b954EedeAC495271d0F",
		domain.NetworkSepolia:  "0x3e622317f8C93f7328350cF0B56d9eD4C620C5d6",
	},
}

// Resolver maps user-supplied token identifiers (symbols or addresses)
// to contract addresses for a network.
type Resolver struct {
	provider *Provider
}

// NewResolver creates a resolver over the given provider.
func NewResolver(provider *Provider) *Resolver {
	return &Resolver{provider: provider}
}

// ResolveAddress resolves identifier to a contract address on network.
// Resolution order: already-an-address passthrough, case-insensitive
// symbol lookup in the token store (first match wins), built-in symbol
// table. Unresolvable identifiers are returned unchanged so the address
// format check downstream produces the user-facing error.
func (r *Resolver) ResolveAddress(identifier, network string) string {
	if IsValidAddress(identifier) {
		return identifier
	}

	chainID := domain.ChainIDForNetwork(network)
	if tok := domain.FindBySymbol(r.provider.Tokens(chainID), identifier); tok != nil {
		return tok.Address
	}

	if byNetwork, ok := builtinAddresses[strings.ToUpper(identifier)]; ok {
		if addr, ok := byNetwork[network]; ok {
			return addr
		}
	}
	return identifier
}
