package domain

import "strings"

// Chain ids for the two supported networks.
const (
	MainnetChainID int64 = 1
	SepoliaChainID int64 = 11155111
)

// Network tags used in agent actions.
const (
	NetworkEthereum = "ethereum"
	NetworkSepolia  = "sepolia"
)

// NativeTokenAddress is the reserved placeholder the order-book protocol
// uses for the chain's native asset (Eth-flow).
const NativeTokenAddress = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// wrappedNative maps a network tag to its canonical wrapped-native contract.
var wrappedNative = map[string]string{
	NetworkEthereum: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
	NetworkSepolia:  "0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14",
}

// SupportedNetwork reports whether the network tag is one the backend trades on.
func SupportedNetwork(network string) bool {
	return network == NetworkEthereum || network == NetworkSepolia
}

// ChainIDForNetwork maps a network tag to its chain id. Anything that is
// not the test network resolves to mainnet; this is a fixed two-way
// mapping, not a general registry.
func ChainIDForNetwork(network string) int64 {
	if network == NetworkSepolia {
		return SepoliaChainID
	}
	return MainnetChainID
}

// NetworkForChainID is the inverse mapping used when defaulting an
// action's network from the wallet context.
func NetworkForChainID(chainID int64) string {
	if chainID == SepoliaChainID {
		return NetworkSepolia
	}
	return NetworkEthereum
}

// NetworkName returns a display name for the system-context prompt.
// Unlike NetworkForChainID it does not default unknown chains to mainnet.
func NetworkName(chainID int64) string {
	switch chainID {
	case MainnetChainID:
		return NetworkEthereum
	case SepoliaChainID:
		return NetworkSepolia
	default:
		return "unknown"
	}
}

// IsNativeAsset reports whether addr is the native-asset placeholder.
func IsNativeAsset(addr string) bool {
	return strings.EqualFold(addr, NativeTokenAddress)
}

// WrappedNativeAddress returns the wrapped-native contract for a network,
// or empty string for unknown networks.
func WrappedNativeAddress(network string) string {
	return wrappedNative[network]
}

// IsWrappedNative reports whether addr is the network's wrapped-native contract.
func IsWrappedNative(addr, network string) bool {
	w := wrappedNative[network]
	return w != "" && strings.EqualFold(addr, w)
}

// ChainInfo describes a supported chain for the /api/chains endpoint.
type ChainInfo struct {
	ChainID int64  `json:"chainId"`
	Name    string `json:"name"`
	Network string `json:"network"`
}

// SupportedChains lists the chains the backend can quote on.
func SupportedChains() []ChainInfo {
	return []ChainInfo{
		{ChainID: MainnetChainID, Name: "Ethereum", Network: NetworkEthereum},
		{ChainID: SepoliaChainID, Name: "Sepolia", Network: NetworkSepolia},
	}
}
