// Package chain reads on-chain state over JSON-RPC. It is strictly
// read-only; signing and submission happen in the user's wallet.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/alphaswap/alphaswap/internal/logging"
)

// Minimal ERC-20 read surface.
const erc20ReadABI = `[
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"}
]`

// TokenBalance is an ERC-20 balance with the token metadata needed to
// render it.
type TokenBalance struct {
	Amount   *big.Int
	Decimals int
	Symbol   string
}

// BalanceReader reads native and ERC-20 balances from one network's RPC
// endpoint. Connections are dialed per call and closed before returning.
type BalanceReader struct {
	rpcURL string
	abi    abi.ABI
	log    *logging.Logger
}

// NewBalanceReader creates a reader for the given RPC endpoint.
func NewBalanceReader(rpcURL string, log *logging.Logger) (*BalanceReader, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ReadABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC-20 ABI: %w", err)
	}
	return &BalanceReader{rpcURL: rpcURL, abi: parsed, log: log.Sub("chain")}, nil
}

// NativeBalance returns the native-asset balance of addr in wei.
func (r *BalanceReader) NativeBalance(ctx context.Context, addr string) (*big.Int, error) {
	if !common.IsHexAddress(addr) {
		return nil, fmt.Errorf("invalid address: %s", addr)
	}
	client, err := ethclient.DialContext(ctx, r.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}
	defer client.Close()

	balance, err := client.BalanceAt(ctx, common.HexToAddress(addr), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// TokenBalance returns holder's balance of the given ERC-20 token along
// with the token's decimals and symbol.
func (r *BalanceReader) TokenBalance(ctx context.Context, token, holder string) (*TokenBalance, error) {
	if !common.IsHexAddress(token) {
		return nil, fmt.Errorf("invalid token address: %s", token)
	}
	if !common.IsHexAddress(holder) {
		return nil, fmt.Errorf("invalid holder address: %s", holder)
	}
	client, err := ethclient.DialContext(ctx, r.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}
	defer client.Close()

	tokenAddr := common.HexToAddress(token)

	var amount *big.Int
	if err := r.call(ctx, client, tokenAddr, "balanceOf", &amount, common.HexToAddress(holder)); err != nil {
		return nil, err
	}

	var decimals uint8
	if err := r.call(ctx, client, tokenAddr, "decimals", &decimals); err != nil {
		return nil, err
	}

	var symbol string
	if err := r.call(ctx, client, tokenAddr, "symbol", &symbol); err != nil {
		// Not every token implements symbol; fall back to the address.
		r.log.Warn().Err(err).Str("token", token).Msg("symbol call failed")
		symbol = token
	}

	return &TokenBalance{Amount: amount, Decimals: int(decimals), Symbol: symbol}, nil
}

// call packs a read method, executes eth_call and unpacks the single
// return value into out (a pointer).
func (r *BalanceReader) call(ctx context.Context, client *ethclient.Client, contract common.Address, method string, out interface{}, args ...interface{}) error {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s: %w", method, err)
	}
	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	if err := r.abi.UnpackIntoInterface(out, method, result); err != nil {
		return fmt.Errorf("failed to unpack %s result: %w", method, err)
	}
	return nil
}
