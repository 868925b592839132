package agent

import (
	"errors"

	"github.com/alphaswap/alphaswap/internal/domain"
)

// Validation failures surface as chat-level errors, so the messages are
// written for the end user.
var (
	errInvalidNetwork      = errors.New("Invalid or missing network")
	errBadNetwork          = errors.New("Invalid network")
	errMissingTokens       = errors.New("Missing token addresses")
	errMissingAmount       = errors.New("Missing amount or amountType")
	errMissingBalanceToken = errors.New("Missing token or tokens for balance check")
)

// ValidateAction checks the per-type required fields of a parsed action.
// Types with no requirements (NO_ACTION, REQUEST_WALLET_CONNECT,
// REQUEST_ALLOWANCE) always pass.
func ValidateAction(action domain.AgentAction) error {
	switch action.Type {
	case domain.ActionGetQuote:
		if !domain.SupportedNetwork(action.Network) {
			return errInvalidNetwork
		}
		if action.SellToken == "" || action.BuyToken == "" {
			return errMissingTokens
		}
		if action.Amount == "" || action.AmountType == "" {
			return errMissingAmount
		}
	case domain.ActionSubmitOrder:
		// The frontend holds the quote context; only the network needs
		// checking, and only when the model supplied one.
		if action.Network != "" && !domain.SupportedNetwork(action.Network) {
			return errBadNetwork
		}
	case domain.ActionCheckBalance:
		if action.Token == "" && len(action.Tokens) == 0 {
			return errMissingBalanceToken
		}
	}
	return nil
}
