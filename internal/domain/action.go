package domain

// ActionType tags the structured action the agent extracted from a chat turn.
type ActionType string

const (
	ActionNone                 ActionType = "NO_ACTION"
	ActionRequestWalletConnect ActionType = "REQUEST_WALLET_CONNECT"
	ActionGetQuote             ActionType = "GET_QUOTE"
	ActionSubmitOrder          ActionType = "SUBMIT_ORDER"
	ActionRequestAllowance     ActionType = "REQUEST_ALLOWANCE"
	ActionCheckBalance         ActionType = "CHECK_BALANCE"
	ActionWrap                 ActionType = "WRAP"
)

// AgentAction is the tagged variant produced by the intent parser.
// Which fields are meaningful depends on Type; ValidateAction in the
// agent package enforces the per-type required sets.
type AgentAction struct {
	Type      ActionType `json:"type"`
	Network   string     `json:"network,omitempty"`
	SellToken string     `json:"sellToken,omitempty"`
	BuyToken  string     `json:"buyToken,omitempty"`
	// AmountType is "sell" or "buy": whether Amount is the exact input
	// or the desired output.
	AmountType string `json:"amountType,omitempty"`
	Amount     string `json:"amount,omitempty"`
	QuoteID    string `json:"quoteId,omitempty"`

	// Balance checks carry either a single Token or a Tokens list. When
	// both are present, Tokens is authoritative.
	Token  string   `json:"token,omitempty"`
	Tokens []string `json:"tokens,omitempty"`

	// Wrap/unwrap fields, set when a GET_QUOTE turns out to be a 1:1
	// native <-> wrapped conversion.
	WrapType   string `json:"wrapType,omitempty"`
	WrapAmount string `json:"wrapAmount,omitempty"`
}

// BalanceTokens normalizes Token/Tokens into one list, preferring Tokens
// when both are set.
func (a *AgentAction) BalanceTokens() []string {
	if len(a.Tokens) > 0 {
		return a.Tokens
	}
	if a.Token != "" {
		return []string{a.Token}
	}
	return nil
}
