// Package domain holds the core types shared across the AlphaSwap backend:
// chat messages, agent actions, wallet context, and token metadata.
package domain

// MessageRole identifies who produced a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is a single turn in a conversation. The full history is resent
// by the client on every request; the server keeps no conversation state.
type Message struct {
	Role     MessageRole `json:"role"`
	Content  string      `json:"content"`
	Metadata any         `json:"metadata,omitempty"`
}

// WalletContext describes the caller's wallet state for one request.
// A nil context or empty CurrentAddress means "wallet not connected".
type WalletContext struct {
	CurrentAddress string `json:"currentAddress,omitempty"`
	CurrentNetwork int64  `json:"currentNetwork,omitempty"`
}

// Connected reports whether a wallet address is present.
func (w *WalletContext) Connected() bool {
	return w != nil && w.CurrentAddress != ""
}

// AgentMessageRequest is the body of POST /api/agent/message.
type AgentMessageRequest struct {
	ConversationID string         `json:"conversationId,omitempty"`
	Messages       []Message      `json:"messages"`
	WalletContext  *WalletContext `json:"walletContext,omitempty"`
}

// AgentResponse is the reply to a chat turn. Quote is the enriched quote
// object when the turn produced one; RequiredAction and Action tell the
// client what to do next (connect wallet, sign an order, wrap ETH).
type AgentResponse struct {
	AssistantMessage string       `json:"assistantMessage"`
	ConversationID   string       `json:"conversationId,omitempty"`
	Quote            any          `json:"quote,omitempty"`
	OrderID          string       `json:"orderId,omitempty"`
	RequiredAction   ActionType   `json:"requiredAction,omitempty"`
	Action           *AgentAction `json:"action,omitempty"`
}
