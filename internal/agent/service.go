// Package agent turns chat conversations into swap actions: the service
// drives the model, the parser extracts the structured action, the
// validator checks it, and the dispatcher executes it.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/alphaswap/alphaswap/internal/domain"
	"github.com/alphaswap/alphaswap/internal/llm"
	"github.com/alphaswap/alphaswap/internal/logging"
	"github.com/alphaswap/alphaswap/internal/tokens"
)

// ErrNoMessages is returned when a conversation is empty.
var ErrNoMessages = errors.New("messages array is required")

// Service produces an assistant reply and a structured action from a
// conversation.
type Service struct {
	llm      llm.Client
	provider *tokens.Provider
	log      *logging.Logger
}

// NewService creates an agent service over the given model client.
func NewService(client llm.Client, provider *tokens.Provider, log *logging.Logger) *Service {
	return &Service{llm: client, provider: provider, log: log.Sub("agent")}
}

// ProcessMessage sends the conversation to the model and parses the reply.
// The session state (wallet, network, token universe) is injected as a
// priming exchange ahead of the history. When the model omits the network
// on an action, the wallet's current network fills it in.
func (s *Service) ProcessMessage(ctx context.Context, messages []domain.Message, walletCtx *domain.WalletContext) (string, domain.AgentAction, error) {
	if len(messages) == 0 {
		return "", domain.AgentAction{}, ErrNoMessages
	}

	chainID := domain.MainnetChainID
	if walletCtx != nil && walletCtx.CurrentNetwork != 0 {
		chainID = walletCtx.CurrentNetwork
	}
	available := s.provider.Tokens(chainID)

	turns := make([]llm.Message, 0, len(messages)+2)
	turns = append(turns,
		llm.Message{Role: llm.RoleUser, Content: buildSystemContext(walletCtx, available)},
		llm.Message{Role: llm.RoleModel, Content: primingReply},
	)
	for _, msg := range messages {
		role := llm.RoleUser
		if msg.Role != domain.RoleUser {
			role = llm.RoleModel
		}
		turns = append(turns, llm.Message{Role: role, Content: msg.Content})
	}

	resp, err := s.llm.Complete(ctx, llm.CompletionRequest{Messages: turns})
	if err != nil {
		return "", domain.AgentAction{}, fmt.Errorf("failed to process message: %w", err)
	}

	message, action := ParseCompletion(resp.Content)
	s.log.Debug().Str("actionType", string(action.Type)).Msg("parsed model action")

	if action.Type != domain.ActionNone && action.Network == "" && walletCtx != nil && walletCtx.CurrentNetwork != 0 {
		action.Network = domain.NetworkForChainID(walletCtx.CurrentNetwork)
	}

	return message, action, nil
}
