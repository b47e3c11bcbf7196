package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// defaultTriageTool is the tool invoked for free-text chat messages.
const defaultTriageTool = "triageSymptoms"

// ToolInvoker forwards a tool invocation to the upstream tool service.
type ToolInvoker interface {
	InvokeTool(ctx context.Context, tool string, args map[string]any) (map[string]any, error)
}

// ChatService proxies chat messages to the triage tool.
type ChatService struct {
	invoker ToolInvoker
	logger  *zap.Logger
}

// NewChatService constructs a ChatService instance.
func NewChatService(invoker ToolInvoker, log *zap.Logger) *ChatService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatService{invoker: invoker, logger: log}
}

// Send forwards the message to the triage tool. A free-text message is passed
// as the "query" argument unless the caller already supplied one.
func (s *ChatService) Send(ctx context.Context, userID, message string, args map[string]any) (map[string]any, error) {
	if s.invoker == nil {
		return nil, fmt.Errorf("tool invoker not configured")
	}

	if args == nil {
		args = map[string]any{}
	}
	if message != "" {
		if _, ok := args["query"]; !ok {
			args["query"] = message
		}
	}

	result, err := s.invoker.InvokeTool(ctx, defaultTriageTool, args)
	if err != nil {
		s.logger.Warn("tool invocation failed",
			zap.String("user_id", userID),
			zap.String("tool", defaultTriageTool),
			zap.Error(err))
		return nil, fmt.Errorf("invoke tool: %w", err)
	}

	return result, nil
}
