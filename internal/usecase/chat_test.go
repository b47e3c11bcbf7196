package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

type stubInvoker struct {
	tool   string
	args   map[string]any
	result map[string]any
	err    error
}

func (s *stubInvoker) InvokeTool(_ context.Context, tool string, args map[string]any) (map[string]any, error) {
	s.tool = tool
	s.args = args
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestChatSendForwardsMessageAsQuery(t *testing.T) {
	invoker := &stubInvoker{result: map[string]any{"advice": "rest"}}
	svc := NewChatService(invoker, zaptest.NewLogger(t))

	result, err := svc.Send(context.Background(), "user-1", "headache since morning", nil)
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if invoker.tool != "triageSymptoms" {
		t.Fatalf("unexpected tool %s", invoker.tool)
	}
	if invoker.args["query"] != "headache since morning" {
		t.Fatalf("expected message forwarded as query, got %+v", invoker.args)
	}
	if result["advice"] != "rest" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestChatSendKeepsExplicitQuery(t *testing.T) {
	invoker := &stubInvoker{result: map[string]any{}}
	svc := NewChatService(invoker, zaptest.NewLogger(t))

	if _, err := svc.Send(context.Background(), "user-1", "ignored", map[string]any{"query": "explicit"}); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if invoker.args["query"] != "explicit" {
		t.Fatalf("expected explicit query preserved, got %+v", invoker.args)
	}
}

func TestChatSendPropagatesFailure(t *testing.T) {
	invoker := &stubInvoker{err: errors.New("upstream unavailable")}
	svc := NewChatService(invoker, zaptest.NewLogger(t))

	if _, err := svc.Send(context.Background(), "user-1", "hello", nil); err == nil {
		t.Fatalf("expected error from failed invocation")
	}
}
