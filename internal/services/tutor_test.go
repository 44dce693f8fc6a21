package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/devlogai/devlog-backend/internal/clients/openai"
	"github.com/devlogai/devlog-backend/internal/types"
)

func streamingFake(chunks ...string) *fakeAIClient {
	return &fakeAIClient{
		streamFn: func(system string, history []openai.ChatMessage, user string, onDelta func(string)) (string, error) {
			var b strings.Builder
			for _, chunk := range chunks {
				onDelta(chunk)
				b.WriteString(chunk)
			}
			return b.String(), nil
		},
	}
}

func TestTutorSend_AccumulatesChunksAsPrefixExtensions(t *testing.T) {
	ai := streamingFake("Hel", "lo, ", "world")
	svc := NewTutorService(testLogger(t), ai)

	handle, err := svc.StartMentorChat(nil, testProfile())
	if err != nil {
		t.Fatalf("StartMentorChat failed: %v", err)
	}

	var partial string
	reply, err := svc.Send(context.Background(), handle, "hi", func(delta string) {
		next := partial + delta
		if !strings.HasPrefix(next, partial) {
			t.Fatalf("partial %q is not a prefix of %q", partial, next)
		}
		partial = next
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply != "Hello, world" {
		t.Fatalf("reply = %q, want accumulated chunks", reply)
	}
	if partial != reply {
		t.Fatalf("final partial %q != reply %q", partial, reply)
	}

	history := handle.History()
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want user+model turn", len(history))
	}
	if history[0].Role != types.MessageRoleUser || history[0].Text != "hi" {
		t.Fatalf("history[0] = %+v", history[0])
	}
	if history[1].Role != types.MessageRoleModel || history[1].Text != "Hello, world" {
		t.Fatalf("history[1] = %+v", history[1])
	}
}

func TestTutorSend_RequiresStartedContext(t *testing.T) {
	ai := &fakeAIClient{}
	svc := NewTutorService(testLogger(t), ai)

	if _, err := svc.Send(context.Background(), nil, "hi", func(string) {}); !errors.Is(err, ErrChatNotStarted) {
		t.Fatalf("Send(nil handle) = %v, want ErrChatNotStarted", err)
	}
	if ai.totalCalls() != 0 {
		t.Fatalf("model called %d times without a context", ai.totalCalls())
	}
}

func TestTutorSend_RejectsSupersededHandle(t *testing.T) {
	ai := streamingFake("ok")
	svc := NewTutorService(testLogger(t), ai)

	stale, err := svc.StartTopicChat(nil, "Goroutines", testProfile())
	if err != nil {
		t.Fatalf("StartTopicChat failed: %v", err)
	}
	fresh, err := svc.StartTopicChat(nil, "Channels", testProfile())
	if err != nil {
		t.Fatalf("second StartTopicChat failed: %v", err)
	}

	if _, err := svc.Send(context.Background(), stale, "hi", func(string) {}); !errors.Is(err, ErrStaleChatContext) {
		t.Fatalf("Send(stale) = %v, want ErrStaleChatContext", err)
	}
	if ai.streamCalls != 0 {
		t.Fatalf("stale handle reached the model (%d calls)", ai.streamCalls)
	}

	if _, err := svc.Send(context.Background(), fresh, "hi", func(string) {}); err != nil {
		t.Fatalf("Send(fresh) failed: %v", err)
	}
}

func TestTutorSend_SeedsHistoryAndMapsRoles(t *testing.T) {
	var gotHistory []openai.ChatMessage
	var gotSystem string
	ai := &fakeAIClient{
		streamFn: func(system string, history []openai.ChatMessage, user string, onDelta func(string)) (string, error) {
			gotSystem = system
			gotHistory = history
			onDelta("reply")
			return "reply", nil
		},
	}
	svc := NewTutorService(testLogger(t), ai)

	seed := []types.Message{
		{Role: types.MessageRoleUser, Text: "earlier question", Timestamp: 1},
		{Role: types.MessageRoleModel, Text: "earlier answer", Timestamp: 2},
	}
	handle, err := svc.StartTopicChat(seed, "Select", testProfile())
	if err != nil {
		t.Fatalf("StartTopicChat failed: %v", err)
	}
	if _, err := svc.Send(context.Background(), handle, "next", func(string) {}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if !strings.Contains(gotSystem, "Select") {
		t.Fatalf("system prompt missing topic: %q", gotSystem)
	}
	if len(gotHistory) != 2 {
		t.Fatalf("len(history) = %d, want seeded pair", len(gotHistory))
	}
	if gotHistory[0].Role != "user" || gotHistory[1].Role != "assistant" {
		t.Fatalf("wire roles = %s/%s, want user/assistant", gotHistory[0].Role, gotHistory[1].Role)
	}
}

func TestStartMentorChat_RequiresProfile(t *testing.T) {
	svc := NewTutorService(testLogger(t), &fakeAIClient{})

	if _, err := svc.StartMentorChat(nil, nil); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("StartMentorChat = %v, want ErrNoProfile", err)
	}
	if _, err := svc.StartTopicChat(nil, "T", nil); !errors.Is(err, ErrNoProfile) {
		t.Fatalf("StartTopicChat = %v, want ErrNoProfile", err)
	}
}
