package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/devlogai/devlog-backend/internal/clients/openai"
	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/types"
)

// ChatContext is the explicit handle for one live conversational context.
// Exactly one context is live at a time; starting a new one supersedes the
// previous handle, and sends against a superseded handle are rejected instead
// of writing orphaned output into a history the user has left.
type ChatContext struct {
	ID      uuid.UUID
	Topic   string // empty for the general mentor context
	system  string
	history []types.Message
}

type TutorService interface {
	StartMentorChat(history []types.Message, profile *types.UserProfile) (*ChatContext, error)
	StartTopicChat(history []types.Message, topic string, profile *types.UserProfile) (*ChatContext, error)

	// Send streams one model turn. onDelta receives every text fragment as it
	// arrives; the returned string is the full reply, already appended (with
	// the user message) to the handle's history. Cancelling ctx stops the
	// stream between fragments.
	Send(ctx context.Context, handle *ChatContext, text string, onDelta func(delta string)) (string, error)
}

type tutorService struct {
	log      *logger.Logger
	aiClient openai.Client

	mu      sync.Mutex
	current *ChatContext
}

func NewTutorService(log *logger.Logger, aiClient openai.Client) TutorService {
	return &tutorService{
		log:      log.With("service", "TutorService"),
		aiClient: aiClient,
	}
}

func (ts *tutorService) StartMentorChat(history []types.Message, profile *types.UserProfile) (*ChatContext, error) {
	if profile == nil {
		return nil, ErrNoProfile
	}
	return ts.start(history, "", mentorSystemPrompt(profile)), nil
}

func (ts *tutorService) StartTopicChat(history []types.Message, topic string, profile *types.UserProfile) (*ChatContext, error) {
	if profile == nil {
		return nil, ErrNoProfile
	}
	return ts.start(history, topic, topicTutorSystemPrompt(topic, profile)), nil
}

func (ts *tutorService) start(history []types.Message, topic, system string) *ChatContext {
	cc := &ChatContext{
		ID:      uuid.New(),
		Topic:   topic,
		system:  system,
		history: append([]types.Message(nil), history...),
	}

	ts.mu.Lock()
	ts.current = cc
	ts.mu.Unlock()

	ts.log.Debug("Chat context started", "context_id", cc.ID, "topic", topic, "history_len", len(history))
	return cc
}

func (ts *tutorService) Send(ctx context.Context, handle *ChatContext, text string, onDelta func(delta string)) (string, error) {
	if handle == nil {
		return "", ErrChatNotStarted
	}

	ts.mu.Lock()
	current := ts.current
	ts.mu.Unlock()
	if current == nil {
		return "", ErrChatNotStarted
	}
	if current.ID != handle.ID {
		return "", ErrStaleChatContext
	}

	wire := make([]openai.ChatMessage, 0, len(handle.history))
	for _, m := range handle.history {
		role := "user"
		if m.Role == types.MessageRoleModel {
			role = "assistant"
		}
		wire = append(wire, openai.ChatMessage{Role: role, Content: m.Text})
	}

	reply, err := ts.aiClient.StreamChat(ctx, handle.system, wire, text, onDelta)
	if err != nil {
		return "", err
	}

	now := nowMillis()
	handle.history = append(handle.history,
		types.Message{Role: types.MessageRoleUser, Text: text, Timestamp: now},
		types.Message{Role: types.MessageRoleModel, Text: reply, Timestamp: nowMillis()},
	)
	return reply, nil
}

// History returns the accumulated transcript for writing back to the node or
// session that owns this context.
func (cc *ChatContext) History() []types.Message {
	return append([]types.Message(nil), cc.history...)
}
