package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devlogai/devlog-backend/internal/clients/openai"
	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/repos"
	"github.com/devlogai/devlog-backend/internal/types"
)

// sessionTitleLimit is the character budget for a title derived from the
// first user message.
const sessionTitleLimit = 30

// SessionService drives the roadmap-independent conversation mode. One
// session is current at a time, created lazily on the first message.
type SessionService interface {
	Current(ctx context.Context) (*types.ChatSession, error)
	Ensure(ctx context.Context) (*types.ChatSession, error)
	SetIncludeErrors(ctx context.Context, include bool) (*types.ChatSession, error)

	// RecordTurn stores the full transcript after a completed model turn and
	// derives the title from the first user message.
	RecordTurn(ctx context.Context, messages []types.Message) (*types.ChatSession, error)

	// GeneratePage turns the session transcript into a standalone HTML page
	// and caches it on the session.
	GeneratePage(ctx context.Context) (string, error)
}

type sessionService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.SessionRepo
	aiClient    openai.Client
}

func NewSessionService(db *gorm.DB, log *logger.Logger, sessionRepo repos.SessionRepo, aiClient openai.Client) SessionService {
	return &sessionService{
		db:          db,
		log:         log.With("service", "SessionService"),
		sessionRepo: sessionRepo,
		aiClient:    aiClient,
	}
}

// DeriveSessionTitle returns the first user message verbatim when it fits the
// budget, otherwise the first 30 characters plus an ellipsis.
func DeriveSessionTitle(firstUserMessage string) string {
	runes := []rune(firstUserMessage)
	if len(runes) <= sessionTitleLimit {
		return firstUserMessage
	}
	return string(runes[:sessionTitleLimit]) + "..."
}

func (ss *sessionService) Current(ctx context.Context) (*types.ChatSession, error) {
	return ss.sessionRepo.GetLatest(ctx, nil)
}

func (ss *sessionService) Ensure(ctx context.Context) (*types.ChatSession, error) {
	session, err := ss.sessionRepo.GetLatest(ctx, nil)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}
	session = &types.ChatSession{
		ID:    uuid.New(),
		Title: "New Session",
	}
	if err := session.SetHistory(nil); err != nil {
		return nil, err
	}
	created, err := ss.sessionRepo.Create(ctx, nil, session)
	if err != nil {
		return nil, err
	}
	ss.log.Info("Session created", "session_id", created.ID)
	return created, nil
}

func (ss *sessionService) SetIncludeErrors(ctx context.Context, include bool) (*types.ChatSession, error) {
	session, err := ss.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	session.IncludeErrors = include
	if err := ss.sessionRepo.Update(ctx, nil, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (ss *sessionService) RecordTurn(ctx context.Context, messages []types.Message) (*types.ChatSession, error) {
	session, err := ss.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	if session.Title == "" || session.Title == "New Session" {
		for _, m := range messages {
			if m.Role == types.MessageRoleUser {
				session.Title = DeriveSessionTitle(m.Text)
				break
			}
		}
	}
	if err := session.SetHistory(messages); err != nil {
		return nil, err
	}
	if err := ss.sessionRepo.Update(ctx, nil, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (ss *sessionService) GeneratePage(ctx context.Context) (string, error) {
	session, err := ss.sessionRepo.GetLatest(ctx, nil)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", ErrChatNotStarted
	}
	history, err := session.History()
	if err != nil {
		return "", err
	}

	system, user := sessionPagePrompt(clampText(transcriptText(history), summaryContextLimit), session.IncludeErrors)
	raw, err := ss.aiClient.GenerateText(ctx, system, user)
	if err != nil {
		return "", err
	}
	html := StripCodeFence(raw)

	session.GeneratedHTML = html
	if err := ss.sessionRepo.Update(ctx, nil, session); err != nil {
		return "", err
	}
	return html, nil
}
