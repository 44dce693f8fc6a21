package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/types"
)

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.ChatSession) (*types.ChatSession, error)
	GetLatest(ctx context.Context, tx *gorm.DB) (*types.ChatSession, error)
	Update(ctx context.Context, tx *gorm.DB, session *types.ChatSession) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (sr *sessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.ChatSession) (*types.ChatSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// GetLatest returns nil without error when no session exists yet; the service
// creates one lazily on the first message.
func (sr *sessionRepo) GetLatest(ctx context.Context, tx *gorm.DB) (*types.ChatSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var session types.ChatSession
	err := transaction.WithContext(ctx).Order("created_at DESC").First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (sr *sessionRepo) Update(ctx context.Context, tx *gorm.DB, session *types.ChatSession) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Save(session).Error
}
