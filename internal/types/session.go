package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatSession is the roadmap-independent conversation mode. One session is
// current at a time; it is created lazily on the first message.
type ChatSession struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	Messages      datatypes.JSON `gorm:"column:messages" json:"messages"`
	IncludeErrors bool           `gorm:"column:include_errors;not null;default:false" json:"include_errors"`
	GeneratedHTML string         `gorm:"column:generated_html" json:"generated_html,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (ChatSession) TableName() string { return "chat_session" }

func (s *ChatSession) History() ([]Message, error) {
	if len(s.Messages) == 0 {
		return nil, nil
	}
	var msgs []Message
	if err := json.Unmarshal(s.Messages, &msgs); err != nil {
		return nil, fmt.Errorf("decode session %s messages: %w", s.ID, err)
	}
	return msgs, nil
}

func (s *ChatSession) SetHistory(msgs []Message) error {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode session messages: %w", err)
	}
	s.Messages = datatypes.JSON(raw)
	return nil
}
