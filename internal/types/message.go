package types

import "fmt"

type MessageRole string

const (
	MessageRoleUser  MessageRole = "user"
	MessageRoleModel MessageRole = "model"
)

func ParseMessageRole(s string) (MessageRole, error) {
	switch MessageRole(s) {
	case MessageRoleUser, MessageRoleModel:
		return MessageRole(s), nil
	}
	return "", fmt.Errorf("unknown message role %q", s)
}

// Message is one turn of a tutoring transcript. Messages are append-only;
// while a model turn is streaming, the final message is rewritten in place
// with progressively longer text.
type Message struct {
	Role      MessageRole `json:"role"`
	Text      string      `json:"text"`
	Timestamp int64       `json:"timestamp"`
}
