package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/devlogai/devlog-backend/internal/clients/openai"
	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/types"
)

// fakeAIClient satisfies openai.Client and counts calls so tests can assert
// that caches and preconditions short-circuit the external boundary.
type fakeAIClient struct {
	textFn   func(system, user string) (string, error)
	jsonFn   func(system, user, schemaName string) (string, error)
	streamFn func(system string, history []openai.ChatMessage, user string, onDelta func(string)) (string, error)

	textCalls   int
	jsonCalls   int
	streamCalls int
}

func (f *fakeAIClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.textCalls++
	if f.textFn == nil {
		return "", errors.New("unexpected GenerateText call")
	}
	return f.textFn(system, user)
}

func (f *fakeAIClient) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (json.RawMessage, error) {
	f.jsonCalls++
	if f.jsonFn == nil {
		return nil, errors.New("unexpected GenerateJSON call")
	}
	out, err := f.jsonFn(system, user, schemaName)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(out), nil
}

func (f *fakeAIClient) StreamChat(ctx context.Context, system string, history []openai.ChatMessage, user string, onDelta func(string)) (string, error) {
	f.streamCalls++
	if f.streamFn == nil {
		return "", errors.New("unexpected StreamChat call")
	}
	return f.streamFn(system, history, user, onDelta)
}

func (f *fakeAIClient) totalCalls() int {
	return f.textCalls + f.jsonCalls + f.streamCalls
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New failed: %v", err)
	}
	return log
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.UserProfile{}, &types.Roadmap{}, &types.ChatSession{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return gdb
}

func testProfile() *types.UserProfile {
	return &types.UserProfile{
		Name:  "Ada",
		Role:  types.RoleBackend,
		Level: types.LevelMid,
		Goal:  "Learn distributed systems",
	}
}
