package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/devlogai/devlog-backend/internal/clients/openai"
	"github.com/devlogai/devlog-backend/internal/logger"
	"github.com/devlogai/devlog-backend/internal/types"
)

// ExamService runs one question/answer/grade cycle per node, independent of
// the node's chat transcript. Questions and results are ephemeral: a retry
// resubmits the same question, it is never regenerated.
type ExamService interface {
	StartExam(ctx context.Context, topic string, profile *types.UserProfile) (*types.ExamQuestion, error)

	// Submit grades the answer. A passing verdict immediately completes the
	// node, which unlocks its direct successors.
	Submit(ctx context.Context, nodeID, topic, question, answer string) (*types.ExamResult, error)
}

type examService struct {
	log       *logger.Logger
	aiClient  openai.Client
	workspace WorkspaceService
}

func NewExamService(log *logger.Logger, aiClient openai.Client, workspace WorkspaceService) ExamService {
	return &examService{
		log:       log.With("service", "ExamService"),
		aiClient:  aiClient,
		workspace: workspace,
	}
}

func (es *examService) StartExam(ctx context.Context, topic string, profile *types.UserProfile) (*types.ExamQuestion, error) {
	if profile == nil {
		return nil, ErrNoProfile
	}

	system, user := examPrompt(topic, profile)
	raw, err := es.aiClient.GenerateJSON(ctx, system, user, "exam_question", examSchema())
	if err != nil {
		return nil, fmt.Errorf("exam generation: %w", err)
	}

	var q types.ExamQuestion
	if err := json.Unmarshal([]byte(StripCodeFence(string(raw))), &q); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModelJSON, err)
	}
	if q.Question == "" {
		return nil, fmt.Errorf("%w: empty question", ErrBadModelJSON)
	}
	if _, err := types.ParseExamKind(string(q.Kind)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModelJSON, err)
	}
	return &q, nil
}

func (es *examService) Submit(ctx context.Context, nodeID, topic, question, answer string) (*types.ExamResult, error) {
	system, user := gradeExamPrompt(topic, question, answer)
	raw, err := es.aiClient.GenerateJSON(ctx, system, user, "exam_grade", gradeSchema())
	if err != nil {
		return nil, fmt.Errorf("exam grading: %w", err)
	}

	var result types.ExamResult
	if err := json.Unmarshal([]byte(StripCodeFence(string(raw))), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModelJSON, err)
	}

	if result.Passed {
		if err := es.workspace.SetNodeStatus(nodeID, types.StatusCompleted); err != nil {
			es.log.Error("Passing exam could not complete node", "error", err, "node_id", nodeID)
			return nil, err
		}
		es.log.Info("Exam passed, node completed", "node_id", nodeID, "topic", topic)
	}
	return &result, nil
}
