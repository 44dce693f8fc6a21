package types

import "fmt"

type ExamKind string

const (
	ExamKindCode    ExamKind = "code"
	ExamKindConcept ExamKind = "concept"
)

func ParseExamKind(s string) (ExamKind, error) {
	switch ExamKind(s) {
	case ExamKindCode, ExamKindConcept:
		return ExamKind(s), nil
	}
	return "", fmt.Errorf("unknown exam kind %q", s)
}

// ExamQuestion and ExamResult are ephemeral per-attempt artifacts. They are
// never persisted; a failed attempt keeps the question and discards the result.
type ExamQuestion struct {
	Question string   `json:"question"`
	Kind     ExamKind `json:"type"`
}

type ExamResult struct {
	Passed   bool   `json:"passed"`
	Feedback string `json:"feedback"`
}
