package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"codequiz/internal/common"
	"codequiz/internal/domain/model"
)

// Evaluator is the external judgment boundary. The platform layer provides
// an OpenAI-compatible implementation.
type Evaluator interface {
	Evaluate(ctx context.Context, description, userCode string) (*model.Evaluation, error)
}

type EvaluationService struct {
	evaluator Evaluator
	timeout   time.Duration
	logger    *slog.Logger
}

func NewEvaluationService(evaluator Evaluator, timeout time.Duration, logger *slog.Logger) *EvaluationService {
	return &EvaluationService{evaluator: evaluator, timeout: timeout, logger: logger}
}

// NormalizeSubmission flattens a raw code submission into the escaped
// single-line form the judgment prompt embeds: carriage returns dropped,
// newlines and four-space indents turned into visible escapes.
func NormalizeSubmission(code string) string {
	code = strings.ReplaceAll(code, "\r", "")
	code = strings.ReplaceAll(code, "\n", `\n`)
	code = strings.ReplaceAll(code, "    ", `\t`)
	return code
}

// Evaluate normalizes userCode and sends it out for judgment under the
// configured timeout. The normalized form is returned alongside the verdict
// because the answer page displays it. Scores are passed through as
// received; the prompt asks for 0-10 but the reply is not clamped.
func (s *EvaluationService) Evaluate(ctx context.Context, task *model.Task, userCode string) (*model.Evaluation, string, error) {
	normalized := NormalizeSubmission(userCode)

	evalCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		evalCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	evaluation, err := s.evaluator.Evaluate(evalCtx, task.Description, normalized)
	if err != nil {
		s.logger.Error("evaluation failed", "category", task.CategoryID, "task", task.TaskNumber, "err", err)
		return nil, normalized, fmt.Errorf("evaluation service failed: %w", common.ErrServiceUnavailable)
	}
	return evaluation, normalized, nil
}
