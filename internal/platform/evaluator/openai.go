// Package evaluator talks to the external judgment service, an
// OpenAI-compatible chat completion endpoint that scores a code submission
// against a task description and replies with structured JSON.
package evaluator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"codequiz/internal/domain/model"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const systemPrompt = "Decide how well the written code (in python) fulfills the listed task. " +
	"Provide a score out of 10 and a comment explaining the evaluation and providing improvement advice."

type Client struct {
	api   *openai.Client
	model string
}

func NewClient(apiKey, baseURL, chatModel string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: chatModel,
	}
}

// Evaluate submits the task description and the (already normalized) user
// code for judgment. The score comes back as the remote model produced it;
// callers decide what to do with out-of-range values.
func (c *Client) Evaluate(ctx context.Context, description, userCode string) (*model.Evaluation, error) {
	schema, err := jsonschema.GenerateSchemaForType(model.Evaluation{})
	if err != nil {
		return nil, fmt.Errorf("evaluator.Client.Evaluate schema: %w", err)
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Task Description: %s User Answer: %s", description, userCode),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "evaluation",
				Schema: schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("evaluator.Client.Evaluate request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("evaluator.Client.Evaluate: response contains no choices")
	}

	evaluation := &model.Evaluation{}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), evaluation); err != nil {
		return nil, fmt.Errorf("evaluator.Client.Evaluate decode: %w", err)
	}
	return evaluation, nil
}
