package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/clipdeck/internal/core/services"
)

const classifyPrompt = `You are a content reviewer for an educational short-video platform. You will receive the transcript of a video. Decide whether the video teaches something: a concept, a skill, a fact, a how-to. Entertainment, promotion and small talk are not educational.
Answer with a single JSON object, no other text: {"educational": true or false, "reason": "one short sentence"}`

// Classifier asks an OpenAI-compatible chat endpoint whether a transcript is
// educational content.
type Classifier struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
}

func NewClassifier(baseURL, apiKey, model string, rps float64) *Classifier {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4
	}
	if rps <= 0 {
		rps = 2
	}
	return &Classifier{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type verdict struct {
	Educational bool   `json:"educational"`
	Reason      string `json:"reason"`
}

func (c *Classifier) Classify(ctx context.Context, transcript string) (*services.Classification, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: classifyPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: transcript,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("classification response had no choices")
	}

	content := stripFences(resp.Choices[len(resp.Choices)-1].Message.Content)
	var v verdict
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return nil, fmt.Errorf("parsing classification verdict %q: %w", content, err)
	}
	return &services.Classification{Educational: v.Educational, Reason: v.Reason}, nil
}

// stripFences unwraps the markdown code block chat models like to add even
// when told not to.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
