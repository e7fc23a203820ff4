package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/daily-briefer/internal/core"
	"github.com/mikey/daily-briefer/internal/utils"
)

// OpenAIClient is an implementation of the NarrativeClient interface using OpenAI
type OpenAIClient struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxInputSize  int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewOpenAIClient creates a new OpenAI narrative client
func NewOpenAIClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxInputSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClient {
	client := openai.NewClient(apiKey)

	return &OpenAIClient{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxInputSize:  maxInputSize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Generate produces narrative text for one briefing stage
func (c *OpenAIClient) Generate(ctx context.Context, profile core.StageProfile, input string) (string, error) {
	processedInput := c.textProcessor.ProcessText(input, c.maxInputSize)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(profile),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt(profile, processedInput),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	c.logger.Debug("Narrative stage generated",
		zap.String("role", profile.Role),
		zap.String("model", c.modelName),
		zap.String("processing_id", resp.ID))

	return resp.Choices[0].Message.Content, nil
}

func systemPrompt(profile core.StageProfile) string {
	return fmt.Sprintf("You are %s. %s", profile.Role, profile.Context)
}

func userPrompt(profile core.StageProfile, input string) string {
	return fmt.Sprintf("%s\n\nInput:\n%s", profile.Goal, input)
}

var _ core.NarrativeClient = (*OpenAIClient)(nil)
