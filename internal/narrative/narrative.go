package narrative

import (
	"context"
	"fmt"

	"token-health-scan/internal/domain"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// Generator turns a finished health report into a short plain-language
// summary. Without an LLM client it falls back to a deterministic
// template.
type Generator struct {
	tracer trace.Tracer
	llm    LLMClient
	model  string
}

func NewGenerator(tracer trace.Tracer, llm LLMClient, model string) *Generator {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Generator{tracer: tracer, llm: llm, model: model}
}

func (g *Generator) Narrate(ctx context.Context, report domain.HealthReport) (string, error) {
	ctx, span := g.tracer.Start(ctx, "narrative.narrate")
	defer span.End()
	span.SetAttributes(
		attribute.String("token.address", report.Address),
		attribute.Int("report.overall", report.Overall),
	)

	if g.llm == nil {
		return TemplateSummary(report), nil
	}

	completion, err := g.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(analystBrief),
			openai.UserMessage(FormatReportContext(report)),
		},
	})
	if err != nil {
		span.RecordError(err)
		return TemplateSummary(report), nil
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}
	return completion.Choices[0].Message.Content, nil
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
