package llm

import (
	"context"
	"log/slog"
)

// DefaultAnswerPrompt is the system prompt for answer generation. The model
// is told up front that its output will be fact-checked.
const DefaultAnswerPrompt = `You are a knowledgeable AI assistant focused on accuracy and transparency.

Your guidelines:
- Provide clear, concise, and accurate answers
- State assumptions or uncertainties explicitly
- Avoid speculation when information may be outdated
- Use structured responses when appropriate
- Cite time-sensitive information with approximate dates when relevant
- If you're unsure, say so clearly

Remember: Your answer will be fact-checked. Prioritize accuracy over completeness.`

// AnswerGenerator wraps a Client for the answer-generation step of the
// pipeline. Citations are returned explicitly with the answer rather than
// being cached on the generator, so there is no ordering hazard between
// "generate" and "read citations".
type AnswerGenerator struct {
	client       Client
	systemPrompt string
}

func NewAnswerGenerator(client Client) *AnswerGenerator {
	return &AnswerGenerator{
		client:       client,
		systemPrompt: DefaultAnswerPrompt,
	}
}

// WithSystemPrompt overrides the default generation prompt.
func (g *AnswerGenerator) WithSystemPrompt(prompt string) *AnswerGenerator {
	g.systemPrompt = prompt
	return g
}

// GenerateAnswer produces an answer to the question plus any provider-native
// citation URLs. Errors are transport/auth failures from the backend; there
// is no soft-fail here because an absent answer leaves nothing to verify.
func (g *AnswerGenerator) GenerateAnswer(ctx context.Context, question string) (string, []string, error) {
	temp := float32(0.7)
	maxTokens := 1000
	params := GenerationParams{
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	}

	messages := []Message{
		{Role: "system", Content: g.systemPrompt},
		{Role: "user", Content: question},
	}

	result, err := g.client.Chat(ctx, messages, params)
	if err != nil {
		return "", nil, err
	}
	slog.Debug("Answer generated",
		"answer_chars", len(result.Content),
		"citations", len(result.Citations))
	return result.Content, result.Citations, nil
}
