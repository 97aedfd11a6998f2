package agent

import (
	"context"
	"fmt"
	"strings"

	"support-chat-be/internal/entity"
	"support-chat-be/internal/repository/contract"
	"support-chat-be/pkg/embedding"
	"support-chat-be/pkg/llm"
)

const (
	searchLimit      = 5
	maxHistoryLength = 20

	supportSystemPrompt = `You are a customer support agent. You answer on behalf of the organization using only the knowledge provided in the context below. Keep answers concise and helpful. If the context does not contain the answer, say you will escalate the question to a human operator.`

	enhancePrompt = `Enhance the operator's message to be more professional, clear, and helpful while maintaining their intent and key information. Reply with the enhanced message only, no preamble.`
)

// SupportAgent answers end-user messages by retrieving relevant chunks from
// the organization's document index and prompting the model with them.
type SupportAgent struct {
	llmProvider       llm.LLMProvider
	embeddingProvider embedding.EmbeddingProvider
	embeddingRepo     contract.FileEmbeddingRepository
}

func NewSupportAgent(
	llmProvider llm.LLMProvider,
	embeddingProvider embedding.EmbeddingProvider,
	embeddingRepo contract.FileEmbeddingRepository,
) *SupportAgent {
	return &SupportAgent{
		llmProvider:       llmProvider,
		embeddingProvider: embeddingProvider,
		embeddingRepo:     embeddingRepo,
	}
}

// Search embeds the query and returns the closest chunks within the
// organization's namespace.
func (a *SupportAgent) Search(ctx context.Context, namespace, query string) ([]*entity.FileEmbedding, error) {
	resp, err := a.embeddingProvider.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	chunks, err := a.embeddingRepo.Search(ctx, namespace, resp.Embedding.Values, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	return chunks, nil
}

// Reply produces the assistant response for the latest user message, grounded
// on retrieved context. History must be ordered oldest to newest and end with
// the user's message.
func (a *SupportAgent) Reply(ctx context.Context, namespace string, history []*entity.ChatMessage) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("empty history")
	}
	latest := history[len(history)-1]

	chunks, err := a.Search(ctx, namespace, latest.Content)
	if err != nil {
		return "", err
	}

	system := supportSystemPrompt
	if len(chunks) > 0 {
		var sb strings.Builder
		sb.WriteString(system)
		sb.WriteString("\n\nContext:\n")
		for _, chunk := range chunks {
			sb.WriteString("---\n")
			sb.WriteString(chunk.Document)
			sb.WriteString("\n")
		}
		system = sb.String()
	}

	if len(history) > maxHistoryLength {
		history = history[len(history)-maxHistoryLength:]
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	for _, msg := range history {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	reply, err := a.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.7))
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return reply, nil
}

// Enhance rewrites an operator draft into a polished customer-facing message.
func (a *SupportAgent) Enhance(ctx context.Context, draft string) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: enhancePrompt},
		{Role: "user", Content: draft},
	}
	enhanced, err := a.llmProvider.Chat(ctx, messages, llm.WithTemperature(0.3))
	if err != nil {
		return "", fmt.Errorf("enhance response: %w", err)
	}
	return strings.TrimSpace(enhanced), nil
}
