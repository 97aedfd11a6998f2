package ingest

import (
	"context"
	"fmt"
	"strings"

	"support-chat-be/pkg/llm"
)

const (
	documentExtractionPrompt = "Extract the text from the attached document and print it in a markdown format."
	imageExtractionPrompt    = "Describe the content of the attached image. If it contains text, extract and print it."
)

// Extractor turns uploaded bytes into plain text suitable for chunking and
// embedding. Plain text passes through untouched; structured text formats
// (html, csv, xml) are normalized to markdown by the language model; binary
// documents need a provider with vision support.
type Extractor struct {
	llmProvider llm.LLMProvider
}

func NewExtractor(llmProvider llm.LLMProvider) *Extractor {
	return &Extractor{llmProvider: llmProvider}
}

func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	switch {
	case mimeType == "text/plain", mimeType == "text/markdown":
		return string(data), nil
	case strings.HasPrefix(mimeType, "text/"):
		return e.extractTextual(ctx, data, mimeType)
	case mimeType == "application/pdf", strings.HasPrefix(mimeType, "image/"):
		return e.extractBinary(ctx, data, mimeType)
	default:
		return "", fmt.Errorf("unsupported MIME type: %s", mimeType)
	}
}

func (e *Extractor) extractTextual(ctx context.Context, data []byte, mimeType string) (string, error) {
	if e.llmProvider == nil {
		// Without a model we still keep the raw text rather than failing
		// the upload.
		return string(data), nil
	}
	prompt := fmt.Sprintf(
		"Extract the text from the following %s content and print it in a markdown format:\n\n%s",
		mimeType, string(data),
	)
	text, err := e.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("extract %s content: %w", mimeType, err)
	}
	return text, nil
}

func (e *Extractor) extractBinary(ctx context.Context, data []byte, mimeType string) (string, error) {
	vision, ok := e.llmProvider.(llm.VisionProvider)
	if !ok {
		return "", fmt.Errorf("extracting %s requires a vision-capable model", mimeType)
	}
	prompt := documentExtractionPrompt
	if strings.HasPrefix(mimeType, "image/") {
		prompt = imageExtractionPrompt
	}
	text, err := vision.ExtractFromFile(ctx, data, mimeType, prompt)
	if err != nil {
		return "", fmt.Errorf("extract %s content: %w", mimeType, err)
	}
	return text, nil
}
