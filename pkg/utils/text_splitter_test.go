package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short", 100, 10)
	if len(chunks) != 1 || chunks[0] != "short" {
		t.Errorf("expected single passthrough chunk, got %v", chunks)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 chars
	chunks := SplitText(text, 40, 10)

	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	// Each chunk starts step=30 chars after the previous one, so the last 10
	// chars of chunk N reappear at the head of chunk N+1.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-10:]
		if !strings.HasPrefix(chunks[i], tail) {
			t.Errorf("chunk %d does not overlap its predecessor", i)
		}
	}
}

func TestSplitTextCoversAllContent(t *testing.T) {
	text := strings.Repeat("x", 95)
	chunks := SplitText(text, 40, 10)

	var total int
	for _, c := range chunks {
		total += len(c)
	}
	if total < len(text) {
		t.Errorf("chunks cover %d chars, input has %d", total, len(text))
	}
	last := chunks[len(chunks)-1]
	if !strings.HasSuffix(text, last) {
		t.Error("last chunk does not end at the input's end")
	}
}

func TestSplitTextOverlapGreaterThanChunk(t *testing.T) {
	// Degenerate config must still terminate and cover the input.
	chunks := SplitText(strings.Repeat("y", 50), 10, 15)
	if len(chunks) != 5 {
		t.Errorf("expected 5 non-overlapping chunks under fallback step, got %d", len(chunks))
	}
}
