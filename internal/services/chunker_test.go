package services

import (
	"strings"
	"testing"
)

func TestChunkTextShortInput(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.ChunkText("Short summary.", 1000, 200)
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	if chunks[0] != "Short summary." {
		t.Errorf("chunk = %q, want input unchanged", chunks[0])
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	chunker := NewTextChunker()

	if chunks := chunker.ChunkText("", 1000, 200); len(chunks) != 0 {
		t.Errorf("len(chunks) = %d, want 0 for empty input", len(chunks))
	}
	if chunks := chunker.ChunkText("\n\n  \n\n", 1000, 200); len(chunks) != 0 {
		t.Errorf("len(chunks) = %d, want 0 for whitespace input", len(chunks))
	}
}

func TestChunkTextSplitsParagraphs(t *testing.T) {
	chunker := NewTextChunker()

	para := strings.Repeat("word ", 30)
	text := strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para) + "\n\n" + strings.TrimSpace(para)

	chunks := chunker.ChunkText(text, 200, 20)
	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want at least 2", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 200+20+1 {
			t.Errorf("chunk %d length = %d, exceeds max size plus overlap", i, len(chunk))
		}
	}
}

func TestChunkTextOverlapCarriesTail(t *testing.T) {
	chunker := NewTextChunker()

	first := strings.Repeat("a", 80) + " END-OF-FIRST"
	second := strings.Repeat("b", 80)
	text := first + "\n\n" + second

	chunks := chunker.ChunkText(text, 100, 15)
	if len(chunks) != 2 {
		t.Fatalf("len(chunks) = %d, want 2", len(chunks))
	}
	if !strings.Contains(chunks[1], "END-OF-FIRST") {
		t.Errorf("second chunk %q missing overlap tail from first", chunks[1])
	}
}

func TestChunkTextDefaults(t *testing.T) {
	chunker := NewTextChunker()

	// Nonsense parameters fall back to sane defaults instead of panicking.
	chunks := chunker.ChunkText("Some text.", 0, -5)
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
}

func TestSplitIntoSentences(t *testing.T) {
	got := splitIntoSentences("First one. Second one! Third one? ")
	want := []string{"First one", "Second one", "Third one"}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}
