package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits long summary documents into overlapping chunks sized
// for the embedding model, used when mirroring resume text into the vector
// index.
type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText implements TextChunker.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
		if overlap > 0 {
			tail := lastRunes(chunks[len(chunks)-1], overlap)
			if tail != "" {
				current.WriteString(tail)
				current.WriteString(" ")
			}
		}
	}

	appendPiece := func(piece, separator string) {
		if current.Len()+len(piece)+len(separator) > maxChunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(separator)
		}
		current.WriteString(piece)
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		// Oversized paragraphs are packed sentence by sentence
		if utf8.RuneCountInString(para) > maxChunkSize {
			for _, sentence := range splitIntoSentences(para) {
				appendPiece(sentence, " ")
			}
			continue
		}

		appendPiece(para, "\n\n")
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
