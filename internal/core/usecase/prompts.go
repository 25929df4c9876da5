package usecase

import (
	"fmt"
	"strings"

	"github.com/docuquery/docuquery/internal/core/domain"
)

func buildRewritePrompt(history []domain.ConversationTurn, question string) string {
	return fmt.Sprintf(`Given a chat history and the latest user question which might reference
context in the chat history, formulate a standalone question which can
be understood without the chat history. Do NOT answer the question,
just reformulate it if needed and otherwise return it as is.

Chat history:
%s

Latest question:
%s
`, formatHistory(history), question)
}

func buildAnswerPrompt(question, contextBlock string, history []domain.ConversationTurn) string {
	var b strings.Builder
	b.WriteString(`You are an expert assistant for question-answering tasks.
Use only the provided context to answer the question.
If you don't know the answer, just say that you don't know.
Keep the answer concise and use a maximum of three sentences.

Context:
`)
	b.WriteString(contextBlock)
	if len(history) > 0 {
		b.WriteString("\nChat history:\n")
		b.WriteString(formatHistory(history))
	}
	b.WriteString("\nQuestion:\n")
	b.WriteString(question)
	b.WriteString("\n")
	return b.String()
}

func buildExtractionPrompt(instruction, contextBlock string) string {
	return fmt.Sprintf(`You are an expert extraction agent.
Extract relevant information from the provided context and return a
strict JSON object with any of these keys:
invoice_id (string), vendor_name (string), invoice_date (string), total_amount (number).
Only include fields mentioned in the request that are present in the
context. Omit everything else. No markdown, no extra keys.

Context:
%s

Request:
%s
`, contextBlock, instruction)
}

// buildContextBlock concatenates candidate chunks in retriever order
// until the character budget is exhausted, dropping lowest-ranked
// chunks first. The first chunk is always included. The returned chunks
// are exactly those placed into the block, in order.
func buildContextBlock(candidates []domain.RetrievalCandidate, budget int) (string, []domain.Chunk) {
	var b strings.Builder
	used := make([]domain.Chunk, 0, len(candidates))
	for i, candidate := range candidates {
		entry := fmt.Sprintf("[%d] page=%d\n%s\n\n",
			i+1, candidate.Chunk.Metadata.Page, candidate.Chunk.Text)
		if i > 0 && budget > 0 && b.Len()+len(entry) > budget {
			break
		}
		b.WriteString(entry)
		used = append(used, candidate.Chunk)
	}
	return b.String(), used
}

func formatHistory(history []domain.ConversationTurn) string {
	var b strings.Builder
	for _, turn := range history {
		b.WriteString(string(turn.Role))
		b.WriteString(": ")
		b.WriteString(turn.Text)
		b.WriteString("\n")
	}
	return b.String()
}
