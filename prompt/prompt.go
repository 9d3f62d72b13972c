// Package prompt renders task-specific prompts against document text.
// Each builder is a pure function that states the task, embeds the document,
// and pins the exact field-labeled output format the model must produce.
// The label vocabulary lives here and in the reply package only; together
// they form the versioned contract between prompts and response parsing.
package prompt

import (
	"fmt"
	"strings"
)

// maxSummaryChars limits document content for summarization to respect
// upstream model input limits. ~8000 chars ≈ ~2000 tokens.
const maxSummaryChars = 8000

// Summary renders the summarization prompt over a truncated document prefix.
func Summary(text string, maxWords int) string {
	return fmt.Sprintf(summaryPrompt, maxWords, truncate(text, maxSummaryChars), maxWords)
}

// Answer renders the question-answering prompt.
func Answer(text, question string) string {
	return fmt.Sprintf(answerPrompt, text, question)
}

// Challenge renders the challenge-question generation prompt.
func Challenge(text string) string {
	return fmt.Sprintf(challengePrompt, text)
}

// Evaluation renders the answer-grading prompt.
func Evaluation(text, question, correctAnswer, userAnswer string) string {
	return fmt.Sprintf(evaluationPrompt, text, question, correctAnswer, userAnswer)
}

// truncate limits content to maxChars, preferring a paragraph boundary when
// one falls in the second half of the budget.
func truncate(content string, maxChars int) string {
	if len(content) <= maxChars {
		return content
	}

	truncated := content[:maxChars]
	if lastPara := strings.LastIndex(truncated, "\n\n"); lastPara > maxChars/2 {
		return truncated[:lastPara]
	}
	return truncated
}
