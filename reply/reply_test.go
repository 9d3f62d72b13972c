package reply_test

import (
	"strings"
	"testing"

	"github.com/c360studio/docsense/reply"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswerFullReply(t *testing.T) {
	raw := `ANSWER: The mitochondria is the powerhouse of the cell.
JUSTIFICATION: The document states this directly.
SOURCE_REFERENCE: Section 2, paragraph 3`

	answer := reply.ParseAnswer(raw)
	assert.Equal(t, "The mitochondria is the powerhouse of the cell.", answer.Answer)
	assert.Equal(t, "The document states this directly.", answer.Justification)
	assert.Equal(t, "Section 2, paragraph 3", answer.SourceReference)
}

func TestParseAnswerSentinelCompleteness(t *testing.T) {
	// Freeform text with no labels: every field carries its sentinel,
	// no field is ever empty or absent.
	answer := reply.ParseAnswer("The model decided to chat instead of complying.")
	assert.Equal(t, "Unable to parse answer", answer.Answer)
	assert.Equal(t, "Unable to parse justification", answer.Justification)
	assert.Equal(t, "Unable to parse source reference", answer.SourceReference)
}

func TestParseAnswerPartialLabels(t *testing.T) {
	answer := reply.ParseAnswer("ANSWER: Just an answer, nothing else.")
	assert.Equal(t, "Just an answer, nothing else.", answer.Answer)
	assert.Equal(t, "Unable to parse justification", answer.Justification)
	assert.Equal(t, "Unable to parse source reference", answer.SourceReference)
}

func TestParseAnswerMultilineBodies(t *testing.T) {
	raw := "ANSWER: First line.\nSecond line.\nJUSTIFICATION: Because.\nSOURCE_REFERENCE: p. 4"

	answer := reply.ParseAnswer(raw)
	assert.Equal(t, "First line.\nSecond line.", answer.Answer)
	assert.Equal(t, "Because.", answer.Justification)
}

func TestParseChallengeQuestionsAllThree(t *testing.T) {
	raw := `QUESTION_1: Why did the experiment fail?
ANSWER_1: Contamination.
EXPLANATION_1: See methods section.

QUESTION_2: What was the control group?
ANSWER_2: Group B.
EXPLANATION_2: Table 1.

QUESTION_3: What is the main conclusion?
ANSWER_3: The hypothesis held.
EXPLANATION_3: Final paragraph.`

	questions := reply.ParseChallengeQuestions(raw)
	require.Len(t, questions, 3)
	assert.Equal(t, "Why did the experiment fail?", questions[0].Question)
	assert.Equal(t, "Group B.", questions[1].CorrectAnswer)
	assert.Equal(t, "Final paragraph.", questions[2].Explanation)
}

func TestParseChallengeQuestionsDropsMissing(t *testing.T) {
	raw := `QUESTION_1: Only one question came back.
ANSWER_1: Yes.
EXPLANATION_1: The model stopped early.`

	questions := reply.ParseChallengeQuestions(raw)
	require.Len(t, questions, 1)
	assert.Equal(t, "Only one question came back.", questions[0].Question)
}

func TestParseChallengeQuestionsBounded(t *testing.T) {
	// Total failure still yields exactly one entry, never an empty list.
	questions := reply.ParseChallengeQuestions("nothing useful here")
	require.Len(t, questions, 1)
	assert.Equal(t, "Error parsing questions", questions[0].Question)
	assert.Empty(t, questions[0].CorrectAnswer)

	// And never more than three, even with extra labels.
	raw := strings.Join([]string{
		"QUESTION_1: a", "ANSWER_1: b", "EXPLANATION_1: c",
		"QUESTION_2: d", "ANSWER_2: e", "EXPLANATION_2: f",
		"QUESTION_3: g", "ANSWER_3: h", "EXPLANATION_3: i",
		"QUESTION_4: ignored",
	}, "\n")
	questions = reply.ParseChallengeQuestions(raw)
	assert.Len(t, questions, 3)
}

func TestParseEvaluationGrid(t *testing.T) {
	raw := `IS_CORRECT: True
FEEDBACK: Well reasoned, minor omission.
CORRECT_ANSWER: The treaty of 1848.
JUSTIFICATION: Matches the timeline in section 3.
SCORE: 95`

	eval := reply.ParseEvaluation(raw)
	assert.True(t, eval.IsCorrect)
	assert.Equal(t, "Well reasoned, minor omission.", eval.Feedback)
	assert.Equal(t, "The treaty of 1848.", eval.CorrectAnswer)
	assert.Equal(t, "Matches the timeline in section 3.", eval.Justification)
	assert.Equal(t, 95, eval.Score)
}

func TestParseEvaluationCaseInsensitiveBool(t *testing.T) {
	eval := reply.ParseEvaluation("IS_CORRECT: TRUE\nSCORE: 10")
	assert.True(t, eval.IsCorrect)

	eval = reply.ParseEvaluation("IS_CORRECT: false\nSCORE: 10")
	assert.False(t, eval.IsCorrect)
}

func TestParseEvaluationDefaults(t *testing.T) {
	eval := reply.ParseEvaluation("no labels at all")
	assert.False(t, eval.IsCorrect)
	assert.Equal(t, 0, eval.Score)
	assert.Equal(t, "Unable to parse feedback", eval.Feedback)
	assert.Equal(t, "Unable to parse correct answer", eval.CorrectAnswer)
	assert.Equal(t, "Unable to parse justification", eval.Justification)
}

func TestParseEvaluationScoreNotClamped(t *testing.T) {
	// The parser reports what the model said; range enforcement is the
	// orchestrator's job.
	eval := reply.ParseEvaluation("IS_CORRECT: True\nSCORE: 150")
	assert.Equal(t, 150, eval.Score)
}
