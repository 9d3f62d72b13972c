// Package reply parses label-structured model replies into typed results.
// The labels mirror the output format the prompt package requests. The model
// is not guaranteed to comply, so every parser here is defensive: a missing
// label degrades to a per-field sentinel value, never an error. Callers
// detect degraded output by inspecting content, not by catching failures.
package reply

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel values substituted for fields that could not be recovered.
// Distinct from empty strings, which mean the model produced an empty field.
const (
	unparsedAnswer        = "Unable to parse answer"
	unparsedJustification = "Unable to parse justification"
	unparsedSourceRef     = "Unable to parse source reference"
	unparsedFeedback      = "Unable to parse feedback"
	unparsedCorrectAnswer = "Unable to parse correct answer"
	unparsedQuestions     = "Error parsing questions"
)

// Answer is the structured result of the question-answering task.
type Answer struct {
	Answer          string `json:"answer"`
	Justification   string `json:"justification"`
	SourceReference string `json:"source_reference"`
}

// ChallengeQuestion is one generated challenge question.
type ChallengeQuestion struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

// Evaluation is the structured result of grading a user's answer.
type Evaluation struct {
	IsCorrect     bool   `json:"is_correct"`
	Feedback      string `json:"feedback"`
	CorrectAnswer string `json:"correct_answer"`
	Justification string `json:"justification"`

	// Score is taken verbatim from the reply. The parser does not clamp it
	// into [0,100]; an out-of-range value is a contract violation surfaced
	// to the caller (the assistant clamps before returning to clients).
	Score int `json:"score"`
}

// Label section patterns. Each field runs from its label to the next
// recognized label or end of text. Labels are case-sensitive; bodies are
// trimmed of surrounding whitespace.
var (
	answerPattern        = regexp.MustCompile(`(?s)ANSWER:\s*(.*?)(?:JUSTIFICATION:|$)`)
	justificationPattern = regexp.MustCompile(`(?s)JUSTIFICATION:\s*(.*?)(?:SOURCE_REFERENCE:|$)`)
	sourceRefPattern     = regexp.MustCompile(`(?s)SOURCE_REFERENCE:\s*(.*)`)

	isCorrectPattern      = regexp.MustCompile(`(?i)IS_CORRECT:\s*(true|false)`)
	feedbackPattern       = regexp.MustCompile(`(?s)FEEDBACK:\s*(.*?)(?:CORRECT_ANSWER:|$)`)
	correctAnswerPattern  = regexp.MustCompile(`(?s)CORRECT_ANSWER:\s*(.*?)(?:JUSTIFICATION:|$)`)
	evalJustificationPat  = regexp.MustCompile(`(?s)JUSTIFICATION:\s*(.*?)(?:SCORE:|$)`)
	scorePattern          = regexp.MustCompile(`SCORE:\s*(\d+)`)
)

// challengePatterns holds the per-index patterns for questions 1..3.
var challengePatterns = buildChallengePatterns()

type challengePattern struct {
	question    *regexp.Regexp
	answer      *regexp.Regexp
	explanation *regexp.Regexp
}

func buildChallengePatterns() [3]challengePattern {
	var patterns [3]challengePattern
	for i := range patterns {
		n := i + 1
		patterns[i] = challengePattern{
			question:    regexp.MustCompile(fmt.Sprintf(`(?s)QUESTION_%d:\s*(.*?)(?:ANSWER_%d:|$)`, n, n)),
			answer:      regexp.MustCompile(fmt.Sprintf(`(?s)ANSWER_%d:\s*(.*?)(?:EXPLANATION_%d:|$)`, n, n)),
			explanation: regexp.MustCompile(fmt.Sprintf(`(?s)EXPLANATION_%d:\s*(.*?)(?:QUESTION_%d:|$)`, n, n+1)),
		}
	}
	return patterns
}

// ParseAnswer extracts an Answer from raw reply text. Every missing label
// yields that field's sentinel; the result never has an absent field.
func ParseAnswer(raw string) Answer {
	return Answer{
		Answer:          section(answerPattern, raw, unparsedAnswer),
		Justification:   section(justificationPattern, raw, unparsedJustification),
		SourceReference: section(sourceRefPattern, raw, unparsedSourceRef),
	}
}

// ParseChallengeQuestions extracts challenge questions from raw reply text.
// A question whose QUESTION_n label is absent is dropped rather than padded
// with placeholders. The result always has between 1 and 3 entries: if
// nothing is recovered, a single synthetic question signals the failure.
func ParseChallengeQuestions(raw string) []ChallengeQuestion {
	var questions []ChallengeQuestion

	for _, p := range challengePatterns {
		qm := p.question.FindStringSubmatch(raw)
		if qm == nil {
			continue
		}
		questions = append(questions, ChallengeQuestion{
			Question:      strings.TrimSpace(qm[1]),
			CorrectAnswer: section(p.answer, raw, ""),
			Explanation:   section(p.explanation, raw, ""),
		})
	}

	if len(questions) == 0 {
		return []ChallengeQuestion{{Question: unparsedQuestions}}
	}
	return questions
}

// ParseEvaluation extracts an Evaluation from raw reply text. The
// correctness flag matches "true"/"false" case-insensitively and defaults
// to false; the score is the first decimal run after its label, default 0,
// deliberately not range-checked here.
func ParseEvaluation(raw string) Evaluation {
	eval := Evaluation{
		IsCorrect:     false,
		Feedback:      section(feedbackPattern, raw, unparsedFeedback),
		CorrectAnswer: section(correctAnswerPattern, raw, unparsedCorrectAnswer),
		Justification: section(evalJustificationPat, raw, unparsedJustification),
	}

	if m := isCorrectPattern.FindStringSubmatch(raw); m != nil {
		eval.IsCorrect = strings.EqualFold(m[1], "true")
	}
	if m := scorePattern.FindStringSubmatch(raw); m != nil {
		if score, err := strconv.Atoi(m[1]); err == nil {
			eval.Score = score
		}
	}

	return eval
}

// section applies a label pattern and returns the trimmed captured body,
// or the fallback when the label is absent.
func section(pattern *regexp.Regexp, raw, fallback string) string {
	m := pattern.FindStringSubmatch(raw)
	if m == nil {
		return fallback
	}
	return strings.TrimSpace(m[1])
}
