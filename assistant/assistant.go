// Package assistant orchestrates the comprehension tasks: summarization,
// question answering, challenge generation, and answer evaluation. Each
// operation looks up the document, renders a prompt, sends it through the
// completion client, and parses the label-structured reply.
//
// Gateway failures degrade into structured results carrying the cause, so
// a flaky upstream demotes answer quality instead of breaking the API.
// Summarize additionally reports the failure so callers can keep degraded
// output out of caches.
package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/c360studio/docsense/llm"
	"github.com/c360studio/docsense/model"
	"github.com/c360studio/docsense/prompt"
	"github.com/c360studio/docsense/reply"
	"github.com/c360studio/docsense/store"
)

// defaultSummaryWords bounds automatic summaries generated on upload.
const defaultSummaryWords = 150

// Completer abstracts the completion client so tests can stub the gateway.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Assistant coordinates document comprehension tasks.
type Assistant struct {
	docs      *store.DocumentStore
	completer Completer
	logger    *slog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// New creates an Assistant over the given document store and completion
// client.
func New(docs *store.DocumentStore, completer Completer, opts ...Option) *Assistant {
	a := &Assistant{
		docs:      docs,
		completer: completer,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// complete sends a single-message prompt for a capability and returns the
// raw reply text.
func (a *Assistant) complete(ctx context.Context, capability model.Capability, promptText string) (string, error) {
	resp, err := a.completer.Complete(ctx, llm.Request{
		Capability: capability.String(),
		Messages: []llm.Message{
			{Role: "user", Content: promptText},
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Summarize generates a summary of the given text, bounded by maxWords
// (defaultSummaryWords when maxWords <= 0). The returned string is always
// usable: gateway failures degrade to an error-bearing summary string, with
// the error returned alongside it so callers can tell a degraded summary
// from a real one and avoid caching it.
func (a *Assistant) Summarize(ctx context.Context, text string, maxWords int) (string, error) {
	if maxWords <= 0 {
		maxWords = defaultSummaryWords
	}

	content, err := a.complete(ctx, model.CapabilityFast, prompt.Summary(text, maxWords))
	if err != nil {
		a.logger.Warn("Summary generation failed", "error", err)
		return fmt.Sprintf("Error generating summary: %v", err), err
	}
	return content, nil
}

// AnswerQuestion answers a free-form question against a stored document.
// Returns store.ErrNotFound for unknown document ids. Gateway failures
// degrade to an Answer whose answer field carries the cause and whose
// justification and source reference are empty.
func (a *Assistant) AnswerQuestion(ctx context.Context, id, question string) (reply.Answer, error) {
	text, err := a.docs.Get(id)
	if err != nil {
		return reply.Answer{}, err
	}

	content, err := a.complete(ctx, model.CapabilityReasoning, prompt.Answer(text, question))
	if err != nil {
		a.logger.Warn("Answer generation failed", "document_id", id, "error", err)
		return reply.Answer{
			Answer: fmt.Sprintf("Error generating answer: %v", err),
		}, nil
	}

	return reply.ParseAnswer(content), nil
}

// GenerateChallenge generates up to three challenge questions for a stored
// document and persists them so later evaluation can recover the real
// question text by index. Returns store.ErrNotFound for unknown ids.
// Gateway failures degrade to a single synthetic question carrying the
// cause; synthetic questions are not persisted.
func (a *Assistant) GenerateChallenge(ctx context.Context, id string) ([]reply.ChallengeQuestion, error) {
	text, err := a.docs.Get(id)
	if err != nil {
		return nil, err
	}

	content, err := a.complete(ctx, model.CapabilityReasoning, prompt.Challenge(text))
	if err != nil {
		a.logger.Warn("Challenge generation failed", "document_id", id, "error", err)
		return []reply.ChallengeQuestion{
			{Question: fmt.Sprintf("Error generating questions: %v", err)},
		}, nil
	}

	questions := reply.ParseChallengeQuestions(content)

	stored := make([]store.ChallengeQuestion, len(questions))
	for i, q := range questions {
		stored[i] = store.ChallengeQuestion{
			Question:      q.Question,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
	}
	if err := a.docs.StoreChallenges(id, stored); err != nil {
		// Document vanished between Get and StoreChallenges cannot happen
		// with an insert-only store, but don't lose the questions over it.
		a.logger.Warn("Persisting challenge questions failed", "document_id", id, "error", err)
	}

	return questions, nil
}

// EvaluateAnswer grades a user's answer to a question against a stored
// document. Returns store.ErrNotFound for unknown ids. Gateway failures
// degrade to an incorrect evaluation carrying the cause, echoing the
// expected answer. Scores outside [0,100] are clamped with a warning.
func (a *Assistant) EvaluateAnswer(ctx context.Context, id, question, correctAnswer, userAnswer string) (reply.Evaluation, error) {
	text, err := a.docs.Get(id)
	if err != nil {
		return reply.Evaluation{}, err
	}

	content, err := a.complete(ctx, model.CapabilityGrading, prompt.Evaluation(text, question, correctAnswer, userAnswer))
	if err != nil {
		a.logger.Warn("Answer evaluation failed", "document_id", id, "error", err)
		return reply.Evaluation{
			IsCorrect:     false,
			Feedback:      fmt.Sprintf("Error evaluating answer: %v", err),
			CorrectAnswer: correctAnswer,
		}, nil
	}

	eval := reply.ParseEvaluation(content)
	eval.Score = a.clampScore(id, eval.Score)
	return eval, nil
}

// EvaluateStoredAnswer grades a user's answer to a previously generated
// challenge question, looked up by zero-based index. Returns
// store.ErrNotFound when the document or the indexed question is unknown.
func (a *Assistant) EvaluateStoredAnswer(ctx context.Context, id string, questionIndex int, userAnswer string) (reply.Evaluation, error) {
	q, err := a.docs.Challenge(id, questionIndex)
	if err != nil {
		return reply.Evaluation{}, err
	}

	return a.EvaluateAnswer(ctx, id, q.Question, q.CorrectAnswer, userAnswer)
}

// clampScore forces a reply score into [0,100]. Out-of-range values mean
// the model ignored the prompt's scoring rule.
func (a *Assistant) clampScore(id string, score int) int {
	switch {
	case score < 0:
		a.logger.Warn("Evaluation score below range, clamping", "document_id", id, "score", score)
		return 0
	case score > 100:
		a.logger.Warn("Evaluation score above range, clamping", "document_id", id, "score", score)
		return 100
	default:
		return score
	}
}
