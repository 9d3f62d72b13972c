// Package main implements a mock model server for offline development and
// e2e testing. It serves OpenAI-compatible /v1/chat/completions responses
// with label-formatted reply bodies, routing by task markers found in the
// incoming prompt. This eliminates the need for a real model while wiring
// the assistant, making runs fast, deterministic, and offline-capable.
//
// Usage:
//
//	mock-llm -port 11434 [-fixtures /path/to/fixtures]
//
// With a fixtures directory, files named summary.txt, answer.txt,
// challenge.txt, and evaluation.txt override the built-in replies for the
// corresponding task.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// --- OpenAI-compatible types ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Built-in replies per task, in the label format the service parses.
var defaultReplies = map[string]string{
	"summary": "This document covers its stated topic in brief, factual terms.",
	"answer": `ANSWER: The document answers this directly.
JUSTIFICATION: The relevant statement appears in the opening section.
SOURCE_REFERENCE: Paragraph 1`,
	"challenge": `QUESTION_1: What is the main claim of the document?
ANSWER_1: The claim stated in the opening paragraph.
EXPLANATION_1: See paragraph 1.

QUESTION_2: What evidence supports the main claim?
ANSWER_2: The evidence listed in the middle section.
EXPLANATION_2: See the middle section.

QUESTION_3: What conclusion does the document draw?
ANSWER_3: The conclusion in the final paragraph.
EXPLANATION_3: See the final paragraph.`,
	"evaluation": `IS_CORRECT: True
FEEDBACK: The answer matches the document.
CORRECT_ANSWER: The expected answer.
JUSTIFICATION: Consistent with the source text.
SCORE: 90`,
}

type server struct {
	replies map[string]string
	calls   atomic.Int64

	taskCallsMu sync.Mutex
	taskCalls   map[string]int64
}

func newServer(replies map[string]string) *server {
	return &server{
		replies:   replies,
		taskCalls: make(map[string]int64),
	}
}

func main() {
	fixtureDir := flag.String("fixtures", "", "directory with per-task reply overrides")
	port := flag.Int("port", 11434, "port to listen on")
	flag.Parse()

	if envDir := os.Getenv("MOCK_LLM_FIXTURES"); envDir != "" && *fixtureDir == "" {
		*fixtureDir = envDir
	}

	replies := make(map[string]string, len(defaultReplies))
	for task, reply := range defaultReplies {
		replies[task] = reply
	}
	if *fixtureDir != "" {
		if err := loadFixtures(*fixtureDir, replies); err != nil {
			log.Fatalf("Failed to load fixtures from %s: %v", *fixtureDir, err)
		}
	}

	s := newServer(replies)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("/stats", s.handleStats)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Mock model server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	callNum := s.calls.Add(1)
	task := classifyTask(req.Messages)

	s.taskCallsMu.Lock()
	s.taskCalls[task]++
	s.taskCallsMu.Unlock()

	content := s.replies[task]
	log.Printf("[call %d] model=%s task=%s messages=%d", callNum, req.Model, task, len(req.Messages))

	resp := chatResponse{
		ID:      fmt.Sprintf("mock-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []chatChoice{
			{
				Index: 0,
				Message: chatMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{
			PromptTokens:     len(content) / 4, // rough estimate
			CompletionTokens: len(content) / 4,
			TotalTokens:      len(content) / 2,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// handleStats returns per-task call counts for test assertions.
func (s *server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.taskCallsMu.Lock()
	callsByTask := make(map[string]int64, len(s.taskCalls))
	for task, count := range s.taskCalls {
		callsByTask[task] = count
	}
	s.taskCallsMu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total_calls":   s.calls.Load(),
		"calls_by_task": callsByTask,
	})
}

// classifyTask infers the requested task from the output-format labels the
// prompt asks for. The evaluation check runs before the answer check
// because both prompts mention JUSTIFICATION.
func classifyTask(messages []chatMessage) string {
	var prompt string
	for _, msg := range messages {
		if msg.Role == "user" {
			prompt = msg.Content
		}
	}

	switch {
	case strings.Contains(prompt, "IS_CORRECT:"):
		return "evaluation"
	case strings.Contains(prompt, "QUESTION_1:"):
		return "challenge"
	case strings.Contains(prompt, "SOURCE_REFERENCE:"):
		return "answer"
	default:
		return "summary"
	}
}

// loadFixtures overrides built-in replies with <task>.txt files.
func loadFixtures(dir string, replies map[string]string) error {
	for task := range defaultReplies {
		path := filepath.Join(dir, task+".txt")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("read %s: %w", path, err)
		}
		replies[task] = string(data)
		log.Printf("Loaded fixture for task %s from %s", task, path)
	}
	return nil
}
