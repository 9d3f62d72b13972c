// Package store provides content-addressed, in-memory document storage.
// Documents are keyed by a deterministic hash of their text, so uploading
// identical content twice yields the same identifier and a single entry.
// The store is volatile by design: it starts empty and is not persisted.
package store

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
)

// Document is a stored document with its extracted text and cached summary.
type Document struct {
	// ID is the content-derived identifier (16 hex characters).
	ID string

	// Filename is the name the document was uploaded under.
	Filename string

	// Text is the full extracted text.
	Text string

	// Summary is the cached summary, empty until generated.
	Summary string
}

// ChallengeQuestion is a generated comprehension question persisted alongside
// its document so that a later answer submission can be graded against the
// real question and expected answer.
type ChallengeQuestion struct {
	Question      string
	CorrectAnswer string
	Explanation   string
}

// DocumentStore holds documents and their challenge questions in memory.
// All methods are safe for concurrent use.
type DocumentStore struct {
	mu         sync.RWMutex
	documents  map[string]*Document
	challenges map[string][]ChallengeQuestion
}

// New creates an empty document store.
func New() *DocumentStore {
	return &DocumentStore{
		documents:  make(map[string]*Document),
		challenges: make(map[string][]ChallengeQuestion),
	}
}

// IdentifierFor returns the deterministic identifier for document text.
// The digest is not used for security, only for content addressing.
func IdentifierFor(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])[:16]
}

// Put stores a document and returns its identifier. Re-inserting identical
// content is a no-op that returns the existing identifier.
func (s *DocumentStore) Put(filename, text string) string {
	id := IdentifierFor(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.documents[id]; !exists {
		s.documents[id] = &Document{
			ID:       id,
			Filename: filename,
			Text:     text,
		}
	}
	return id
}

// Get returns the text of a stored document.
// Returns ErrNotFound if the identifier is unknown.
func (s *DocumentStore) Get(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return "", ErrNotFound
	}
	return doc.Text, nil
}

// CacheSummary stores a generated summary for a document.
// Returns ErrNotFound if the identifier is unknown.
func (s *DocumentStore) CacheSummary(id, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return ErrNotFound
	}
	doc.Summary = summary
	return nil
}

// Summary returns the cached summary for a document and whether one exists.
func (s *DocumentStore) Summary(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok || doc.Summary == "" {
		return "", false
	}
	return doc.Summary, true
}

// StoreChallenges persists the generated challenge questions for a document,
// replacing any previous set. Returns ErrNotFound if the identifier is unknown.
func (s *DocumentStore) StoreChallenges(id string, questions []ChallengeQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return ErrNotFound
	}
	s.challenges[id] = append([]ChallengeQuestion(nil), questions...)
	return nil
}

// Challenge returns the persisted challenge question at the given index
// (0-based) for a document. Returns ErrNotFound if the document is unknown
// or no question exists at that index.
func (s *DocumentStore) Challenge(id string, index int) (ChallengeQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	questions, ok := s.challenges[id]
	if !ok || index < 0 || index >= len(questions) {
		return ChallengeQuestion{}, ErrNotFound
	}
	return questions[index], nil
}

// Len returns the number of stored documents.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}
