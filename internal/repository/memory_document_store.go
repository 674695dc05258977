package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"creative-tools-api/internal/domain"
)

// MemoryDocumentStore is an in-process domain.DocumentStore. Documents are
// normalized through JSON on write so reads look like the hosted store's.
type MemoryDocumentStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]interface{}
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		collections: make(map[string]map[string]map[string]interface{}),
	}
}

func (s *MemoryDocumentStore) Get(ctx context.Context, collection, id string) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, nil
	}
	out, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	return domain.Document(out), nil
}

func (s *MemoryDocumentStore) Set(ctx context.Context, collection, id string, doc domain.Document, opts domain.SetOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	normalized, err := normalize(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collection(collection)
	existing, ok := docs[id]
	if !opts.Merge || !ok {
		docs[id] = normalized
		return nil
	}
	for k, v := range normalized {
		existing[k] = v
	}
	return nil
}

func (s *MemoryDocumentStore) Increment(ctx context.Context, collection, id, fieldPath string, delta int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := strings.Split(fieldPath, ".")
	for _, p := range path {
		if p == "" {
			return fmt.Errorf("unsupported field path %q", fieldPath)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collection(collection)
	doc, ok := docs[id]
	if !ok {
		doc = make(map[string]interface{})
		docs[id] = doc
	}

	parent := doc
	for _, p := range path[:len(path)-1] {
		child, ok := parent[p].(map[string]interface{})
		if !ok {
			child = make(map[string]interface{})
			parent[p] = child
		}
		parent = child
	}

	leaf := path[len(path)-1]
	current, _ := parent[leaf].(float64)
	parent[leaf] = current + float64(delta)
	return nil
}

func (s *MemoryDocumentStore) collection(name string) map[string]map[string]interface{} {
	docs, ok := s.collections[name]
	if !ok {
		docs = make(map[string]map[string]interface{})
		s.collections[name] = docs
	}
	return docs
}

func normalize(doc map[string]interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return out, nil
}
