package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"creative-tools-api/internal/domain"
)

// IncrementFunction is the Postgres function backing Increment (see migrations/).
const IncrementFunction = "increment_document_field"

// SupabaseDocumentStore implements domain.DocumentStore on PostgREST. A
// collection is a table keyed by an "id" column; top-level document keys are columns.
type SupabaseDocumentStore struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseDocumentStore creates a new Supabase-backed document store
func NewSupabaseDocumentStore(supabaseClient domain.SupabaseClient, logger domain.Logger) *SupabaseDocumentStore {
	return &SupabaseDocumentStore{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Get returns the row with the given id, or nil when there is none.
func (s *SupabaseDocumentStore) Get(ctx context.Context, collection, id string) (domain.Document, error) {
	client := s.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(collection).
		Select("*", "", false).
		Eq("id", id).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return domain.Document(rows[0]), nil
}

// Set upserts doc as a single request. Columns absent from doc keep their
// stored values in both modes, so a replacing write (Merge false) must name
// every column, using nil for the ones it clears.
func (s *SupabaseDocumentStore) Set(ctx context.Context, collection, id string, doc domain.Document, opts domain.SetOptions) error {
	client := s.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row := make(map[string]interface{}, len(doc)+1)
	for k, v := range doc {
		row[k] = v
	}
	row["id"] = id

	if _, _, err := client.From(collection).Upsert(row, "id", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
	}
	s.logger.Debug("Document written", "collection", collection, "id", id, "merge", opts.Merge)
	return nil
}

// Increment adds delta to a key of a JSON column server-side. fieldPath must be
// "<column>.<key>".
func (s *SupabaseDocumentStore) Increment(ctx context.Context, collection, id, fieldPath string, delta int) error {
	client := s.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	column, key, ok := strings.Cut(fieldPath, ".")
	if !ok || column == "" || key == "" {
		return fmt.Errorf("unsupported field path %q", fieldPath)
	}

	result := client.Rpc(IncrementFunction, "", map[string]interface{}{
		"p_table":  collection,
		"p_id":     id,
		"p_column": column,
		"p_key":    key,
		"p_delta":  delta,
	})

	if err := parseRPCResult(result); err != nil {
		return fmt.Errorf("failed to increment %s/%s %s: %w", collection, id, fieldPath, err)
	}
	s.logger.Debug("Field incremented", "collection", collection, "id", id, "field", fieldPath, "value", result)
	return nil
}

type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// parseRPCResult interprets the raw body returned by Rpc, which swallows
// transport errors into an empty string.
func parseRPCResult(body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return errors.New("empty rpc response")
	}
	if _, err := strconv.Atoi(body); err == nil {
		return nil
	}

	var pgErr postgrestError
	if err := json.Unmarshal([]byte(body), &pgErr); err == nil && pgErr.Message != "" {
		if pgErr.Code != "" {
			return fmt.Errorf("%s: %s", pgErr.Code, pgErr.Message)
		}
		return errors.New(pgErr.Message)
	}
	return fmt.Errorf("unexpected rpc response: %s", body)
}
