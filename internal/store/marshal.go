package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalStrings converts a string list to JSON TEXT.
// HTML escaping is disabled so ids like "a&b" are stored verbatim and the
// json_each lookups compare against the raw value.
func marshalStrings(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		return "", err
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// marshalIngredients converts the ingredient multiset to JSON TEXT.
func marshalIngredients(ids []string) (string, error) {
	data, err := marshalStrings(ids)
	if err != nil {
		return "", fmt.Errorf("marshal ingredients: %w", err)
	}
	return data, nil
}

// marshalPattern converts a pattern to JSON TEXT, or NULL when absent.
func marshalPattern(pattern []string) (sql.NullString, error) {
	if pattern == nil {
		return sql.NullString{}, nil
	}
	data, err := marshalStrings(pattern)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal pattern: %w", err)
	}
	return sql.NullString{String: data, Valid: true}, nil
}

// unmarshalIngredients parses JSON TEXT into a non-nil ingredient list.
func unmarshalIngredients(data string) ([]string, error) {
	ids := []string{}
	if data == "" || data == "[]" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return nil, fmt.Errorf("unmarshal ingredients: %w", err)
	}
	return ids, nil
}

// unmarshalPattern parses a nullable JSON TEXT pattern.
func unmarshalPattern(data sql.NullString) ([]string, error) {
	if !data.Valid {
		return nil, nil
	}
	var pattern []string
	if err := json.Unmarshal([]byte(data.String), &pattern); err != nil {
		return nil, fmt.Errorf("unmarshal pattern: %w", err)
	}
	return pattern, nil
}
