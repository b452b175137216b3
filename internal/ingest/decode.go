package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// decodeFunc turns the bytes of one unit into its top-level object.
type decodeFunc func(data []byte, filename string) (map[string]any, error)

var decoders = map[string]decodeFunc{
	".json": decodeJSON,
	".yaml": decodeYAML,
	".yml":  decodeYAML,
	".cue":  decodeCUE,
}

// Supported reports whether files with the given extension are recipe units.
func Supported(ext string) bool {
	_, ok := decoders[strings.ToLower(ext)]
	return ok
}

// DecodeFile reads and decodes one recipe unit.
func DecodeFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return Decode(data, path)
}

// Decode decodes data using the decoder registered for filename's extension.
func Decode(data []byte, filename string) (map[string]any, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	dec, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported extension %q", ext)
	}
	raw, err := dec(data, filename)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("unit is not an object")
	}
	return raw, nil
}

func decodeJSON(data []byte, _ string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("decode json: trailing data after object")
	}
	return asObject(v)
}

func decodeYAML(data []byte, _ string) (map[string]any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return asObject(stringKeys(v))
}

// stringKeys rewrites every map[any]any that yaml.v3 produces for mappings
// with non-string keys (pattern symbols such as 1:) as map[string]any.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = stringKeys(val)
		}
		return m
	case map[string]any:
		for k, val := range t {
			t[k] = stringKeys(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = stringKeys(val)
		}
		return t
	default:
		return v
	}
}

func decodeCUE(data []byte, filename string) (map[string]any, error) {
	// A fresh context per unit keeps pool workers independent.
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compile cue: %w", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate cue: %w", err)
	}

	var v any
	if err := value.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode cue: %w", err)
	}
	return asObject(v)
}

func asObject(v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unit is not an object (got %T)", v)
	}
	return m, nil
}
