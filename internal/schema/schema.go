// Package schema generates JSON Schema documents for the wire-shaped
// diagnostics a downstream caller (the query server this core feeds,
// out of scope here) would need to validate against:
// parser.ParseError, eval.EvalWarning, and eval.EvalError. It exists
// purely to document and pin those shapes; nothing in lexer, parser,
// or eval imports it.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/cygnusbill/spelunkpath/eval"
	"github.com/cygnusbill/spelunkpath/parser"
)

// Config tunes schema generation. The zero value is usable: it
// produces a fully inlined schema (no internal $ref indirection),
// appropriate for the small, fixed set of diagnostic shapes this
// package reflects over.
type Config struct {
	// IncludeSchemaVersion adds the "$schema" draft identifier to the
	// generated document. Left false by default since callers embed
	// these schemas inside a larger API contract that already declares
	// its own draft version.
	IncludeSchemaVersion bool
}

// Generate reflects a JSON Schema document for v, which must be a
// struct or pointer to one.
func Generate(v any, cfg Config) (*jsonschema.Schema, error) {
	if v == nil {
		return nil, fmt.Errorf("schema: cannot generate schema for nil value")
	}
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	s := r.Reflect(v)
	if s == nil {
		return nil, fmt.Errorf("schema: failed to reflect schema for %T", v)
	}
	if !cfg.IncludeSchemaVersion {
		s.Version = ""
	}
	return s, nil
}

// MapOf generates v's schema as a map[string]any, convenient for
// embedding inline in a larger JSON document.
func MapOf(v any, cfg Config) (map[string]any, error) {
	s, err := Generate(v, cfg)
	if err != nil {
		return nil, err
	}
	raw, err := s.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("schema: marshal: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("schema: unmarshal to map: %w", err)
	}
	return m, nil
}

// ParseErrorSchema generates the JSON Schema for parser.ParseError.
func ParseErrorSchema(cfg Config) (map[string]any, error) {
	return MapOf(&parser.ParseError{}, cfg)
}

// EvalWarningSchema generates the JSON Schema for eval.EvalWarning.
func EvalWarningSchema(cfg Config) (map[string]any, error) {
	return MapOf(&eval.EvalWarning{}, cfg)
}

// EvalErrorSchema generates the JSON Schema for eval.EvalError.
func EvalErrorSchema(cfg Config) (map[string]any, error) {
	return MapOf(&eval.EvalError{}, cfg)
}
