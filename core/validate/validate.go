// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

/*
Package validate implements the request body validation for all resource
kinds. A Schema is a table of permitted attributes with their primitive types
and bounds. Validation runs in two stages: a structural stage backed by a
compiled JSON schema (object shape, attribute types, integer ranges, the
mandatory-attribute policy), and a normalization stage which trims string
attributes, optionally folds them to lower case, and enforces the length and
character rules.

Attributes not named in the schema are silently ignored and do not appear in
the normalized result. Any violation discards the entire result.
*/
package validate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/glimmer-tech/menagerie/core/schema"
)

// Type is the primitive type of an attribute
type Type int

// supported attribute types
const (
	String Type = iota
	Int
)

// MaxStringLength is the maximum length of any string attribute, after trimming.
const MaxStringLength = 100

// Attribute names a permitted attribute with its type and bound.
type Attribute struct {
	Name string
	Type Type
	// Max bounds the value: the maximum value for integers, the maximum
	// length for strings. Strings default to MaxStringLength.
	Max int
}

// Options parameterizes a Schema per resource kind.
type Options struct {
	// Kind is the schema handle, e.g. "unicorns"
	Kind string
	// CaseFold folds string attributes to lower case after trimming
	CaseFold bool
	// Alphanumeric restricts string attributes to letters, digits and spaces
	Alphanumeric bool
	Attributes   []Attribute
}

// Schema validates and normalizes request payloads for one resource kind.
type Schema struct {
	opts      Options
	validator *schema.Validator
	fullID    string
	partialID string
}

// New compiles a Schema from the given options.
func New(opts Options) (*Schema, error) {
	if opts.Kind == "" {
		return nil, fmt.Errorf("options lack a kind")
	}
	if len(opts.Attributes) == 0 {
		return nil, fmt.Errorf("schema for %s has no attributes", opts.Kind)
	}

	properties := map[string]interface{}{}
	required := []string{}
	anyOf := []map[string]interface{}{}
	for i := range opts.Attributes {
		attr := &opts.Attributes[i]
		switch attr.Type {
		case String:
			if attr.Max == 0 {
				attr.Max = MaxStringLength
			}
			properties[attr.Name] = map[string]interface{}{"type": "string"}
		case Int:
			if attr.Max == 0 {
				return nil, fmt.Errorf("integer attribute %s.%s lacks a maximum", opts.Kind, attr.Name)
			}
			properties[attr.Name] = map[string]interface{}{
				"type":    "integer",
				"minimum": 1,
				"maximum": attr.Max,
			}
		default:
			return nil, fmt.Errorf("unknown type for attribute %s.%s", opts.Kind, attr.Name)
		}
		required = append(required, attr.Name)
		anyOf = append(anyOf, map[string]interface{}{"required": []string{attr.Name}})
	}

	fullID := "https://glimmer-tech.dev/schemas/" + opts.Kind + ".json"
	partialID := "https://glimmer-tech.dev/schemas/" + opts.Kind + "-partial.json"
	full, _ := json.Marshal(map[string]interface{}{
		"$id":        fullID,
		"type":       "object",
		"properties": properties,
		"required":   required,
	})
	partial, _ := json.Marshal(map[string]interface{}{
		"$id":        partialID,
		"type":       "object",
		"properties": properties,
		"anyOf":      anyOf,
	})
	validator, err := schema.NewValidator([]string{string(full), string(partial)})
	if err != nil {
		return nil, err
	}
	return &Schema{
		opts:      opts,
		validator: validator,
		fullID:    fullID,
		partialID: partialID,
	}, nil
}

// MustNew is like New but panics on error. Intended for static schema tables.
func MustNew(opts Options) *Schema {
	s, err := New(opts)
	if err != nil {
		panic(err)
	}
	return s
}

// Kind returns the schema handle.
func (s *Schema) Kind() string {
	return s.opts.Kind
}

// Attributes returns the names of all permitted attributes.
func (s *Schema) Attributes() []string {
	names := make([]string, 0, len(s.opts.Attributes))
	for _, attr := range s.opts.Attributes {
		names = append(names, attr.Name)
	}
	return names
}

// Validate checks the raw JSON document and produces the normalized payload.
// With required, every schema attribute must be present; otherwise at least
// one of them must be. The normalized payload carries only schema attributes.
func (s *Schema) Validate(document []byte, required bool) (map[string]interface{}, error) {
	var content map[string]interface{}
	if err := json.Unmarshal(document, &content); err != nil {
		return nil, fmt.Errorf("body is not a JSON object: %w", err)
	}
	if content == nil {
		return nil, fmt.Errorf("body is empty")
	}

	id := s.partialID
	if required {
		id = s.fullID
	}
	if err := s.validator.ValidateString(string(document), id); err != nil {
		return nil, err
	}

	normalized := map[string]interface{}{}
	for _, attr := range s.opts.Attributes {
		value, ok := content[attr.Name]
		if !ok {
			continue
		}
		switch attr.Type {
		case String:
			str, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("attribute %s must be a string", attr.Name)
			}
			str = strings.TrimSpace(str)
			if s.opts.CaseFold {
				str = strings.ToLower(str)
			}
			if len(str) == 0 {
				return nil, fmt.Errorf("attribute %s is empty", attr.Name)
			}
			// the length bound counts characters, not bytes
			if utf8.RuneCountInString(str) > attr.Max {
				return nil, fmt.Errorf("attribute %s exceeds %d characters", attr.Name, attr.Max)
			}
			if s.opts.Alphanumeric && !isAlphanumeric(str) {
				return nil, fmt.Errorf("attribute %s contains invalid characters", attr.Name)
			}
			normalized[attr.Name] = str
		case Int:
			number, ok := value.(float64)
			if !ok {
				return nil, fmt.Errorf("attribute %s must be an integer", attr.Name)
			}
			n := int(number)
			if float64(n) != number {
				return nil, fmt.Errorf("attribute %s must be an integer", attr.Name)
			}
			if n <= 0 || n > attr.Max {
				return nil, fmt.Errorf("attribute %s is out of range", attr.Name)
			}
			normalized[attr.Name] = n
		}
	}
	return normalized, nil
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			return false
		}
	}
	return true
}
