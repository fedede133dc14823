// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

package schema

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/xeipuuv/gojsonschema"
)

// Validator is a utility to validate JSON objects against a set of schemas
type Validator struct {
	schemaValidators map[string]*gojsonschema.Schema
}

// NewValidator creates a new Validator from the given top level JSON schemas.
// Every schema must carry a unique $id, which is the handle used with ValidateString.
func NewValidator(schemas []string) (*Validator, error) {
	type schema struct {
		ID string `json:"$id"`
	}
	validator := Validator{schemaValidators: make(map[string]*gojsonschema.Schema)}
	for _, str := range schemas {
		s := schema{}
		err := json.Unmarshal([]byte(str), &s)
		if err != nil {
			return nil, fmt.Errorf("parse error '%v' in schema: '%s'", err, str)
		}
		if s.ID == "" {
			return nil, fmt.Errorf("schema does not contain $id: '%s'", str)
		}
		sl := gojsonschema.NewSchemaLoader()
		schema, err := sl.Compile(gojsonschema.NewStringLoader(str))
		if err != nil {
			return nil, fmt.Errorf("cannot compile schema %s %s", s.ID, err)
		}
		validator.schemaValidators[s.ID] = schema
	}

	return &validator, nil
}

// HasSchema returns true if a schema with the given id was registered
func (v *Validator) HasSchema(id string) bool {
	_, found := v.schemaValidators[id]
	return found
}

// ValidateString validates the JSON document against the schema with the given id.
// The returned error contains all violations.
func (v *Validator) ValidateString(document, id string) error {
	validator, found := v.schemaValidators[id]
	if !found {
		return fmt.Errorf("no schema with id %s", id)
	}
	result, err := validator.Validate(gojsonschema.NewStringLoader(document))
	if err != nil {
		return err
	}
	if !result.Valid() {
		errMsg := ""
		for _, desc := range result.Errors() {
			errMsg += fmt.Sprintf("%s\n", desc)
		}
		return errors.New(errMsg)
	}
	return nil
}
