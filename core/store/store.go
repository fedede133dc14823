// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

/*
Package store is a thin adapter between abstract CRUD operations and the
backing document store. Records are schemaless JSON documents grouped into
kinds; keys are store-assigned integers.

The adapter deliberately exposes only single-record and whole-kind primitives.
Cross-record concerns such as uniqueness checks and owner filters are linear
scans in the caller, and multi-record updates are sequences of independent
read-modify-write calls with no transaction.
*/
package store

import (
	"context"
	"errors"

	"github.com/goccy/go-json"

	"github.com/glimmer-tech/menagerie/core"
)

// ErrNotFound signals that no record with the requested key exists.
var ErrNotFound = errors.New("store: record not found")

// Record is one stored document together with its store-assigned key.
type Record struct {
	ID  int64
	Doc json.RawMessage
}

// Client is the injected store abstraction. Implementations must be safe for
// concurrent use.
type Client interface {
	// Get returns the record with the given key, or ErrNotFound.
	Get(ctx context.Context, kind core.Kind, id int64) (*Record, error)
	// Insert persists a new document under a freshly assigned key.
	Insert(ctx context.Context, kind core.Kind, doc json.RawMessage) (*Record, error)
	// Put replaces the document stored under the given key, or returns ErrNotFound.
	Put(ctx context.Context, kind core.Kind, id int64, doc json.RawMessage) error
	// Delete removes the record with the given key, or returns ErrNotFound.
	Delete(ctx context.Context, kind core.Kind, id int64) error
	// List returns one page of records in key order plus the total count of
	// records of that kind.
	List(ctx context.Context, kind core.Kind, limit, offset int) ([]Record, int, error)
	// ListAll returns every record of the kind in key order.
	ListAll(ctx context.Context, kind core.Kind) ([]Record, error)
}
