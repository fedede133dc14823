// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

package backend

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/glimmer-tech/menagerie/core"
	"github.com/glimmer-tech/menagerie/core/store"
)

// insertDocument marshals the typed record and inserts it under a new key.
func (b *Backend) insertDocument(ctx context.Context, kind core.Kind, object interface{}) (*store.Record, error) {
	doc, err := json.Marshal(object)
	if err != nil {
		return nil, err
	}
	return b.store.Insert(ctx, kind, doc)
}

// putDocument marshals the typed record and replaces the stored document.
func (b *Backend) putDocument(ctx context.Context, kind core.Kind, id int64, object interface{}) error {
	doc, err := json.Marshal(object)
	if err != nil {
		return err
	}
	return b.store.Put(ctx, kind, id, doc)
}

// nameIsUnique scans all records of the kind for a name collision. The store
// offers no indexed equality lookup for document attributes, the scan is
// linear.
func (b *Backend) nameIsUnique(ctx context.Context, kind core.Kind, name string) (bool, error) {
	records, err := b.store.ListAll(ctx, kind)
	if err != nil {
		return false, err
	}
	for _, record := range records {
		var doc map[string]interface{}
		if err := json.Unmarshal(record.Doc, &doc); err != nil {
			return false, err
		}
		if doc["name"] == name {
			return false, nil
		}
	}
	return true, nil
}
