// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/glimmer-tech/menagerie/core"
)

// Memory is an in-process store client. It backs unit tests and local
// development; semantics match the Postgres client.
type Memory struct {
	mutex  sync.RWMutex
	kinds  map[core.Kind]map[int64]json.RawMessage
	nextID map[core.Kind]int64
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		kinds:  map[core.Kind]map[int64]json.RawMessage{},
		nextID: map[core.Kind]int64{},
	}
}

// kind may return nil, reads from a nil map are fine
func (m *Memory) kind(kind core.Kind) map[int64]json.RawMessage {
	return m.kinds[kind]
}

func (m *Memory) sortedIDs(kind core.Kind) []int64 {
	records := m.kind(kind)
	ids := make([]int64, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Get returns the record with the given key, or ErrNotFound.
func (m *Memory) Get(ctx context.Context, kind core.Kind, id int64) (*Record, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	doc, ok := m.kind(kind)[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Record{ID: id, Doc: doc}, nil
}

// Insert persists a new document and returns it with the assigned key.
func (m *Memory) Insert(ctx context.Context, kind core.Kind, doc json.RawMessage) (*Record, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.nextID[kind]++
	id := m.nextID[kind]
	records, ok := m.kinds[kind]
	if !ok {
		records = map[int64]json.RawMessage{}
		m.kinds[kind] = records
	}
	records[id] = append(json.RawMessage{}, doc...)
	return &Record{ID: id, Doc: doc}, nil
}

// Put replaces the document stored under the given key.
func (m *Memory) Put(ctx context.Context, kind core.Kind, id int64, doc json.RawMessage) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	records := m.kind(kind)
	if _, ok := records[id]; !ok {
		return ErrNotFound
	}
	records[id] = append(json.RawMessage{}, doc...)
	return nil
}

// Delete removes the record with the given key.
func (m *Memory) Delete(ctx context.Context, kind core.Kind, id int64) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	records := m.kind(kind)
	if _, ok := records[id]; !ok {
		return ErrNotFound
	}
	delete(records, id)
	return nil
}

// List returns one page of records in key order plus the total count.
func (m *Memory) List(ctx context.Context, kind core.Kind, limit, offset int) ([]Record, int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	ids := m.sortedIDs(kind)
	totalCount := len(ids)

	records := []Record{}
	for i := offset; i < totalCount && len(records) < limit; i++ {
		records = append(records, Record{ID: ids[i], Doc: m.kind(kind)[ids[i]]})
	}
	return records, totalCount, nil
}

// ListAll returns every record of the kind in key order.
func (m *Memory) ListAll(ctx context.Context, kind core.Kind) ([]Record, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	records := []Record{}
	for _, id := range m.sortedIDs(kind) {
		records = append(records, Record{ID: id, Doc: m.kind(kind)[id]})
	}
	return records, nil
}
