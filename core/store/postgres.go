// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

package store

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/glimmer-tech/menagerie/core"
	"github.com/glimmer-tech/menagerie/core/csql"
	"github.com/glimmer-tech/menagerie/core/logger"
)

// Postgres stores documents in a postgres database, one table per kind with a
// BIGSERIAL key and a jsonb document column.
type Postgres struct {
	db *csql.DB
}

// NewPostgres creates the tables for the given kinds (if they do not exist
// yet) and returns the store client.
func NewPostgres(db *csql.DB, kinds ...core.Kind) (*Postgres, error) {
	nillog := logger.FromContext(nil)
	for _, kind := range kinds {
		nillog.Debugln("create kind:", kind)
		createQuery := fmt.Sprintf(`CREATE table IF NOT EXISTS %s."%s" `+
			`(id BIGSERIAL PRIMARY KEY, `+
			`document jsonb NOT NULL DEFAULT '{}'::jsonb, `+
			`timestamp timestamp NOT NULL DEFAULT now());`, db.Schema, kind)
		if _, err := db.Exec(createQuery); err != nil {
			return nil, fmt.Errorf("%s %s: %w", core.OperationCreate, kind, err)
		}
	}
	return &Postgres{db: db}, nil
}

// Get returns the record with the given key, or ErrNotFound.
func (p *Postgres) Get(ctx context.Context, kind core.Kind, id int64) (*Record, error) {
	record := Record{ID: id}
	query := fmt.Sprintf(`SELECT document FROM %s."%s" WHERE id = $1;`, p.db.Schema, kind)
	err := p.db.QueryRowContext(ctx, query, id).Scan(&record.Doc)
	if err == csql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", core.OperationRead, kind, err)
	}
	return &record, nil
}

// Insert persists a new document and returns it with the assigned key.
func (p *Postgres) Insert(ctx context.Context, kind core.Kind, doc json.RawMessage) (*Record, error) {
	record := Record{Doc: doc}
	query := fmt.Sprintf(`INSERT INTO %s."%s" (document) VALUES($1) RETURNING id;`, p.db.Schema, kind)
	err := p.db.QueryRowContext(ctx, query, []byte(doc)).Scan(&record.ID)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", core.OperationCreate, kind, err)
	}
	return &record, nil
}

// Put replaces the document stored under the given key.
func (p *Postgres) Put(ctx context.Context, kind core.Kind, id int64, doc json.RawMessage) error {
	query := fmt.Sprintf(`UPDATE %s."%s" SET document = $2, timestamp = now() WHERE id = $1;`, p.db.Schema, kind)
	result, err := p.db.ExecContext(ctx, query, id, []byte(doc))
	if err != nil {
		return fmt.Errorf("%s %s: %w", core.OperationUpdate, kind, err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", core.OperationUpdate, kind, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record with the given key.
func (p *Postgres) Delete(ctx context.Context, kind core.Kind, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s."%s" WHERE id = $1;`, p.db.Schema, kind)
	result, err := p.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s %s: %w", core.OperationDelete, kind, err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", core.OperationDelete, kind, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of records in key order plus the total count.
func (p *Postgres) List(ctx context.Context, kind core.Kind, limit, offset int) ([]Record, int, error) {
	query := fmt.Sprintf(`SELECT id, document, count(*) OVER() AS full_count FROM %s."%s" `+
		`ORDER BY id ASC LIMIT $1 OFFSET $2;`, p.db.Schema, kind)
	rows, err := p.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", core.OperationList, kind, err)
	}
	defer rows.Close()

	records := []Record{}
	var totalCount int
	for rows.Next() {
		var record Record
		if err := rows.Scan(&record.ID, &record.Doc, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%s %s: %w", core.OperationList, kind, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", core.OperationList, kind, err)
	}

	if len(records) == 0 {
		// the windowed count is not returned when the offset is past the
		// end, a second query is needed
		countQuery := fmt.Sprintf(`SELECT count(*) FROM %s."%s";`, p.db.Schema, kind)
		if err := p.db.QueryRowContext(ctx, countQuery).Scan(&totalCount); err != nil {
			return nil, 0, fmt.Errorf("%s %s: %w", core.OperationList, kind, err)
		}
	}
	return records, totalCount, nil
}

// ListAll returns every record of the kind in key order.
func (p *Postgres) ListAll(ctx context.Context, kind core.Kind) ([]Record, error) {
	query := fmt.Sprintf(`SELECT id, document FROM %s."%s" ORDER BY id ASC;`, p.db.Schema, kind)
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", core.OperationList, kind, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var record Record
		if err := rows.Scan(&record.ID, &record.Doc); err != nil {
			return nil, fmt.Errorf("%s %s: %w", core.OperationList, kind, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", core.OperationList, kind, err)
	}
	return records, nil
}
