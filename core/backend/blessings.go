// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

package backend

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/glimmer-tech/menagerie/core"
	"github.com/glimmer-tech/menagerie/core/store"
)

func (b *Backend) handleBlessings(router *mux.Router) {
	collectionHandler(router, "/blessings", b.blessingsCollection)
	router.HandleFunc("/blessings/{blessing_id}", b.blessingsItem)
}

func (b *Backend) blessingsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !acceptsJSON(r) {
			writeError(w, http.StatusNotAcceptable, errNotAcceptable)
			return
		}
		limit, offset, ok := listParams(w, r, defaultLimitOwned)
		if !ok {
			return
		}
		records, totalCount, err := b.store.List(r.Context(), core.KindBlessings, limit, offset)
		if err != nil {
			writeInternalError(w, r, err)
			return
		}
		base := requestBase(r)
		page := make([]blessingResource, 0, len(records))
		for i := range records {
			var blessing Blessing
			if err := json.Unmarshal(records[i].Doc, &blessing); err != nil {
				writeInternalError(w, r, err)
				return
			}
			page = append(page, decorateBlessing(&records[i], blessing, base))
		}
		body := map[string]interface{}{"blessings": page, "count": totalCount}
		if next := nextPageURL(base, core.KindBlessings, limit, offset, totalCount); next != "" {
			body["next"] = next
		}
		writeJSON(w, http.StatusOK, body)

	case http.MethodPost:
		user, ok := b.verifiedUser(w, r)
		if !ok {
			return
		}
		doc := validRequestBody(w, r, blessingSchema, true)
		if doc == nil {
			return
		}
		blessing := Blessing{Founder: Ref{ID: formatID(user.ID)}, Unicorns: []Ref{}}
		applyBlessingAttributes(&blessing, doc)
		record, err := b.insertDocument(r.Context(), core.KindBlessings, &blessing)
		if err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, decorateBlessing(record, blessing, requestBase(r)))

	default:
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
	}
}

func (b *Backend) blessingsItem(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}
	var user *account
	if r.Method != http.MethodGet {
		var ok bool
		user, ok = b.verifiedUser(w, r)
		if !ok {
			return
		}
	}
	id, ok := parseID(mux.Vars(r)["blessing_id"])
	if !ok {
		writeError(w, http.StatusNotFound, errNoSuchRecord(core.KindBlessings))
		return
	}
	record, err := b.store.Get(r.Context(), core.KindBlessings, id)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, errNoSuchRecord(core.KindBlessings))
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	var blessing Blessing
	if err := json.Unmarshal(record.Doc, &blessing); err != nil {
		writeInternalError(w, r, err)
		return
	}
	if r.Method != http.MethodGet && blessing.Founder.ID != formatID(user.ID) {
		writeError(w, http.StatusForbidden, errForbidden)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !acceptsJSON(r) {
			writeError(w, http.StatusNotAcceptable, errNotAcceptable)
			return
		}
		writeJSON(w, http.StatusOK, decorateBlessing(record, blessing, requestBase(r)))

	case http.MethodPut, http.MethodPatch:
		doc := validRequestBody(w, r, blessingSchema, r.Method == http.MethodPut)
		if doc == nil {
			return
		}
		applyBlessingAttributes(&blessing, doc)
		if err := b.putDocument(r.Context(), core.KindBlessings, id, &blessing); err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, decorateBlessing(record, blessing, requestBase(r)))

	case http.MethodDelete:
		if err := b.releaseUnicorns(r.Context(), &blessing); err != nil {
			writeInternalError(w, r, err)
			return
		}
		if err := b.store.Delete(r.Context(), core.KindBlessings, id); err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeNoContent(w)
	}
}

func applyBlessingAttributes(blessing *Blessing, doc map[string]interface{}) {
	if value, ok := doc["name"].(string); ok {
		blessing.Name = value
	}
	if value, ok := doc["habitat"].(string); ok {
		blessing.Habitat = value
	}
	if value, ok := doc["description"].(string); ok {
		blessing.Description = value
	}
}

// releaseUnicorns clears the assignment reference of every member before the
// blessing itself is deleted. One read-modify-write per member.
func (b *Backend) releaseUnicorns(ctx context.Context, blessing *Blessing) error {
	for _, member := range blessing.Unicorns {
		id, ok := parseID(member.ID)
		if !ok {
			continue
		}
		record, err := b.store.Get(ctx, core.KindUnicorns, id)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return err
		}
		var unicorn Unicorn
		if err := json.Unmarshal(record.Doc, &unicorn); err != nil {
			return err
		}
		unicorn.Blessing = nil
		if err := b.putDocument(ctx, core.KindUnicorns, id, &unicorn); err != nil {
			return err
		}
	}
	return nil
}
