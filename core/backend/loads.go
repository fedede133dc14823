// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

package backend

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/glimmer-tech/menagerie/core"
	"github.com/glimmer-tech/menagerie/core/store"
)

func (b *Backend) handleLoads(router *mux.Router) {
	collectionHandler(router, "/loads", b.loadsCollection)
	router.HandleFunc("/loads/{load_id}", b.loadsItem)
}

func (b *Backend) loadsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !acceptsJSON(r) {
			writeError(w, http.StatusNotAcceptable, errNotAcceptable)
			return
		}
		limit, offset, ok := listParams(w, r, defaultLimitOpen)
		if !ok {
			return
		}
		records, totalCount, err := b.store.List(r.Context(), core.KindLoads, limit, offset)
		if err != nil {
			writeInternalError(w, r, err)
			return
		}
		base := requestBase(r)
		page := make([]loadResource, 0, len(records))
		for i := range records {
			var load Load
			if err := json.Unmarshal(records[i].Doc, &load); err != nil {
				writeInternalError(w, r, err)
				return
			}
			page = append(page, decorateLoad(&records[i], load, base))
		}
		body := map[string]interface{}{"loads": page, "count": totalCount}
		if next := nextPageURL(base, core.KindLoads, limit, offset, totalCount); next != "" {
			body["next"] = next
		}
		writeJSON(w, http.StatusOK, body)

	case http.MethodPost:
		doc := validRequestBody(w, r, loadSchema, true)
		if doc == nil {
			return
		}
		load := Load{}
		applyLoadAttributes(&load, doc)
		record, err := b.insertDocument(r.Context(), core.KindLoads, &load)
		if err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, decorateLoad(record, load, requestBase(r)))

	default:
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
	}
}

func (b *Backend) loadsItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["load_id"])
	if !ok {
		writeError(w, http.StatusNotFound, errNoSuchRecord(core.KindLoads))
		return
	}
	record, err := b.store.Get(r.Context(), core.KindLoads, id)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, errNoSuchRecord(core.KindLoads))
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	var load Load
	if err := json.Unmarshal(record.Doc, &load); err != nil {
		writeInternalError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !acceptsJSON(r) {
			writeError(w, http.StatusNotAcceptable, errNotAcceptable)
			return
		}
		writeJSON(w, http.StatusOK, decorateLoad(record, load, requestBase(r)))

	case http.MethodPut, http.MethodPatch:
		doc := validRequestBody(w, r, loadSchema, r.Method == http.MethodPut)
		if doc == nil {
			return
		}
		applyLoadAttributes(&load, doc)
		if err := b.putDocument(r.Context(), core.KindLoads, id, &load); err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, decorateLoad(record, load, requestBase(r)))

	case http.MethodDelete:
		if load.Carrier != nil {
			if err := b.removeLoadFromBoat(r.Context(), load.Carrier.ID, formatID(id)); err != nil {
				writeInternalError(w, r, err)
				return
			}
		}
		if err := b.store.Delete(r.Context(), core.KindLoads, id); err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeNoContent(w)

	default:
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
	}
}

func applyLoadAttributes(load *Load, doc map[string]interface{}) {
	if value, ok := doc["weight"].(int); ok {
		load.Weight = value
	}
	if value, ok := doc["content"].(string); ok {
		load.Content = value
	}
	if value, ok := doc["delivery_date"].(string); ok {
		load.DeliveryDate = value
	}
}
