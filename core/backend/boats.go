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

// Boats and loads are open resources, there is no ownership and no
// authentication on any of their routes.
func (b *Backend) handleBoats(router *mux.Router) {
	collectionHandler(router, "/boats", b.boatsCollection)
	router.HandleFunc("/boats/{boat_id}", b.boatsItem)
	router.HandleFunc("/boats/{boat_id}/loads/{load_id}", b.boatAssignment)
}

func (b *Backend) boatsCollection(w http.ResponseWriter, r *http.Request) {
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
		records, totalCount, err := b.store.List(r.Context(), core.KindBoats, limit, offset)
		if err != nil {
			writeInternalError(w, r, err)
			return
		}
		base := requestBase(r)
		page := make([]boatResource, 0, len(records))
		for i := range records {
			var boat Boat
			if err := json.Unmarshal(records[i].Doc, &boat); err != nil {
				writeInternalError(w, r, err)
				return
			}
			page = append(page, decorateBoat(&records[i], boat, base))
		}
		body := map[string]interface{}{"boats": page, "count": totalCount}
		if next := nextPageURL(base, core.KindBoats, limit, offset, totalCount); next != "" {
			body["next"] = next
		}
		writeJSON(w, http.StatusOK, body)

	case http.MethodPost:
		doc := validRequestBody(w, r, boatSchema, true)
		if doc == nil {
			return
		}
		name, _ := doc["name"].(string)
		unique, err := b.nameIsUnique(r.Context(), core.KindBoats, name)
		if err != nil {
			writeInternalError(w, r, err)
			return
		}
		if !unique {
			writeError(w, http.StatusForbidden, "A boat with this name already exists")
			return
		}
		boat := Boat{Loads: []Ref{}}
		applyBoatAttributes(&boat, doc)
		record, err := b.insertDocument(r.Context(), core.KindBoats, &boat)
		if err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, decorateBoat(record, boat, requestBase(r)))

	default:
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
	}
}

func (b *Backend) boatsItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(mux.Vars(r)["boat_id"])
	if !ok {
		writeError(w, http.StatusNotFound, errNoSuchRecord(core.KindBoats))
		return
	}
	record, err := b.store.Get(r.Context(), core.KindBoats, id)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, errNoSuchRecord(core.KindBoats))
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	var boat Boat
	if err := json.Unmarshal(record.Doc, &boat); err != nil {
		writeInternalError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !acceptsJSON(r) {
			writeError(w, http.StatusNotAcceptable, errNotAcceptable)
			return
		}
		writeJSON(w, http.StatusOK, decorateBoat(record, boat, requestBase(r)))

	case http.MethodPut:
		doc := validRequestBody(w, r, boatSchema, true)
		if doc == nil {
			return
		}
		applyBoatAttributes(&boat, doc)
		if err := b.putDocument(r.Context(), core.KindBoats, id, &boat); err != nil {
			writeInternalError(w, r, err)
			return
		}
		// a full replace redirects to the record's own read endpoint
		w.Header().Set("Location", selfURL(requestBase(r), core.KindBoats, formatID(id)))
		w.Header().Set("Content-Type", jsonContentType)
		w.WriteHeader(http.StatusSeeOther)

	case http.MethodPatch:
		doc := validRequestBody(w, r, boatSchema, false)
		if doc == nil {
			return
		}
		applyBoatAttributes(&boat, doc)
		if err := b.putDocument(r.Context(), core.KindBoats, id, &boat); err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, decorateBoat(record, boat, requestBase(r)))

	case http.MethodDelete:
		if err := b.releaseLoads(r.Context(), &boat); err != nil {
			writeInternalError(w, r, err)
			return
		}
		if err := b.store.Delete(r.Context(), core.KindBoats, id); err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeNoContent(w)

	default:
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
	}
}

// boatAssignment maintains the two-way boat/load link, mirroring the
// unicorn/blessing pair but without any ownership gate.
func (b *Backend) boatAssignment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}
	vars := mux.Vars(r)
	boatID, okB := parseID(vars["boat_id"])
	loadID, okL := parseID(vars["load_id"])
	var boatRecord, loadRecord *store.Record
	var err error
	if okB {
		boatRecord, err = b.store.Get(r.Context(), core.KindBoats, boatID)
		if err != nil && err != store.ErrNotFound {
			writeInternalError(w, r, err)
			return
		}
	}
	if okL {
		loadRecord, err = b.store.Get(r.Context(), core.KindLoads, loadID)
		if err != nil && err != store.ErrNotFound {
			writeInternalError(w, r, err)
			return
		}
	}
	if boatRecord == nil || loadRecord == nil {
		writeError(w, http.StatusNotFound, "The specified boat and/or load do not exist")
		return
	}
	var boat Boat
	var load Load
	if err := json.Unmarshal(boatRecord.Doc, &boat); err != nil {
		writeInternalError(w, r, err)
		return
	}
	if err := json.Unmarshal(loadRecord.Doc, &load); err != nil {
		writeInternalError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodPut:
		if load.Carrier != nil {
			writeError(w, http.StatusConflict, "The load is already assigned to a boat")
			return
		}
		load.Carrier = &Ref{ID: vars["boat_id"]}
		if err := b.putDocument(r.Context(), core.KindLoads, loadID, &load); err != nil {
			writeInternalError(w, r, err)
			return
		}
		boat.Loads = append(boat.Loads, Ref{ID: vars["load_id"]})
		if err := b.putDocument(r.Context(), core.KindBoats, boatID, &boat); err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeNoContent(w)

	case http.MethodDelete:
		if load.Carrier == nil || load.Carrier.ID != vars["boat_id"] {
			writeError(w, http.StatusNotFound,
				"No load with this load_id is assigned to the boat with this boat_id")
			return
		}
		load.Carrier = nil
		if err := b.putDocument(r.Context(), core.KindLoads, loadID, &load); err != nil {
			writeInternalError(w, r, err)
			return
		}
		if err := b.removeLoadFromBoat(r.Context(), vars["boat_id"], vars["load_id"]); err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeNoContent(w)
	}
}

func applyBoatAttributes(boat *Boat, doc map[string]interface{}) {
	if value, ok := doc["name"].(string); ok {
		boat.Name = value
	}
	if value, ok := doc["type"].(string); ok {
		boat.Type = value
	}
	if value, ok := doc["length"].(int); ok {
		boat.Length = value
	}
}

// removeLoadFromBoat drops the load from the boat's membership list. A
// vanished boat is not an error.
func (b *Backend) removeLoadFromBoat(ctx context.Context, boatIDString, loadIDString string) error {
	boatID, ok := parseID(boatIDString)
	if !ok {
		return nil
	}
	record, err := b.store.Get(ctx, core.KindBoats, boatID)
	if err == store.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	var boat Boat
	if err := json.Unmarshal(record.Doc, &boat); err != nil {
		return err
	}
	members := boat.Loads[:0]
	for _, member := range boat.Loads {
		if member.ID != loadIDString {
			members = append(members, member)
		}
	}
	boat.Loads = members
	return b.putDocument(ctx, core.KindBoats, boatID, &boat)
}

// releaseLoads clears the carrier reference of every load the boat carries
// before the boat itself is deleted.
func (b *Backend) releaseLoads(ctx context.Context, boat *Boat) error {
	for _, member := range boat.Loads {
		id, ok := parseID(member.ID)
		if !ok {
			continue
		}
		record, err := b.store.Get(ctx, core.KindLoads, id)
		if err == store.ErrNotFound {
			continue
		}
		if err != nil {
			return err
		}
		var load Load
		if err := json.Unmarshal(record.Doc, &load); err != nil {
			return err
		}
		load.Carrier = nil
		if err := b.putDocument(ctx, core.KindLoads, id, &load); err != nil {
			return err
		}
	}
	return nil
}
