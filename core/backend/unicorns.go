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

func (b *Backend) handleUnicorns(router *mux.Router) {
	collectionHandler(router, "/unicorns", b.unicornsCollection)
	router.HandleFunc("/unicorns/{unicorn_id}", b.unicornsItem)
	router.HandleFunc("/unicorns/{unicorn_id}/blessings/{blessing_id}", b.unicornAssignment)
}

func (b *Backend) unicornsCollection(w http.ResponseWriter, r *http.Request) {
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
		records, totalCount, err := b.store.List(r.Context(), core.KindUnicorns, limit, offset)
		if err != nil {
			writeInternalError(w, r, err)
			return
		}
		base := requestBase(r)
		page := make([]unicornResource, 0, len(records))
		for i := range records {
			var unicorn Unicorn
			if err := json.Unmarshal(records[i].Doc, &unicorn); err != nil {
				writeInternalError(w, r, err)
				return
			}
			page = append(page, decorateUnicorn(&records[i], unicorn, base))
		}
		body := map[string]interface{}{"unicorns": page, "count": totalCount}
		if next := nextPageURL(base, core.KindUnicorns, limit, offset, totalCount); next != "" {
			body["next"] = next
		}
		writeJSON(w, http.StatusOK, body)

	case http.MethodPost:
		user, ok := b.verifiedUser(w, r)
		if !ok {
			return
		}
		doc := validRequestBody(w, r, unicornSchema, true)
		if doc == nil {
			return
		}
		name, _ := doc["name"].(string)
		unique, err := b.nameIsUnique(r.Context(), core.KindUnicorns, name)
		if err != nil {
			writeInternalError(w, r, err)
			return
		}
		if !unique {
			writeError(w, http.StatusForbidden, "A unicorn with this name already exists")
			return
		}
		unicorn := Unicorn{Friend: Ref{ID: formatID(user.ID)}}
		applyUnicornAttributes(&unicorn, doc)
		record, err := b.insertDocument(r.Context(), core.KindUnicorns, &unicorn)
		if err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, decorateUnicorn(record, unicorn, requestBase(r)))

	default:
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
	}
}

func (b *Backend) unicornsItem(w http.ResponseWriter, r *http.Request) {
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
	record, unicorn, ok := b.fetchUnicorn(w, r, mux.Vars(r)["unicorn_id"])
	if !ok {
		return
	}
	if r.Method != http.MethodGet && unicorn.Friend.ID != formatID(user.ID) {
		writeError(w, http.StatusForbidden, errForbidden)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !acceptsJSON(r) {
			writeError(w, http.StatusNotAcceptable, errNotAcceptable)
			return
		}
		writeJSON(w, http.StatusOK, decorateUnicorn(record, *unicorn, requestBase(r)))

	case http.MethodPut, http.MethodPatch:
		doc := validRequestBody(w, r, unicornSchema, r.Method == http.MethodPut)
		if doc == nil {
			return
		}
		applyUnicornAttributes(unicorn, doc)
		if err := b.putDocument(r.Context(), core.KindUnicorns, record.ID, unicorn); err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, decorateUnicorn(record, *unicorn, requestBase(r)))

	case http.MethodDelete:
		if unicorn.Blessing != nil {
			if err := b.removeUnicornFromBlessing(r.Context(), unicorn.Blessing.ID, formatID(record.ID)); err != nil {
				writeInternalError(w, r, err)
				return
			}
		}
		if err := b.store.Delete(r.Context(), core.KindUnicorns, record.ID); err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeNoContent(w)
	}
}

// unicornAssignment maintains the two-way unicorn/blessing link. The two
// record updates are sequential, there is no cross-record transaction.
func (b *Backend) unicornAssignment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}
	user, ok := b.verifiedUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	unicornID, okU := parseID(vars["unicorn_id"])
	blessingID, okB := parseID(vars["blessing_id"])
	var unicornRecord, blessingRecord *store.Record
	var err error
	if okU {
		unicornRecord, err = b.store.Get(r.Context(), core.KindUnicorns, unicornID)
		if err != nil && err != store.ErrNotFound {
			writeInternalError(w, r, err)
			return
		}
	}
	if okB {
		blessingRecord, err = b.store.Get(r.Context(), core.KindBlessings, blessingID)
		if err != nil && err != store.ErrNotFound {
			writeInternalError(w, r, err)
			return
		}
	}
	if unicornRecord == nil || blessingRecord == nil {
		writeError(w, http.StatusNotFound, "The specified unicorn and/or blessing do not exist")
		return
	}
	var unicorn Unicorn
	var blessing Blessing
	if err := json.Unmarshal(unicornRecord.Doc, &unicorn); err != nil {
		writeInternalError(w, r, err)
		return
	}
	if err := json.Unmarshal(blessingRecord.Doc, &blessing); err != nil {
		writeInternalError(w, r, err)
		return
	}
	if unicorn.Friend.ID != formatID(user.ID) {
		writeError(w, http.StatusForbidden, errForbidden)
		return
	}

	switch r.Method {
	case http.MethodPut:
		if unicorn.Blessing != nil {
			writeError(w, http.StatusConflict, "The unicorn is already assigned to a blessing")
			return
		}
		unicorn.Blessing = &Ref{ID: vars["blessing_id"]}
		if err := b.putDocument(r.Context(), core.KindUnicorns, unicornID, &unicorn); err != nil {
			writeInternalError(w, r, err)
			return
		}
		blessing.Unicorns = append(blessing.Unicorns, Ref{ID: vars["unicorn_id"]})
		if err := b.putDocument(r.Context(), core.KindBlessings, blessingID, &blessing); err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeNoContent(w)

	case http.MethodDelete:
		if unicorn.Blessing == nil || unicorn.Blessing.ID != vars["blessing_id"] {
			writeError(w, http.StatusNotFound,
				"No unicorn with this unicorn_id is assigned to the blessing with this blessing_id")
			return
		}
		unicorn.Blessing = nil
		if err := b.putDocument(r.Context(), core.KindUnicorns, unicornID, &unicorn); err != nil {
			writeInternalError(w, r, err)
			return
		}
		if err := b.removeUnicornFromBlessing(r.Context(), vars["blessing_id"], vars["unicorn_id"]); err != nil {
			writeInternalError(w, r, err)
			return
		}
		writeNoContent(w)
	}
}

// fetchUnicorn resolves the route id to a stored unicorn. On a malformed or
// unknown id it answers 404 and returns false.
func (b *Backend) fetchUnicorn(w http.ResponseWriter, r *http.Request, idString string) (*store.Record, *Unicorn, bool) {
	id, ok := parseID(idString)
	if !ok {
		writeError(w, http.StatusNotFound, errNoSuchRecord(core.KindUnicorns))
		return nil, nil, false
	}
	record, err := b.store.Get(r.Context(), core.KindUnicorns, id)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, errNoSuchRecord(core.KindUnicorns))
		return nil, nil, false
	}
	if err != nil {
		writeInternalError(w, r, err)
		return nil, nil, false
	}
	var unicorn Unicorn
	if err := json.Unmarshal(record.Doc, &unicorn); err != nil {
		writeInternalError(w, r, err)
		return nil, nil, false
	}
	return record, &unicorn, true
}

func applyUnicornAttributes(unicorn *Unicorn, doc map[string]interface{}) {
	if value, ok := doc["name"].(string); ok {
		unicorn.Name = value
	}
	if value, ok := doc["color"].(string); ok {
		unicorn.Color = value
	}
	if value, ok := doc["magic"].(int); ok {
		unicorn.Magic = value
	}
}

// removeUnicornFromBlessing drops the unicorn from the blessing's membership
// list. A vanished blessing is not an error, the membership entry is simply
// gone with it.
func (b *Backend) removeUnicornFromBlessing(ctx context.Context, blessingIDString, unicornIDString string) error {
	blessingID, ok := parseID(blessingIDString)
	if !ok {
		return nil
	}
	record, err := b.store.Get(ctx, core.KindBlessings, blessingID)
	if err == store.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	var blessing Blessing
	if err := json.Unmarshal(record.Doc, &blessing); err != nil {
		return err
	}
	members := blessing.Unicorns[:0]
	for _, member := range blessing.Unicorns {
		if member.ID != unicornIDString {
			members = append(members, member)
		}
	}
	blessing.Unicorns = members
	return b.putDocument(ctx, core.KindBlessings, blessingID, &blessing)
}
