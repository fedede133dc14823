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

// Users are provisioned through the login flow only, the user routes exist
// because they are on the path to the per-user relation listings.
func (b *Backend) handleUsers(router *mux.Router) {
	collectionHandler(router, "/users", b.usersMethodNotAllowed)
	router.HandleFunc("/users/{user_id}", b.usersMethodNotAllowed)
	router.HandleFunc("/users/{user_id}/unicorns", b.userUnicorns)
	router.HandleFunc("/users/{user_id}/blessings", b.userBlessings)
}

func (b *Backend) usersMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
}

func (b *Backend) userUnicorns(w http.ResponseWriter, r *http.Request) {
	userID, ok := b.relatedListUser(w, r)
	if !ok {
		return
	}
	records, err := b.store.ListAll(r.Context(), core.KindUnicorns)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	base := requestBase(r)
	owned := make([]unicornResource, 0)
	for i := range records {
		var unicorn Unicorn
		if err := json.Unmarshal(records[i].Doc, &unicorn); err != nil {
			writeInternalError(w, r, err)
			return
		}
		if unicorn.Friend.ID == userID {
			owned = append(owned, decorateUnicorn(&records[i], unicorn, base))
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"unicorns": owned})
}

func (b *Backend) userBlessings(w http.ResponseWriter, r *http.Request) {
	userID, ok := b.relatedListUser(w, r)
	if !ok {
		return
	}
	records, err := b.store.ListAll(r.Context(), core.KindBlessings)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	base := requestBase(r)
	founded := make([]blessingResource, 0)
	for i := range records {
		var blessing Blessing
		if err := json.Unmarshal(records[i].Doc, &blessing); err != nil {
			writeInternalError(w, r, err)
			return
		}
		if blessing.Founder.ID == userID {
			founded = append(founded, decorateBlessing(&records[i], blessing, base))
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"blessings": founded})
}

// relatedListUser runs the shared gates of the per-user relation listings:
// GET only, the user must exist, the response must be acceptable as JSON. It
// returns the user's decimal id, which owner references are compared against.
func (b *Backend) relatedListUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return "", false
	}
	idString := mux.Vars(r)["user_id"]
	id, ok := parseID(idString)
	if !ok {
		writeError(w, http.StatusNotFound, errNoSuchRecord(core.KindUsers))
		return "", false
	}
	_, err := b.store.Get(r.Context(), core.KindUsers, id)
	if err == store.ErrNotFound {
		writeError(w, http.StatusNotFound, errNoSuchRecord(core.KindUsers))
		return "", false
	}
	if err != nil {
		writeInternalError(w, r, err)
		return "", false
	}
	if !acceptsJSON(r) {
		writeError(w, http.StatusNotAcceptable, errNotAcceptable)
		return "", false
	}
	return formatID(id), true
}
