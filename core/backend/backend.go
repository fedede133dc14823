// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

package backend

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/glimmer-tech/menagerie/core/access"
	"github.com/glimmer-tech/menagerie/core/logger"
	"github.com/glimmer-tech/menagerie/core/store"
)

// Backend is the REST backend for the menagerie resource graph
type Backend struct {
	store    store.Client
	router   *mux.Router
	verifier access.Verifier
	login    *LoginConfig
}

// Builder is a builder helper for the Backend
type Builder struct {
	// Store is the document store client. This is mandatory.
	Store store.Client
	// Router is a mux router. This is mandatory.
	Router *mux.Router
	// Verifier validates bearer credentials. This is mandatory.
	Verifier access.Verifier
	// Login configures the browser login flow. This is optional; without it
	// the login routes are not registered and users must be provisioned
	// through other means.
	Login *LoginConfig
}

// New realizes the actual backend and adds all routes to the router
func New(bb *Builder) *Backend {

	if bb.Store == nil {
		panic("Store is missing")
	}
	if bb.Router == nil {
		panic("Router is missing")
	}
	if bb.Verifier == nil {
		panic("Verifier is missing")
	}

	b := &Backend{
		store:    bb.Store,
		router:   bb.Router,
		verifier: bb.Verifier,
		login:    bb.Login,
	}

	logger.AddRequestID(b.router)
	// responses compress transparently when the client asks for it
	b.router.Use(func(h http.Handler) http.Handler {
		return handlers.CompressHandler(h)
	})
	b.handleRoutes(b.router)
	return b
}

// handleRoutes adds all resource handlers to the router
func (b *Backend) handleRoutes(router *mux.Router) {
	nillog := logger.FromContext(nil)
	nillog.Debugln("backend: handle routes")

	b.handleIndex(router)
	if b.login != nil {
		b.handleLogin(router)
	}
	b.handleUsers(router)
	b.handleUnicorns(router)
	b.handleBlessings(router)
	b.handleBoats(router)
	b.handleLoads(router)
}

func (b *Backend) handleIndex(router *mux.Router) {
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
			return
		}
		base := requestBase(r)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"service": "menagerie",
			"resources": map[string]string{
				"users":     base + "users",
				"unicorns":  base + "unicorns",
				"blessings": base + "blessings",
				"boats":     base + "boats",
				"loads":     base + "loads",
			},
		})
	})
}

// collectionHandler registers one handler for a collection route, with and
// without a trailing slash.
func collectionHandler(router *mux.Router, path string, h http.HandlerFunc) {
	router.HandleFunc(path, h)
	router.HandleFunc(path+"/", h)
}
