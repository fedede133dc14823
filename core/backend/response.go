// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

package backend

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/glimmer-tech/menagerie/core"
	"github.com/glimmer-tech/menagerie/core/logger"
)

const jsonContentType = "application/json"

// user-visible error messages
const (
	errMissingJWT       = "Missing or invalid JWT"
	errUnsupportedMedia = "The service does not support the request media type"
	errNotAcceptable    = "The service does not support the specified response media type(s)"
	errInvalidBody      = "The request body is empty or invalid"
	errForbidden        = "The provided credentials do not have permission to perform that action"
	errMethodNotAllowed = "Method not allowed"
	errInternal         = "Internal service error"
)

func errNoSuchRecord(kind core.Kind) string {
	singular := kind.Singular()
	return fmt.Sprintf("No %s with this %s_id exists", singular, singular)
}

func writeJSON(w http.ResponseWriter, status int, object interface{}) {
	jsonData, err := json.Marshal(object)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	w.Write(jsonData)
}

func writeError(w http.ResponseWriter, status int, message string) {
	jsonData, _ := json.Marshal(map[string]string{"Error": message})
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	w.Write(jsonData)
}

func writeNoContent(w http.ResponseWriter) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(http.StatusNoContent)
}

// writeInternalError logs the fault and answers with a terminal 500. Store
// faults are not retried.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).WithError(err).Errorln("request failed")
	writeError(w, http.StatusInternalServerError, errInternal)
}

// acceptsJSON reports whether the request's Accept header admits a JSON
// response. An absent header admits nothing.
func acceptsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(part)
		if i := strings.IndexRune(mediaType, ';'); i >= 0 {
			mediaType = strings.TrimSpace(mediaType[:i])
		}
		switch mediaType {
		case jsonContentType, "application/*", "*/*":
			return true
		}
	}
	return false
}

// sendsJSON reports whether the request body is declared as JSON.
func sendsJSON(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if i := strings.IndexRune(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType) == jsonContentType
}

// requestBase returns the request's own base URL, with a trailing slash. The
// self locators of all returned records are derived from it.
func requestBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/"
}

// listParams parses the pagination query parameters, with a kind-specific
// default limit. On a malformed parameter it answers 400 and returns false.
func listParams(w http.ResponseWriter, r *http.Request, defaultLimit int) (limit, offset int, ok bool) {
	limit = defaultLimit
	offset = 0
	var err error
	if value := r.URL.Query().Get("limit"); value != "" {
		limit, err = strconv.Atoi(value)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "parameter 'limit': out of range")
			return 0, 0, false
		}
	}
	if value := r.URL.Query().Get("offset"); value != "" {
		offset, err = strconv.Atoi(value)
		if err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, "parameter 'offset': out of range")
			return 0, 0, false
		}
	}
	return limit, offset, true
}

// nextPageURL returns the continuation URL for a list response, or the empty
// string when the page covers the remainder of the collection.
func nextPageURL(base string, kind core.Kind, limit, offset, totalCount int) string {
	if offset+limit >= totalCount {
		return ""
	}
	return fmt.Sprintf("%s%s?limit=%d&offset=%d", base, kind, limit, offset+limit)
}
