// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

package backend

import (
	"io"
	"net/http"

	"github.com/glimmer-tech/menagerie/core/validate"
)

// validRequestBody runs the media-type negotiation and body validation for a
// mutating request, in this order: the declared request media type must be
// JSON (415), the client must accept a JSON response (406), and the body must
// validate against the kind's schema (400). For PATCH requests required is
// false and any non-empty subset of attributes is acceptable.
//
// On failure the response has already been written and nil is returned.
func validRequestBody(w http.ResponseWriter, r *http.Request, schema *validate.Schema, required bool) map[string]interface{} {
	if !sendsJSON(r) {
		writeError(w, http.StatusUnsupportedMediaType, errUnsupportedMedia)
		return nil
	}
	if !acceptsJSON(r) {
		writeError(w, http.StatusNotAcceptable, errNotAcceptable)
		return nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return nil
	}
	document, err := schema.Validate(body, required)
	if err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody)
		return nil
	}
	return document
}
