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

	"github.com/glimmer-tech/menagerie/core"
	"github.com/glimmer-tech/menagerie/core/access"
	"github.com/glimmer-tech/menagerie/core/logger"
)

// account is a registered user together with its record id.
type account struct {
	ID   int64
	User User
}

// verifiedUser authenticates the request. It requires a bearer token that the
// identity verifier accepts, for an identity that has previously registered
// through the login flow. On failure it answers 401 and returns false.
func (b *Backend) verifiedUser(w http.ResponseWriter, r *http.Request) (*account, bool) {
	token, ok := access.TokenFromAuthorizationHeader(r.Header.Get("Authorization"))
	if !ok {
		writeError(w, http.StatusUnauthorized, errMissingJWT)
		return nil, false
	}
	claims, err := b.verifier.Verify(r.Context(), token)
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Infoln("token rejected")
		writeError(w, http.StatusUnauthorized, errMissingJWT)
		return nil, false
	}
	user, err := b.userByGID(r.Context(), claims.Subject)
	if err != nil {
		writeInternalError(w, r, err)
		return nil, false
	}
	if user == nil {
		// verified identity, but never logged in
		writeError(w, http.StatusUnauthorized, errMissingJWT)
		return nil, false
	}
	ctx, _ := logger.ContextWithLoggerIdentity(r.Context(), claims.Subject)
	*r = *r.WithContext(access.ContextWithIdentity(ctx, claims.Subject))
	return user, true
}

// userByGID scans the registered users for the given identity. It returns nil
// without error when no account matches.
func (b *Backend) userByGID(ctx context.Context, gid string) (*account, error) {
	records, err := b.store.ListAll(ctx, core.KindUsers)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		var user User
		if err := json.Unmarshal(record.Doc, &user); err != nil {
			return nil, err
		}
		if user.GID == gid {
			return &account{ID: record.ID, User: user}, nil
		}
	}
	return nil, nil
}

// registerUser stores a new account for the identity, or refreshes name and
// email on the existing one. It returns the account's record id.
func (b *Backend) registerUser(ctx context.Context, claims *access.Claims) (int64, error) {
	user := User{GID: claims.Subject, Name: claims.Name, Email: claims.Email}
	doc, err := json.Marshal(user)
	if err != nil {
		return 0, err
	}
	existing, err := b.userByGID(ctx, claims.Subject)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		if err := b.store.Put(ctx, core.KindUsers, existing.ID, doc); err != nil {
			return 0, err
		}
		return existing.ID, nil
	}
	record, err := b.store.Insert(ctx, core.KindUsers, doc)
	if err != nil {
		return 0, err
	}
	return record.ID, nil
}
