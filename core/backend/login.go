// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

package backend

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/glimmer-tech/menagerie/core/logger"
	"github.com/glimmer-tech/menagerie/core/store"
)

// session cookies. The session cookie carries the identity token, so a
// frontend can replay it as a bearer credential against the API.
const (
	sessionCookie = "Menagerie-JWT"
	stateCookie   = "Menagerie-State"
)

var loginScopes = []string{"openid", "profile", "email"}

// LoginConfig holds the OAuth2 client credentials for the browser login flow.
type LoginConfig struct {
	ClientID     string
	ClientSecret string
}

func (b *Backend) handleLogin(router *mux.Router) {
	router.HandleFunc("/auth", b.loginAuth)
	router.HandleFunc("/callback", b.loginCallback)
	router.HandleFunc("/profile", b.loginProfile)
	router.HandleFunc("/logout", b.loginLogout)
}

// oauthConfig builds the provider configuration for this request. The
// redirect target is derived from the request's own base URL, the service
// does not need to know where it is deployed.
func (b *Backend) oauthConfig(r *http.Request) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     b.login.ClientID,
		ClientSecret: b.login.ClientSecret,
		RedirectURL:  requestBase(r) + "callback",
		Scopes:       loginScopes,
		Endpoint:     google.Endpoint,
	}
}

func (b *Backend) loginAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
	})
	url := b.oauthConfig(r).AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusFound)
}

func (b *Backend) loginCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}
	rlog := logger.FromContext(r.Context())
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeError(w, http.StatusBadRequest, "Login state mismatch")
		return
	}
	token, err := b.oauthConfig(r).Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		rlog.WithError(err).Errorln("Error 1101: cannot exchange authorization code")
		writeError(w, http.StatusBadRequest, "Login failed")
		return
	}
	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		rlog.Errorln("Error 1102: token response carries no identity token")
		writeError(w, http.StatusBadRequest, "Login failed")
		return
	}
	claims, err := b.verifier.Verify(r.Context(), idToken)
	if err != nil {
		rlog.WithError(err).Errorln("Error 1103: identity token rejected")
		writeError(w, http.StatusBadRequest, "Login failed")
		return
	}
	if _, err := b.registerUser(r.Context(), claims); err != nil {
		writeInternalError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    idToken,
		Path:     "/",
		HttpOnly: true,
	})
	http.Redirect(w, r, requestBase(r)+"profile", http.StatusSeeOther)
}

// loginProfile returns the logged-in user as JSON. Without a valid session it
// redirects back to the index.
func (b *Backend) loginProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		http.Redirect(w, r, requestBase(r), http.StatusSeeOther)
		return
	}
	claims, err := b.verifier.Verify(r.Context(), cookie.Value)
	if err != nil {
		http.Redirect(w, r, requestBase(r)+"logout", http.StatusSeeOther)
		return
	}
	// refresh name and email on every visit
	id, err := b.registerUser(r.Context(), claims)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	user := User{GID: claims.Subject, Name: claims.Name, Email: claims.Email}
	record := store.Record{ID: id}
	writeJSON(w, http.StatusOK, decorateUser(&record, user, requestBase(r)))
}

func (b *Backend) loginLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, requestBase(r), http.StatusSeeOther)
}
