// Copyright 2026 Glimmer Tech GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@glimmer-tech.dev
//

/*
Package client provides easy and fast in-process access to the REST api

Instead of marshalling HTTP, the client talks directly to the mux router. It
is perfectly suited for unit tests. With NewWithURL it can also talk to a
deployed service over the network.
*/
package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/gorilla/mux"
)

// Client provides easy access to the REST API.
type Client struct {
	router     *mux.Router
	httpClient *http.Client
	url        string
	token      string

	defaultHeaders map[string]string
}

// NewWithRouter creates a client to make pseudo-REST requests to the backend,
// through the mux router
func NewWithRouter(router *mux.Router) Client {
	return Client{
		router: router,
		// requests need a host so the backend can derive self locators
		url:            "http://menagerie.test",
		defaultHeaders: map[string]string{},
	}
}

// NewWithURL creates a client to make REST requests to the backend
//
// WithToken adds an authorization token to the request header.
func NewWithURL(url string) Client {
	return Client{
		url:            url,
		httpClient:     &http.Client{Timeout: 20 * time.Second},
		defaultHeaders: map[string]string{},
	}
}

// WithToken returns a new client with a bearer token added to every request
func (c Client) WithToken(token string) Client {
	c.token = token
	return c
}

// WithHeader returns a new client with a default header added
func (c Client) WithHeader(key string, value string) Client {
	headers := map[string]string{key: value}
	for k, v := range c.defaultHeaders {
		headers[k] = v
	}
	c.defaultHeaders = headers
	return c
}

// Do makes a request and returns the raw response. body can be nil, a []byte
// or any JSON-marshallable object. Every request declares that it accepts
// JSON; the client's default headers are applied on top, the given headers
// last.
func (c Client) Do(method, path string, headers map[string]string, body interface{}) (int, http.Header, []byte, error) {
	var reader io.Reader
	switch data := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(data)
	default:
		j, err := json.Marshal(body)
		if err != nil {
			return http.StatusBadRequest, nil, nil, err
		}
		reader = bytes.NewReader(j)
	}

	r, _ := http.NewRequest(method, c.url+path, reader)
	r.Header.Set("Accept", "application/json")
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		r.Header.Set("Authorization", "Bearer "+c.token)
	}
	for key, value := range c.defaultHeaders {
		r.Header.Set(key, value)
	}
	for key, value := range headers {
		r.Header.Set(key, value)
	}

	if c.router != nil {
		rec := httptest.NewRecorder()
		c.router.ServeHTTP(rec, r)
		res := rec.Result()
		return res.StatusCode, res.Header, rec.Body.Bytes(), nil
	}

	res, err := c.httpClient.Do(r)
	if err != nil {
		return http.StatusInternalServerError, nil, nil, err
	}
	defer res.Body.Close()
	resBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, res.Header, resBody, nil
}

func (c Client) expect(method, path string, headers map[string]string, body interface{},
	result interface{}, acceptable ...int) (int, http.Header, error) {

	status, header, resBody, err := c.Do(method, path, headers, body)
	if err != nil {
		return status, header, err
	}
	ok := false
	for _, a := range acceptable {
		ok = ok || status == a
	}
	if !ok {
		return status, header, fmt.Errorf("handler returned wrong status code: got %v want %v. Error: %s",
			status, acceptable[0], strings.TrimSpace(string(resBody)))
	}
	if status != http.StatusNoContent && status != http.StatusSeeOther &&
		len(resBody) > 0 && result != nil {
		if raw, ok := result.(*[]byte); ok {
			*raw = resBody
		} else {
			err = json.Unmarshal(resBody, result)
		}
	}
	return status, header, err
}

// RawGet gets the requested resource.
//
// Expects http.StatusOK as response, otherwise it will flag an error.
// Returns the actual http status code.
//
// result can also be a raw *[]byte, or nil.
func (c Client) RawGet(path string, result interface{}) (int, error) {
	status, _, err := c.expect(http.MethodGet, path, nil, nil, result, http.StatusOK)
	return status, err
}

// RawPost posts the body to the requested collection.
//
// Expects http.StatusCreated as response, otherwise it will flag an error.
// Returns the actual http status code.
//
// body can also be a []byte, result can also be a raw *[]byte or nil.
func (c Client) RawPost(path string, body interface{}, result interface{}) (int, error) {
	status, _, err := c.expect(http.MethodPost, path, nil, body, result, http.StatusCreated)
	return status, err
}

// RawPut replaces the requested resource.
//
// Expects http.StatusOK, http.StatusNoContent or http.StatusSeeOther as
// valid responses, otherwise it will flag an error. Returns the actual http
// status code and the response header.
func (c Client) RawPut(path string, body interface{}, result interface{}) (int, http.Header, error) {
	return c.expect(http.MethodPut, path, nil, body, result,
		http.StatusOK, http.StatusNoContent, http.StatusSeeOther)
}

// RawPatch merges the body into the requested resource.
//
// Expects http.StatusOK as response, otherwise it will flag an error.
// Returns the actual http status code.
func (c Client) RawPatch(path string, body interface{}, result interface{}) (int, error) {
	status, _, err := c.expect(http.MethodPatch, path, nil, body, result, http.StatusOK)
	return status, err
}

// RawDelete deletes the requested resource.
//
// Expects http.StatusNoContent as response, otherwise it will flag an error.
// Returns the actual http status code.
func (c Client) RawDelete(path string) (int, error) {
	status, _, err := c.expect(http.MethodDelete, path, nil, nil, nil, http.StatusNoContent)
	return status, err
}
