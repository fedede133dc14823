package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

// testRouter echoes selected request headers on GET and the posted document
// on POST, so the client's header and body handling can be observed.
func testRouter() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/things", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]string{
				"accept":        r.Header.Get("Accept"),
				"authorization": r.Header.Get("Authorization"),
				"tenant":        r.Header.Get("X-Tenant"),
			})
		case http.MethodPost:
			var doc map[string]string
			json.NewDecoder(r.Body).Decode(&doc)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(doc)
		}
	})
	return router
}

func TestClientHeaders(t *testing.T) {
	c := NewWithRouter(testRouter()).WithToken("secret").WithHeader("X-Tenant", "alpha")

	echo := map[string]string{}
	if _, err := c.RawGet("/things", &echo); err != nil {
		t.Fatal(err)
	}
	if echo["accept"] != "application/json" {
		t.Fatal("no default accept header:", echo["accept"])
	}
	if echo["authorization"] != "Bearer secret" {
		t.Fatal("no bearer token:", echo["authorization"])
	}
	if echo["tenant"] != "alpha" {
		t.Fatal("default header missing:", echo["tenant"])
	}

	// per-call headers win over default headers
	_, _, body, err := c.Do(http.MethodGet, "/things", map[string]string{"X-Tenant": "beta"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	echo = map[string]string{}
	if err := json.Unmarshal(body, &echo); err != nil {
		t.Fatal(err)
	}
	if echo["tenant"] != "beta" {
		t.Fatal("per-call header did not win:", echo["tenant"])
	}
}

func TestClientOverHTTP(t *testing.T) {
	server := httptest.NewServer(testRouter())
	defer server.Close()

	c := NewWithURL(server.URL)
	created := map[string]string{}
	if _, err := c.RawPost("/things", map[string]string{"name": "one"}, &created); err != nil {
		t.Fatal(err)
	}
	if created["name"] != "one" {
		t.Fatal("unexpected response:", created)
	}
}

func TestClientExpectedStatus(t *testing.T) {
	c := NewWithRouter(testRouter())

	// the router answers 200 where 204 is expected
	if _, err := c.RawDelete("/things"); err == nil {
		t.Fatal("expected a status error")
	}
}
