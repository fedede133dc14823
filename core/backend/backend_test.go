package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/glimmer-tech/menagerie/core"
	"github.com/glimmer-tech/menagerie/core/access"
	"github.com/glimmer-tech/menagerie/core/client"
	"github.com/glimmer-tech/menagerie/core/store"
)

const (
	aliceToken = "alice-token"
	bobToken   = "bob-token"
	// verifies, but was never provisioned as a user
	ghostToken = "ghost-token"

	testBase = "http://menagerie.test/"
)

// staticVerifier maps fixed tokens to identities, it stands in for the
// Google verifier in tests.
type staticVerifier map[string]*access.Claims

func (v staticVerifier) Verify(ctx context.Context, token string) (*access.Claims, error) {
	claims, ok := v[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return claims, nil
}

// TestService is one backend over a fresh in-memory store, with clients for
// two provisioned users.
type TestService struct {
	backend *Backend
	store   *store.Memory
	client  client.Client
	alice   client.Client
	bob     client.Client
	aliceID string
	bobID   string
}

func newTestService() *TestService {
	documents := store.NewMemory()
	router := mux.NewRouter()
	b := New(&Builder{
		Store:  documents,
		Router: router,
		Verifier: staticVerifier{
			aliceToken: {Subject: "gid-alice", Email: "alice@example.com", Name: "Alice Adams"},
			bobToken:   {Subject: "gid-bob", Email: "bob@example.com", Name: "Bob Brown"},
			ghostToken: {Subject: "gid-ghost", Email: "ghost@example.com", Name: "Ghost"},
		},
		Login: &LoginConfig{ClientID: "test-client", ClientSecret: "test-secret"},
	})

	ctx := context.Background()
	aliceID, err := b.registerUser(ctx, &access.Claims{Subject: "gid-alice", Email: "alice@example.com", Name: "Alice Adams"})
	if err != nil {
		panic(err)
	}
	bobID, err := b.registerUser(ctx, &access.Claims{Subject: "gid-bob", Email: "bob@example.com", Name: "Bob Brown"})
	if err != nil {
		panic(err)
	}

	c := client.NewWithRouter(router)
	return &TestService{
		backend: b,
		store:   documents,
		client:  c,
		alice:   c.WithToken(aliceToken),
		bob:     c.WithToken(bobToken),
		aliceID: formatID(aliceID),
		bobID:   formatID(bobID),
	}
}

var testService *TestService

func TestMain(m *testing.M) {
	testService = newTestService()
	os.Exit(m.Run())
}

func asJSON(object interface{}) string {
	j, _ := json.Marshal(object)
	return string(j)
}

type errorBody struct {
	Error string `json:"Error"`
}

func requireError(t *testing.T, status int, body []byte, wantStatus int, wantMessage string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("got status %d want %d, body: %s", status, wantStatus, string(body))
	}
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatal("error body is not JSON:", string(body))
	}
	if e.Error != wantMessage {
		t.Fatalf("got error message %q want %q", e.Error, wantMessage)
	}
}

func TestIndex(t *testing.T) {
	var index struct {
		Service   string            `json:"service"`
		Resources map[string]string `json:"resources"`
	}
	if _, err := testService.client.RawGet("/", &index); err != nil {
		t.Fatal(err)
	}
	if index.Service != "menagerie" {
		t.Fatal("unexpected index:", asJSON(index))
	}
	if index.Resources["unicorns"] != testBase+"unicorns" {
		t.Fatal("unexpected resource link:", index.Resources["unicorns"])
	}

	status, _, body, err := testService.client.Do(http.MethodPost, "/", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, body, http.StatusMethodNotAllowed, "Method not allowed")
}

func TestContentNegotiation(t *testing.T) {
	ts := newTestService()

	// a request without any Accept header admits nothing and answers 406,
	// the same as an unacceptable one
	for _, path := range []string{"/unicorns", "/blessings", "/boats", "/loads", "/users/" + ts.aliceID + "/unicorns"} {
		r := httptest.NewRequest(http.MethodGet, "http://menagerie.test"+path, nil)
		w := httptest.NewRecorder()
		ts.backend.router.ServeHTTP(w, r)
		requireError(t, w.Code, w.Body.Bytes(), http.StatusNotAcceptable,
			"The service does not support the specified response media type(s)")
	}

	// an unacceptable Accept header answers 406 on every read path
	for _, path := range []string{"/unicorns", "/blessings", "/boats", "/loads"} {
		status, _, body, err := ts.client.WithHeader("Accept", "text/html").Do(http.MethodGet, path, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		requireError(t, status, body, http.StatusNotAcceptable,
			"The service does not support the specified response media type(s)")
	}

	// wildcard and mixed Accept headers are fine
	for _, accept := range []string{"*/*", "application/*", "application/json", "text/html, application/json;q=0.9"} {
		status, _, body, err := ts.client.WithHeader("Accept", accept).Do(http.MethodGet, "/loads", nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if status != http.StatusOK {
			t.Fatalf("accept %q: got status %d, body: %s", accept, status, string(body))
		}
	}

	// a non-JSON request body answers 415 before anything else
	status, _, body, err := ts.client.Do(http.MethodPost, "/boats",
		map[string]string{"Content-Type": "text/plain"}, []byte(`name=Nina`))
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, body, http.StatusUnsupportedMediaType,
		"The service does not support the request media type")

	// 415 outranks 406
	status, _, body, err = ts.client.Do(http.MethodPost, "/boats",
		map[string]string{"Content-Type": "text/plain", "Accept": "text/html"}, []byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, body, http.StatusUnsupportedMediaType,
		"The service does not support the request media type")
}

// faultyStore fails every operation, to exercise the 500 mapping.
type faultyStore struct{}

var errStoreDown = errors.New("store is down")

func (faultyStore) Get(ctx context.Context, kind core.Kind, id int64) (*store.Record, error) {
	return nil, errStoreDown
}
func (faultyStore) Insert(ctx context.Context, kind core.Kind, doc json.RawMessage) (*store.Record, error) {
	return nil, errStoreDown
}
func (faultyStore) Put(ctx context.Context, kind core.Kind, id int64, doc json.RawMessage) error {
	return errStoreDown
}
func (faultyStore) Delete(ctx context.Context, kind core.Kind, id int64) error {
	return errStoreDown
}
func (faultyStore) List(ctx context.Context, kind core.Kind, limit, offset int) ([]store.Record, int, error) {
	return nil, 0, errStoreDown
}
func (faultyStore) ListAll(ctx context.Context, kind core.Kind) ([]store.Record, error) {
	return nil, errStoreDown
}

func TestStoreFault(t *testing.T) {
	router := mux.NewRouter()
	New(&Builder{
		Store:    faultyStore{},
		Router:   router,
		Verifier: staticVerifier{},
	})
	c := client.NewWithRouter(router)

	status, _, body, err := c.Do(http.MethodGet, "/unicorns", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, body, http.StatusInternalServerError, "Internal service error")

	status, _, body, err = c.Do(http.MethodGet, "/boats/1", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, body, http.StatusInternalServerError, "Internal service error")
}

func TestBadListParameters(t *testing.T) {
	for _, query := range []string{"?limit=0", "?limit=nope", "?offset=-1", "?offset=x"} {
		status, _, body, err := testService.client.Do(http.MethodGet, "/loads"+query, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if status != http.StatusBadRequest {
			t.Fatalf("query %q: got status %d, body: %s", query, status, string(body))
		}
		if !strings.Contains(string(body), "out of range") {
			t.Fatal("unexpected error body:", string(body))
		}
	}
}
