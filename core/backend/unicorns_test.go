package backend

import (
	"net/http"
	"strings"
	"testing"
)

type unicornList struct {
	Unicorns []unicornResource `json:"unicorns"`
	Count    int               `json:"count"`
	Next     string            `json:"next"`
}

func TestUnicornCreate(t *testing.T) {
	ts := newTestService()

	unicorn := unicornResource{}
	_, err := ts.alice.RawPost("/unicorns",
		map[string]interface{}{"name": "  Sparkle 7  ", "color": " Pearl White ", "magic": 20, "rider": "ignored"},
		&unicorn)
	if err != nil {
		t.Fatal(err)
	}
	if unicorn.ID == "" {
		t.Fatal("no id")
	}
	// strings are trimmed and folded to lower case, the maximum magic is accepted
	if unicorn.Name != "sparkle 7" || unicorn.Color != "pearl white" || unicorn.Magic != 20 {
		t.Fatal("unexpected result:", asJSON(unicorn))
	}
	if unicorn.Self != testBase+"unicorns/"+unicorn.ID {
		t.Fatal("unexpected self locator:", unicorn.Self)
	}
	if unicorn.Friend.ID != ts.aliceID || unicorn.Friend.Self != testBase+"users/"+ts.aliceID {
		t.Fatal("unexpected friend:", asJSON(unicorn.Friend))
	}
	if unicorn.Blessing != nil {
		t.Fatal("new unicorn must not have a blessing")
	}

	unicornGet := unicornResource{}
	if _, err = ts.client.RawGet("/unicorns/"+unicorn.ID, &unicornGet); err != nil {
		t.Fatal(err)
	}
	if asJSON(unicornGet) != asJSON(unicorn) {
		t.Fatal("get differs from create:", asJSON(unicornGet))
	}
}

func TestUnicornValidation(t *testing.T) {
	ts := newTestService()

	badBodies := []map[string]interface{}{
		{"name": "sparkle", "color": "white"},                               // missing magic
		{"name": "sparkle", "color": "white", "magic": 0},                   // below range
		{"name": "sparkle", "color": "white", "magic": 21},                  // above range
		{"name": "sparkle", "color": "white", "magic": "much"},              // wrong type
		{"name": "   ", "color": "white", "magic": 3},                       // empty after trim
		{"name": "spark!e", "color": "white", "magic": 3},                   // invalid character
		{"name": strings.Repeat("s", 101), "color": "white", "magic": 3},    // too long
		{"name": "sparkle", "color": 7, "magic": 3},                         // wrong type
	}
	for _, body := range badBodies {
		status, _, resBody, err := ts.alice.Do(http.MethodPost, "/unicorns", nil, body)
		if err != nil {
			t.Fatal(err)
		}
		requireError(t, status, resBody, http.StatusBadRequest, "The request body is empty or invalid")
	}

	// a name of exactly the maximum length is fine
	longName := strings.Repeat("s", 100)
	unicorn := unicornResource{}
	if _, err := ts.alice.RawPost("/unicorns",
		map[string]interface{}{"name": longName, "color": "white", "magic": 1}, &unicorn); err != nil {
		t.Fatal(err)
	}
	if unicorn.Name != longName {
		t.Fatal("unexpected name:", unicorn.Name)
	}
}

func TestUnicornNameUniqueness(t *testing.T) {
	ts := newTestService()

	body := map[string]interface{}{"name": "Highlander", "color": "blue", "magic": 3}
	if _, err := ts.alice.RawPost("/unicorns", body, nil); err != nil {
		t.Fatal(err)
	}
	// names collide after normalization, case does not matter
	status, _, resBody, err := ts.bob.Do(http.MethodPost, "/unicorns", nil,
		map[string]interface{}{"name": "  HIGHLANDER ", "color": "red", "magic": 4})
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, resBody, http.StatusForbidden, "A unicorn with this name already exists")
}

func TestUnicornAuthentication(t *testing.T) {
	ts := newTestService()
	body := map[string]interface{}{"name": "lucky", "color": "gold", "magic": 7}

	// no credential
	status, _, resBody, err := ts.client.Do(http.MethodPost, "/unicorns", nil, body)
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, resBody, http.StatusUnauthorized, "Missing or invalid JWT")

	// credential that does not verify
	status, _, resBody, err = ts.client.WithToken("garbage").Do(http.MethodPost, "/unicorns", nil, body)
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, resBody, http.StatusUnauthorized, "Missing or invalid JWT")

	// a malformed authorization header is the same as none
	status, _, resBody, err = ts.client.Do(http.MethodPost, "/unicorns",
		map[string]string{"Authorization": "Bearer " + aliceToken + " extra"}, body)
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, resBody, http.StatusUnauthorized, "Missing or invalid JWT")

	// a verified identity without a local user is still 401, not 403 or 404
	status, _, resBody, err = ts.client.WithToken(ghostToken).Do(http.MethodPost, "/unicorns", nil, body)
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, resBody, http.StatusUnauthorized, "Missing or invalid JWT")
}

func TestUnicornOwnership(t *testing.T) {
	ts := newTestService()

	unicorn := unicornResource{}
	if _, err := ts.alice.RawPost("/unicorns",
		map[string]interface{}{"name": "misty", "color": "grey", "magic": 2}, &unicorn); err != nil {
		t.Fatal(err)
	}

	// anyone may read
	if _, err := ts.bob.RawGet("/unicorns/"+unicorn.ID, nil); err != nil {
		t.Fatal(err)
	}

	// only the friend may mutate
	patch := map[string]interface{}{"color": "silver"}
	status, _, resBody, err := ts.bob.Do(http.MethodPatch, "/unicorns/"+unicorn.ID, nil, patch)
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, resBody, http.StatusForbidden,
		"The provided credentials do not have permission to perform that action")

	status, _, resBody, err = ts.bob.Do(http.MethodDelete, "/unicorns/"+unicorn.ID, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, resBody, http.StatusForbidden,
		"The provided credentials do not have permission to perform that action")

	patched := unicornResource{}
	if _, err := ts.alice.RawPatch("/unicorns/"+unicorn.ID, patch, &patched); err != nil {
		t.Fatal(err)
	}
	if patched.Color != "silver" || patched.Name != "misty" || patched.Magic != 2 {
		t.Fatal("unexpected result:", asJSON(patched))
	}
}

func TestUnicornPutAndPatch(t *testing.T) {
	ts := newTestService()

	unicorn := unicornResource{}
	if _, err := ts.alice.RawPost("/unicorns",
		map[string]interface{}{"name": "comet", "color": "white", "magic": 5}, &unicorn); err != nil {
		t.Fatal(err)
	}

	// full replace requires every attribute
	status, _, resBody, err := ts.alice.Do(http.MethodPut, "/unicorns/"+unicorn.ID, nil,
		map[string]interface{}{"name": "comet", "color": "white"})
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, resBody, http.StatusBadRequest, "The request body is empty or invalid")

	replaced := unicornResource{}
	if _, _, err := ts.alice.RawPut("/unicorns/"+unicorn.ID,
		map[string]interface{}{"name": "Comet II", "color": "Cream", "magic": 6}, &replaced); err != nil {
		t.Fatal(err)
	}
	if replaced.Name != "comet ii" || replaced.Color != "cream" || replaced.Magic != 6 {
		t.Fatal("unexpected result:", asJSON(replaced))
	}

	// partial merge requires at least one attribute
	status, _, resBody, err = ts.alice.Do(http.MethodPatch, "/unicorns/"+unicorn.ID, nil,
		map[string]interface{}{"rider": "nobody"})
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, resBody, http.StatusBadRequest, "The request body is empty or invalid")
}

func TestUnicornNotFound(t *testing.T) {
	for _, path := range []string{"/unicorns/12345", "/unicorns/not-a-number"} {
		status, _, body, err := testService.client.Do(http.MethodGet, path, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		requireError(t, status, body, http.StatusNotFound, "No unicorn with this unicorn_id exists")
	}
}

func TestUnicornMethodNotAllowed(t *testing.T) {
	status, _, body, err := testService.alice.Do(http.MethodPut, "/unicorns", nil,
		map[string]interface{}{"name": "x", "color": "y", "magic": 1})
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, body, http.StatusMethodNotAllowed, "Method not allowed")

	status, _, body, err = testService.alice.Do(http.MethodPost, "/unicorns/1", nil,
		map[string]interface{}{"name": "x", "color": "y", "magic": 1})
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, body, http.StatusMethodNotAllowed, "Method not allowed")
}

func TestUnicornPagination(t *testing.T) {
	ts := newTestService()

	names := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	for _, name := range names {
		if _, err := ts.alice.RawPost("/unicorns",
			map[string]interface{}{"name": name, "color": "white", "magic": 1}, nil); err != nil {
			t.Fatal(err)
		}
	}

	list := unicornList{}
	if _, err := ts.client.RawGet("/unicorns?limit=2&offset=0", &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Unicorns) != 2 || list.Count != 5 {
		t.Fatal("unexpected page:", asJSON(list))
	}
	if list.Unicorns[0].Name != "alpha" || list.Unicorns[1].Name != "beta" {
		t.Fatal("unexpected page order:", asJSON(list))
	}
	if list.Next != testBase+"unicorns?limit=2&offset=2" {
		t.Fatal("unexpected next link:", list.Next)
	}

	// the last page has no next link
	list = unicornList{}
	if _, err := ts.client.RawGet("/unicorns?limit=2&offset=4", &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Unicorns) != 1 || list.Count != 5 || list.Next != "" {
		t.Fatal("unexpected page:", asJSON(list))
	}

	// the default limit for unicorns is 5
	list = unicornList{}
	if _, err := ts.client.RawGet("/unicorns", &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Unicorns) != 5 || list.Next != "" {
		t.Fatal("unexpected page:", asJSON(list))
	}
}
