package backend

import (
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func cookieValue(header http.Header, name string) (string, bool) {
	for _, line := range header.Values("Set-Cookie") {
		parts := strings.SplitN(line, ";", 2)
		kv := strings.SplitN(parts[0], "=", 2)
		if len(kv) == 2 && kv[0] == name {
			return kv[1], true
		}
	}
	return "", false
}

func TestLoginAuthRedirect(t *testing.T) {
	status, header, _, err := testService.client.Do(http.MethodGet, "/auth", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusFound {
		t.Fatal("expected redirect, got", status)
	}
	location := header.Get("Location")
	if !strings.HasPrefix(location, "https://accounts.google.com/") {
		t.Fatal("unexpected location:", location)
	}
	if !strings.Contains(location, "client_id=test-client") {
		t.Fatal("client id missing from authorization url:", location)
	}
	state, ok := cookieValue(header, stateCookie)
	if !ok || state == "" {
		t.Fatal("no state cookie")
	}
	if !strings.Contains(location, "state="+state) {
		t.Fatal("state cookie does not match authorization url")
	}
}

func TestLoginCallbackStateMismatch(t *testing.T) {
	status, _, body, err := testService.client.Do(http.MethodGet, "/callback?state=evil&code=x",
		map[string]string{"Cookie": stateCookie + "=good"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	requireError(t, status, body, http.StatusBadRequest, "Login state mismatch")
}

func TestLoginProfile(t *testing.T) {
	// without a session, back to the index
	status, header, _, err := testService.client.Do(http.MethodGet, "/profile", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusSeeOther || header.Get("Location") != testBase {
		t.Fatal("expected redirect to index, got", status, header.Get("Location"))
	}

	// a stale session is logged out
	status, header, _, err = testService.client.Do(http.MethodGet, "/profile",
		map[string]string{"Cookie": sessionCookie + "=expired"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusSeeOther || header.Get("Location") != testBase+"logout" {
		t.Fatal("expected redirect to logout, got", status, header.Get("Location"))
	}

	// a valid session answers the user record
	var user userResource
	status, _, body, err := testService.client.Do(http.MethodGet, "/profile",
		map[string]string{"Cookie": sessionCookie + "=" + aliceToken}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusOK {
		t.Fatal("got status", status, "body:", string(body))
	}
	if err := json.Unmarshal(body, &user); err != nil {
		t.Fatal(err)
	}
	if user.GID != "gid-alice" || user.Email != "alice@example.com" || user.ID != testService.aliceID {
		t.Fatal("unexpected profile:", asJSON(user))
	}
	if user.Self != testBase+"users/"+testService.aliceID {
		t.Fatal("unexpected self locator:", user.Self)
	}
}

func TestLogout(t *testing.T) {
	status, header, _, err := testService.client.Do(http.MethodGet, "/logout", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if status != http.StatusSeeOther || header.Get("Location") != testBase {
		t.Fatal("expected redirect to index, got", status, header.Get("Location"))
	}
	value, ok := cookieValue(header, sessionCookie)
	if !ok || value != "" {
		t.Fatal("session cookie not cleared")
	}
}
