package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/manikadiri/healthnav/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}

func TestTokenBookShowRefreshCancel(t *testing.T) {
	home := t.TempDir()
	portal := newPortalServer(t)

	stdout, _, err := executeCLI(t, home, "--api-url", portal.URL, "token", "book", "--hospital", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Token A12 booked for City Hospital!")
	assert.Contains(t, stdout, "People ahead: 5")
	assert.Equal(t, int32(1), portal.bookings.Load())
	assert.True(t, strings.HasPrefix(portal.lastSession.Load().(string), "guest_"))

	stdout, _, err = executeCLI(t, home, "--api-url", portal.URL, "token", "show", "--output", "json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"code\": \"A12\"")
	assert.Contains(t, stdout, "\"progress_percent\": 75")

	stdout, _, err = executeCLI(t, home, "--api-url", portal.URL, "token", "show", "--refresh")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Only 3 patients ahead for token A12!")
	assert.Contains(t, stdout, "Almost your turn!")

	stdout, _, err = executeCLI(t, home, "token", "show", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "people_ahead: 3")
	assert.Contains(t, stdout, "tier: warning")

	stdout, _, err = executeCLI(t, home, "token", "cancel")
	require.NoError(t, err)
	assert.Equal(t, "Token A12 cancelled.\n", stdout)

	stdout, _, err = executeCLI(t, home, "token", "cancel")
	require.NoError(t, err)
	assert.Equal(t, "No active token.\n", stdout)
}

func TestTokenBookReusesGuestSession(t *testing.T) {
	home := t.TempDir()
	portal := newPortalServer(t)

	sessionOut, _, err := executeCLI(t, home, "session", "show")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "--api-url", portal.URL, "token", "book", "--hospital", "1")
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(sessionOut), portal.lastSession.Load())
}

func TestTokenBookRejectedPrintsServiceMessage(t *testing.T) {
	home := t.TempDir()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Hospital not found"}`))
	}))
	t.Cleanup(server.Close)

	_, _, err := executeCLI(t, home, "--api-url", server.URL, "token", "book", "--hospital", "999")
	require.Error(t, err)
	assert.Equal(t, "Hospital not found", err.Error())

	stdout, _, err := executeCLI(t, home, "token", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No active token")
}

func TestTokenBookServiceFailureAsksToRetry(t *testing.T) {
	home := t.TempDir()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	_, _, err := executeCLI(t, home, "--api-url", server.URL, "token", "book", "--hospital", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not book token, try again")
}

func TestTokenBookRequiresHospitalFlag(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "token", "book")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"hospital\" not set")
}

func TestTokenBookBlankHospital(t *testing.T) {
	portal := newPortalServer(t)

	_, _, err := executeCLI(t, t.TempDir(), "--api-url", portal.URL, "token", "book", "--hospital", "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hospital id is required")
	assert.Equal(t, int32(0), portal.bookings.Load())
}

func TestTokenShowWithoutTokenAsYAML(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "token", "show", "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "has_token: false")
	assert.Contains(t, stdout, "healthnav token book")
}

func TestTokenShowRejectsUnknownFormat(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "token", "show", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format \"xml\"")
}

func TestTokenShowDiscardsCorruptRecord(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeStateFixture(home, `version = 1

[slots]
token = "not-json"
`))

	stdout, _, err := executeCLI(t, home, "token", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No active token")

	data, err := os.ReadFile(filepath.Join(home, ".healthnav", "state.toml"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "not-json")
}

func TestSessionShowIsStableUntilReset(t *testing.T) {
	home := t.TempDir()

	first, _, err := executeCLI(t, home, "session", "show")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "guest_"))

	second, _, err := executeCLI(t, home, "session", "show")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stdout, _, err := executeCLI(t, home, "session", "reset")
	require.NoError(t, err)
	assert.Equal(t, "Session reset.\n", stdout)

	third, _, err := executeCLI(t, home, "session", "show")
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestHistoryAddListClear(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "history", "add", "cardiology")
	require.NoError(t, err)
	stdout, _, err := executeCLI(t, home, "history", "add", "City Hospital")
	require.NoError(t, err)
	assert.Equal(t, "1. City Hospital\n2. cardiology\n", stdout)

	stdout, _, err = executeCLI(t, home, "history", "list")
	require.NoError(t, err)
	assert.Equal(t, "1. City Hospital\n2. cardiology\n", stdout)

	_, _, err = executeCLI(t, home, "history", "clear")
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, home, "history", "list")
	require.NoError(t, err)
	assert.Equal(t, "No recent searches.\n", stdout)
}

func TestStoreBackendFromEnvironment(t *testing.T) {
	tests := []struct {
		backend  string
		wantPath string
	}{
		{backend: "file", wantPath: filepath.Join(".healthnav", "slots")},
		{backend: "sqlite", wantPath: filepath.Join(".healthnav", "healthnav.db")},
	}

	for _, tc := range tests {
		t.Run(tc.backend, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("HEALTHNAV_STORE_BACKEND", tc.backend)

			_, _, err := executeCLI(t, home, "history", "add", "dental")
			require.NoError(t, err)

			stdout, _, err := executeCLI(t, home, "history", "list")
			require.NoError(t, err)
			assert.Equal(t, "1. dental\n", stdout)

			_, err = os.Stat(filepath.Join(home, tc.wantPath))
			require.NoError(t, err)
			_, err = os.Stat(filepath.Join(home, ".healthnav", "state.toml"))
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestUnsupportedStoreBackend(t *testing.T) {
	t.Setenv("HEALTHNAV_STORE_BACKEND", "redis")

	_, _, err := executeCLI(t, t.TempDir(), "history", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store.backend \"redis\"")
}

func TestConfigFileSetsAPIBaseURL(t *testing.T) {
	home := t.TempDir()
	portal := newPortalServer(t)

	configPath := filepath.Join(t.TempDir(), "healthnav.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[api]\nbase_url = \""+portal.URL+"\"\n"), 0o600))

	stdout, _, err := executeCLI(t, home, "--config", configPath, "token", "book", "--hospital", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Token A12 booked")
	assert.Equal(t, int32(1), portal.bookings.Load())
}

func TestMissingExplicitConfigFails(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "--config", filepath.Join(t.TempDir(), "missing.toml"), "history", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestInvalidLogLevelFails(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "--log-level", "chatty", "history", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}

type portalServer struct {
	*httptest.Server
	bookings    atomic.Int32
	lastSession atomic.Value
}

func newPortalServer(t *testing.T) *portalServer {
	t.Helper()

	portal := &portalServer{}
	portal.lastSession.Store("")

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/tokens", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			HospitalID json.RawMessage `json:"hospital_id"`
			SessionID  string          `json:"session_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		portal.bookings.Add(1)
		portal.lastSession.Store(body.SessionID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"A12","hospital_id":1,"hospital_name":"City Hospital","people_ahead":5,"estimated_wait":20,"current_token":"A7"}`))
	})
	mux.HandleFunc("GET /api/tokens/A12/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"A12","people_ahead":3,"estimated_wait":12,"status":"waiting"}`))
	})

	portal.Server = httptest.NewServer(mux)
	t.Cleanup(portal.Close)

	return portal
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeStateFixture(home, contents string) error {
	dir := filepath.Join(home, ".healthnav")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "state.toml"), []byte(contents), 0o600)
}
