package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"requester-dashboard/internal/config"
	"requester-dashboard/internal/dashboard"
)

func runCmd(t *testing.T, cfg config.Config, args ...string) (string, string, error) {
	t.Helper()
	return runWith(t, func() (config.Config, error) { return cfg, nil }, args...)
}

func runWith(t *testing.T, load func() (config.Config, error), args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(load)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func cliConfig(backend string) config.Config {
	return config.Config{
		BackendURL:      backend,
		RequestIDHeader: "X-Request-ID",
		LogLevel:        "error",
	}
}

func TestListCmd(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			{"id":1,"referenceNumber":"REQ-1","timestamp":"2026-10-01","projectTitle":"P1","classification":"Pending","status":"Open"},
			{"id":2,"referenceNumber":"REQ-2","timestamp":"2026-10-02","projectTitle":"P2","classification":"Completed","assignedTo":"Engr. Cruz","status":"Closed"}
		]`)
	}))
	defer backend.Close()

	out, _, err := runCmd(t, cliConfig(backend.URL), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Requests: 2")
	assert.Contains(t, out, "Pending Requests: 1")
	assert.Contains(t, out, "Completed Requests: 1")
	assert.Contains(t, out, "REQID")
	assert.Contains(t, out, "Unassigned")
	assert.Contains(t, out, "Engr. Cruz")

	out, _, err = runCmd(t, cliConfig(backend.URL), "list", "--json")
	require.NoError(t, err)
	var recs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	assert.Len(t, recs, 2)
}

func TestListCmd_BackendDown(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer backend.Close()

	_, _, err := runCmd(t, cliConfig(backend.URL), "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch requests")
}

func TestSubmitCmd_ValidatesLocally(t *testing.T) {
	called := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer backend.Close()

	_, errOut, err := runCmd(t, cliConfig(backend.URL), "submit", "--email", "a@example.com")
	require.ErrorIs(t, err, dashboard.ErrInvalid)
	assert.False(t, called)
	assert.Contains(t, errOut, "name: Please select your name")
	assert.Contains(t, errOut, "dateNeeded: Please select a date needed")
	assert.NotContains(t, errOut, "email:")
}

func TestSubmitCmd_Creates(t *testing.T) {
	var posted map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&posted)
		posted["id"] = 7
		posted["referenceNumber"] = "REQ-7"
		json.NewEncoder(w).Encode(posted)
	}))
	defer backend.Close()

	file := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("site notes"), 0644))

	out, errOut, err := runCmd(t, cliConfig(backend.URL), "submit",
		"--email", "a@example.com",
		"--name", "Andrew Donggay",
		"--type-of-client", "Private",
		"--classification", "Negotiable",
		"--project-title", "Carport",
		"--philgeps-reference-number", "NA",
		"--product-type", "Solar Lights",
		"--request-type", "Project Evaluation",
		"--date-needed", "2026-12-15",
		"--special-instructions", "None",
		"--file", file,
	)
	require.NoError(t, err)
	assert.Contains(t, out, `"referenceNumber": "REQ-7"`)
	assert.Contains(t, errOut, "1 attached file(s)")
	assert.Equal(t, "Carport", posted["projectTitle"])
	assert.NotContains(t, posted, "files")
	assert.True(t, strings.Contains(out, `"id": 7`))
}

func TestClientCmds_IgnoreServerSettings(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))
	defer backend.Close()

	t.Setenv("BACKEND_URL", backend.URL)
	t.Setenv("STORAGE_MAX_ROWS", "10")
	t.Setenv("SESSION_TTL", "0s")

	out, _, err := runWith(t, config.Parse, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Requests: 0")

	out, _, err = runWith(t, config.Parse, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "serve")

	_, _, err = runWith(t, config.Parse, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_MAX_ROWS")
	assert.Equal(t, 2, exitCode(err))
}

func TestClientCmds_RejectBadBackendURL(t *testing.T) {
	cfg := cliConfig("localhost:5000")
	_, _, err := runCmd(t, cfg, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_URL")
	assert.Equal(t, 2, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(dashboard.ErrInvalid))
	assert.Equal(t, 2, exitCode(&configError{errors.New("bad")}))
}
