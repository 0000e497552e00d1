package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/autofinder/internal/infra/integration/n8n"
)

func TestParseDefinition(t *testing.T) {
	got, err := parseDefinition([]byte(` {"name":"wf","nodes":[]} `))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"wf","nodes":[]}`, string(got))

	got, err = parseDefinition([]byte("name: wf\nactive: false\nnodes: []\n"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"wf","active":false,"nodes":[]}`, string(got))

	_, err = parseDefinition([]byte("[1,2]"))
	assert.Error(t, err)

	_, err = parseDefinition([]byte("   "))
	assert.Error(t, err)

	_, err = parseDefinition([]byte("{broken"))
	assert.Error(t, err)
}

func TestReadInput(t *testing.T) {
	data, err := readInput(nil, strings.NewReader(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	data, err = readInput([]string{`{"b":2}`}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(data))

	data, err = readInput([]string{` {"c":3}`}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"c":3}`, string(data))

	data, err = readInput([]string{`[{"d":4}]`}, nil)
	require.NoError(t, err)
	assert.Equal(t, `[{"d":4}]`, string(data))
	_, err = parseDefinition(data)
	assert.EqualError(t, err, "a definição precisa ser um objeto JSON")

	path := filepath.Join(t.TempDir(), "wf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o600))
	data, err = readInput([]string{path}, nil)
	require.NoError(t, err)
	assert.Equal(t, "name: x\n", string(data))

	_, err = readInput([]string{filepath.Join(t.TempDir(), "missing.json")}, nil)
	assert.Error(t, err)
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("N8N_API_KEY", "")
	t.Setenv("N8N_BASE_URL", "")

	path := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, os.WriteFile(path, []byte("N8N_API_KEY=k\nN8N_BASE_URL=https://n8n.test/\n"), 0o600))

	base, key, err := loadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "https://n8n.test", base)
	assert.Equal(t, "k", key)

	_, _, err = loadCredentials(filepath.Join(t.TempDir(), "none"))
	assert.ErrorIs(t, err, n8n.ErrMissingAPIKey)
}

func runCLI(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(stdin)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateCommand(t *testing.T) {
	var gotKey string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/workflows", r.URL.Path)
		gotKey = r.Header.Get("X-N8N-API-KEY")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"wf-42","name":"Quote emails","active":false}`))
	}))
	defer srv.Close()

	env := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, os.WriteFile(env, []byte("N8N_API_KEY=secret\nN8N_BASE_URL="+srv.URL+"/\n"), 0o600))

	out, err := runCLI(t, strings.NewReader("name: Quote emails\nnodes: []\n"), "create", "--env-file", env, "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "wf-42")
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "Quote emails", gotBody["name"])
}

func TestCreateCommandFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	env := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, os.WriteFile(env, []byte("N8N_API_KEY=bad\nN8N_BASE_URL="+srv.URL+"\n"), 0o600))

	_, err := runCLI(t, nil, "create", "--env-file", env, "-q", `{"name":"x"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, err = runCLI(t, strings.NewReader("not: [valid"), "create", "--env-file", env, "-q")
	assert.Error(t, err)
}
