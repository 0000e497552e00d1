package n8n

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/autofinder/internal/infra/mail"
)

func webhookReplying(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
}

func TestWebhookSendOutcomes(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"json success", 200, `{"success":true,"emailId":"1"}`, ""},
		{"plain ok", 200, "OK", ""},
		{"empty body", 204, "", ""},
		{"success false", 200, `{"success":false}`, "estado de fallo"},
		{"error field", 200, `{"error":"smtp down"}`, "smtp down"},
		{"error zero", 200, `{"error":0,"success":true}`, ""},
		{"error code", 200, `{"error":42}`, "42"},
		{"server error", 500, "boom", "webhook error (500): boom"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := webhookReplying(tc.status, tc.body)
			defer srv.Close()

			err := NewWebhookClient(srv.URL).Send(context.Background(), mail.Message{To: "a@b.co", Subject: "s", Body: "b"})
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestWebhookSendsPayloadFields(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	err := NewWebhookClient(srv.URL).Send(context.Background(), mail.Message{To: "a@b.co", Subject: "s", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"email": "a@b.co", "subject": "s", "body": "b"}, got)
}

func TestWebhookNotConfigured(t *testing.T) {
	err := NewWebhookClient("").Send(context.Background(), mail.Message{To: "a@b.co"})
	assert.ErrorIs(t, err, ErrWebhookNotConfigured)
}

func TestCreateWorkflow(t *testing.T) {
	var gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-N8N-API-KEY")
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `{"id":"wf-42","name":"Quote mailer"}`)
	}))
	defer srv.Close()

	c, err := NewWorkflowClient(srv.URL+"/", "secret")
	require.NoError(t, err)

	wf, err := c.CreateWorkflow(context.Background(), json.RawMessage(`{"name":"Quote mailer","nodes":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "wf-42", wf.ID)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "/api/v1/workflows", gotPath)
}

func TestCreateWorkflowFailure(t *testing.T) {
	srv := webhookReplying(401, `{"message":"unauthorized"}`)
	defer srv.Close()

	c, err := NewWorkflowClient(srv.URL, "bad")
	require.NoError(t, err)

	_, err = c.CreateWorkflow(context.Background(), json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNewWorkflowClientRequiresConfig(t *testing.T) {
	_, err := NewWorkflowClient("http://x", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	_, err = NewWorkflowClient("", "k")
	assert.ErrorIs(t, err, ErrMissingBaseURL)
}
