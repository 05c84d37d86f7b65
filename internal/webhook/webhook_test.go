package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/config"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/upload"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

type received struct {
	header http.Header
	body   []byte
}

func newReceiver(t *testing.T, status int) (*httptest.Server, func() []received) {
	t.Helper()

	var (
		mu   sync.Mutex
		reqs []received
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, received{header: r.Header.Clone(), body: body})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []received {
		mu.Lock()
		defer mu.Unlock()
		return append([]received(nil), reqs...)
	}
}

func TestNotifyUpload(t *testing.T) {
	srv, got := newReceiver(t, http.StatusNoContent)
	n := NewNotifier(config.WebhookConfig{URLs: []string{srv.URL}, Secret: "test-secret"}, nil)

	res := upload.BatchResult{
		ID:        "batch-1",
		Kind:      models.MediaImage,
		Succeeded: []upload.FileResult{{Name: "a.png"}},
		Failed:    []upload.FileResult{{Name: "b.png", Err: errors.New("Unsupported file type: text/plain")}},
		Items: []upload.Item{
			{Name: "a.png", Size: 10, Sent: 10, Status: upload.ItemStatusDone},
			{Name: "b.png", Size: 5, Status: upload.ItemStatusFailed},
		},
		Duration: 1500 * time.Millisecond,
	}
	require.NoError(t, n.NotifyUpload(context.Background(), res))

	reqs := got()
	require.Len(t, reqs, 1)
	r := reqs[0]
	assert.Equal(t, EventUploadCompleted, r.header.Get(EventHeader))
	assert.NotEmpty(t, r.header.Get(DeliveryHeader))
	assert.Equal(t, Sign(r.body, "test-secret"), r.header.Get(SignatureHeader))

	var body struct {
		Event string        `json:"event"`
		Data  UploadSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(r.body, &body))
	assert.Equal(t, EventUploadCompleted, body.Event)
	assert.Equal(t, "batch-1", body.Data.BatchID)
	assert.Equal(t, "img", body.Data.Kind)
	assert.Equal(t, []string{"a.png"}, body.Data.Uploaded)
	assert.Equal(t, []FailedFile{{Name: "b.png", Error: "Unsupported file type: text/plain"}}, body.Data.Failed)
	assert.Empty(t, body.Data.Skipped)
	assert.Equal(t, []FileStatus{{"a.png", 10, "done"}, {"b.png", 5, "failed"}}, body.Data.Files)
	assert.Equal(t, int64(1500), body.Data.DurationMS)
}

func TestNotifyWithoutSecretIsUnsigned(t *testing.T) {
	srv, got := newReceiver(t, http.StatusOK)
	n := NewNotifier(config.WebhookConfig{URLs: []string{srv.URL}}, nil)

	require.NoError(t, n.Notify(context.Background(), "ping", map[string]string{"hello": "world"}))
	reqs := got()
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].header.Get(SignatureHeader))
}

func TestNotifyReportsEachFailure(t *testing.T) {
	ok, okReqs := newReceiver(t, http.StatusOK)
	bad, badReqs := newReceiver(t, http.StatusBadGateway)
	n := NewNotifier(config.WebhookConfig{URLs: []string{bad.URL, ok.URL}}, nil)

	err := n.Notify(context.Background(), EventUploadCompleted, UploadSummary{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	// one attempt per URL, the failure does not stop the rest
	assert.Len(t, badReqs(), 1)
	assert.Len(t, okReqs(), 1)
}

func TestDisabledNotifier(t *testing.T) {
	n := NewNotifier(config.WebhookConfig{}, nil)
	assert.False(t, n.Enabled())
	assert.NoError(t, n.Notify(context.Background(), EventUploadCompleted, nil))

	var nilNotifier *Notifier
	assert.False(t, nilNotifier.Enabled())
}

func TestSign(t *testing.T) {
	sig := Sign([]byte(`{"event":"test"}`), "test-secret")
	assert.Regexp(t, `^sha256=[0-9a-f]{64}$`, sig)
	assert.NotEqual(t, sig, Sign([]byte(`{"event":"test"}`), "other"))
}
