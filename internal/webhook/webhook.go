package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/config"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/logging"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/metrics"
	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/upload"
)

const (
	// EventUploadCompleted fires once per finished upload batch
	EventUploadCompleted = "upload.completed"

	SignatureHeader = "X-Webhook-Signature"
	EventHeader     = "X-Webhook-Event"
	DeliveryHeader  = "X-Webhook-Delivery"
)

// Event is the JSON body of every delivery
type Event struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// FailedFile is one failed upload in an UploadSummary
type FailedFile struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// FileStatus is the final state of one file of the batch
type FileStatus struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Status string `json:"status"`
}

// UploadSummary is the payload of EventUploadCompleted
type UploadSummary struct {
	BatchID    string       `json:"batch_id"`
	Kind       string       `json:"kind"`
	Uploaded   []string     `json:"uploaded"`
	Failed     []FailedFile `json:"failed"`
	Skipped    []string     `json:"skipped"`
	Files      []FileStatus `json:"files"`
	DurationMS int64        `json:"duration_ms"`
}

// Summarize converts a pipeline result into its webhook payload
func Summarize(res upload.BatchResult) UploadSummary {
	s := UploadSummary{
		BatchID:    res.ID,
		Kind:       string(res.Kind),
		Uploaded:   make([]string, 0, len(res.Succeeded)),
		Failed:     make([]FailedFile, 0, len(res.Failed)),
		Skipped:    append([]string{}, res.Skipped...),
		Files:      make([]FileStatus, 0, len(res.Items)),
		DurationMS: res.Duration.Milliseconds(),
	}
	for _, it := range res.Items {
		s.Files = append(s.Files, FileStatus{Name: it.Name, Size: it.Size, Status: it.Status})
	}
	for _, f := range res.Succeeded {
		s.Uploaded = append(s.Uploaded, f.Name)
	}
	for _, f := range res.Failed {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		s.Failed = append(s.Failed, FailedFile{Name: f.Name, Error: msg})
	}
	return s
}

// Notifier posts signed events to the configured URLs. Each delivery is
// attempted once.
type Notifier struct {
	client *http.Client
	urls   []string
	secret string
	logger *logging.Logger
}

// NewNotifier creates a notifier from configuration
func NewNotifier(cfg config.WebhookConfig, logger *logging.Logger) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Notifier{
		client: &http.Client{Timeout: timeout},
		urls:   cfg.URLs,
		secret: cfg.Secret,
		logger: logger,
	}
}

// Enabled reports whether any URL is configured
func (n *Notifier) Enabled() bool {
	return n != nil && len(n.urls) > 0
}

// Notify delivers event to every URL and joins the failures
func (n *Notifier) Notify(ctx context.Context, event string, data interface{}) error {
	if !n.Enabled() {
		return nil
	}

	payload, err := json.Marshal(Event{
		Event:     event,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	var errs []error
	for _, url := range n.urls {
		err := n.deliver(ctx, url, event, payload)
		metrics.RecordWebhookDelivery(event, err == nil)
		if err != nil {
			n.logger.WithField("url", url).WithError(err).Warn("Webhook delivery failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NotifyUpload sends EventUploadCompleted for a finished batch
func (n *Notifier) NotifyUpload(ctx context.Context, res upload.BatchResult) error {
	return n.Notify(ctx, EventUploadCompleted, Summarize(res))
}

func (n *Notifier) deliver(ctx context.Context, url, event string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "catalogctl-webhook/1.0")
	req.Header.Set(EventHeader, event)
	req.Header.Set(DeliveryHeader, uuid.New().String())
	if n.secret != "" {
		req.Header.Set(SignatureHeader, Sign(payload, n.secret))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s returned status %d", url, resp.StatusCode)
	}
	return nil
}

// Sign returns the HMAC-SHA256 signature header value for payload
func Sign(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}
