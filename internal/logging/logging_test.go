package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "JSON format to stdout",
			config: Config{
				Level:  "info",
				Format: "json",
				Output: "stdout",
			},
			wantErr: false,
		},
		{
			name: "Console format to stderr",
			config: Config{
				Level:  "debug",
				Format: "console",
				Output: "stderr",
			},
			wantErr: false,
		},
		{
			name: "Invalid log level defaults to info",
			config: Config{
				Level:  "invalid",
				Format: "json",
				Output: "stdout",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewLogger() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("Expected non-nil logger")
			}
		})
	}
}

func TestNewLoggerToRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogctl.log")

	logger, err := NewLogger(FromConfig(config.LogConfig{
		Level:      "info",
		Format:     "json",
		Output:     path,
		MaxSizeMB:  1,
		MaxBackups: 1,
	}))
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("written to file")
}

func TestLogAPICall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "debug")

	logger.LogAPICall("GET", "/video", "req-1", 200, 15*time.Millisecond, nil)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to decode log line: %v", err)
	}

	if entry["method"] != "GET" || entry["path"] != "/video" || entry["request_id"] != "req-1" {
		t.Errorf("Unexpected log entry: %v", entry)
	}
	if entry["level"] != "debug" {
		t.Errorf("Expected debug level for successful call, got %v", entry["level"])
	}
}

func TestLogAPICallFailureIsWarning(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info")

	logger.LogAPICall("POST", "/users", "req-2", 409, time.Millisecond, errors.New("conflict"))

	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Errorf("Expected warn level, got %s", buf.String())
	}
}

func TestLogUpload(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info").WithBatchID("batch-1")

	logger.LogUpload("video", "clip.mp4", 1024, time.Second, nil)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to decode log line: %v", err)
	}

	if entry["batch_id"] != "batch-1" || entry["file"] != "clip.mp4" {
		t.Errorf("Unexpected log entry: %v", entry)
	}
	if entry["size_bytes"] != float64(1024) {
		t.Errorf("Expected size_bytes 1024, got %v", entry["size_bytes"])
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info").WithFields(map[string]interface{}{
		"panel": "videos",
		"count": 3,
	})

	logger.Info("panel loaded")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to decode log line: %v", err)
	}
	if entry["panel"] != "videos" || entry["count"] != float64(3) {
		t.Errorf("Unexpected log entry: %v", entry)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNopLogger()
	logger.Error("ignored")
	logger.WithField("k", "v").Infof("ignored %d", 1)
}
