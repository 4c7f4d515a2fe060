package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/wcrbrm/serve-delayed/internal/config"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "debug", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %s, want debug", logger.GetLevel())
	}

	logger.Infof("sleeping %v", "250ms")
	if !strings.Contains(buf.String(), `msg="sleeping 250ms"`) {
		t.Errorf("output = %q, want sleeping message", buf.String())
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.WithField("status", 200).Info("GET / 200")

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if line["msg"] != "GET / 200" {
		t.Errorf("msg = %v", line["msg"])
	}
	if line["status"] != float64(200) {
		t.Errorf("status = %v", line["status"])
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LoggingConfig
	}{
		{"bad level", config.LoggingConfig{Level: "loud", Format: "text"}},
		{"bad format", config.LoggingConfig{Level: "info", Format: "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg, &bytes.Buffer{}); err == nil {
				t.Error("New: expected error")
			}
		})
	}
}
