package logger

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Options{Console: &buf})
	if l == nil {
		t.Fatal("Expected logger to be created, got nil")
	}

	l.Info("Test info message", "TEST")
	l.Warn("Test warning message", "TEST")
	l.Debug("Test debug message", "TEST")
	l.System("Test system message", "TEST")
	l.Success("Test success message", "TEST")
	l.Close()

	out := buf.String()
	for _, want := range []string{"INFO", "WARN", "DEBUG", "SYSTEM", "SUCCESS", "[TEST]: Test info message"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelSuccess, "SUCCESS"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelSystem, "SYSTEM"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLogLevelDiscordColor(t *testing.T) {
	tests := []struct {
		level LogLevel
		color int
	}{
		{LevelCritical, 0xFF0000},
		{LevelError, 0xFF0000},
		{LevelWarn, 0xFFFF00},
		{LevelSuccess, 0x00FF00},
		{LevelInfo, 0x0000FF},
		{LevelDebug, 0x800080},
		{LevelSystem, 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.DiscordColor(); got != tt.color {
				t.Errorf("LogLevel.DiscordColor() = %v, want %v", got, tt.color)
			}
		})
	}
}

func TestLogFiles(t *testing.T) {
	logsDir := filepath.Join(t.TempDir(), "logs")

	l := NewLogger(Options{Dir: logsDir, Console: io.Discard})
	l.Info("hello combined", "FILES")
	l.Error("something broke", "FILES")
	l.Close()

	combined, err := os.ReadFile(filepath.Join(logsDir, "combined.log"))
	if err != nil {
		t.Fatalf("combined.log not created: %v", err)
	}
	errorsLog, err := os.ReadFile(filepath.Join(logsDir, "error.log"))
	if err != nil {
		t.Fatalf("error.log not created: %v", err)
	}

	if !strings.Contains(string(combined), "hello combined") || !strings.Contains(string(combined), "something broke") {
		t.Errorf("combined.log = %q, want both messages", combined)
	}
	if strings.Contains(string(errorsLog), "hello combined") {
		t.Errorf("error.log should not contain info messages: %q", errorsLog)
	}
	if !strings.Contains(string(errorsLog), "[ERROR] [FILES]: something broke") {
		t.Errorf("error.log = %q, want the error line", errorsLog)
	}
	if strings.Contains(string(combined), "\033[") {
		t.Error("file output should not contain ANSI colours")
	}
}

func TestWebhookRouting(t *testing.T) {
	got := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	l := NewLogger(Options{
		Console:         io.Discard,
		ErrorWebhookURL: srv.URL + "/errors",
		LogsWebhookURL:  srv.URL + "/logs",
	})
	defer l.Close()

	l.Error("boom", "HOOK")
	select {
	case path := <-got:
		if path != "/errors" {
			t.Errorf("error entry posted to %s, want /errors", path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("error webhook was not called")
	}

	l.Info("fine", "HOOK")
	select {
	case path := <-got:
		if path != "/logs" {
			t.Errorf("info entry posted to %s, want /logs", path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("logs webhook was not called")
	}
}

func TestGlobalLoggerInit(t *testing.T) {
	logger = nil
	once = sync.Once{}

	l := Init(Options{Console: io.Discard})
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}

	l2 := Init(Options{Dir: "different"})
	if l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}

	if l3 := Get(); l != l3 {
		t.Error("Expected Get to return the same logger")
	}

	l.Close()
}
