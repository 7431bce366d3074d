package logger

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

// consoleFormatter renders "[ts] [LEVEL] [prefix]: message" with ANSI colours.
type consoleFormatter struct{}

func (f *consoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	level := levelOf(entry)
	return []byte(fmt.Sprintf("[%s] [%s%s%s] [%s]: %s\n",
		entry.Time.Format(timestampFormat),
		level.Color(),
		level.String(),
		colorReset,
		prefixOf(entry),
		entry.Message,
	)), nil
}

// plainLine is the file representation of an entry, without colours.
func plainLine(entry *logrus.Entry) string {
	return fmt.Sprintf("[%s] [%s] [%s]: %s\n",
		entry.Time.Format(timestampFormat),
		levelOf(entry).String(),
		prefixOf(entry),
		entry.Message,
	)
}

// fileHook appends every entry to combined.log and errors to error.log.
type fileHook struct {
	mu       sync.Mutex
	combined *os.File
	errors   *os.File
	closed   bool
}

func (h *fileHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *fileHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}

	line := plainLine(entry)
	if h.combined != nil {
		h.combined.WriteString(line)
	}
	if levelOf(entry) <= LevelError && h.errors != nil {
		h.errors.WriteString(line)
	}
	return nil
}

func (h *fileHook) close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
}

// webhookHook mirrors entries to Discord webhooks: errors to one, the rest to another.
type webhookHook struct {
	errorURL string
	logsURL  string
	client   *http.Client
}

func newWebhookHook(errorURL, logsURL string) *webhookHook {
	return &webhookHook{
		errorURL: errorURL,
		logsURL:  logsURL,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (h *webhookHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *webhookHook) Fire(entry *logrus.Entry) error {
	level := levelOf(entry)
	url := h.logsURL
	if level <= LevelError {
		url = h.errorURL
	}
	if url == "" {
		return nil
	}
	go h.send(url, level, prefixOf(entry), entry.Message, entry.Time)
	return nil
}

func (h *webhookHook) send(url string, level LogLevel, prefix, message string, at time.Time) {
	embed := map[string]interface{}{
		"title":       fmt.Sprintf("[%s] %s", level.String(), prefix),
		"description": fmt.Sprintf("```%s```", message),
		"color":       level.DiscordColor(),
		"timestamp":   at.Format(time.RFC3339),
		"footer": map[string]string{
			"text": "Taurus Admin Bridge",
		},
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
}
