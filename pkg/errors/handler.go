// Package errors provides error handling and recovery mechanisms for the bot.
// It counts recovered panics and reported failures and shuts the process
// down when too many of them pile up inside one window.
package errors

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
)

// Options tunes the error storm detector.
type Options struct {
	WebhookURL    string
	MaxErrors     int32
	ResetInterval time.Duration
	CheckInterval time.Duration
	// OnShutdown runs before the process exits.
	OnShutdown func()
	// Exit defaults to os.Exit.
	Exit func(code int)
}

// ErrorHandler manages error counting and reporting
type ErrorHandler struct {
	errorCount int32
	opts       Options
	client     *http.Client
	stopOnce   sync.Once
	stopChan   chan struct{}
	tripped    int32
}

// ReportErrorOptions contains options for reporting an error
type ReportErrorOptions struct {
	Error   string
	Message string
}

var (
	handler *ErrorHandler
	once    sync.Once
)

// Init initializes the global error handler
func Init(opts Options) *ErrorHandler {
	once.Do(func() {
		handler = NewErrorHandler(opts)
	})
	return handler
}

// Get returns the global error handler instance
func Get() *ErrorHandler {
	return handler
}

// NewErrorHandler creates a new ErrorHandler instance
func NewErrorHandler(opts Options) *ErrorHandler {
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = 15
	}
	if opts.ResetInterval <= 0 {
		opts.ResetInterval = 5 * time.Second
	}
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = time.Second
	}
	if opts.Exit == nil {
		opts.Exit = os.Exit
	}

	h := &ErrorHandler{
		opts:     opts,
		client:   &http.Client{Timeout: 10 * time.Second},
		stopChan: make(chan struct{}),
	}

	h.start()
	return h
}

func (h *ErrorHandler) start() {
	go func() {
		ticker := time.NewTicker(h.opts.ResetInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				atomic.StoreInt32(&h.errorCount, 0)
			case <-h.stopChan:
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(h.opts.CheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if atomic.LoadInt32(&h.errorCount) > h.opts.MaxErrors {
					h.trip()
					return
				}
			case <-h.stopChan:
				return
			}
		}
	}()
}

// trip reports the error storm, runs the shutdown hook and exits.
func (h *ErrorHandler) trip() {
	if !atomic.CompareAndSwapInt32(&h.tripped, 0, 1) {
		return
	}
	start := time.Now()
	logger.Warn("Too many errors in a short window", "CRITICAL")
	logger.Warn("Shutting down...", "CRITICAL")

	h.Report(ReportErrorOptions{
		Error:   "Critical Error",
		Message: "Unusual number of errors. Shutting down...",
	})

	if h.opts.OnShutdown != nil {
		h.opts.OnShutdown()
	}

	logger.Warn(fmt.Sprintf("Exiting process... total time: %v", time.Since(start)), "CRITICAL")
	h.opts.Exit(1)
}

// Stop stops the error monitoring goroutines
func (h *ErrorHandler) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

// Count returns the errors seen in the current window.
func (h *ErrorHandler) Count() int32 {
	return atomic.LoadInt32(&h.errorCount)
}

// IncrementError increments the error count
func (h *ErrorHandler) IncrementError() {
	count := atomic.AddInt32(&h.errorCount, 1)
	logger.Error(fmt.Sprintf("Error count: %d", count), "AntiCrash")
}

// HandlePanic handles a recovered panic
func (h *ErrorHandler) HandlePanic(recovered interface{}) {
	h.IncrementError()
	logger.Debug(string(debug.Stack()), "AntiCrash")
	logger.Error(fmt.Sprintf("Unhandled panic: %v", recovered), "SYS")
}

// Report sends an error report to the Discord webhook
func (h *ErrorHandler) Report(data ReportErrorOptions) {
	if h.opts.WebhookURL == "" {
		return
	}

	embed := map[string]interface{}{
		"author": map[string]string{
			"name": fmt.Sprintf("Error %s", data.Error),
		},
		"description": data.Message,
		"color":       0xFF0000,
		"footer": map[string]string{
			"text": "Taurus Admin Bridge",
		},
		"timestamp": time.Now().Format(time.RFC3339),
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to marshal error report: %v", err), "AntiCrash")
		return
	}

	req, err := http.NewRequest(http.MethodPost, h.opts.WebhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to create webhook request: %v", err), "AntiCrash")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send error report: %v", err), "AntiCrash")
		return
	}
	defer resp.Body.Close()

	logger.Warn(fmt.Sprintf("Sent ErrorReport to Webhook, Status: %d", resp.StatusCode), "AntiCrash")
}

// RecoverMiddleware returns a recovery function for use in deferred calls:
//
//	defer errors.RecoverMiddleware()()
func RecoverMiddleware() func() {
	return func() {
		if r := recover(); r != nil {
			if handler != nil {
				handler.HandlePanic(r)
			} else {
				logger.Error(fmt.Sprintf("Panic recovered (no handler): %v", r), "AntiCrash")
			}
		}
	}
}

// Go runs fn on its own goroutine with panic recovery.
func Go(fn func()) {
	go func() {
		defer RecoverMiddleware()()
		fn()
	}()
}
