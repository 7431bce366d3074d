// Package web provides the status HTTP server with routing and middleware.
// It uses Gin framework for high-performance web handling.
package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/PancyStudios/TaurusBotGo/pkg/logger"
)

// Options configures a Server.
type Options struct {
	// WebhookURL receives an embed for every rejected request.
	WebhookURL string
	// Token guards the private routes. Empty disables them.
	Token string
	// RequestsPerMinute per client IP. Zero means 100.
	RequestsPerMinute int
}

// Server represents the web server
type Server struct {
	engine     *gin.Engine
	webhookURL string
	token      string
	limiters   *ipLimiters

	mu   sync.Mutex
	http *http.Server
}

// NewServer creates a new web server
func NewServer(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	perMinute := opts.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 100
	}

	s := &Server{
		engine:     engine,
		webhookURL: opts.WebhookURL,
		token:      opts.Token,
		limiters:   newIPLimiters(rate.Limit(float64(perMinute)/60), perMinute),
	}

	// Apply middlewares
	s.engine.Use(s.logsMiddleware())
	s.engine.Use(s.rateLimitMiddleware())

	// Set up error handlers
	s.setupErrorHandlers()

	return s
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// logsMiddleware logs every request; rejected ones also go to the webhook.
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		msg := fmt.Sprintf("%s %s -> %d | %s", c.Request.Method, c.Request.URL.Path, status, c.ClientIP())
		switch status {
		case http.StatusUnauthorized, http.StatusTooManyRequests:
			logger.Warn(msg, "WebServer")
			go s.sendLogToWebhook(c.Request.Method, c.Request.URL.Path, c.ClientIP(), status)
		default:
			logger.Debug(msg, "WebServer")
		}
	}
}

// sendLogToWebhook sends a rejected request to the Discord webhook
func (s *Server) sendLogToWebhook(method, path, ip string, status int) {
	if s.webhookURL == "" {
		return
	}

	embed := map[string]interface{}{
		"title": fmt.Sprintf("Rejected request: %s %s", method, path),
		"description": fmt.Sprintf(
			"> **Route:** `%s`\n> **IP:** `%s`\n> **Status:** `%d`",
			path, ip, status,
		),
		"color":     0xFFA500,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	payload := map[string]interface{}{
		"embeds": []interface{}{embed},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
}

// ipLimiters hands out one token bucket per client IP.
type ipLimiters struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

func newIPLimiters(limit rate.Limit, burst int) *ipLimiters {
	return &ipLimiters{limit: limit, burst: burst, clients: make(map[string]*rate.Limiter)}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.clients[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.clients[ip] = lim
	}
	return lim
}

// rateLimitMiddleware rejects clients that exhaust their bucket
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests, please try again later.",
			})
			return
		}
		c.Next()
	}
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	// 404 handler
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested route does not exist.",
			"status":  404,
		})
	})

	// 405 handler
	s.engine.HandleMethodNotAllowed = true
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "The HTTP method is not allowed for this route.",
			"status":  405,
		})
	})
}

// Start serves until Shutdown is called.
func (s *Server) Start(port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.http = srv
	s.mu.Unlock()

	logger.Info(fmt.Sprintf("Status server listening on http://localhost:%s", port), "WebServer")
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	go func() {
		if err := s.Start(port); err != nil {
			logger.Error(fmt.Sprintf("Error starting web server: %v", err), "WebServer")
		}
	}()
}

// Shutdown stops the server, waiting up to 5s for open requests.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// Group creates a new router group
func (s *Server) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return s.engine.Group(path, handlers...)
}
