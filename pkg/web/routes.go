// Package web provides API routes for the web server.
package web

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PancyStudios/TaurusBotGo/pkg/models"
)

// BotStatus reports the Discord connection.
type BotStatus interface {
	IsReady() bool
	GuildCount() int
	Uptime() time.Duration
}

// DBStatus reports the audit database connection.
type DBStatus interface {
	GetStatus() (string, bool)
}

// AuditReader lists recent command invocations.
type AuditReader interface {
	Recent(ctx context.Context, limit int64) ([]models.AuditEntry, error)
}

// WhitelistReader exposes the authorized Discord ids.
type WhitelistReader interface {
	List() []int64
}

// Deps are the sources the API reads from. Nil fields report as unavailable.
type Deps struct {
	Bot       BotStatus
	DB        DBStatus
	Audit     AuditReader
	Whitelist WhitelistReader
	MQTT      func() bool
	Version   string
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, deps Deps) {
	api := s.Group("/api")
	{
		api.GET("/health", healthHandler(deps))
		api.GET("/status", statusHandler(deps))
	}

	if s.token == "" {
		return
	}

	private := api.Group("", s.authMiddleware())
	{
		private.GET("/audit", auditHandler(deps))
		private.GET("/whitelist", whitelistHandler(deps))
	}
}

// authMiddleware requires "Authorization: Bearer <token>".
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "A valid bearer token is required.",
			})
			return
		}
		c.Next()
	}
}

// healthHandler returns a simple health check response
func healthHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Taurus admin bridge is running",
			"version": deps.Version,
		})
	}
}

// statusHandler returns the bot, database and broker status
func statusHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		bot := gin.H{"isOnline": false}
		if deps.Bot != nil {
			bot = gin.H{
				"isOnline": deps.Bot.IsReady(),
				"guilds":   deps.Bot.GuildCount(),
				"uptime":   deps.Bot.Uptime().String(),
			}
		}

		db := gin.H{"status": "disabled", "isOnline": false}
		if deps.DB != nil {
			status, online := deps.DB.GetStatus()
			db = gin.H{"status": status, "isOnline": online}
		}

		mqttOnline := deps.MQTT != nil && deps.MQTT()

		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"bot":      bot,
			"database": db,
			"mqtt":     gin.H{"isOnline": mqttOnline},
		})
	}
}

// auditHandler returns recent invocations, newest first. ?limit caps the
// count.
func auditHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Audit == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Audit Disabled",
				"message": "No audit database is configured.",
			})
			return
		}

		var limit int64
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Bad Request",
					"message": "limit must be a positive integer.",
				})
				return
			}
			limit = n
		}

		entries, err := deps.Audit.Recent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Audit Unavailable",
				"message": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"count":   len(entries),
			"entries": entries,
		})
	}
}

// whitelistHandler returns the whitelisted Discord ids as strings.
func whitelistHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids := []string{}
		if deps.Whitelist != nil {
			for _, id := range deps.Whitelist.List() {
				ids = append(ids, strconv.FormatInt(id, 10))
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"count": len(ids),
			"ids":   ids,
		})
	}
}
