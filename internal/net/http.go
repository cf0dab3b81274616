// Package net fronts the hub with the HTTP surface: join, diagnostics, and
// the websocket upgrade.
package net

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	server "turf-war/server"
	"turf-war/server/internal/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SetupRouter builds the gin engine serving the game endpoints.
func SetupRouter(hub *server.Hub, logger telemetry.Logger) *gin.Engine {
	if logger == nil {
		logger = telemetry.NopLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.POST("/join", func(c *gin.Context) {
		c.JSON(http.StatusOK, hub.Join())
	})

	r.GET("/diagnostics", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":          "ok",
			"serverTime":      time.Now().UnixMilli(),
			"tick":            hub.Tick(),
			"tickRate":        server.TickRate(),
			"heartbeatMillis": server.HeartbeatInterval().Milliseconds(),
			"players":         hub.DiagnosticsSnapshot(),
			"telemetry":       hub.TelemetrySnapshot(),
		})
	})

	r.GET("/ws", func(c *gin.Context) {
		playerID := c.Query("id")
		if playerID == "" {
			c.String(http.StatusBadRequest, "missing id")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Printf("upgrade failed for %s: %v", playerID, err)
			return
		}

		session := newSession(hub, playerID, conn, logger)
		session.run()
	})

	return r
}
