package http

import (
	"context"
	"net/http"

	"github.com/dkeye/Pulse/internal/adapters/auth"
	"github.com/dkeye/Pulse/internal/adapters/signal"
	"github.com/dkeye/Pulse/internal/app/orch"
	"github.com/dkeye/Pulse/internal/config"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const sessionName = "PulseSessions"

// Deps is everything the HTTP surface needs from main.
type Deps struct {
	Orch     *orch.Orchestrator
	Auth     *auth.Authenticator
	Signal   *signal.SignalWSController
	ICE      webrtc.Configuration
	Gatherer prometheus.Gatherer
}

type api struct {
	orch   *orch.Orchestrator
	auth   *auth.Authenticator
	ice    webrtc.Configuration
	secure bool
}

func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, Secure: cfg.Auth.SecureCookie, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))

	if cfg.StaticPath != "" {
		r.Static("/static", cfg.StaticPath)
		r.GET("/", func(c *gin.Context) {
			c.File(cfg.StaticPath + "/index.html")
		})
	}
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	h := &api{orch: deps.Orch, auth: deps.Auth, ice: deps.ICE, secure: cfg.Auth.SecureCookie}

	a := r.Group("/api")
	a.GET("/health", h.health)
	a.GET("/ws", func(c *gin.Context) {
		deps.Signal.HandleSignal(ctx, c)
	})
	a.POST("/auth/login-token", h.loginWithToken)

	p := a.Group("", deps.Auth.Middleware())

	p.GET("/auth/check", h.check)
	p.POST("/auth/pair", h.pair)
	p.GET("/auth/devices", h.devices)
	p.DELETE("/auth/devices", h.removeDevice)
	p.PUT("/users/profile", h.updateProfile)

	p.GET("/messages/users", h.sidebar)
	p.POST("/messages/send/:id", h.sendMessage)
	p.GET("/messages/:id", h.conversation)
	p.POST("/messages/:id/reaction", h.react)

	p.POST("/groups/create", h.createGroup)
	p.GET("/groups", h.groups)
	p.POST("/groups/send/:id", h.sendGroupMessage)
	p.GET("/groups/:id", h.groupHistory)

	p.POST("/fcm/token", h.addPushToken)
	p.DELETE("/fcm/token", h.removePushToken)

	p.POST("/calls/log", h.logCall)
	p.GET("/calls", h.callHistory)
	p.GET("/calls/ice-servers", h.iceServers)

	if cfg.Mode == "debug" {
		p.GET("/rooms", h.rooms)
		p.GET("/rooms/:name", h.room)
	}

	log.Info().Str("module", "adapters.http").Bool("static", cfg.StaticPath != "").Bool("metrics", deps.Gatherer != nil).Msg("router setup")
	return r
}

func (h *api) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"online":          len(h.orch.Online()),
		"sessions":        h.orch.Registry.SessionCount(),
		"rooms":           len(h.orch.Rooms.List()),
		"pendingPairings": h.orch.Pairing.Pending(),
	})
}

func (h *api) rooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.orch.Rooms.List()})
}

func (h *api) room(c *gin.Context) {
	rs, ok := h.orch.Rooms.Get(domain.RoomName(c.Param("name")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":    rs.Room().Name,
		"members": rs.MembersSnapshot(),
	})
}
