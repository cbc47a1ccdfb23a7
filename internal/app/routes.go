package app

import (
	"time"

	"github.com/draftproof/core/internal/middleware"
	"github.com/draftproof/core/internal/modules/auth"
	"github.com/draftproof/core/internal/modules/detect/provider"
	"github.com/draftproof/core/internal/modules/detect/report"
	"github.com/draftproof/core/internal/modules/detect/stepcache"
	"github.com/draftproof/core/internal/modules/detect/substep"
	pkgredis "github.com/draftproof/core/internal/pkg/redis"
	"github.com/draftproof/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(rc *pkgredis.Client) error {
	r := a.router
	cfg := a.cfg
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "draftproof-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/draftproof/core",
	}
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, appInfo)
	})

	api := r.Group("/api/v2")
	api.GET("/", func(c *gin.Context) {
		c.JSON(200, appInfo)
	})
	api.GET("/uptime", func(c *gin.Context) {
		response.OK(c, gin.H{"uptime_seconds": int64(time.Since(processStart).Seconds())})
	})

	api.Use(middleware.RateLimit(rc.Raw(), cfg.Detect.RateLimitPerMin))

	gateway := provider.NewGateway(cfg.AI, time.Duration(cfg.Detect.CallTimeoutMin)*time.Minute, a.logger)
	cache := stepcache.NewRedisStore(rc, time.Duration(cfg.Detect.CacheTTLMinutes)*time.Minute)
	detectSvc, err := substep.NewService(gateway, cache, a.db, a.logger, cfg.Detect.MaxDocumentChars)
	if err != nil {
		return err
	}

	auth.NewHandler(cfg.AdminPasswordHash, cfg.AdminPassword, a.logger).RegisterRoutes(api)
	substep.NewHandler(detectSvc, gateway).RegisterRoutes(api, authMW)
	report.NewHandler(a.db, cfg.Detect.ReportReturnLimit).RegisterRoutes(api, authMW)
	return nil
}
