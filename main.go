// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fieldops/opsreport/config"
	"github.com/fieldops/opsreport/endpoint"
	"github.com/fieldops/opsreport/middleware"
	"github.com/fieldops/opsreport/model"
	"github.com/fieldops/opsreport/store"
	"github.com/fieldops/opsreport/util"
)

func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	if cfg.JWTSecret == "" {
		log.Fatal("JWTSECRET must be set")
	}
	util.SetJWTSecret(cfg.JWTSecret)

	// Audit persistence is best-effort: the in-memory core works without it.
	if db, err := config.ConnectMySQL(); err != nil {
		log.Printf("audit database unavailable, security events stay on stdout: %v", err)
	} else {
		if err := db.AutoMigrate(&model.SecurityLog{}); err != nil {
			log.Printf("security log migration failed: %v", err)
		} else {
			util.SetSecurityLoggerDB(db)
		}
	}

	if err := util.InitGeoIP(""); err != nil {
		log.Printf("geoip disabled: %v", err)
	}
	defer util.CloseGeoIP()

	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("redis unavailable, rate limiting disabled: %v", err)
	}

	st := store.New(store.Options{
		FirstUserAdmin: cfg.FirstUserAdmin,
		AccessLogCap:   cfg.AccessLogCap,
		ReportListCap:  cfg.ReportListCap,
		PresenceTTL:    time.Duration(cfg.StaleTTLHours) * time.Hour,
	})

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.StoreMiddleware(st))
	router.Use(middleware.EndpointCallLogger())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "name": cfg.AppName})
	})

	// Public routes, rate limited per client IP
	limited := router.Group("/api")
	limited.Use(middleware.RateLimiter(middleware.RateLimitConfig{}))
	{
		limited.POST("/register", endpoint.Register)
		limited.POST("/login", endpoint.Login)
	}

	// Authorized routes
	auth := router.Group("/api")
	auth.Use(middleware.ValidateSessionToken())
	{
		auth.GET("/token/validate", endpoint.ValidateToken)

		auth.POST("/reports", endpoint.CreateReport)
		auth.GET("/reports", endpoint.ListReports)
		auth.GET("/reports/export", endpoint.ExportReports)

		auth.POST("/positions", endpoint.UpdatePosition)
		auth.GET("/positions", endpoint.ListPositions)

		// Access event reads are role-scoped inside the store, so a
		// standard operator sees only their own rows here.
		auth.GET("/admin/access", endpoint.ListAccessEvents)

		admin := auth.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/alerts", endpoint.ListAlerts)
			admin.POST("/access/block", endpoint.BlockAccess)
			admin.POST("/access/unblock", endpoint.UnblockAccess)
			admin.DELETE("/access", endpoint.PurgeAccessEvents)
		}
	}

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
