package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/fnbcost/backend/internal/application/audit"
	costapp "github.com/fnbcost/backend/internal/application/cost"
	identityapp "github.com/fnbcost/backend/internal/application/identity"
	propertyapp "github.com/fnbcost/backend/internal/application/property"
	reportapp "github.com/fnbcost/backend/internal/application/report"
	securityapp "github.com/fnbcost/backend/internal/application/security"
	"github.com/fnbcost/backend/internal/infrastructure/auth"
	"github.com/fnbcost/backend/internal/infrastructure/config"
	"github.com/fnbcost/backend/internal/infrastructure/logger"
	"github.com/fnbcost/backend/internal/infrastructure/persistence"
	"github.com/fnbcost/backend/internal/infrastructure/persistence/tenant"
	"github.com/fnbcost/backend/internal/infrastructure/telemetry"
	"github.com/fnbcost/backend/internal/interfaces/http/handler"
	"github.com/fnbcost/backend/internal/interfaces/http/middleware"
	"github.com/fnbcost/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting F&B Cost Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing (no-op when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register the automatic tenant filter. Tenant is not marked required at
	// the callback level because login runs before a tenant is established.
	tenant.EnableAutoTenantFilter(db.DB, false)

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	accessRepo := persistence.NewGormPropertyAccessRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	outletRepo := persistence.NewGormOutletRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	entryRepo := persistence.NewGormCostEntryRepository(db.DB)
	summaryRepo := persistence.NewGormSummaryRepository(db.DB)
	auditLogRepo := persistence.NewGormAuditLogRepository(db.DB)

	// Audit recorder is shared by every service that writes the trail
	recorder := auditapp.NewRecorder(auditLogRepo, log)

	// Token blacklist backed by Redis, with an in-memory fallback so the
	// server still starts when Redis is unreachable
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	}

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, roleRepo, accessRepo, jwtService, blacklist, recorder, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxFailedAttempts,
		LockDuration:     cfg.Auth.LockoutDuration,
	}, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, recorder, log)
	roleService := identityapp.NewRoleService(roleRepo, recorder, log)
	accessService := identityapp.NewAccessService(accessRepo, userRepo, propertyRepo, recorder, log)
	accessGuard := identityapp.NewAccessGuard(accessRepo, log)

	// Property administration services
	propertyService := propertyapp.NewPropertyService(propertyRepo, outletRepo, recorder, log)
	outletService := propertyapp.NewOutletService(outletRepo, propertyRepo, recorder, log)
	categoryService := propertyapp.NewCategoryService(categoryRepo, recorder, log)

	// Cost recording services
	entryService := costapp.NewEntryService(entryRepo, summaryRepo, categoryRepo, outletRepo, propertyRepo, accessGuard, recorder, log)
	summaryService := costapp.NewSummaryService(summaryRepo, entryRepo, propertyRepo, accessGuard, recorder, log)

	// Reporting, audit query and security analysis services
	reportService := reportapp.NewReportService(summaryRepo, entryRepo, accessGuard, recorder, log)
	auditQueryService := auditapp.NewQueryService(auditLogRepo, recorder, log)
	securityService := securityapp.NewService(auditLogRepo, cfg.Security, log)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	accessHandler := handler.NewAccessHandler(accessService)
	propertyHandler := handler.NewPropertyHandler(propertyService)
	outletHandler := handler.NewOutletHandler(outletService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	entryHandler := handler.NewEntryHandler(entryService)
	summaryHandler := handler.NewSummaryHandler(summaryService)
	reportHandler := handler.NewReportHandler(reportService)
	auditHandler := handler.NewAuditHandler(auditQueryService)
	securityHandler := handler.NewSecurityHandler(securityService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Record request spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if tracerProvider.IsEnabled() {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health, liveness and version endpoints (outside API versioning)
	engine.GET("/health", healthHandler(db, blacklist))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    cfg.App.Name,
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
		})
	})

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Tenant extraction runs after JWT so claims take priority over the
	// X-Tenant-ID header. Not marked required here for the same reason as
	// the GORM callback: public auth endpoints carry no tenant yet.
	r.Use(middleware.TenantMiddlewareWithConfig(middleware.TenantMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		SkipPaths:     []string{"/api/v1/auth/login", "/api/v1/auth/refresh", "/api/v1/ping"},
		Required:      false,
		Logger:        log,
	}))

	// Route-level permission checks, backed by the permission claims in the JWT
	permCfg := middleware.PermissionConfig{Logger: log}
	userPerm := middleware.RequireResourceWithConfig("user", permCfg)
	rolePerm := middleware.RequireResourceWithConfig("role", permCfg)
	accessRead := middleware.RequirePermissionWithConfig("access:read", permCfg)
	accessWrite := middleware.RequirePermissionWithConfig("access:write", permCfg)
	entryPerm := middleware.RequireResourceWithConfig("cost_entry", permCfg)
	summaryPerm := middleware.RequireResourceWithConfig("daily_summary", permCfg)
	reportRead := middleware.RequirePermissionWithConfig("report:read", permCfg)
	reportExport := middleware.RequirePermissionWithConfig("report:export", permCfg)
	auditRead := middleware.RequirePermissionWithConfig("audit:read", permCfg)
	auditExport := middleware.RequirePermissionWithConfig("audit:export", permCfg)

	// Identity domain (authentication) - public routes
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.RateLimit(authLimiter))
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)

	// Identity domain - protected routes
	identityRoutes := router.NewDomainGroup("identity", "/identity")
	identityRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "identity service ready"})
	})

	// Auth routes requiring authentication
	identityRoutes.POST("/auth/logout", authHandler.Logout)
	identityRoutes.GET("/auth/me", authHandler.GetCurrentUser)
	identityRoutes.PUT("/auth/password", authHandler.ChangePassword)

	// User management routes
	identityRoutes.POST("/users", userPerm, userHandler.Create)
	identityRoutes.GET("/users", userPerm, userHandler.List)
	identityRoutes.GET("/users/stats/count", userPerm, userHandler.Count)
	identityRoutes.GET("/users/:id", userPerm, userHandler.GetByID)
	identityRoutes.PUT("/users/:id", userPerm, userHandler.Update)
	identityRoutes.DELETE("/users/:id", userPerm, userHandler.Delete)
	identityRoutes.POST("/users/:id/activate", userPerm, userHandler.Activate)
	identityRoutes.POST("/users/:id/deactivate", userPerm, userHandler.Deactivate)
	identityRoutes.POST("/users/:id/unlock", userPerm, userHandler.Unlock)
	identityRoutes.POST("/users/:id/reset-password", userPerm, userHandler.ResetPassword)
	identityRoutes.PUT("/users/:id/roles", userPerm, userHandler.AssignRoles)

	// Role management routes
	identityRoutes.POST("/roles", rolePerm, roleHandler.Create)
	identityRoutes.GET("/roles", rolePerm, roleHandler.List)
	identityRoutes.GET("/roles/:id", rolePerm, roleHandler.GetByID)
	identityRoutes.PUT("/roles/:id", rolePerm, roleHandler.Update)
	identityRoutes.DELETE("/roles/:id", rolePerm, roleHandler.Delete)
	identityRoutes.POST("/roles/:id/enable", rolePerm, roleHandler.Enable)
	identityRoutes.POST("/roles/:id/disable", rolePerm, roleHandler.Disable)
	identityRoutes.PUT("/roles/:id/permissions", rolePerm, roleHandler.SetPermissions)

	// Permission catalog
	identityRoutes.GET("/permissions", rolePerm, roleHandler.GetPermissions)

	// Property access grants. Users can always list their own grants.
	identityRoutes.POST("/access", accessWrite, accessHandler.Grant)
	identityRoutes.GET("/access/mine", accessHandler.MyProperties)
	identityRoutes.GET("/access/:id", accessRead, accessHandler.GetByID)
	identityRoutes.PUT("/access/:id/level", accessWrite, accessHandler.ChangeLevel)
	identityRoutes.DELETE("/access/:id", accessWrite, accessHandler.Revoke)
	identityRoutes.GET("/users/:id/access", accessRead, accessHandler.ListByUser)

	// Property domain (properties, outlets, cost categories)
	propertyRoutes := router.NewDomainGroup("property", "/properties")
	propertyRoutes.Use(middleware.RequireResourceWithConfig("property", permCfg))
	propertyRoutes.POST("", propertyHandler.Create)
	propertyRoutes.GET("", propertyHandler.List)
	propertyRoutes.GET("/code/:code", propertyHandler.GetByCode)
	propertyRoutes.GET("/:id", propertyHandler.GetByID)
	propertyRoutes.PUT("/:id", propertyHandler.Update)
	propertyRoutes.DELETE("/:id", propertyHandler.Delete)
	propertyRoutes.POST("/:id/activate", propertyHandler.Activate)
	propertyRoutes.POST("/:id/deactivate", propertyHandler.Deactivate)
	propertyRoutes.GET("/:id/outlets", outletHandler.ListByProperty)
	propertyRoutes.GET("/:id/access", accessHandler.ListByProperty)

	outletRoutes := router.NewDomainGroup("outlet", "/outlets")
	outletRoutes.Use(middleware.RequireResourceWithConfig("outlet", permCfg))
	outletRoutes.POST("", outletHandler.Create)
	outletRoutes.GET("/:id", outletHandler.GetByID)
	outletRoutes.PUT("/:id", outletHandler.Update)
	outletRoutes.DELETE("/:id", outletHandler.Delete)
	outletRoutes.POST("/:id/activate", outletHandler.Activate)
	outletRoutes.POST("/:id/deactivate", outletHandler.Deactivate)

	categoryRoutes := router.NewDomainGroup("category", "/categories")
	categoryRoutes.Use(middleware.RequireResourceWithConfig("category", permCfg))
	categoryRoutes.POST("", categoryHandler.Create)
	categoryRoutes.GET("", categoryHandler.List)
	categoryRoutes.GET("/:id", categoryHandler.GetByID)
	categoryRoutes.PUT("/:id", categoryHandler.Update)
	categoryRoutes.DELETE("/:id", categoryHandler.Delete)
	categoryRoutes.POST("/:id/activate", categoryHandler.Activate)
	categoryRoutes.POST("/:id/deactivate", categoryHandler.Deactivate)

	// Cost domain (daily entries and financial summaries)
	costRoutes := router.NewDomainGroup("cost", "/costs")
	costRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "cost service ready"})
	})
	costRoutes.POST("/entries", entryPerm, entryHandler.Upsert)
	costRoutes.GET("/entries", entryPerm, entryHandler.List)
	costRoutes.GET("/entries/lookup", entryPerm, entryHandler.Lookup)
	costRoutes.GET("/entries/:id", entryPerm, entryHandler.GetByID)
	costRoutes.DELETE("/entries/:id", entryPerm, entryHandler.Delete)
	costRoutes.POST("/summaries", summaryPerm, summaryHandler.Upsert)
	costRoutes.GET("/summaries", summaryPerm, summaryHandler.List)
	costRoutes.GET("/summaries/lookup", summaryPerm, summaryHandler.Lookup)
	costRoutes.GET("/summaries/range", summaryPerm, summaryHandler.Range)
	costRoutes.GET("/summaries/:id", summaryPerm, summaryHandler.GetByID)
	costRoutes.DELETE("/summaries/:id", summaryPerm, summaryHandler.Delete)

	// Report domain
	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/budget-vs-actual", reportRead, reportHandler.BudgetVsActual)
	reportRoutes.GET("/budget-vs-actual/export", reportExport, reportHandler.ExportBudgetVsActual)
	reportRoutes.GET("/month-to-date", reportRead, reportHandler.MonthToDate)
	reportRoutes.GET("/month-to-date/export", reportExport, reportHandler.ExportMonthToDate)
	reportRoutes.GET("/year-to-date", reportRead, reportHandler.YearToDate)
	reportRoutes.GET("/year-to-date/export", reportExport, reportHandler.ExportYearToDate)
	reportRoutes.GET("/trend", reportRead, reportHandler.CostTrend)
	reportRoutes.GET("/trend/export", reportExport, reportHandler.ExportTrend)
	reportRoutes.GET("/forecast", reportRead, reportHandler.Forecast)
	reportRoutes.GET("/forecast/export", reportExport, reportHandler.ExportForecast)

	// Audit domain
	auditRoutes := router.NewDomainGroup("audit", "/audit")
	auditRoutes.GET("/logs", auditRead, auditHandler.List)
	auditRoutes.GET("/logs/export", auditExport, auditHandler.Export)
	auditRoutes.GET("/logs/:id", auditRead, auditHandler.GetByID)

	// Security domain (heuristic activity dashboards)
	securityRoutes := router.NewDomainGroup("security", "/security")
	securityRoutes.Use(middleware.RequirePermissionWithConfig("security:read", permCfg))
	securityRoutes.GET("/overview", securityHandler.Overview)
	securityRoutes.GET("/threats", securityHandler.Threats)

	// Register all domain groups
	r.Register(authRoutes).
		Register(identityRoutes).
		Register(propertyRoutes).
		Register(outletRoutes).
		Register(categoryRoutes).
		Register(costRoutes).
		Register(reportRoutes).
		Register(auditRoutes).
		Register(securityRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports readiness: the database must answer, and the token
// blacklist store is checked as well. A degraded blacklist is reported but
// does not fail the check, since authentication falls back to in-memory.
func healthHandler(db *persistence.Database, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		now := time.Now().Format(time.RFC3339)

		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     now,
				"database": "error",
			})
			return
		}

		blacklistStatus := "ok"
		if err := blacklist.Ping(c.Request.Context()); err != nil {
			reqLog.Warn("Token blacklist store unreachable", zap.Error(err))
			blacklistStatus = "degraded"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":          "healthy",
			"time":            now,
			"database":        "ok",
			"token_blacklist": blacklistStatus,
		})
	}
}
