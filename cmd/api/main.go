package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/mainstreet/copilot-api/api/swagger"
	"github.com/mainstreet/copilot-api/internal/handler"
	"github.com/mainstreet/copilot-api/internal/middleware"
	"github.com/mainstreet/copilot-api/internal/models"
	"github.com/mainstreet/copilot-api/internal/repository"
	"github.com/mainstreet/copilot-api/internal/service"
	"github.com/mainstreet/copilot-api/pkg/ai"
	"github.com/mainstreet/copilot-api/pkg/cache"
	"github.com/mainstreet/copilot-api/pkg/config"
	"github.com/mainstreet/copilot-api/pkg/database"
	"github.com/mainstreet/copilot-api/pkg/logger"
	"github.com/mainstreet/copilot-api/pkg/mail"
	corsmiddleware "github.com/mainstreet/copilot-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mainstreet/copilot-api/pkg/middleware/requestid"
	"github.com/mainstreet/copilot-api/pkg/storage"
)

// @title Main Street Copilot API
// @version 1.0.0
// @description Back-office API for small business scheduling, inventory and financial health
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, dashboard caching disabled", zap.Error(err))
		redisClient = nil
	}

	logoStore, err := storage.NewLocalStorage(cfg.Logos.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare logo storage", zap.Error(err))
	}
	logoSigner := storage.NewSignedURLSigner(cfg.Logos.SignedURLSecret, cfg.Logos.SignedURLTTL)

	mailer := mail.NewMailer(cfg.Mail, logr)

	var completer ai.Completer
	if cfg.AI.APIKey != "" {
		gemini, err := ai.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model)
		if err != nil {
			logr.Warn("AI client unavailable, heuristic fallbacks only", zap.Error(err))
		} else {
			completer = gemini
			defer gemini.Close()
		}
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	slotRepo := repository.NewShiftSlotRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	financialRepo := repository.NewFinancialRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, businessRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	alertSvc := service.NewAlertService(inventoryRepo, userRepo, mailer, logr, service.AlertServiceConfig{
		Workers:    cfg.Alerts.Workers,
		MaxRetries: cfg.Alerts.MaxRetries,
	})
	alertSvc.Start(ctx)
	defer alertSvc.Stop()

	businessSvc := service.NewBusinessService(businessRepo, logoStore, logoSigner, logr, cfg.Logos)
	employeeSvc := service.NewEmployeeService(employeeRepo, userRepo, mailer, nil, logr)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, employeeRepo, nil, logr)
	scheduleSvc := service.NewScheduleService(slotRepo, shiftRepo, nil, nil, logr)
	generatorSvc := service.NewScheduleGeneratorService(employeeRepo, slotRepo, availabilityRepo, shiftRepo, completer, nil, logr, service.ScheduleGeneratorConfig{
		AITimeout: cfg.AI.Timeout,
	})
	inventorySvc := service.NewInventoryService(inventoryRepo, alertSvc, completer, nil, logr, service.InventoryServiceConfig{
		AITimeout: cfg.AI.Timeout,
	})
	financialSvc := service.NewFinancialService(financialRepo, nil, logr)
	reminderSvc := service.NewReminderService(reminderRepo, nil, logr)
	dashboardSvc := service.NewDashboardService(cacheRepo, employeeRepo, shiftRepo, inventoryRepo, reminderRepo, financialRepo, logr, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	})

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	businessHandler := handler.NewBusinessHandler(businessSvc)
	employeeHandler := handler.NewEmployeeHandler(employeeSvc, dashboardSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, generatorSvc, metricsSvc, dashboardSvc)
	inventoryHandler := handler.NewInventoryHandler(inventorySvc, dashboardSvc)
	financialHandler := handler.NewFinancialHandler(financialSvc, dashboardSvc)
	reminderHandler := handler.NewReminderHandler(reminderSvc, dashboardSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, metricsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), routeDeps{
		auth:         authSvc,
		authHandler:  authHandler,
		business:     businessHandler,
		employees:    employeeHandler,
		availability: availabilityHandler,
		schedule:     scheduleHandler,
		inventory:    inventoryHandler,
		financials:   financialHandler,
		reminders:    reminderHandler,
		dashboard:    dashboardHandler,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

type routeDeps struct {
	auth         *service.AuthService
	authHandler  *handler.AuthHandler
	business     *handler.BusinessHandler
	employees    *handler.EmployeeHandler
	availability *handler.AvailabilityHandler
	schedule     *handler.ScheduleHandler
	inventory    *handler.InventoryHandler
	financials   *handler.FinancialHandler
	reminders    *handler.ReminderHandler
	dashboard    *handler.DashboardHandler
}

func registerRoutes(api *gin.RouterGroup, deps routeDeps) {
	// Public.
	api.POST("/auth/signup", deps.authHandler.Signup)
	api.POST("/auth/login", deps.authHandler.Login)
	api.POST("/auth/refresh", deps.authHandler.Refresh)
	api.GET("/business/logo", deps.business.Logo)

	authed := api.Group("")
	authed.Use(middleware.JWT(deps.auth))

	authed.POST("/auth/logout", deps.authHandler.Logout)
	authed.POST("/auth/change-password", deps.authHandler.ChangePassword)
	authed.GET("/auth/me", deps.authHandler.Me)

	manage := authed.Group("")
	manage.Use(middleware.RequireRoles(models.RoleOwner, models.RoleAdmin))

	authed.GET("/business", deps.business.Get)
	manage.PUT("/business", deps.business.Update)
	manage.POST("/business/logo", deps.business.UploadLogo)

	authed.GET("/employees", deps.employees.List)
	authed.GET("/employees/:id", deps.employees.Get)
	manage.POST("/employees", deps.employees.Create)
	manage.PUT("/employees/:id", deps.employees.Update)
	manage.DELETE("/employees/:id", deps.employees.Deactivate)
	manage.POST("/employees/invite", deps.employees.Invite)

	authed.POST("/availability", deps.availability.Submit)
	authed.GET("/availability", deps.availability.WeekForBusiness)
	authed.GET("/employees/:id/availability", deps.availability.WeekForEmployee)

	authed.GET("/shift-slots", deps.schedule.ListSlots)
	manage.POST("/shift-slots", deps.schedule.CreateSlot)
	manage.PUT("/shift-slots/:id", deps.schedule.UpdateSlot)
	manage.DELETE("/shift-slots/:id", deps.schedule.DeleteSlot)

	authed.GET("/schedule", deps.schedule.Week)
	authed.GET("/schedule/export", deps.schedule.Export)
	manage.POST("/schedule/generate", deps.schedule.Generate)
	manage.DELETE("/schedule", deps.schedule.DeleteWeek)

	authed.GET("/inventory", deps.inventory.List)
	authed.GET("/inventory/export", deps.inventory.Export)
	authed.GET("/inventory/:id", deps.inventory.Get)
	manage.POST("/inventory", deps.inventory.Create)
	manage.PUT("/inventory/:id", deps.inventory.Update)
	manage.DELETE("/inventory/:id", deps.inventory.Delete)
	manage.GET("/inventory/order-suggestions", deps.inventory.OrderSuggestions)

	manage.POST("/financials", deps.financials.Submit)
	manage.GET("/financials", deps.financials.Recent)
	manage.GET("/financials/week", deps.financials.Week)

	authed.GET("/reminders", deps.reminders.List)
	authed.POST("/reminders", deps.reminders.Create)
	authed.PUT("/reminders/:id", deps.reminders.Update)
	authed.DELETE("/reminders/:id", deps.reminders.Delete)

	authed.GET("/dashboard", deps.dashboard.Stats)
}
