package router

import (
	"time"

	"github.com/Shakeel7G/clock-it/internal/config"
	"github.com/Shakeel7G/clock-it/internal/handler"
	"github.com/Shakeel7G/clock-it/internal/infra"
	"github.com/Shakeel7G/clock-it/internal/middleware"
	"github.com/Shakeel7G/clock-it/internal/repository"
	"github.com/Shakeel7G/clock-it/internal/service"
	"github.com/Shakeel7G/clock-it/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	clock := service.NewClock()
	renderer := infra.NewQRRenderer()

	// ── Repositories ─────────────────────────────────────────────────────────
	accountRepo := repository.NewAccountRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	qrRepo := repository.NewQRRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Worker dispatcher — injected into services that enqueue async mail
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	tokenSvc := service.NewTokenService(cfg.JWTSecret, clock)
	authSvc := service.NewAuthService(accountRepo, notificationRepo, tokenSvc, clock, cfg)
	recoverySvc := service.NewRecoveryService(accountRepo, notificationRepo, dispatcher, clock, cfg)
	qrSvc := service.NewQRService(accountRepo, qrRepo, tokenSvc, renderer, dispatcher, clock, cfg)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, accountRepo, notificationRepo, qrSvc, tokenSvc, dispatcher, clock)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, recoverySvc)
	accountsH := handler.NewAccountsHandler(authSvc)
	attendanceH := handler.NewAttendanceHandler(attendanceSvc, qrSvc)
	notificationsH := handler.NewNotificationsHandler(notificationRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/forgot-password", authH.ForgotPassword)
		auth.POST("/reset-password", authH.ResetPassword)
	}

	// Scan endpoint — public but token-gated: the scan token in the query
	// string is the credential.
	r.GET("/v1/attendance/scan", attendanceH.Scan)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.POST("/auth/change-password", authH.ChangePassword)
		v1.POST("/auth/unlock", middleware.RequireRole("admin"), authH.Unlock)

		v1.GET("/profile", accountsH.Profile)
		v1.PUT("/profile", accountsH.UpdateProfile)

		att := v1.Group("/attendance")
		{
			att.GET("/qr", attendanceH.IssueQR)
			att.GET("/qr/history", attendanceH.QRHistory)
			att.GET("/qr/active", attendanceH.ActiveQR)
			att.GET("/my", attendanceH.MyAttendance)
			att.GET("", middleware.RequireRole("admin"), attendanceH.ListAll)
		}

		v1.GET("/notifications", notificationsH.List)

		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.GET("", accountsH.List)
			users.GET("/:id", accountsH.GetByID)
			users.DELETE("/:id", accountsH.Delete)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
