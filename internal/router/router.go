package router

import (
	"log/slog"
	"net/http"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/config"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/handler"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/mail"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/middleware"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/revocation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps are the collaborators the API needs besides the database.
type Deps struct {
	Sessions revocation.Store
	Mailer   mail.Mailer
	Logger   *slog.Logger
	// Registry receives the HTTP metrics; nil disables /metrics.
	Registry *prometheus.Registry
}

// SetupRouter builds the gin engine with every API route.
func SetupRouter(cfg *config.Config, db *gorm.DB, deps Deps) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mailer := deps.Mailer
	if mailer == nil {
		mailer = mail.LogMailer{Logger: logger}
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	var metrics *middleware.Metrics
	if deps.Registry != nil {
		metrics = middleware.NewMetrics(deps.Registry, cfg.Metrics.Namespace)
		r.Use(metrics.Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, deps.Sessions, handler.AuthOptions{
		JWTSecret:       cfg.JWT.Secret,
		Issuer:          cfg.JWT.Issuer,
		TTLHours:        cfg.JWT.ExpireHours,
		BcryptCost:      cfg.Security.BcryptCost,
		MaxFailedLogins: cfg.Security.MaxFailedLogins,
		LockMinutes:     cfg.Security.LockMinutes,
	}, metrics, logger)
	productHandler := handler.NewProductHandler(db, cfg.App.PageSize)
	orderHandler := handler.NewOrderHandler(db)
	userHandler := handler.NewUserHandler(db, cfg.Security.BcryptCost, cfg.Security.GuestAccountID)
	contactHandler := handler.NewContactHandler(db, mailer, cfg.Security.GuestAccountID, logger)
	exportHandler := handler.NewExportHandler(db)
	logHandler := handler.NewLogHandler(db, cfg.Security.EncryptionKey)

	// public
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/verify", authHandler.Verify)
	api.GET("/products", productHandler.ListProducts)
	api.GET("/products/search", productHandler.SearchProducts)
	api.GET("/products/:id", productHandler.GetProduct)
	api.POST("/contact", contactHandler.CreateContact)

	// logged-in users
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db, deps.Sessions))

	protected.GET("/auth/me", handler.GetMe)
	protected.POST("/auth/logout", authHandler.Logout)
	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db, cfg.Security.BcryptCost))
	protected.GET("/orders/user-orders", orderHandler.UserOrders)
	protected.POST("/orders", orderHandler.CreateOrder)

	// dashboard
	admin := protected.Group("")
	admin.Use(
		middleware.RequireAdmin(),
		middleware.AuditMiddleware(db, cfg.Security.EncryptionKey, logger),
	)

	admin.POST("/products", productHandler.CreateProduct)
	admin.PUT("/products/:id", productHandler.UpdateProduct)
	admin.DELETE("/products/:id", productHandler.DeleteProduct)

	admin.GET("/users", userHandler.ListUsers)
	admin.PATCH("/users/:userId", userHandler.UpdateUser)
	admin.DELETE("/users/:userId", userHandler.DeleteUser)

	admin.GET("/orders", orderHandler.ListOrders)
	admin.PATCH("/orders/:id/status", orderHandler.UpdateOrderStatus)

	admin.GET("/export/products.xlsx", exportHandler.ExportProductsXLSX)
	admin.GET("/export/orders.csv", exportHandler.ExportOrdersCSV)
	admin.GET("/audit-logs", logHandler.ListLogs)

	return r
}
