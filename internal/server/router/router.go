package router

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganaderia/internal/config"
	"github.com/mamadbah2/ganaderia/internal/repository"
	"github.com/mamadbah2/ganaderia/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.Handler, cfg config.ServerConfig, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	r.GET("/healthz", handler.Health)

	api := r.Group("/api")
	api.GET("/dashboard", handler.Dashboard)

	api.GET("/users", handler.ListUsers)
	api.POST("/users", handler.CreateUser)

	api.GET("/animals", handler.ListAnimals)
	api.POST("/animals", handler.CreateAnimal)
	api.PUT("/animals/:id", handler.UpdateAnimal)
	api.DELETE("/animals/:id", handler.DeleteFrom(repository.CollectionAnimals))

	api.GET("/milk", handler.ListMilk)
	api.POST("/milk", handler.CreateMilk)
	api.DELETE("/milk/:id", handler.DeleteFrom(repository.CollectionMilk))

	api.GET("/health-events", handler.ListHealthEvents)
	api.POST("/health-events", handler.CreateHealthEvent)
	api.DELETE("/health-events/:id", handler.DeleteFrom(repository.CollectionHealthEvents))

	api.GET("/boosters", handler.ListBoosters)
	api.POST("/boosters/:id/done", handler.MarkBoosterDone)
	api.DELETE("/boosters/:id", handler.DeleteFrom(repository.CollectionBoosters))

	api.GET("/repro", handler.ListRepro)
	api.POST("/repro", handler.CreateRepro)
	api.DELETE("/repro/:id", handler.DeleteFrom(repository.CollectionRepro))

	api.GET("/finance", handler.Finance)
	api.POST("/finance/sales", handler.CreateCheeseSale)
	api.POST("/finance/purchases", handler.CreateMilkPurchase)
	api.POST("/finance/transport", handler.CreateMilkTransport)
	api.POST("/finance/fixed-costs", handler.CreateFixedCost)
	api.DELETE("/finance/:collection/:id", handler.DeleteFinance)

	api.GET("/brutos", handler.ListRawBovines)
	api.POST("/brutos", handler.SaveRawBovine)
	api.DELETE("/brutos/:id", handler.DeleteFrom(repository.CollectionRawBovines))

	api.GET("/meds", handler.ListMedications)
	api.POST("/meds", handler.SaveMedication)
	api.DELETE("/meds/:id", handler.DeleteFrom(repository.CollectionMedications))

	api.GET("/backup", handler.ExportBackup)
	api.POST("/backup", handler.ImportBackup)
	api.POST("/import/workbook", handler.ImportWorkbook)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
