package main

import (
	"context"
	"net/http"
	"time"

	"bookstore-graphql/internal/graph/loaders"
	"bookstore-graphql/internal/shared/middleware"
	"bookstore-graphql/internal/shared/response"
	"bookstore-graphql/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins...),
	)

	router.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "Route not found")
	})
	router.NoMethod(func(ctx *gin.Context) {
		response.MethodNotAllowed(ctx, "Method not allowed")
	})

	router.GET("/health", healthCheckHandler(c))
	router.GET("/metrics", c.Metrics.Handler())

	setupGraphQLRoutes(router, c)

	return router
}

// ========================================
// GRAPHQL ROUTES
// ========================================
func setupGraphQLRoutes(router *gin.Engine, c *container.Container) {
	gql := router.Group(c.Config.GraphQL.Path)
	gql.Use(loaders.Middleware(c.BookService, c.LoaderConfig, c.Metrics))
	{
		gql.POST("", c.GraphQLHandler.Post)
		gql.GET("", c.GraphQLHandler.Get)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = "error: " + err.Error()
			}
		}

		if appCtx.DB != nil {
			if stats, err := appCtx.DB.Stats(); err == nil {
				health["pool"] = gin.H{
					"total_connections":    stats.TotalConns,
					"idle_connections":     stats.IdleConns,
					"acquired_connections": stats.AcquiredConns,
					"max_connections":      stats.MaxConns,
					"utilization_percent":  stats.Utilization(),
				}
			}
		}
		health["services"] = gin.H{"database": dbStatus}

		if dbStatus != "ok" {
			health["status"] = "degraded"
			response.ServiceUnavailable(c, "Database unavailable", health)
			return
		}

		response.Success(c, http.StatusOK, health)
	}
}
