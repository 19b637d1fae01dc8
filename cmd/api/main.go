// @title        Catalog API
// @version      1.0
// @description  CRUD over catalog items backed by DynamoDB.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	_ "github.com/imrishuroy/go-catalog/docs"
	"github.com/imrishuroy/go-catalog/internal/aws"
	"github.com/imrishuroy/go-catalog/internal/config"
	"github.com/imrishuroy/go-catalog/internal/events"
	"github.com/imrishuroy/go-catalog/internal/handlers"
	"github.com/imrishuroy/go-catalog/internal/idempotency"
	"github.com/imrishuroy/go-catalog/internal/items"
	"github.com/imrishuroy/go-catalog/internal/metrics"
)

// itemStore is what the API needs from an item backend.
type itemStore interface {
	handlers.Repository
	handlers.Pinger
}

type routerDeps struct {
	Items        *handlers.ItemsHandler
	Health       *handlers.HealthHandler
	Metrics      *metrics.HTTPMetrics
	AllowOrigins []string
}

func setupRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(d.Metrics.Middleware())
	r.Use(cors.New(corsConfig(d.AllowOrigins)))

	handlers.RegisterHealthRoutes(r, d.Health)
	r.GET("/metrics", d.Metrics.Handler())

	// docs
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	handlers.RegisterItemsRoutes(r, d.Items)

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", handlers.IdempotencyKeyHeader, "X-Request-Id"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "Location"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

// newRouterDeps wires stores, publisher and handlers from cfg. The memory
// backend needs no AWS access unless an events queue is configured.
func newRouterDeps(ctx context.Context, cfg config.Config, logger *log.Logger) (routerDeps, error) {
	var (
		clients *aws.AWSClients
		err     error
	)
	if cfg.App.StoreBackend == config.StoreDynamoDB || cfg.Events.QueueURL != "" {
		clients, err = aws.NewAWSClients(ctx, cfg.AWS)
		if err != nil {
			return routerDeps{}, err
		}
	}

	hcfg := handlers.HandlerConfig{Logger: logger}
	var store itemStore
	switch cfg.App.StoreBackend {
	case config.StoreMemory:
		store = items.NewMemoryStore()
	default:
		store = items.NewStore(clients.DynamoDB, cfg.Tables.Items)
		if cfg.Tables.Idempotency != "" {
			hcfg.Idempotency = idempotency.NewStore(clients.DynamoDB, cfg.Tables.Idempotency, cfg.Tables.IdempotencyTTL)
		}
	}
	hcfg.Repository = store

	if cfg.Events.QueueURL != "" {
		hcfg.Events = events.NewSQSPublisher(clients.SQS, cfg.Events.QueueURL)
	}

	return routerDeps{
		Items:        handlers.NewItemsHandler(hcfg),
		Health:       handlers.NewHealthHandler(cfg.Health.Timeout, handlers.ReadinessCheck{Name: cfg.App.StoreBackend, Pinger: store}),
		Metrics:      metrics.NewHTTPMetrics(),
		AllowOrigins: cfg.HTTP.AllowOrigins,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := log.New(os.Stderr, "", log.LstdFlags|log.LUTC)

	deps, err := newRouterDeps(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}
	r := setupRouter(deps)

	// RUN_LOCAL=true serves HTTP directly for development.
	if cfg.App.RunLocal {
		runLocal(r, cfg.HTTP)
		return
	}

	// lambda adapter; ProxyWithContext propagates the invocation context
	adapter := ginadapter.New(r)
	lambda.Start(adapter.ProxyWithContext)
}

func runLocal(r *gin.Engine, cfg config.HTTPConfig) {
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		log.Printf("running local server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to run local server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
