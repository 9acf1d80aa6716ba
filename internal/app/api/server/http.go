package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/quietleaf/mindlog/docs"
	"github.com/quietleaf/mindlog/internal/app/api/handlers"
	mw "github.com/quietleaf/mindlog/internal/app/api/middleware"
	"github.com/quietleaf/mindlog/internal/app/service/billing"
	"github.com/quietleaf/mindlog/internal/app/service/chat"
	"github.com/quietleaf/mindlog/internal/app/service/profile"
	"github.com/quietleaf/mindlog/internal/app/service/summary"
	"github.com/quietleaf/mindlog/internal/app/service/thought"
	cfgpkg "github.com/quietleaf/mindlog/pkg/config"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(
	r *gin.Engine,
	log *zap.SugaredLogger,
	cfg *cfgpkg.Config,
	thoughts *thought.Service,
	gw chat.Gateway,
	summaries summary.Provider,
	profiles *profile.Service,
	bill *billing.Service,
) {
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// App Store server notifications are signed by Apple, not by a user token,
	// so the webhook stays outside the auth group.
	handlers.RegisterBillingWebhookRoutes(pub, bill)

	// Protected group using auth middleware
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AuthMiddleware(cfg, log))

	handlers.RegisterThoughtRoutes(apiV1, thoughts)
	handlers.RegisterChatRoutes(apiV1, gw)
	handlers.RegisterSummaryRoutes(apiV1, summaries)
	handlers.RegisterProfileRoutes(apiV1, profiles)
	handlers.RegisterBillingRoutes(apiV1, bill)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
