package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/oemcatalog/internal/auth"
	"github.com/smallbiznis/oemcatalog/internal/authorization"
	"github.com/smallbiznis/oemcatalog/internal/catalog"
	catalogdomain "github.com/smallbiznis/oemcatalog/internal/catalog/domain"
	"github.com/smallbiznis/oemcatalog/internal/config"
	"github.com/smallbiznis/oemcatalog/internal/mastercatalog"
	mastercatalogdomain "github.com/smallbiznis/oemcatalog/internal/mastercatalog/domain"
	"github.com/smallbiznis/oemcatalog/internal/observability"
	obslogger "github.com/smallbiznis/oemcatalog/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/oemcatalog/internal/observability/metrics"
	obstracing "github.com/smallbiznis/oemcatalog/internal/observability/tracing"
	"github.com/smallbiznis/oemcatalog/internal/oem"
	"github.com/smallbiznis/oemcatalog/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	oem.Module,
	auth.Module,
	mastercatalog.Module,
	catalog.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(metrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type engineParams struct {
	fx.In

	ObsCfg  observability.Config
	Metrics *obsmetrics.Metrics `optional:"true"`
}

func registerGin(p engineParams) *gin.Engine {
	return NewEngine(p.ObsCfg, p.Metrics)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	authSvc    auth.Service
	authzSvc   authorization.Service
	catalogSvc catalogdomain.Service
	masterSvc  mastercatalogdomain.Service
	limiter    *ratelimit.TokenLimiter
	obsMetrics *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	AuthSvc    auth.Service
	AuthzSvc   authorization.Service
	CatalogSvc catalogdomain.Service
	MasterSvc  mastercatalogdomain.Service
	Limiter    *ratelimit.TokenLimiter `optional:"true"`
	ObsMetrics *obsmetrics.Metrics     `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		authSvc:    p.AuthSvc,
		authzSvc:   p.AuthzSvc,
		catalogSvc: p.CatalogSvc,
		masterSvc:  p.MasterSvc,
		limiter:    p.Limiter,
		obsMetrics: p.ObsMetrics,
	}

	svc.registerAuthRoutes()
	svc.registerCatalogRoutes()
	svc.registerMasterCatalogRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	group := s.engine.Group("/auth")

	group.GET("/auth", s.IssueAdminToken)
	group.POST("/oems/token", s.tokenRateLimit(rateLimitEndpointOEMToken), s.IssueOEMToken)
}

func (s *Server) registerCatalogRoutes() {
	catalogs := s.engine.Group("/catalogs/:catalogId", s.AuthRequired())

	read := s.authorize(authorization.ObjectCatalogProduct, authorization.ActionRead)
	write := s.authorize(authorization.ObjectCatalogProduct, authorization.ActionWrite)

	catalogs.GET("/products", read, s.ListCatalogProducts)
	catalogs.GET("/products/:productId", read, s.GetCatalogProduct)
	catalogs.POST("/products", write, s.CreateCatalogProduct)
	catalogs.PUT("/products/:productId", write, s.UpdateCatalogProduct)
	catalogs.DELETE("/products/:productId", write, s.DeleteCatalogProduct)

	catalogs.GET("/master-catalogs", s.authorize(authorization.ObjectCatalogMaster, authorization.ActionRead), s.GetCatalogMasterCatalog)
}

func (s *Server) registerMasterCatalogRoutes() {
	master := s.engine.Group("/master-catalog", s.AuthRequired())

	list := s.authorize(authorization.ObjectMasterCatalog, authorization.ActionRead)
	master.GET("", list, s.ListMasterProducts)
	master.GET("/products", list, s.ListMasterProducts)

	master.POST("/products", s.CreateMasterProduct)
	master.PUT("/products/:id", s.UpdateMasterProduct)
	master.DELETE("/products/:id", s.DeleteMasterProduct)
}
