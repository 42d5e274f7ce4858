package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/junior875/nfcePt2/internal/certificado"
	"github.com/junior875/nfcePt2/internal/config"
	"github.com/junior875/nfcePt2/internal/danfe"
	"github.com/junior875/nfcePt2/internal/empresa"
	empresadomain "github.com/junior875/nfcePt2/internal/empresa/domain"
	"github.com/junior875/nfcePt2/internal/migration"
	"github.com/junior875/nfcePt2/internal/nfce"
	nfcedomain "github.com/junior875/nfcePt2/internal/nfce/domain"
	"github.com/junior875/nfcePt2/internal/nuvemfiscal"
	"github.com/junior875/nfcePt2/internal/observability"
	obsmiddleware "github.com/junior875/nfcePt2/internal/observability/logger"
	obsmetrics "github.com/junior875/nfcePt2/internal/observability/metrics"
	obstracing "github.com/junior875/nfcePt2/internal/observability/tracing"
	"github.com/junior875/nfcePt2/internal/produto"
	produtodomain "github.com/junior875/nfcePt2/internal/produto/domain"
	"github.com/junior875/nfcePt2/internal/ratelimit"
	"github.com/junior875/nfcePt2/pkg/db"
)

var Module = fx.Module("http.server",
	config.Module,
	observability.Module,
	fx.Provide(registerGin),
	db.Module,
	migration.Module,
	nuvemfiscal.Module,
	ratelimit.Module,
	empresa.Module,
	produto.Module,
	nfce.Module,
	certificado.Module,
	danfe.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	empresaSvc     empresadomain.Service
	produtoSvc     produtodomain.Service
	nfceSvc        nfcedomain.Service
	certificadoSvc certificado.Service
	danfeSvc       danfe.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	EmpresaSvc     empresadomain.Service
	ProdutoSvc     produtodomain.Service
	NFCeSvc        nfcedomain.Service
	CertificadoSvc certificado.Service
	DanfeSvc       danfe.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		empresaSvc:     p.EmpresaSvc,
		produtoSvc:     p.ProdutoSvc,
		nfceSvc:        p.NFCeSvc,
		certificadoSvc: p.CertificadoSvc,
		danfeSvc:       p.DanfeSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Empresas --------
	api.POST("/empresa", s.CreateEmpresa)
	api.GET("/empresa", s.ListEmpresas)
	api.GET("/empresa/:id", s.GetEmpresa)
	api.PUT("/empresa/:id", s.UpdateEmpresa)
	api.DELETE("/empresa/:id", s.DeleteEmpresa)
	api.GET("/empresa/cnpj/:cnpj", s.ConsultarCNPJ)

	// -------- Produtos --------
	api.POST("/produto", s.CreateProduto)
	api.GET("/produto", s.ListProdutos)
	api.GET("/produto/:id", s.GetProduto)
	api.PUT("/produto/:id", s.UpdateProduto)
	api.DELETE("/produto/:id", s.DeleteProduto)

	// -------- NFC-e --------
	api.POST("/nfce/emitir", s.EmitirNFCe)
	api.GET("/nfce/", s.ListNFCe)
	api.GET("/nfce/:id", s.GetNFCe)
	api.POST("/nfce/:id/cancelar", s.CancelarNFCe)
	api.GET("/nfce/:id/danfe", s.GerarDanfe)

	// -------- Certificados --------
	api.POST("/certificado/:cnpj", s.EnviarCertificado)
	api.GET("/certificado/:cnpj", s.ConsultarCertificado)
	api.DELETE("/certificado/:cnpj", s.ExcluirCertificado)
}
