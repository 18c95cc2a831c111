package router

import (
	"time"

	"github.com/madecodebrazil/masioticas-sub005/internal/config"
	"github.com/madecodebrazil/masioticas-sub005/internal/handler"
	"github.com/madecodebrazil/masioticas-sub005/internal/middleware"
	"github.com/madecodebrazil/masioticas-sub005/internal/repository"
	"github.com/madecodebrazil/masioticas-sub005/internal/service"
	"github.com/madecodebrazil/masioticas-sub005/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	lojaRepo := repository.NewLojaRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	lojaSvc := service.NewLojaService(lojaRepo)
	caixaSvc := service.NewCaixaService(caixaRepo, lojaRepo, dispatcher, cfg.BusinessTimezone, cfg.PDFStoragePath)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	lojasH := handler.NewLojasHandler(lojaSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operador, supervisor, administrador — declared per-endpoint
		lojas := v1.Group("/lojas")
		{
			lojas.GET("", middleware.RequireRole("operador", "supervisor", "administrador"), lojasH.Listar)
			lojas.GET("/:id", middleware.RequireRole("operador", "supervisor", "administrador"), lojasH.Obter)
			lojas.POST("", middleware.RequireRole("administrador"), lojasH.Criar)
		}

		caixa := v1.Group("/caixa")
		{
			caixa.POST("/:loja/abrir", middleware.RequireRole("operador", "supervisor", "administrador"), caixaH.Abrir)
			caixa.POST("/:loja/:dia/movimento", middleware.RequireRole("operador", "supervisor", "administrador"), caixaH.RegistrarMovimento)
			caixa.POST("/:loja/:dia/fechar", middleware.RequireRole("operador", "supervisor", "administrador"), caixaH.Fechar)
			caixa.GET("/:loja/saldo", middleware.RequireRole("operador", "supervisor", "administrador"), caixaH.Saldo)
			caixa.GET("/:loja/aberto", middleware.RequireRole("operador", "supervisor", "administrador"), caixaH.SessaoAberta)
			caixa.GET("/:loja/historico", middleware.RequireRole("supervisor", "administrador"), caixaH.Historico)
			caixa.GET("/:loja/:dia", middleware.RequireRole("operador", "supervisor", "administrador"), caixaH.Relatorio)
			caixa.GET("/:loja/:dia/relatorio.pdf", middleware.RequireRole("supervisor", "administrador"), caixaH.RelatorioPDF)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.GET("", usuariosH.Listar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
