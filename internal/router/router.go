package router

import (
	"time"

	"cuadrecaja/internal/config"
	"cuadrecaja/internal/handler"
	"cuadrecaja/internal/middleware"
	"cuadrecaja/internal/repository"
	"cuadrecaja/internal/service"
	"cuadrecaja/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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
	sucursalRepo := repository.NewSucursalRepository(db)
	cuadreRepo := repository.NewCuadreRepository(db)
	pagoRepo := repository.NewPagoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	sucursalSvc := service.NewSucursalService(sucursalRepo)
	kpiSvc := service.NewKPIService(cuadreRepo, pagoRepo, sucursalRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	cuadreSvc := service.NewCuadreService(cuadreRepo, sucursalRepo, kpiSvc, dispatcher, cfg.PDFStoragePath)
	pagoSvc := service.NewPagoService(pagoRepo, sucursalRepo, kpiSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	sucursalesH := handler.NewSucursalesHandler(sucursalSvc)
	cuadresH := handler.NewCuadresHandler(cuadreSvc)
	pagosH := handler.NewPagosHandler(pagoSvc)

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
		// Cuadres — reads for every role (branch scope enforced in handlers),
		// saves for operators and admins, destructive ops admin-only.
		v1.POST("/cuadres/preview", cuadresH.Previsualizar)
		v1.GET("/cuadres", cuadresH.Listar)
		v1.GET("/cuadres/:id", cuadresH.Obtener)
		v1.GET("/cuadres/:id/reporte", cuadresH.DescargarReporte)
		v1.POST("/cuadres", middleware.RequireRole(middleware.RolSucursal, middleware.RolAdministrador), cuadresH.Crear)
		v1.PUT("/cuadres/:id", middleware.RequireRole(middleware.RolSucursal, middleware.RolAdministrador), cuadresH.Actualizar)
		v1.DELETE("/cuadres/:id", middleware.RequireRole(middleware.RolAdministrador), cuadresH.Eliminar)

		// Pagos — reads branch-scoped, writes admin-only
		v1.GET("/pagos", pagosH.Listar)
		v1.GET("/pagos/:id", pagosH.Obtener)
		pagos := v1.Group("/pagos", middleware.RequireRole(middleware.RolAdministrador))
		{
			pagos.POST("", pagosH.Crear)
			pagos.PUT("/:id", pagosH.Actualizar)
			pagos.DELETE("/:id", pagosH.Eliminar)
		}

		// Sucursales — reads branch-scoped, writes admin-only
		v1.GET("/sucursales", sucursalesH.Listar)
		v1.GET("/sucursales/:id", sucursalesH.Obtener)
		sucursales := v1.Group("/sucursales", middleware.RequireRole(middleware.RolAdministrador))
		{
			sucursales.POST("", sucursalesH.Crear)
			sucursales.PUT("/:id", sucursalesH.Actualizar)
			sucursales.DELETE("/:id", sucursalesH.Desactivar)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole(middleware.RolAdministrador))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
