package router

import (
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/clock"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/config"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/handler"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/middleware"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/repository"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/service"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher, clk clock.Clock) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	loc := cfg.Location()

	// ── Repositories ─────────────────────────────────────────────────────────
	habitacionRepo := repository.NewHabitacionRepository(db)
	tarifaRepo := repository.NewTarifaRepository(db)
	reservaRepo := repository.NewReservaRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	articuloRepo := repository.NewArticuloRepository(db)
	inventarioRepo := repository.NewInventarioRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	cierreRepo := repository.NewCierreRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	tarifaSvc := service.NewTarifaService(tarifaRepo)
	inventarioSvc := service.NewInventarioService(inventarioRepo, articuloRepo)
	ocupacionSvc := service.NewOcupacionService(habitacionRepo, reservaRepo, movimientoRepo, tarifaSvc, inventarioSvc, clk, loc)
	consumoSvc := service.NewConsumoService(movimientoRepo, reservaRepo, articuloRepo, inventarioSvc, dispatcher)
	pagoSvc := service.NewPagoService(pagoRepo, movimientoRepo, reservaRepo, clk)
	cierreSvc := service.NewCierreService(cierreRepo, pagoRepo, clk, dispatcher)
	gap := time.Duration(cfg.DisponibilidadGapMinutos) * time.Minute
	disponibilidadSvc := service.NewDisponibilidadService(habitacionRepo, reservaRepo, clk, loc, gap)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ocupacionH := handler.NewOcupacionHandler(ocupacionSvc)
	consumosH := handler.NewConsumosHandler(consumoSvc)
	pagosH := handler.NewPagosHandler(pagoSvc)
	cierresH := handler.NewCierresHandler(cierreSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	disponibilidadH := handler.NewDisponibilidadHandler(disponibilidadSvc)
	catalogoH := handler.NewCatalogoHandler(habitacionRepo, tarifaRepo, articuloRepo, pagoRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	todos := middleware.RequireRole(middleware.RolRecepcion, middleware.RolSupervisor, middleware.RolAdministrador)
	supervision := middleware.RequireRole(middleware.RolSupervisor, middleware.RolAdministrador)
	// Money-moving writes get their own, tighter window.
	escrituraCaja := middleware.RateLimiter(60, time.Minute)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Catalog lookups
		v1.GET("/habitaciones", todos, catalogoH.Habitaciones)
		v1.GET("/categorias/:id/promociones", todos, catalogoH.Promociones)
		v1.GET("/articulos", todos, catalogoH.Articulos)
		v1.GET("/medios-pago", todos, catalogoH.MediosPago)

		// Occupancy
		v1.POST("/ocupaciones", todos, ocupacionH.Reservar)
		v1.GET("/ocupaciones/:id", todos, ocupacionH.Estado)
		v1.POST("/ocupaciones/:id/extender", todos, ocupacionH.ExtenderTiempo)
		v1.PUT("/ocupaciones/:id/promocion", todos, ocupacionH.CambiarPromocion)
		v1.POST("/ocupaciones/:id/anular", supervision, ocupacionH.Anular)
		v1.POST("/visitas/:id/pausar", todos, ocupacionH.Pausar)
		v1.POST("/visitas/:id/reanudar", todos, ocupacionH.Reanudar)
		v1.POST("/habitaciones/:id/finalizar", todos, ocupacionH.Finalizar)
		v1.GET("/habitaciones/:id/disponibilidad", todos, disponibilidadH.VentanasLibres)

		// Consumption
		v1.GET("/movimientos/:id", todos, consumosH.ObtenerMovimiento)
		v1.POST("/movimientos/:id/consumos", todos, consumosH.Registrar)
		v1.DELETE("/consumos/:id", supervision, consumosH.Anular)

		// Billing
		v1.POST("/visitas/:id/pagos", todos, escrituraCaja, pagosH.Pagar)

		cierres := v1.Group("/cierres")
		{
			cierres.GET("/actual", todos, cierresH.Actual)
			cierres.POST("/cerrar", supervision, escrituraCaja, cierresH.Cerrar)
			cierres.GET("", supervision, cierresH.Listar)
			cierres.GET("/:id", supervision, cierresH.Obtener)
		}

		inv := v1.Group("/inventario", supervision)
		{
			inv.POST("/reconciliar", inventarioH.Reconciliar)
			inv.GET("/movimientos", inventarioH.ListarMovimientos)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
