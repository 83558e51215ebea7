package router

import (
	"time"

	"rackpos/internal/cache"
	"rackpos/internal/config"
	"rackpos/internal/handler"
	"rackpos/internal/infra"
	"rackpos/internal/middleware"
	"rackpos/internal/repository"
	"rackpos/internal/service"
	"rackpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	rolVendedor   = "vendedor"
	rolSupervisor = "supervisor"
	rolAdmin      = "administrador"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, tasasCB *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, "global", 1000, time.Minute, "Demasiadas solicitudes"))

	listCache := cache.NewRedisListCache(rdb, time.Duration(cfg.ListCacheTTLSeconds)*time.Second)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	empresaRepo := repository.NewEmpresaRepository(db)
	sucursalRepo := repository.NewSucursalRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	unidadRepo := repository.NewUnidadMedidaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	stockRepo := repository.NewStockRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	historialRepo := repository.NewHistorialPrecioRepository(db)
	tasaRepo := repository.NewTasaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cuentaRepo := repository.NewCuentaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, empresaRepo, cfg)
	empresaSvc := service.NewEmpresaService(empresaRepo)
	sucursalSvc := service.NewSucursalService(sucursalRepo, listCache)
	clienteSvc := service.NewClienteService(clienteRepo, listCache)
	proveedorSvc := service.NewProveedorService(proveedorRepo, listCache)
	stockSvc := service.NewStockService(stockRepo, movimientoRepo, listCache)
	productoSvc := service.NewProductoService(productoRepo, unidadRepo, stockRepo, historialRepo, listCache)
	tasaSvc := service.NewTasaService(tasaRepo, listCache)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, clienteRepo, sucursalRepo, stockSvc, tasaSvc, listCache, dispatcher)
	cuentaSvc := service.NewCuentaService(cuentaRepo, productoRepo, proveedorRepo, sucursalRepo, stockSvc, tasaSvc, listCache)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, handler.CookieConfig{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure})
	usuariosH := handler.NewUsuariosHandler(authSvc)
	empresaH := handler.NewEmpresaHandler(empresaSvc)
	sucursalesH := handler.NewSucursalesHandler(sucursalSvc, stockSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	cuentasH := handler.NewCuentasHandler(cuentaSvc)
	tasasH := handler.NewTasasHandler(tasaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, tasasCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.RateLimiter(rdb, "login", 20, time.Minute, "Demasiados intentos de login, intente en un minuto"), authH.Login)
		auth.POST("/register", middleware.RateLimiter(rdb, "register", 5, time.Minute, "Demasiados intentos"), authH.Register)
		auth.POST("/refresh", middleware.SessionCookie(), middleware.CSRF(), authH.Refresh)
		auth.POST("/logout", middleware.SessionCookie(), middleware.CSRF(), authH.Logout)
	}

	// Protected routes
	todos := middleware.RequireRole(rolVendedor, rolSupervisor, rolAdmin)
	gestion := middleware.RequireRole(rolSupervisor, rolAdmin)
	admin := middleware.RequireRole(rolAdmin)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret), middleware.CSRF())
	{
		v1.GET("/auth/me", authH.Me)

		v1.GET("/empresa", todos, empresaH.Obtener)
		v1.PUT("/empresa", admin, empresaH.Actualizar)

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.POST("", usuariosH.Crear)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}

		v1.GET("/sucursales", todos, sucursalesH.Listar)
		v1.POST("/sucursales", admin, sucursalesH.Crear)
		v1.PUT("/sucursales/:id", admin, sucursalesH.Actualizar)
		v1.GET("/sucursales/:id/stock", todos, sucursalesH.Stock)
		v1.PATCH("/sucursales/:id/stock/:producto_id", gestion, sucursalesH.AjustarStock)
		v1.GET("/sucursales/:id/movimientos", gestion, sucursalesH.Movimientos)

		clientes := v1.Group("/clientes", todos)
		{
			clientes.GET("", clientesH.Listar)
			clientes.POST("", clientesH.Crear)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", gestion, clientesH.Eliminar)
		}

		proveedores := v1.Group("/proveedores", gestion)
		{
			proveedores.GET("", proveedoresH.Listar)
			proveedores.POST("", proveedoresH.Crear)
			proveedores.GET("/:id", proveedoresH.Obtener)
			proveedores.PUT("/:id", proveedoresH.Actualizar)
			proveedores.DELETE("/:id", admin, proveedoresH.Eliminar)
		}

		v1.GET("/unidades-medida", todos, productosH.ListarUnidadesMedida)
		v1.POST("/unidades-medida", admin, productosH.CrearUnidadMedida)

		// Catalog reads for everyone, writes for administrators
		v1.GET("/productos", todos, productosH.Listar)
		v1.GET("/productos/:id", todos, productosH.ObtenerPorID)
		v1.GET("/productos/:id/detalle", todos, productosH.Detalle)
		v1.GET("/productos/:id/unidades-venta", todos, productosH.ListarUnidadesVenta)
		v1.GET("/productos/:id/historial-precios", gestion, productosH.Historial)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.POST("/:id/unidades-venta", productosH.CrearUnidadVenta)
		}

		ventas := v1.Group("/ventas", todos)
		{
			ventas.GET("", ventasH.Listar)
			ventas.GET("/exportar", gestion, ventasH.Exportar)
			ventas.POST("", ventasH.Crear)
			ventas.GET("/:id", ventasH.Obtener)
			ventas.GET("/:id/detalles", ventasH.Detalles)
			ventas.GET("/:id/pagos", ventasH.ListarPagos)
			ventas.POST("/:id/pagos", ventasH.RegistrarPago)
			ventas.DELETE("/:id", gestion, ventasH.Anular)
		}

		cuentas := v1.Group("/cuentas", gestion)
		{
			cuentas.GET("", cuentasH.Listar)
			cuentas.POST("", cuentasH.Crear)
			cuentas.GET("/:id", cuentasH.Obtener)
			cuentas.GET("/:id/pagos", cuentasH.ListarPagos)
			cuentas.POST("/:id/pagos", cuentasH.RegistrarPago)
		}

		v1.POST("/admin/dlq/:cola/reencolar", admin, handler.ReencolarDLQ(rdb))

		v1.GET("/tasas", todos, tasasH.Listar)
		v1.GET("/tasas/hoy", todos, tasasH.Hoy)
		v1.POST("/tasas", gestion, tasasH.Crear)
	}

	// Swagger UI outside production only
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
