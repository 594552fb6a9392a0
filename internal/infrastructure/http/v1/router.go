// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"sweetflow/internal/core/appctx"
	"sweetflow/internal/core/clock"
	"sweetflow/internal/core/security"
	"sweetflow/internal/domain/auth"
	"sweetflow/internal/domain/cash"
	"sweetflow/internal/domain/catalogs/branch"
	"sweetflow/internal/domain/catalogs/product"
	"sweetflow/internal/domain/expense"
	"sweetflow/internal/domain/ledger"
	"sweetflow/internal/domain/platform"
	"sweetflow/internal/domain/production"
	"sweetflow/internal/domain/reports"
	"sweetflow/internal/domain/returns"
	"sweetflow/internal/domain/sales"
	"sweetflow/internal/domain/transfer"
	"sweetflow/internal/domain/warehouse"
	"sweetflow/internal/infrastructure/http/v1/handlers"
	"sweetflow/internal/infrastructure/http/v1/middleware"
	"sweetflow/internal/infrastructure/storage/postgres"
	"sweetflow/internal/infrastructure/storage/postgres/catalog_repo"
	"sweetflow/internal/infrastructure/storage/postgres/document_repo"
	"sweetflow/internal/infrastructure/storage/postgres/platform_repo"
	"sweetflow/internal/infrastructure/storage/postgres/register_repo"
	"sweetflow/internal/infrastructure/storage/postgres/report_repo"
	"sweetflow/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the shared connection pool (for health checks).
	Pool *postgres.Pool

	// TxManager wraps the pool for repositories.
	TxManager *postgres.TxManager

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints.
	AuthService *auth.Service

	// Audit records document decisions and cash withdrawals.
	Audit *postgres.AuditService

	// Flags gates plan-dependent features.
	Flags security.FlagProvider

	// Clock for document dating; injectable in tests.
	Clock clock.Clock
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	clk := cfg.Clock
	if clk == nil {
		clk = clock.System{}
	}

	// Repositories share the TxManager so a request-scoped transaction
	// spans every repo it touches.
	branchRepo := catalog_repo.NewBranchRepo(cfg.TxManager)
	productRepo := catalog_repo.NewProductRepo(cfg.TxManager)
	movementRepo := register_repo.NewMovementRepo(cfg.TxManager)
	stockRepo := register_repo.NewStockRepo(cfg.TxManager)
	cashRepo := register_repo.NewCashRepo(cfg.TxManager)
	transferRepo := document_repo.NewTransferRepo(cfg.TxManager)
	returnRepo := document_repo.NewReturnRepo(cfg.TxManager)
	productionRepo := document_repo.NewProductionRepo(cfg.TxManager)
	saleRepo := document_repo.NewSaleRepo(cfg.TxManager)
	expenseRepo := document_repo.NewExpenseRepo(cfg.TxManager)
	overviewRepo := report_repo.NewOverviewRepo(cfg.TxManager)
	tenantRepo := platform_repo.NewTenantRepo(cfg.TxManager)
	planRepo := platform_repo.NewPlanRepo(cfg.TxManager)

	ledgerSvc := ledger.NewService(movementRepo)
	branchSvc := branch.NewService(branchRepo)
	productSvc := product.NewService(productRepo)
	warehouseSvc := warehouse.NewService(stockRepo, branchRepo, ledgerSvc, cfg.TxManager)
	transferSvc := transfer.NewService(transferRepo, branchRepo, productRepo, ledgerSvc, cfg.TxManager, clk)
	returnsSvc := returns.NewService(returnRepo, productRepo, ledgerSvc, cfg.TxManager, clk)
	productionSvc := production.NewService(productionRepo, ledgerSvc, cfg.TxManager, clk)
	salesSvc := sales.NewService(saleRepo, cfg.TxManager, clk)
	expenseSvc := expense.NewService(expenseRepo, clk)
	reportsSvc := reports.NewService(overviewRepo, clk)
	cashSvc := cash.NewService(cashRepo, branchRepo, clk)
	platformSvc := platform.NewService(tenantRepo, planRepo, cfg.TxManager, clk)

	base := handlers.NewBaseHandler()
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	branchHandler := handlers.NewBranchHandler(base, branchSvc)
	productHandler := handlers.NewProductHandler(base, productSvc)
	warehouseHandler := handlers.NewWarehouseHandler(base, warehouseSvc)
	transferHandler := handlers.NewTransferHandler(base, transferSvc, cfg.Audit)
	returnsHandler := handlers.NewReturnsHandler(base, returnsSvc, cfg.Audit)
	productionHandler := handlers.NewProductionHandler(base, productionSvc)
	salesHandler := handlers.NewSalesHandler(base, salesSvc)
	expenseHandler := handlers.NewExpenseHandler(base, expenseSvc)
	reportsHandler := handlers.NewReportsHandler(base, reportsSvc)
	cashHandler := handlers.NewCashHandler(base, cashSvc, reportsSvc, cfg.Audit)
	platformHandler := handlers.NewPlatformHandler(base, platformSvc)

	// Health endpoints (no auth)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/auth/login", authHandler.Login)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		authGroup := protected.Group("/auth")
		{
			authGroup.GET("/me", authHandler.Me)
			authGroup.POST("/register", middleware.RequireRole(appctx.RoleTenantAdmin), authHandler.Register)
			authGroup.GET("/users", middleware.RequireRole(appctx.RoleTenantAdmin), authHandler.ListUsers)
		}

		branches := protected.Group("/branches")
		{
			branches.GET("", branchHandler.List)
			branches.POST("", branchHandler.Create)
			branches.GET("/:id", branchHandler.Get)
			branches.PUT("/:id", branchHandler.Update)
			branches.DELETE("/:id", branchHandler.Delete)
		}

		products := protected.Group("/products")
		{
			products.GET("", productHandler.List)
			products.POST("", productHandler.Create)
			products.GET("/:id", productHandler.Get)
			products.GET("/barcode/:barcode", productHandler.GetByBarcode)
			products.PUT("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
		}

		warehouseGroup := protected.Group("/warehouse")
		{
			warehouseGroup.GET("", warehouseHandler.GetStock)
			warehouseGroup.POST("/adjustments", warehouseHandler.Adjust)
		}

		transfers := protected.Group("/transfers")
		{
			transfers.POST("", transferHandler.Create)
			transfers.GET("/:id", transferHandler.Get)
			transfers.GET("/:id/history", transferHandler.History)
			transfers.GET("/incoming/branch/:branchId", transferHandler.ListIncoming)
			transfers.POST("/:id/items/:itemId/accept", transferHandler.AcceptItem)
			transfers.POST("/:id/items/:itemId/reject", transferHandler.RejectItem)
			transfers.POST("/:id/cancel", transferHandler.Cancel)
			transfers.POST("/:id/accept-barcode",
				middleware.RequireFlag(cfg.Flags, platformSvc, security.FlagTransfersBarcode),
				transferHandler.AcceptByBarcode)
		}

		returnsGroup := protected.Group("/returns")
		{
			returnsGroup.GET("", returnsHandler.List)
			returnsGroup.POST("", returnsHandler.Create)
			returnsGroup.GET("/:id", returnsHandler.Get)
			returnsGroup.POST("/:id/items/:itemId/accept", returnsHandler.AcceptItem)
			returnsGroup.POST("/:id/items/:itemId/reject", returnsHandler.RejectItem)
		}

		productionGroup := protected.Group("/production")
		{
			productionGroup.GET("", productionHandler.List)
			productionGroup.POST("", productionHandler.Create)
			productionGroup.GET("/:id", productionHandler.Get)
			productionGroup.PUT("/:id", productionHandler.Update)
			productionGroup.DELETE("/:id", productionHandler.Delete)
		}

		salesGroup := protected.Group("/sales")
		{
			salesGroup.GET("", salesHandler.List)
			salesGroup.POST("", salesHandler.Create)
			salesGroup.GET("/:id", salesHandler.Get)
			salesGroup.DELETE("/:id", salesHandler.Delete)
		}

		expenses := protected.Group("/expenses")
		{
			expenses.GET("", expenseHandler.List)
			expenses.POST("", expenseHandler.Create)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		reportsGroup := protected.Group("/reports")
		{
			reportsGroup.GET("/overview",
				middleware.RequireFlag(cfg.Flags, platformSvc, security.FlagReportsOverview),
				reportsHandler.Overview)
		}

		cashGroup := protected.Group("/cash")
		{
			cashGroup.GET("", cashHandler.List)
			cashGroup.POST("/in", cashHandler.CashIn)
			cashGroup.POST("/out", cashHandler.CashOut)
			cashGroup.GET("/summary",
				middleware.RequireFlag(cfg.Flags, platformSvc, security.FlagCashSummary),
				cashHandler.Summary)
		}

		platformGroup := protected.Group("/platform")
		platformGroup.Use(middleware.RequireRole(appctx.RolePlatformAdmin))
		{
			platformGroup.GET("/tenants", platformHandler.ListTenants)
			platformGroup.POST("/tenants", platformHandler.CreateTenant)
			platformGroup.GET("/tenants/:id", platformHandler.GetTenant)
			platformGroup.POST("/tenants/:id/top-up", platformHandler.TopUp)
			platformGroup.GET("/plans", platformHandler.ListPlans)
			platformGroup.POST("/plans", platformHandler.CreatePlan)
			platformGroup.POST("/billing/run", platformHandler.RunBilling)
		}
	}

	return router
}
