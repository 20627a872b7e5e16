package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go-supply-ledger/internal/handler"
	"go-supply-ledger/internal/middleware"
	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/repository"
	"go-supply-ledger/internal/service"
	"go-supply-ledger/internal/ws"
	"go-supply-ledger/pkg/database"
	"go-supply-ledger/pkg/logging"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	log := logging.WithModule("main")

	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found")
	}

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Supply{},
		&model.TransactionKind{},
		&model.StockTransaction{},
		&model.User{},
		&model.Privilege{},
	); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	seedDefaults(db)

	wsHub := ws.NewHub()
	go wsHub.Run()

	supplyRepo := repository.NewSupplyRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	userRepo := repository.NewUserRepo(db)

	ledgerCfg := service.LedgerConfig{
		AllowNegativeStock: os.Getenv("ALLOW_NEGATIVE_STOCK") == "true",
	}

	ledgerService := service.NewLedgerService(db, supplyRepo, txRepo, wsHub, ledgerCfg, logging.WithModule("ledger"))
	catalogService := service.NewCatalogService(db, supplyRepo, categoryRepo, ledgerService, logging.WithModule("catalog"))
	monitorService := service.NewMonitorService(supplyRepo, lowStockCacheTTL())
	historyService := service.NewHistoryService(txRepo)
	authService := service.NewAuthService(userRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	monitorHandler := handler.NewMonitorHandler(monitorService)
	historyHandler := handler.NewHistoryHandler(historyService)
	authHandler := handler.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		AppName: "Supply Ledger v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Catalog + monitor. Reads are open to any authenticated user.
	protected.Get("/supplies", monitorHandler.GetSupplies)
	protected.Get("/supplies/low-stock/count", monitorHandler.GetLowStockCount)
	protected.Get("/supplies/:id", catalogHandler.GetSupply)
	protected.Get("/supplies/:id/audit", middleware.RequirePrivilege("transaction:view"), ledgerHandler.AuditSupply)
	protected.Post("/supplies", middleware.RequirePrivilege("supply:create"), catalogHandler.CreateSupply)
	protected.Put("/supplies/:id", middleware.RequirePrivilege("supply:update"), catalogHandler.UpdateSupply)
	protected.Delete("/supplies/:id", middleware.RequirePrivilege("supply:retire"), catalogHandler.RetireSupply)

	// Ledger.
	protected.Post("/transactions", middleware.RequirePrivilege("transaction:create"), ledgerHandler.CreateTransaction)
	protected.Get("/transactions", middleware.RequirePrivilege("transaction:view"), historyHandler.GetTransactions)
	protected.Get("/transactions/:id", middleware.RequirePrivilege("transaction:view"), historyHandler.GetTransaction)

	// Categories.
	protected.Get("/categories", catalogHandler.GetCategories)
	protected.Post("/categories", middleware.RequirePrivilege("supply:create"), catalogHandler.CreateCategory)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}
	log.Info("server exited")
}

func lowStockCacheTTL() time.Duration {
	seconds, err := strconv.Atoi(os.Getenv("LOW_STOCK_CACHE_TTL"))
	if err != nil || seconds < 0 {
		seconds = 15
	}
	return time.Duration(seconds) * time.Second
}

// seedDefaults creates the transaction kind catalog, the default privileges,
// and a bootstrap admin actor on an empty database.
func seedDefaults(db *gorm.DB) {
	log := logging.WithModule("seed")

	if err := repository.SeedTransactionKinds(db); err != nil {
		log.WithError(err).Fatal("failed to seed transaction kinds")
	}

	privilegeRepo := repository.NewPrivilegeRepo(db)
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.WithError(err).Warn("failed to seed privileges")
	}

	userRepo := repository.NewUserRepo(db)
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}
	if _, err := userRepo.FindByEmail(adminEmail); err == nil {
		return
	}

	allPrivileges, err := privilegeRepo.FindAll()
	if err != nil {
		log.WithError(err).Warn("failed to load privileges for admin seed")
		return
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	admin := &model.User{
		Email:      adminEmail,
		FullName:   "Supply Administrator",
		IsActive:   true,
		Privileges: allPrivileges,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"
	if err := admin.SetPassword(adminPassword); err != nil {
		log.WithError(err).Warn("failed to hash admin password")
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.WithError(err).Warn("failed to create admin user")
		return
	}
	log.WithField("email", adminEmail).Info("admin user created")
}
