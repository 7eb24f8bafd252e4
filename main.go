package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/jobshop-api/config"
	"github.com/kendall-kelly/jobshop-api/controllers"
	"github.com/kendall-kelly/jobshop-api/services"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app holds the wired services and controllers for one process
type app struct {
	cfg *config.Config
	log logrus.FieldLogger

	book    *services.OrderBook
	catalog *services.Catalog
	ledger  *services.ExpenseLedger
	reports *services.Reports

	orders    *controllers.OrderController
	payments  *controllers.PaymentController
	catalogs  *controllers.CatalogController
	expenses  *controllers.ExpenseController
	analytics *controllers.AnalyticsController
}

// newApp wires services and controllers over db. archive may be nil.
func newApp(cfg *config.Config, db *gorm.DB, log logrus.FieldLogger, archive services.ReportArchive) *app {
	book := services.NewOrderBook(db, log)
	catalog := services.NewCatalog(db, log)
	catalog.OnChange(book.Refresh)
	ledger := services.NewExpenseLedger(db, log)
	reports := services.NewReports(book, archive, log)

	return &app{
		cfg:       cfg,
		log:       log,
		book:      book,
		catalog:   catalog,
		ledger:    ledger,
		reports:   reports,
		orders:    controllers.NewOrderController(book, log),
		payments:  controllers.NewPaymentController(book, log),
		catalogs:  controllers.NewCatalogController(catalog, log),
		expenses:  controllers.NewExpenseController(ledger, log),
		analytics: controllers.NewAnalyticsController(reports, log),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := config.NewLogger(cfg)
	log.WithFields(logrus.Fields{"env": cfg.GoEnv, "env_file": cfg.EnvFile}).Info("Starting Job Shop API server...")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	if err := config.ConnectDatabase(cfg, log); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := config.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Info("Database migration completed successfully")

	ctx := context.Background()

	var archive services.ReportArchive
	if cfg.ArchiveEnabled() {
		s3Archive, err := services.NewS3Archive(ctx, cfg)
		if err != nil {
			log.WithError(err).Warn("Report archiving disabled")
		} else {
			archive = s3Archive
			log.WithField("bucket", cfg.AWSS3Bucket).Info("Report archiving enabled")
		}
	}

	a := newApp(cfg, db, log, archive)
	if err := a.book.Refresh(ctx); err != nil {
		log.Fatalf("Failed to load orders: %v", err)
	}

	router, err := setupRouter(a)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Start server
	port := ":" + cfg.Port
	log.Infof("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Job Shop API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not connected",
			},
		})
		return
	}

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"dialect": db.Dialector.Name(),
		"tables":  tables,
	})
}
