package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/jobshop-api/config"
	"github.com/kendall-kelly/jobshop-api/middleware"
)

// setupRouter builds the engine with middleware and every API route
func setupRouter(a *app) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(a.log))
	router.Use(cors.New(corsConfig(a.cfg)))
	router.Use(middleware.NewRateLimiter(a.cfg.RateLimitRPS, a.cfg.RateLimitBurst).Limit())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
	}

	api := v1.Group("")
	var archiveGuards []gin.HandlerFunc
	if a.cfg.AuthEnabled() {
		auth, err := middleware.EnsureValidToken(a.cfg, a.log)
		if err != nil {
			return nil, err
		}
		api.Use(auth)
		archiveGuards = append(archiveGuards, middleware.RequireScope(middleware.ScopeExportReports))
	} else {
		a.log.Warn("AUTH0_DOMAIN not set, API routes are unauthenticated")
	}

	orders := api.Group("/orders")
	{
		orders.GET("", a.orders.ListOrders)
		orders.GET("/board", a.orders.Board)
		orders.POST("/refresh", a.orders.Refresh)
		orders.POST("", a.orders.CreateOrder)
		orders.GET("/:id", a.orders.GetOrder)
		orders.PATCH("/:id", a.orders.UpdateOrder)
		orders.DELETE("/:id", a.orders.DeleteOrder)
		orders.PUT("/:id/status", a.orders.UpdateStatus)
		orders.POST("/:id/move", a.orders.MoveOrder)
		orders.PUT("/:id/staff", a.orders.SetStaff)
		orders.PUT("/:id/machine", a.orders.SetMachine)
		orders.GET("/:id/payments", a.payments.ListPayments)
		orders.POST("/:id/payments", a.payments.AddPayment)
	}

	materials := api.Group("/materials")
	{
		materials.GET("", a.catalogs.ListMaterials)
		materials.POST("", a.catalogs.CreateMaterial)
		materials.GET("/:id", a.catalogs.GetMaterial)
		materials.PATCH("/:id", a.catalogs.UpdateMaterial)
		materials.DELETE("/:id", a.catalogs.DeleteMaterial)
	}

	svcs := api.Group("/services")
	{
		svcs.GET("", a.catalogs.ListServices)
		svcs.POST("", a.catalogs.CreateService)
		svcs.GET("/:id", a.catalogs.GetService)
		svcs.PATCH("/:id", a.catalogs.UpdateService)
		svcs.DELETE("/:id", a.catalogs.DeleteService)
	}

	machines := api.Group("/machines")
	{
		machines.GET("", a.catalogs.ListMachines)
		machines.POST("", a.catalogs.CreateMachine)
		machines.GET("/:id", a.catalogs.GetMachine)
		machines.PATCH("/:id", a.catalogs.UpdateMachine)
		machines.DELETE("/:id", a.catalogs.DeleteMachine)
		machines.PUT("/:id/status", a.catalogs.SetMachineStatus)
	}

	staff := api.Group("/staff")
	{
		staff.GET("", a.catalogs.ListStaff)
		staff.POST("", a.catalogs.CreateStaff)
		staff.GET("/:id", a.catalogs.GetStaff)
		staff.PATCH("/:id", a.catalogs.UpdateStaff)
		staff.DELETE("/:id", a.catalogs.DeleteStaff)
		staff.POST("/:id/toggle-availability", a.catalogs.ToggleStaffAvailability)
	}

	api.GET("/expenses", a.expenses.ListExpenses)
	api.POST("/expenses", a.expenses.CreateExpense)

	suppliers := api.Group("/suppliers")
	{
		suppliers.GET("", a.expenses.ListSuppliers)
		suppliers.POST("", a.expenses.CreateSupplier)
		suppliers.GET("/:id", a.expenses.GetSupplier)
		suppliers.PATCH("/:id", a.expenses.UpdateSupplier)
		suppliers.DELETE("/:id", a.expenses.DeleteSupplier)
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("/summary", a.analytics.Summary)
		analytics.GET("/export", a.analytics.Export)
		analytics.POST("/export/archive", append(archiveGuards, a.analytics.Archive)...)
	}

	return router, nil
}

func corsConfig(appCfg *config.Config) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
	}
	if appCfg.AllowAllOrigins() {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = appCfg.CORSAllowedOrigins
	}
	return cfg
}
