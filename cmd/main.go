package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-service/internal/apperror"
	"catalog-service/internal/handler"
	"catalog-service/internal/middleware"
	"catalog-service/internal/model"
	"catalog-service/internal/service"
	"catalog-service/pkg/config"
	"catalog-service/pkg/database"
	"catalog-service/pkg/jwtutil"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting catalog-service", appConfig.LogConfig()...)

	jwtutil.Initialize(&appConfig.JWT)

	db, err := database.Init(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	hotelService := service.NewHotelService(db)
	authService := service.NewAuthService(db)
	categoryService := service.NewCategoryService(db)
	productService := service.NewProductService(db)
	imageService := service.NewImageService(db, &appConfig.Upload)

	healthHandler := handler.NewHealthHandler()
	authHandler := handler.NewAuthHandler(authService)
	hotelHandler := handler.NewHotelHandler(hotelService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	uploadHandler := handler.NewUploadHandler(imageService)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperror.NewHTTPErrorHandler()

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	e.GET("/health", healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.Static("/uploads", appConfig.Upload.Dir)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Hotel reads are public; writes require an ADMIN token.
	hotels := api.Group("/hotels")
	hotels.GET("", hotelHandler.List)
	hotels.GET("/:id", hotelHandler.Get)

	adminOnly := []echo.MiddlewareFunc{
		middleware.Authenticate(db),
		middleware.RequireRoles(model.RoleAdmin),
	}
	hotels.POST("", hotelHandler.Create, adminOnly...)
	hotels.PATCH("/:id", hotelHandler.Update, adminOnly...)
	hotels.DELETE("/:id", hotelHandler.Delete, adminOnly...)

	admin := api.Group("/admin", middleware.Authenticate(db))

	adminHotels := admin.Group("/hotels", middleware.RequireRoles(model.RoleAdmin))
	adminHotels.GET("", hotelHandler.List)
	adminHotels.GET("/:id", hotelHandler.Get)
	adminHotels.POST("", hotelHandler.Create)
	adminHotels.PATCH("/:id", hotelHandler.Update)
	adminHotels.DELETE("/:id", hotelHandler.Delete)

	scoped := []echo.MiddlewareFunc{
		middleware.RequireRoles(model.RoleAdmin, model.RoleManager),
		middleware.ResolveHotelAccess(db),
	}

	adminCategories := admin.Group("/categories", scoped...)
	adminCategories.GET("", categoryHandler.List)
	adminCategories.POST("", categoryHandler.Create)
	adminCategories.GET("/:id", categoryHandler.Get)
	adminCategories.PATCH("/:id", categoryHandler.Update)
	adminCategories.DELETE("/:id", categoryHandler.Delete)
	adminCategories.POST("/:id/attributes", categoryHandler.CreateAttribute)
	adminCategories.PATCH("/:id/attributes/:attributeId", categoryHandler.UpdateAttribute)
	adminCategories.DELETE("/:id/attributes/:attributeId", categoryHandler.DeleteAttribute)
	adminCategories.POST("/:id/attributes/:attributeId/options", categoryHandler.CreateOption)
	adminCategories.PATCH("/:id/attributes/:attributeId/options/:optionId", categoryHandler.UpdateOption)
	adminCategories.DELETE("/:id/attributes/:attributeId/options/:optionId", categoryHandler.DeleteOption)

	adminProducts := admin.Group("/products", scoped...)
	adminProducts.GET("", productHandler.List)
	adminProducts.POST("", productHandler.Create)
	adminProducts.GET("/:id", productHandler.Get)
	adminProducts.PATCH("/:id", productHandler.Update)
	adminProducts.DELETE("/:id", productHandler.Delete)

	admin.POST("/uploads/images", uploadHandler.UploadImage, scoped...)

	// Public catalog reads resolve the hotel from the request itself.
	public := api.Group("/public", middleware.HotelContext(db))
	public.GET("/categories", categoryHandler.List)
	public.GET("/categories/:id", categoryHandler.Get)
	public.GET("/products", productHandler.List)
	public.GET("/products/:id", productHandler.Get)

	go func() {
		if err := e.Start(":" + appConfig.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown", zap.Error(err))
	}
}
