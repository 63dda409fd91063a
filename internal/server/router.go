// Package server wires services, controllers and middleware into the gin engine.
package server

import (
	"net/http"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/auth"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/cart"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/config"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/controllers"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/events"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/middleware"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Server holds the HTTP engine and the long lived components behind it
type Server struct {
	Engine *gin.Engine
	Hub    *events.Hub
	Carts  *cart.Store
	OAuth  *auth.OAuthService
}

// New builds the router. publisher receives every order and waiter call event in
// addition to the websocket hub; it may be nil.
func New(cfg *config.Config, db *gorm.DB, publisher events.Publisher) *Server {
	hub := events.NewHub()
	fanout := events.Multi{hub}
	if publisher != nil {
		fanout = append(fanout, publisher)
	}

	venueService := services.NewVenueService(db)
	itemService := services.NewItemService(db)
	categoryService := services.NewCategoryService(db)
	sliderService := services.NewSliderService(db)
	orderService := services.NewOrderService(db, itemService, fanout)
	waiterCallService := services.NewWaiterCallService(db, fanout)
	reviewService := services.NewReviewService(db)
	recommendationService := services.NewRecommendationService(db)
	uploadService := services.NewUploadService(cfg.UploadDir, cfg.PublicBaseURL, cfg.MaxUploadBytes)
	enrichService := services.NewEnrichService(cfg.AIEnrichURL, itemService)
	userService := services.NewUserService(db)
	clientService := services.NewClientService(db)

	carts := cart.NewStore()
	oauthService := auth.NewOAuthService(db, cfg.JWTSecret)

	authController := controllers.NewAuthController(userService, cfg.JWTSecret)
	clientController := controllers.NewClientController(clientService)
	venueController := controllers.NewVenueController(venueService, sliderService)
	itemController := controllers.NewItemController(itemService, categoryService)
	cartController := controllers.NewCartController(carts, venueService, itemService, orderService)
	orderController := controllers.NewOrderController(orderService, venueService)
	waiterCallController := controllers.NewWaiterCallController(waiterCallService, venueService)
	reviewController := controllers.NewReviewController(reviewService, recommendationService)
	uploadController := controllers.NewUploadController(uploadService, cfg.MaxUploadBytes)
	enrichController := controllers.NewEnrichController(enrichService, venueService)
	realtimeController := controllers.NewRealtimeController(hub)
	adminController := controllers.NewAdminController(venueService)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), middleware.CORS(cfg.CORSOrigins))
	router.MaxMultipartMemory = int64(cfg.MaxUploadBytes)

	router.GET("/health", healthCheckHandler)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.Static("/uploads", cfg.UploadDir)
	router.POST("/oauth/token", oauthService.HandleToken)

	requireAuth := middleware.OAuth2Auth([]byte(cfg.JWTSecret))
	venueAccess := middleware.VenueAccess(venueService)

	api := router.Group("/api")
	{
		authApi := api.Group("/auth")
		{
			authApi.POST("/register", authController.Register)
			authApi.POST("/login", authController.Login)
		}

		publicVenue := api.Group("/venue/:slug")
		{
			publicVenue.GET("", venueController.GetMenu)
			publicVenue.GET("/sliders", venueController.GetSliders)
			publicVenue.GET("/tables/:token", venueController.ResolveTable)
			publicVenue.POST("/orders", orderController.PlaceOrder)
			publicVenue.POST("/waiter-calls", waiterCallController.CallWaiter)
			publicVenue.GET("/waiter-calls/:id", waiterCallController.GetStatus)

			cartApi := publicVenue.Group("/cart")
			cartApi.Use(middleware.Sessions(cfg.SessionSecret), middleware.CartSession())
			{
				cartApi.GET("", cartController.GetCart)
				cartApi.POST("", cartController.AddToCart)
				cartApi.PATCH("", cartController.SetOpen)
				cartApi.POST("/checkout", cartController.Checkout)
				cartApi.PATCH("/:entryId", cartController.UpdateEntry)
				cartApi.DELETE("/:entryId", cartController.RemoveEntry)
			}
		}

		itemApi := api.Group("/item/:id")
		{
			itemApi.GET("/reviews", reviewController.ListReviews)
			itemApi.POST("/reviews", reviewController.CreateReview)
			itemApi.GET("/recommendations", reviewController.Recommendations)
		}

		protected := api.Group("")
		protected.Use(requireAuth)
		{
			protected.PATCH("/order/:id", orderController.UpdateStatus)
			protected.PATCH("/waiter-call/:id", waiterCallController.CompleteCall)
			protected.POST("/upload", uploadController.UploadImage)
			protected.POST("/ai/enrich", enrichController.Enrich)

			userApi := protected.Group("/user")
			{
				userApi.GET("/venues", venueController.ListMyVenues)
				userApi.POST("/venues", venueController.CreateVenue)

				userApi.GET("/clients", clientController.ListClients)
				userApi.POST("/clients", clientController.CreateClient)
				userApi.DELETE("/clients/:id", clientController.DeleteClient)

				owned := userApi.Group("/venue/:slug")
				owned.Use(venueAccess)
				{
					owned.GET("/items", itemController.ListItems)
					owned.POST("/items", itemController.CreateItem)
					owned.GET("/items/:id", itemController.GetItem)
					owned.PUT("/items/:id", itemController.UpdateItem)
					owned.DELETE("/items/:id", itemController.DeleteItem)

					owned.GET("/categories", itemController.ListCategories)
					owned.POST("/categories", itemController.CreateCategory)
					owned.PUT("/categories/:id", itemController.UpdateCategory)
					owned.DELETE("/categories/:id", itemController.DeleteCategory)

					owned.GET("/sliders", venueController.ListSliders)
					owned.POST("/sliders", venueController.CreateSlider)
					owned.DELETE("/sliders/:id", venueController.DeleteSlider)

					owned.GET("/tables", venueController.ListTables)
					owned.POST("/tables", venueController.CreateTable)

					owned.GET("/orders", orderController.ListVenueOrders)
					owned.GET("/waiter-calls", waiterCallController.ListPending)
				}
			}

			adminApi := protected.Group("/admin")
			adminApi.Use(middleware.RequireRole(models.RoleAdmin))
			{
				adminApi.GET("/orders", orderController.ListAllOrders)
				adminApi.GET("/venues", adminController.ListVenues)
				adminApi.PATCH("/venues/:slug/plan", adminController.SetPlan)
				adminApi.GET("/reviews", reviewController.ListPendingReviews)
				adminApi.PATCH("/reviews/:id/approve", reviewController.ApproveReview)
			}
		}
	}

	router.GET("/ws/venue/:slug", requireAuth, venueAccess, realtimeController.Subscribe)

	return &Server{Engine: router, Hub: hub, Carts: carts, OAuth: oauthService}
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-qrmenu-api",
	})
}
