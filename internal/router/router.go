package router

import (
	"github.com/gin-gonic/gin"
	"github.com/scentra/scentra-backend/config"
	"github.com/scentra/scentra-backend/internal/app/controller"
	"github.com/scentra/scentra-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	productController    *controller.ProductController
	preferenceController *controller.PreferenceController
	cartController       *controller.CartController
	recommendController  *controller.RecommendController
	orderController      *controller.OrderController
	paymentController    *controller.PaymentController
	uploadController     *controller.UploadController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	preferenceController *controller.PreferenceController,
	cartController *controller.CartController,
	recommendController *controller.RecommendController,
	orderController *controller.OrderController,
	paymentController *controller.PaymentController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		productController:    productController,
		preferenceController: preferenceController,
		cartController:       cartController,
		recommendController:  recommendController,
		orderController:      orderController,
		paymentController:    paymentController,
		uploadController:     uploadController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SCENTRA API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		v1.GET("/users",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
			r.authController.ListUsers,
		)

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/attributes", r.productController.GetAttributes)
			products.GET("/:id", r.productController.GetProduct)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.UpdateProduct,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.DeleteProduct,
			)
			products.GET("/export",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.ExportCatalog,
			)
		}

		preferences := v1.Group("/preferences")
		preferences.Use(r.authMiddleware.Authenticate())
		{
			preferences.POST("", r.preferenceController.CreatePreferences)
			preferences.GET("", r.preferenceController.GetPreferences)
			preferences.PUT("", r.preferenceController.UpdatePreferences)
			preferences.DELETE("", r.preferenceController.DeletePreferences)

			admin := preferences.Group("/users")
			admin.Use(r.authMiddleware.RequireRole("admin"))
			{
				admin.GET("", r.preferenceController.ListAllPreferences)
				admin.GET("/:user_id", r.preferenceController.GetUserPreferences)
				admin.PUT("/:user_id", r.preferenceController.UpdateUserPreferences)
				admin.DELETE("/:user_id", r.preferenceController.DeleteUserPreferences)
			}
		}

		recommendations := v1.Group("/recommendations")
		recommendations.Use(r.authMiddleware.Authenticate())
		{
			recommendations.GET("", r.recommendController.GetRecommendations)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PUT("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
			cart.DELETE("", r.cartController.ClearCart)
		}

		v1.POST("/checkout", r.authMiddleware.Authenticate(), r.orderController.StartCheckout)

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.ListOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("/:id/payment", r.paymentController.CreatePayment)
		}

		payments := v1.Group("/payments")
		{
			// The provider calls this back unauthenticated; the handler
			// re-verifies the payment with the provider before acting.
			payments.POST("/webhook", r.paymentController.HandleWebhook)

			payments.POST("/:payment_id/check",
				r.authMiddleware.Authenticate(),
				r.paymentController.CheckPayment,
			)
			payments.GET("/ws",
				r.authMiddleware.Authenticate(),
				r.paymentController.ServeWS,
			)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		upload.Use(r.authMiddleware.RequireRole("admin"))
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
