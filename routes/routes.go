package routes

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"valentino-backend/config"
	"valentino-backend/controllers"
	"valentino-backend/services"
	"valentino-backend/utils"
)

func SetupRouter(db *gorm.DB, mailer services.Mailer, payments services.PaymentProvider) *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Admin-Password"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	appointments := controllers.NewAppointmentController(db, mailer)
	newsletter := controllers.NewNewsletterController(db, mailer)
	store := controllers.NewStoreController(db, payments)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
		})

		// Appointment routes
		appts := api.Group("/appointments")
		{
			appts.POST("", appointments.Create)

			appts.Use(utils.AdminAuthMiddleware())
			appts.GET("", appointments.List)
			appts.PUT("/:id", appointments.UpdateStatus)
			appts.DELETE("/:id", appointments.Delete)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(utils.AdminAuthMiddleware())
		{
			admin.POST("/login", controllers.Login)
		}

		// Newsletter routes
		nl := api.Group("/newsletter")
		{
			nl.POST("/subscribe", newsletter.Subscribe)
			nl.GET("/unsubscribe", newsletter.UnsubscribeLink)
			nl.POST("/unsubscribe", newsletter.Unsubscribe)

			authed := nl.Group("")
			authed.Use(utils.AdminAuthMiddleware())
			{
				authed.GET("/subscribers", newsletter.ListSubscribers)
				authed.GET("/drafts", newsletter.ListDrafts)
				authed.GET("/drafts/:id", newsletter.GetDraft)
				authed.POST("/drafts", newsletter.CreateDraft)
				authed.PUT("/drafts/:id", newsletter.UpdateDraft)
				authed.DELETE("/drafts/:id", newsletter.DeleteDraft)
				authed.POST("/send", newsletter.Send)
				authed.GET("/sends", newsletter.SendHistory)
			}
		}

		// Store routes
		st := api.Group("/store")
		{
			st.GET("/products", store.ListProducts)
			st.GET("/products/:id", store.GetProduct)
			st.POST("/checkout", store.Checkout)
			st.POST("/webhook", store.Webhook)

			storeAdmin := st.Group("/admin")
			storeAdmin.Use(utils.AdminAuthMiddleware())
			{
				storeAdmin.GET("/products", store.AdminListProducts)
				storeAdmin.GET("/products/:id", store.AdminGetProduct)
				storeAdmin.POST("/products", store.CreateProduct)
				storeAdmin.PUT("/products/:id", store.UpdateProduct)
				storeAdmin.DELETE("/products/:id", store.DeleteProduct)
				storeAdmin.GET("/orders", store.ListOrders)
			}
		}
	}

	return r
}
