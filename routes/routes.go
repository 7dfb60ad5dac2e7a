package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tourism-backend/controllers"
	"tourism-backend/middleware"
)

// SetupRouter wires every route. corsOrigins comes from CORS_ORIGINS; a "*"
// entry disables credentialed requests.
func SetupRouter(
	corsOrigins []string,
	sessions middleware.SessionVerifier,
	auth *controllers.AuthController,
	places *controllers.PlaceController,
	bookings *controllers.BookingController,
	availability *controllers.AvailabilityController,
	admin *controllers.AdminController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	allowCredentials := true
	for _, origin := range corsOrigins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	requireSession := middleware.RequireSession(sessions)
	optionalSession := middleware.OptionalSession(sessions)
	requireAdmin := middleware.RequireAdmin()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/registro", auth.Register)
	r.POST("/login", auth.Login)
	r.POST("/logout", optionalSession, auth.Logout)
	r.GET("/perfil", requireSession, auth.Profile)

	api := r.Group("/api")
	{
		api.GET("/:category", places.List)
		api.GET("/:category/:id", places.Get)
		api.POST("/:category", requireSession, requireAdmin, places.Create)
		api.PUT("/:category/:id", requireSession, requireAdmin, places.Update)
		api.DELETE("/:category/:id", requireSession, requireAdmin, places.Delete)
	}

	reservations := r.Group("/reservations")
	{
		reservations.POST("", optionalSession, bookings.Create)
		reservations.GET("", bookings.Availability)
		reservations.GET("/stream", availability.Stream)
	}

	adminGroup := r.Group("/admin", requireSession, requireAdmin)
	{
		adminGroup.GET("/reservations", bookings.List)
		adminGroup.DELETE("/reservations/:id", bookings.Delete)

		adminGroup.GET("/accounts", admin.ListAccounts)
		adminGroup.PUT("/accounts/:id", admin.UpdateAccount)
		adminGroup.DELETE("/accounts/:id", admin.DeleteAccount)
	}

	return r
}
