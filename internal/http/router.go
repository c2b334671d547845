package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "transitbook/internal/config"
	h "transitbook/internal/http/handlers"
	"transitbook/internal/http/middleware"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Wizard session lifecycle
		wizard := api.Group("/wizard")
		wizard.POST("/sessions", h.CreateSession)

		// Everything below acts on the session named by the bearer token.
		session := wizard.Group("/session", middleware.SessionRequired(env.SessionSecret))
		session.GET("", h.GetSession)
		session.POST("/reset", h.ResetSession)

		session.POST("/search", h.SearchTrips)
		session.POST("/bus", h.SelectBus)

		session.GET("/seats", h.GetSeatGrid)
		session.POST("/seats/toggle", h.ToggleSeat)
		session.POST("/seats/confirm", h.ConfirmSeats)

		session.POST("/passengers", h.SubmitPassengers)

		session.POST("/payment", h.InitializePayment)
		session.GET("/payment/result", h.PaymentResult)

		session.GET("/confirmation", h.Confirmation)
		session.GET("/ticket.pdf", h.DownloadETicket)

		session.POST("/next", h.NextStep)
		session.POST("/back", h.BackStep)
		session.POST("/step/:index", h.ClickStep)

		// Widget-facing callbacks, addressed by provider reference.
		payments := api.Group("/payments")
		payments.POST("/:reference/callback", h.PaymentCallback)
		payments.POST("/:reference/cancel", h.PaymentCancel)
	}

	return r
}
