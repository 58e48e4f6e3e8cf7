package router

import (
	"golfmarket/internal/adapter/api/handler"
	"golfmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupOfferRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	offerHandler := handler.GetOfferHandler()

	offers := e.Group("/v1/offers")
	offers.Use(authMiddleware.Authenticate)

	offers.POST("", offerHandler.CreateOffer)
	offers.GET("/received", offerHandler.ListReceivedOffers)
	offers.GET("/mine", offerHandler.ListMyOffers)
	offers.GET("/pending-count", offerHandler.PendingCount)
	offers.POST("/:id/accept", offerHandler.AcceptOffer)
	offers.POST("/:id/reject", offerHandler.RejectOffer)
	offers.POST("/:id/counter", offerHandler.CounterOffer)
	offers.DELETE("/:id", offerHandler.DeleteOffer)
}
