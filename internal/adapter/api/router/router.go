package router

import (
	"golfmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupHealthRouter(e)
	SetupProductRouter(e, authMiddleware)
	SetupOfferRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
}
