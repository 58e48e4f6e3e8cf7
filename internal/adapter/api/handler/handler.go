package handler

import (
	"golfmarket/internal/usecase"
)

var (
	productHandler      *ProductHandler
	offerHandler        *OfferHandler
	notificationHandler *NotificationHandler
)

func Setup(
	productUseCase *usecase.ProductUseCase,
	negotiationUseCase *usecase.NegotiationUseCase,
	notificationUseCase *usecase.NotificationUseCase,
) {
	productHandler = NewProductHandler(productUseCase)
	offerHandler = NewOfferHandler(negotiationUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetOfferHandler() *OfferHandler {
	return offerHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}
