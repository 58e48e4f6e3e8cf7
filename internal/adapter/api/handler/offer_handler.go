package handler

import (
	"golfmarket/internal/usecase"
	"golfmarket/pkg/response"

	"github.com/labstack/echo/v4"
)

type OfferHandler struct {
	negotiationUseCase *usecase.NegotiationUseCase
}

func NewOfferHandler(negotiationUseCase *usecase.NegotiationUseCase) *OfferHandler {
	return &OfferHandler{
		negotiationUseCase: negotiationUseCase,
	}
}

type createOfferRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Message   string  `json:"message"`
}

type counterOfferRequest struct {
	Amount  float64 `json:"amount" validate:"required,gt=0"`
	Message string  `json:"message"`
}

func (h *OfferHandler) CreateOffer(c echo.Context) error {
	var req createOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := c.Get("uid").(string)

	offer, err := h.negotiationUseCase.CreateOffer(c.Request().Context(), buyerID, usecase.CreateOfferInput{
		ProductID: req.ProductID,
		Amount:    req.Amount,
		Message:   req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, offer)
}

func (h *OfferHandler) ListReceivedOffers(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	views, err := h.negotiationUseCase.ListSellerOffers(c.Request().Context(), sellerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, views)
}

func (h *OfferHandler) ListMyOffers(c echo.Context) error {
	buyerID := c.Get("uid").(string)

	views, err := h.negotiationUseCase.ListBuyerOffers(c.Request().Context(), buyerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, views)
}

func (h *OfferHandler) PendingCount(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	count, err := h.negotiationUseCase.PendingOfferCount(c.Request().Context(), sellerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"pending": count})
}

func (h *OfferHandler) AcceptOffer(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	offer, err := h.negotiationUseCase.Accept(c.Request().Context(), sellerID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offer)
}

func (h *OfferHandler) RejectOffer(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	offer, err := h.negotiationUseCase.Reject(c.Request().Context(), sellerID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offer)
}

func (h *OfferHandler) CounterOffer(c echo.Context) error {
	var req counterOfferRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	offer, err := h.negotiationUseCase.Counter(c.Request().Context(), sellerID, c.Param("id"), req.Amount, req.Message)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, offer)
}

func (h *OfferHandler) DeleteOffer(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	if err := h.negotiationUseCase.DeleteOffer(c.Request().Context(), sellerID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"deleted": true})
}
