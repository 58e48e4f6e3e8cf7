package handler

import (
	"golfmarket/internal/usecase"
	"golfmarket/pkg/response"
	"golfmarket/pkg/utils"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type productImageRequest struct {
	URL          string `json:"url" validate:"required,url"`
	DisplayOrder int    `json:"display_order"`
}

type productRequest struct {
	Title        string                `json:"title" validate:"required"`
	Description  string                `json:"description"`
	Brand        string                `json:"brand"`
	Condition    string                `json:"condition" validate:"required,oneof=new like_new used worn"`
	Price        float64               `json:"price" validate:"required,gt=0"`
	IsNegotiable bool                  `json:"is_negotiable"`
	Status       string                `json:"status" validate:"required,oneof=draft active"`
	Images       []productImageRequest `json:"images"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	product, err := h.productUseCase.CreateProduct(
		c.Request().Context(),
		sellerID,
		usecase.ProductInput{
			Title:        req.Title,
			Description:  req.Description,
			Brand:        req.Brand,
			Condition:    req.Condition,
			Price:        req.Price,
			IsNegotiable: req.IsNegotiable,
			Status:       req.Status,
		},
		convertImageRequests(req.Images),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	product, err := h.productUseCase.UpdateProduct(
		c.Request().Context(),
		c.Param("id"),
		sellerID,
		usecase.ProductInput{
			Title:        req.Title,
			Description:  req.Description,
			Brand:        req.Brand,
			Condition:    req.Condition,
			Price:        req.Price,
			IsNegotiable: req.IsNegotiable,
			Status:       req.Status,
		},
		convertImageRequests(req.Images),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productUseCase.GetProductByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	p := utils.ParsePagination(c.QueryParam("page"), c.QueryParam("limit"))

	products, total, err := h.productUseCase.ListProducts(
		c.Request().Context(),
		c.QueryParam("status"),
		c.QueryParam("brand"),
		c.QueryParam("sort"),
		p.Page,
		p.Limit,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, p.Page, p.Limit)
}

func (h *ProductHandler) ListMyProducts(c echo.Context) error {
	sellerID := c.Get("uid").(string)
	p := utils.ParsePagination(c.QueryParam("page"), c.QueryParam("limit"))

	products, total, err := h.productUseCase.ListBySellerID(
		c.Request().Context(),
		sellerID,
		c.QueryParam("status"),
		p.Limit,
		p.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, products, total, p.Page, p.Limit)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	if err := h.productUseCase.DeleteProduct(c.Request().Context(), c.Param("id"), sellerID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"deleted": true})
}

func convertImageRequests(images []productImageRequest) []usecase.ProductImageInput {
	converted := make([]usecase.ProductImageInput, len(images))
	for i, img := range images {
		converted[i] = usecase.ProductImageInput{
			URL:          img.URL,
			DisplayOrder: img.DisplayOrder,
		}
	}
	return converted
}
