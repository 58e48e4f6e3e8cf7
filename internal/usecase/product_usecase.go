package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"golfmarket/internal/domain/entity"
	"golfmarket/internal/domain/repository"
	"golfmarket/pkg/errors"
)

type ProductUseCase struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewProductUseCase(productRepo repository.ProductRepository, userRepo repository.UserRepository) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

type ProductInput struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Brand        string  `json:"brand"`
	Condition    string  `json:"condition"`
	Price        float64 `json:"price"`
	IsNegotiable bool    `json:"is_negotiable"`
	Status       string  `json:"status"`
}

type ProductImageInput struct {
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, sellerID string, input ProductInput, images []ProductImageInput) (*entity.Product, error) {
	if _, err := uc.userRepo.GetByID(ctx, sellerID); err != nil {
		return nil, errors.BadRequest("Invalid seller", err)
	}

	if input.Price <= 0 {
		return nil, errors.Validation("Price must be greater than zero", nil)
	}
	if input.Status != entity.ProductStatusDraft && input.Status != entity.ProductStatusActive {
		return nil, errors.Validation("New products must be draft or active", nil)
	}

	product := &entity.Product{
		SellerID:     sellerID,
		Title:        input.Title,
		Description:  input.Description,
		Brand:        input.Brand,
		Condition:    input.Condition,
		Price:        input.Price,
		IsNegotiable: input.IsNegotiable,
		Status:       input.Status,
		Images:       convertImages(images),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) UpdateProduct(ctx context.Context, id, sellerID string, input ProductInput, images []ProductImageInput) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.SellerID != sellerID {
		return nil, errors.Forbidden("You don't have permission to update this product", nil)
	}

	// A held or sold product is no longer the seller's to edit freely.
	if product.IsLockActive(time.Now()) || product.Status == entity.ProductStatusSold {
		return nil, errors.InvalidState("Product cannot be edited while locked or sold")
	}

	if input.Price <= 0 {
		return nil, errors.Validation("Price must be greater than zero", nil)
	}

	product.Title = input.Title
	product.Description = input.Description
	product.Brand = input.Brand
	product.Condition = input.Condition
	product.Price = input.Price
	product.IsNegotiable = input.IsNegotiable
	if input.Status != "" {
		product.Status = input.Status
	}
	if len(images) > 0 {
		product.Images = convertImages(images)
	}

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) GetProductByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = uc.productRepo.IncrementViews(ctx, id)
	}()

	return product, nil
}

func (uc *ProductUseCase) ListProducts(ctx context.Context, status, brand, sort string, page, limit int) ([]*entity.Product, int64, error) {
	filter := make(map[string]interface{})

	if status != "" {
		filter["status"] = status
	} else {
		filter["status"] = entity.ProductStatusActive
	}
	if brand != "" {
		filter["brand"] = brand
	}

	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	return uc.productRepo.List(ctx, filter, sort, limit, offset)
}

func (uc *ProductUseCase) ListBySellerID(ctx context.Context, sellerID, status string, limit, offset int) ([]*entity.Product, int64, error) {
	if _, err := uc.userRepo.GetByID(ctx, sellerID); err != nil {
		return nil, 0, errors.BadRequest("Invalid seller", err)
	}

	return uc.productRepo.ListBySellerID(ctx, sellerID, status, limit, offset)
}

func (uc *ProductUseCase) DeleteProduct(ctx context.Context, id, sellerID string) error {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if product.SellerID != sellerID {
		return errors.Forbidden("You don't have permission to delete this product", nil)
	}

	return uc.productRepo.SoftDelete(ctx, id)
}

func convertImages(images []ProductImageInput) []entity.ProductImage {
	productImages := make([]entity.ProductImage, len(images))
	for i, img := range images {
		productImages[i] = entity.ProductImage{
			ID:           uuid.NewString(),
			URL:          img.URL,
			DisplayOrder: img.DisplayOrder,
		}
	}
	return productImages
}
