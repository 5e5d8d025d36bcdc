package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"

	"github.com/yourusername/shop-api/internal/domain/entity"
	"github.com/yourusername/shop-api/internal/domain/repository"
	"github.com/yourusername/shop-api/internal/handler/dto"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

// Границы пагинации каталога
const (
	defaultProductPageSize = 10
	maxProductPageSize     = 100
	// maxProductPage держит (page-1)*pageSize в пределах int
	maxProductPage = 1_000_000
)

var (
	// ErrProductNotFound возвращается, когда товар не найден
	ErrProductNotFound = fmt.Errorf("%w: product does not exist", apperrors.ErrNotFound)
	// ErrEmptyProductPatch возвращается, когда частичное обновление не меняет ни одного поля
	ErrEmptyProductPatch = fmt.Errorf("%w: no product fields to update", apperrors.ErrValidation)
	// ErrInvalidReview возвращается при оценке вне диапазона
	ErrInvalidReview = fmt.Errorf("%w: rating must be between %d and %d", apperrors.ErrValidation, entity.MinReviewRating, entity.MaxReviewRating)
)

// ProductInput содержит данные для создания или полной замены товара
type ProductInput struct {
	Name               string
	Brand              string
	Categories         []string
	Tags               []string
	Description        string
	Price              float64
	Currency           string
	DiscountPercentage float64
	Stock              int
}

// ProductPatch содержит поля частичного обновления. nil означает "не менять".
type ProductPatch struct {
	Name               *string
	Brand              *string
	Categories         *[]string
	Tags               *[]string
	Description        *string
	Price              *float64
	Currency           *string
	DiscountPercentage *float64
	Stock              *int
}

// ReviewInput содержит данные отзыва
type ReviewInput struct {
	UserID  string
	Rating  int
	Comment string
}

// ProductService предоставляет методы для работы с каталогом товаров
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService создает новый сервис каталога
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// AddProduct создает товар
func (s *ProductService) AddProduct(ctx context.Context, input ProductInput) (*dto.ProductDTO, error) {
	product := newProduct(input)
	if err := s.productRepo.Create(ctx, product); err != nil {
		log.Printf("[ProductService] Ошибка при создании товара %q: %v", product.Name, err)
		return nil, internalError("create product", err)
	}

	log.Printf("[ProductService] Товар ID=%d (%s) добавлен", product.ID, product.Name)
	return dto.NewProductDTO(product), nil
}

// ListProducts возвращает пагинированный список товаров
func (s *ProductService) ListProducts(ctx context.Context, page, pageSize int) (*dto.PaginatedProductsResponse, error) {
	// Валидация параметров пагинации
	if page < 1 {
		page = 1
	} else if page > maxProductPage {
		page = maxProductPage
	}
	if pageSize < 1 {
		pageSize = defaultProductPageSize
	} else if pageSize > maxProductPageSize {
		pageSize = maxProductPageSize
	}

	offset := (page - 1) * pageSize

	products, total, err := s.productRepo.List(ctx, pageSize, offset)
	if err != nil {
		log.Printf("[ProductService] Ошибка при получении списка товаров: %v", err)
		return nil, internalError("list products", err)
	}

	productDTOs := make([]*dto.ProductDTO, len(products))
	for i := range products {
		productDTOs[i] = dto.NewProductDTO(&products[i])
	}

	return &dto.PaginatedProductsResponse{
		Products: productDTOs,
		Total:    total,
		Page:     page,
		PerPage:  pageSize,
	}, nil
}

// GetProduct возвращает товар по ID
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*dto.ProductDTO, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, internalError("get product", err)
	}
	return dto.NewProductDTO(product), nil
}

// UpdateProduct заменяет все редактируемые поля товара
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*dto.ProductDTO, error) {
	return s.update(ctx, id, productColumns(newProduct(input)))
}

// PatchProduct меняет только переданные поля товара
func (s *ProductService) PatchProduct(ctx context.Context, id uint, patch ProductPatch) (*dto.ProductDTO, error) {
	fields := patch.columns()
	if len(fields) == 0 {
		return nil, ErrEmptyProductPatch
	}
	return s.update(ctx, id, fields)
}

func (s *ProductService) update(ctx context.Context, id uint, fields map[string]interface{}) (*dto.ProductDTO, error) {
	product, err := s.productRepo.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		log.Printf("[ProductService] Ошибка при обновлении товара ID=%d: %v", id, err)
		return nil, internalError("update product", err)
	}

	log.Printf("[ProductService] Товар ID=%d обновлен (%d полей)", id, len(fields))
	return dto.NewProductDTO(product), nil
}

// AddReview добавляет отзыв к товару и возвращает новую среднюю оценку
func (s *ProductService) AddReview(ctx context.Context, productID uint, input ReviewInput) (*dto.ReviewAddedResponse, error) {
	if input.Rating < entity.MinReviewRating || input.Rating > entity.MaxReviewRating {
		return nil, ErrInvalidReview
	}

	review := &entity.ProductReview{
		ProductID: productID,
		UserID:    strings.TrimSpace(input.UserID),
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	average, err := s.productRepo.AddReview(ctx, review)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		log.Printf("[ProductService] Ошибка при добавлении отзыва к товару ID=%d: %v", productID, err)
		return nil, internalError("add review", err)
	}

	log.Printf("[ProductService] Отзыв ID=%d добавлен к товару ID=%d, средняя оценка %.2f", review.ID, productID, average)
	return &dto.ReviewAddedResponse{
		Review:        dto.NewProductReviewDTO(review),
		AverageRating: average,
	}, nil
}

// RemoveProduct удаляет товар по ID
func (s *ProductService) RemoveProduct(ctx context.Context, id uint) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrProductNotFound
		}
		return internalError("delete product", err)
	}
	log.Printf("[ProductService] Товар ID=%d удален", id)
	return nil
}

// newProduct нормализует входные данные товара
func newProduct(input ProductInput) *entity.Product {
	product := &entity.Product{
		Name:               strings.TrimSpace(input.Name),
		Brand:              strings.TrimSpace(input.Brand),
		Categories:         pq.StringArray(input.Categories),
		Tags:               pq.StringArray(input.Tags),
		Description:        input.Description,
		Price:              input.Price,
		Currency:           normalizeCurrency(input.Currency),
		DiscountPercentage: input.DiscountPercentage,
		Stock:              input.Stock,
	}
	if product.Categories == nil {
		product.Categories = pq.StringArray{}
	}
	return product
}

// productColumns перечисляет редактируемые колонки товара.
// average_rating сюда не входит: ее меняет только AddReview.
func productColumns(p *entity.Product) map[string]interface{} {
	return map[string]interface{}{
		"name":                p.Name,
		"brand":               p.Brand,
		"categories":          p.Categories,
		"tags":                p.Tags,
		"description":         p.Description,
		"price":               p.Price,
		"currency":            p.Currency,
		"discount_percentage": p.DiscountPercentage,
		"stock":               p.Stock,
	}
}

func (p ProductPatch) columns() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Name != nil {
		fields["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Brand != nil {
		fields["brand"] = strings.TrimSpace(*p.Brand)
	}
	if p.Categories != nil {
		fields["categories"] = pq.StringArray(*p.Categories)
	}
	if p.Tags != nil {
		fields["tags"] = pq.StringArray(*p.Tags)
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Price != nil {
		fields["price"] = *p.Price
	}
	if p.Currency != nil {
		fields["currency"] = normalizeCurrency(*p.Currency)
	}
	if p.DiscountPercentage != nil {
		fields["discount_percentage"] = *p.DiscountPercentage
	}
	if p.Stock != nil {
		fields["stock"] = *p.Stock
	}
	return fields
}

func normalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}
