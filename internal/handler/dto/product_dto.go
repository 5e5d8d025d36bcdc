package dto

import (
	"time"

	"github.com/yourusername/shop-api/internal/domain/entity"
)

// ProductDTO представляет товар в ответах API
type ProductDTO struct {
	ID                 uint      `json:"id"`
	Name               string    `json:"name"`
	Brand              string    `json:"brand"`
	Categories         []string  `json:"categories"`
	Tags               []string  `json:"tags"`
	Description        string    `json:"description"`
	Price              float64   `json:"price"`
	DiscountedPrice    float64   `json:"discountedPrice"` // Цена с учетом скидки
	Currency           string    `json:"currency"`
	DiscountPercentage float64   `json:"discountPercentage"`
	Stock              int       `json:"stock"`
	AverageRating      float64   `json:"averageRating"`
	CreatedAt          time.Time `json:"createdAt"`
}

// NewProductDTO строит DTO из сущности
func NewProductDTO(p *entity.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:                 p.ID,
		Name:               p.Name,
		Brand:              p.Brand,
		Categories:         []string(p.Categories),
		Tags:               []string(p.Tags),
		Description:        p.Description,
		Price:              p.Price,
		DiscountedPrice:    p.DiscountedPrice(),
		Currency:           p.Currency,
		DiscountPercentage: p.DiscountPercentage,
		Stock:              p.Stock,
		AverageRating:      p.AverageRating,
		CreatedAt:          p.CreatedAt,
	}
}

// PaginatedProductsResponse представляет пагинированный список товаров
type PaginatedProductsResponse struct {
	Products []*ProductDTO `json:"products"` // Товары на странице
	Total    int64         `json:"total"`    // Общее количество товаров
	Page     int           `json:"page"`     // Текущая страница
	PerPage  int           `json:"per_page"` // Количество товаров на странице
}

// ProductReviewDTO представляет отзыв в ответах API
type ProductReviewDTO struct {
	ID        uint      `json:"id"`
	ProductID uint      `json:"productId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewAddedResponse — добавленный отзыв и новая средняя оценка товара
type ReviewAddedResponse struct {
	Review        *ProductReviewDTO `json:"review"`
	AverageRating float64           `json:"averageRating"`
}

// NewProductReviewDTO строит DTO отзыва из сущности
func NewProductReviewDTO(r *entity.ProductReview) *ProductReviewDTO {
	if r == nil {
		return nil
	}
	return &ProductReviewDTO{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}
