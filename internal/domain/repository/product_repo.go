package repository

import (
	"context"

	"github.com/yourusername/shop-api/internal/domain/entity"
)

// ProductRepository определяет методы для работы с каталогом
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uint) (*entity.Product, error)
	// Update меняет перечисленные колонки и возвращает товар после изменения
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*entity.Product, error)
	Delete(ctx context.Context, id uint) error
	// AddReview сохраняет отзыв и возвращает пересчитанную среднюю оценку товара
	AddReview(ctx context.Context, review *entity.ProductReview) (float64, error)
	// List возвращает страницу товаров и общее количество
	List(ctx context.Context, limit, offset int) ([]entity.Product, int64, error)
}
