package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/shop-api/internal/domain/entity"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

// ProductRepo реализует repository.ProductRepository
type ProductRepo struct {
	db *gorm.DB
}

// NewProductRepo создает новый репозиторий каталога
func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// Create добавляет товар
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// GetByID возвращает товар по ID
func (r *ProductRepo) GetByID(ctx context.Context, id uint) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Update обновляет колонки товара и перечитывает его в той же транзакции
func (r *ProductRepo) Update(ctx context.Context, id uint, fields map[string]interface{}) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Product{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		return tx.Take(&product, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// AddReview добавляет отзыв и обновляет products.average_rating.
// Строка товара блокируется до конца транзакции.
func (r *ProductRepo) AddReview(ctx context.Context, review *entity.ProductReview) (float64, error) {
	var average float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product entity.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Take(&product, review.ProductID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if err := tx.Create(review).Error; err != nil {
			return err
		}

		err = tx.Model(&entity.ProductReview{}).
			Where("product_id = ?", review.ProductID).
			Select("COALESCE(AVG(rating), 0)").
			Scan(&average).Error
		if err != nil {
			return err
		}
		return tx.Model(&entity.Product{}).Where("id = ?", review.ProductID).Update("average_rating", average).Error
	})
	if err != nil {
		return 0, err
	}
	return average, nil
}

// Delete удаляет товар по ID
func (r *ProductRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// List возвращает страницу товаров с общим количеством
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Product{}).Count(&total).Error; err != nil {
			return err
		}
		return tx.Order("id ASC").Limit(limit).Offset(offset).Find(&products).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
