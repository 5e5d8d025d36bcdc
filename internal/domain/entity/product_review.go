package entity

import "time"

// Допустимый диапазон оценки в отзыве
const (
	MinReviewRating = 0
	MaxReviewRating = 5
)

// ProductReview представляет отзыв покупателя о товаре
type ProductReview struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"productId"`
	UserID    string    `gorm:"size:100;not null" json:"userId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null;default:''" json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName определяет имя таблицы для GORM
func (ProductReview) TableName() string {
	return "product_reviews"
}
