package entity

import (
	"time"

	"github.com/lib/pq"
)

// Product представляет товар каталога
type Product struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Name               string         `gorm:"size:200;not null" json:"name"`
	Brand              string         `gorm:"size:100;not null;default:''" json:"brand"`
	Categories         pq.StringArray `gorm:"type:text[];not null" json:"categories"`
	Tags               pq.StringArray `gorm:"type:text[]" json:"tags"`
	Description        string         `gorm:"type:text;not null;default:''" json:"description"`
	Price              float64        `gorm:"not null" json:"price"`
	Currency           string         `gorm:"size:3;not null" json:"currency"`
	DiscountPercentage float64        `gorm:"not null;default:0" json:"discountPercentage"`
	Stock              int            `gorm:"not null;default:0" json:"stock"`
	AverageRating      float64        `gorm:"not null;default:0" json:"averageRating"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// TableName определяет имя таблицы для GORM
func (Product) TableName() string {
	return "products"
}

// DiscountedPrice возвращает цену с учетом скидки
func (p *Product) DiscountedPrice() float64 {
	if p.DiscountPercentage <= 0 {
		return p.Price
	}
	return p.Price * (100 - p.DiscountPercentage) / 100
}
