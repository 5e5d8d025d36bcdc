package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/shop-api/internal/handler/dto"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
	"github.com/yourusername/shop-api/internal/service"
)

// ContextKeyProductID — ключ контекста, под которым ExtractUintParam сохраняет ID товара
const ContextKeyProductID = "product_id"

// ProductHandler обрабатывает запросы каталога товаров
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler создает новый обработчик каталога
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// AddProductRequest представляет запрос на создание товара
type AddProductRequest struct {
	Name               string   `json:"name" binding:"required,max=200"`
	Brand              string   `json:"brand" binding:"omitempty,max=100"`
	Categories         []string `json:"categories" binding:"required,min=1,dive,required"`
	Tags               []string `json:"tags" binding:"omitempty,dive,required"`
	Description        string   `json:"description"`
	Price              float64  `json:"price" binding:"required,gt=0"`
	Currency           string   `json:"currency" binding:"required,len=3,alpha"`
	DiscountPercentage float64  `json:"discountPercentage" binding:"gte=0,lt=100"`
	Stock              int      `json:"stock" binding:"gte=0"`
}

// PatchProductRequest представляет запрос на частичное обновление товара.
// Отсутствующие в JSON поля не меняются.
type PatchProductRequest struct {
	Name               *string   `json:"name" binding:"omitempty,min=1,max=200"`
	Brand              *string   `json:"brand" binding:"omitempty,max=100"`
	Categories         *[]string `json:"categories" binding:"omitempty,min=1,dive,required"`
	Tags               *[]string `json:"tags" binding:"omitempty,dive,required"`
	Description        *string   `json:"description"`
	Price              *float64  `json:"price" binding:"omitempty,gt=0"`
	Currency           *string   `json:"currency" binding:"omitempty,len=3,alpha"`
	DiscountPercentage *float64  `json:"discountPercentage" binding:"omitempty,gte=0,lt=100"`
	Stock              *int      `json:"stock" binding:"omitempty,gte=0"`
}

// AddReviewRequest представляет отзыв о товаре
type AddReviewRequest struct {
	UserID  string `json:"userId" binding:"required,max=100"`
	Rating  *int   `json:"rating" binding:"required,gte=0,lte=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

func (req AddProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:               req.Name,
		Brand:              req.Brand,
		Categories:         req.Categories,
		Tags:               req.Tags,
		Description:        req.Description,
		Price:              req.Price,
		Currency:           req.Currency,
		DiscountPercentage: req.DiscountPercentage,
		Stock:              req.Stock,
	}
}

// AddProduct обрабатывает POST /product/add
func (h *ProductHandler) AddProduct(c *gin.Context) {
	var req AddProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.AddProduct(c.Request.Context(), req.input())
	if err != nil {
		log.Printf("[ProductHandler] AddProduct: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": MessageProductAddError})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": MessageProductAdded,
		"result":  product,
	})
}

// GetAllProducts обрабатывает GET /product/getAllProducts
func (h *ProductHandler) GetAllProducts(c *gin.Context) {
	// Получаем параметры пагинации из query
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}

	products, err := h.productService.ListProducts(c.Request.Context(), page, pageSize)
	if err != nil {
		log.Printf("[ProductHandler] GetAllProducts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": MessageProductsFetchError})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": MessageProductsFetched,
		"result":  products,
	})
}

// GetProduct обрабатывает GET /product/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.GetUint(ContextKeyProductID)

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": MessageProductNotFound})
			return
		}
		log.Printf("[ProductHandler] GetProduct ID=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": MessageProductsFetchError})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": MessageProductFetched,
		"result":  product,
	})
}

// UpdateProduct обрабатывает PUT /product/update/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.GetUint(ContextKeyProductID)

	var req AddProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, req.input())
	h.respondUpdated(c, id, product, err)
}

// PartialUpdateProduct обрабатывает PATCH /product/partial-update/:id
func (h *ProductHandler) PartialUpdateProduct(c *gin.Context) {
	id := c.GetUint(ContextKeyProductID)

	var req PatchProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.PatchProduct(c.Request.Context(), id, service.ProductPatch{
		Name:               req.Name,
		Brand:              req.Brand,
		Categories:         req.Categories,
		Tags:               req.Tags,
		Description:        req.Description,
		Price:              req.Price,
		Currency:           req.Currency,
		DiscountPercentage: req.DiscountPercentage,
		Stock:              req.Stock,
	})
	h.respondUpdated(c, id, product, err)
}

func (h *ProductHandler) respondUpdated(c *gin.Context, id uint, product *dto.ProductDTO, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"message": MessageProductUpdated,
			"result":  product,
		})
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": MessageProductNotFound})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": MessageInvalidRequest})
	default:
		log.Printf("[ProductHandler] Update ID=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": MessageProductUpdateError})
	}
}

// AddReview обрабатывает PUT /product/add-review/:productId
func (h *ProductHandler) AddReview(c *gin.Context) {
	id := c.GetUint(ContextKeyProductID)

	var req AddReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.productService.AddReview(c.Request.Context(), id, service.ReviewInput{
		UserID:  req.UserID,
		Rating:  *req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": MessageProductNotFound})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": MessageInvalidRequest})
		default:
			log.Printf("[ProductHandler] AddReview ID=%d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": MessageReviewAddError})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": MessageReviewAdded,
		"result":  result,
	})
}

// RemoveProduct обрабатывает DELETE /product/remove/:id
func (h *ProductHandler) RemoveProduct(c *gin.Context) {
	id := c.GetUint(ContextKeyProductID)

	if err := h.productService.RemoveProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": MessageProductNotFound})
			return
		}
		log.Printf("[ProductHandler] RemoveProduct ID=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": MessageProductRemoveError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": MessageProductRemoved})
}
