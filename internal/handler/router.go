package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/shop-api/internal/middleware"
)

// Routes собирает обработчики и middleware для регистрации маршрутов
type Routes struct {
	User    *UserHandler
	Product *ProductHandler
	Health  *HealthHandler
	Auth    *middleware.AuthMiddleware
	// Limiter необязателен; без него маршруты не ограничиваются
	Limiter *middleware.RateLimiter
}

// Register регистрирует маршруты /user, /product и /health
func (rt Routes) Register(r gin.IRouter) {
	rt.registerHealth(r)
	rt.registerUser(r)
	rt.registerProduct(r)
}

func (rt Routes) registerHealth(r gin.IRouter) {
	if rt.Health == nil {
		return
	}
	r.GET("/health", rt.Health.Health)
}

func (rt Routes) registerUser(r gin.IRouter) {
	if rt.User == nil {
		return
	}
	otpLimit := rt.limit(middleware.OTPRateLimitConfig())

	user := r.Group("/user", rt.limitByIP(middleware.DefaultRateLimitConfig())...)
	{
		user.POST("/send-signup-otp", append(otpLimit, rt.User.SendSignupOTP)...)
		user.POST("/signup", append(otpLimit, rt.User.Signup)...)
		user.POST("/signin", append(otpLimit, rt.User.Signin)...)
		user.POST("/reset-password-otp", append(otpLimit, rt.User.SendResetPasswordOTP)...)
		user.POST("/reset-password", append(otpLimit, rt.User.ResetPassword)...)
		user.GET("/me", rt.Auth.RequireClaim(), rt.User.Me)
	}
}

func (rt Routes) registerProduct(r gin.IRouter) {
	if rt.Product == nil {
		return
	}
	productID := middleware.ExtractUintParam("id", ContextKeyProductID, MessageInvalidProductID)
	reviewProductID := middleware.ExtractUintParam("productId", ContextKeyProductID, MessageInvalidProductID)
	product := r.Group("/product")
	{
		product.POST("/add", rt.Product.AddProduct)
		product.GET("/getAllProducts", rt.Product.GetAllProducts)
		product.GET("/:id", productID, rt.Product.GetProduct)
		product.PUT("/update/:id", rt.Auth.RequireClaim(), productID, rt.Product.UpdateProduct)
		product.PATCH("/partial-update/:id", rt.Auth.RequireClaim(), productID, rt.Product.PartialUpdateProduct)
		product.PUT("/add-review/:productId", reviewProductID, rt.Product.AddReview)
		product.DELETE("/remove/:id", rt.Auth.RequireClaim(), productID, rt.Product.RemoveProduct)
	}
}

func (rt Routes) limit(cfg middleware.RateLimitConfig) []gin.HandlerFunc {
	if rt.Limiter == nil {
		return nil
	}
	return []gin.HandlerFunc{rt.Limiter.Limit(cfg)}
}

func (rt Routes) limitByIP(cfg middleware.RateLimitConfig) []gin.HandlerFunc {
	if rt.Limiter == nil {
		return nil
	}
	return []gin.HandlerFunc{rt.Limiter.LimitByIP(cfg)}
}
