package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/shop-api/internal/config"
	"github.com/yourusername/shop-api/internal/handler"
	"github.com/yourusername/shop-api/internal/middleware"
	pgRepo "github.com/yourusername/shop-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/shop-api/internal/repository/redis"
	"github.com/yourusername/shop-api/internal/service"
	"github.com/yourusername/shop-api/pkg/auth"
	"github.com/yourusername/shop-api/pkg/database"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Printf("shop-api: %v", err)
		os.Exit(1)
	}
	log.Println("Server exited properly")
}

func run() error {
	configPath := config.ConfigPath()
	log.Printf("Загрузка конфигурации из %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := database.GetSQLDB(db); err == nil {
			_ = sqlDB.Close()
		}
	}()
	// Уникальный индекс users.email создается миграцией 000001
	if err := database.MigrateDB(db, cfg.Database.MigrationsPath); err != nil {
		return err
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}()
	log.Printf("Подключение к Redis (%s) установлено", cfg.Redis.Mode)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		return err
	}
	otpRepo, err := redisRepo.NewOTPRepo(cacheRepo, cfg.OTP.KeyPrefix)
	if err != nil {
		return err
	}

	mailer, err := service.NewEmailService(cfg.Mail.Provider, cfg.Mail.APIKey, cfg.Mail.From)
	if err != nil {
		return err
	}

	// Наличие секрета проверяется при каждой подписи, а не при старте
	claimService := auth.NewClaimService(cfg.JWT.Secret, cfg.JWT.Expiry())

	identityService, err := service.NewIdentityService(
		pgRepo.NewUserRepo(db),
		otpRepo,
		service.NewTOTPGenerator(cfg.OTP.Digits, cfg.OTP.Step()),
		mailer,
		claimService,
		cfg.OTP.TTL(),
	)
	if err != nil {
		return err
	}

	routes := handler.Routes{
		User:    handler.NewUserHandler(identityService),
		Product: handler.NewProductHandler(service.NewProductService(pgRepo.NewProductRepo(db))),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": handler.PingFunc(database.PingPostgres(db)),
			"redis":    cacheRepo,
		}),
		Auth:    middleware.NewAuthMiddleware(claimService, identityService),
		Limiter: middleware.NewRateLimiter(redisClient),
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      newRouter(cfg.CORS, routes),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}
	return serve(srv)
}

// newRouter собирает gin с доверенными прокси, CORS и маршрутами
func newRouter(corsCfg config.CORSConfig, routes handler.Routes) *gin.Engine {
	router := gin.Default()

	// c.ClientIP() используется лимитером; в release заголовкам прокси не доверяем
	var trustedProxies []string
	if gin.Mode() != gin.ReleaseMode {
		trustedProxies = []string{"127.0.0.1", "::1"}
	}
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		log.Printf("Warning: failed to set trusted proxies: %v", err)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsCfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(router)
	return router
}

// serve запускает сервер и останавливает его по SIGINT/SIGTERM
func serve(srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Printf("Получен сигнал %s, останавливаем сервер...", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
