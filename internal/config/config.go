package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultConfigPath — путь к файлу конфигурации, если CONFIG_PATH не задан
const DefaultConfigPath = "config/config.yaml"

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	OTP      OTPConfig
	Mail     MailConfig
	CORS     CORSConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int // секунды
	WriteTimeout int // секунды
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string `mapstructure:"migrations_path"`
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Для 'single' используется первый адрес.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Адрес для режима 'single', если Addrs пустой.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	// MaxRetries: Количество повторов команды клиентом. 0 — без повторов.
	MaxRetries int `mapstructure:"max_retries"`
}

// JWTConfig содержит настройки подписанных claim
type JWTConfig struct {
	// Secret не проверяется при загрузке: его отсутствие возвращается каждым вызовом подписи как INTERNAL
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`
}

// OTPConfig содержит настройки одноразовых кодов
type OTPConfig struct {
	TTLMinutes  int    `mapstructure:"ttlMinutes"`
	Digits      int    `mapstructure:"digits"`
	StepSeconds int    `mapstructure:"stepSeconds"`
	KeyPrefix   string `mapstructure:"keyPrefix"`
}

// MailConfig содержит настройки отправки писем
type MailConfig struct {
	// Provider: "resend" или "noop" (письма только логируются)
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"apiKey"`
	From     string `mapstructure:"from"`
}

// CORSConfig содержит список разрешенных источников
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// TTL возвращает окно действия одноразового кода
func (o OTPConfig) TTL() time.Duration {
	return time.Duration(o.TTLMinutes) * time.Minute
}

// Step возвращает временное окно генератора кодов
func (o OTPConfig) Step() time.Duration {
	return time.Duration(o.StepSeconds) * time.Second
}

// Expiry возвращает время жизни claim
func (j JWTConfig) Expiry() time.Duration {
	return time.Duration(j.ExpirationHrs) * time.Hour
}

// ConfigPath возвращает путь к файлу конфигурации из CONFIG_PATH или путь по умолчанию
func ConfigPath() string {
	if p := strings.TrimSpace(os.Getenv("CONFIG_PATH")); p != "" {
		return p
	}
	return DefaultConfigPath
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// 1. Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readTimeout", 10)
	vip.SetDefault("server.writeTimeout", 10)
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("database.migrations_path", "migrations")
	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("jwt.expirationHrs", 24)
	vip.SetDefault("otp.ttlMinutes", 60)
	vip.SetDefault("otp.digits", 6)
	vip.SetDefault("otp.stepSeconds", 3600)
	vip.SetDefault("otp.keyPrefix", "otp")
	vip.SetDefault("mail.provider", "noop")
	vip.SetDefault("cors.allowOrigins", []string{"http://localhost:3000"})

	// 2. Привязываем переменные окружения ЯВНО
	// Привязка для секции Database
	_ = vip.BindEnv("database.host", "DATABASE_HOST")
	_ = vip.BindEnv("database.port", "DATABASE_PORT")
	_ = vip.BindEnv("database.user", "DATABASE_USER")
	_ = vip.BindEnv("database.password", "DATABASE_PASSWORD")
	_ = vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	_ = vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")
	_ = vip.BindEnv("database.migrations_path", "DATABASE_MIGRATIONS_PATH")

	// Привязка для секции Redis
	_ = vip.BindEnv("redis.mode", "REDIS_MODE")
	_ = vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	_ = vip.BindEnv("redis.addr", "REDIS_ADDR")
	_ = vip.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = vip.BindEnv("redis.db", "REDIS_DB")
	_ = vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	// Привязка для секции JWT
	_ = vip.BindEnv("jwt.secret", "JWT_SECRET")
	_ = vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")

	// Привязка для секции OTP
	_ = vip.BindEnv("otp.ttlMinutes", "OTP_TTL_MINUTES")
	_ = vip.BindEnv("otp.keyPrefix", "OTP_KEY_PREFIX")

	// Привязка для секции Mail
	_ = vip.BindEnv("mail.provider", "MAIL_PROVIDER")
	_ = vip.BindEnv("mail.apiKey", "RESEND_API_KEY")
	_ = vip.BindEnv("mail.from", "MAIL_FROM")

	// Привязка для Server и CORS
	_ = vip.BindEnv("server.port", "SERVER_PORT")
	_ = vip.BindEnv("cors.allowOrigins", "CORS_ALLOW_ORIGINS")

	// 3. Читаем файл конфигурации (не страшно, если его нет, т.к. есть BindEnv)
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	// 4. Анмаршалим конфигурацию (Viper объединит значения из файла и привязанных env vars)
	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Списки из env приходят одной строкой через запятую
	cfg.Redis.Addrs = splitList(cfg.Redis.Addrs)
	cfg.CORS.AllowOrigins = splitList(cfg.CORS.AllowOrigins)

	// 5. Логирование конфигурации (только в debug режиме, без секретов)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Mode: %s, Addrs: %v", cfg.Redis.Mode, cfg.Redis.Addrs)
		log.Printf("JWT Secret Set: %t, Expiration Hours: %d", cfg.JWT.Secret != "", cfg.JWT.ExpirationHrs)
		log.Printf("OTP TTL Minutes: %d", cfg.OTP.TTLMinutes)
		log.Printf("Mail Provider: %s", cfg.Mail.Provider)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	// 6. Проверка обязательных параметров
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.OTP.TTLMinutes <= 0 {
		return nil, fmt.Errorf("otp.ttlMinutes must be positive, got %d", cfg.OTP.TTLMinutes)
	}
	switch cfg.Mail.Provider {
	case "noop":
	case "resend":
		if cfg.Mail.APIKey == "" || cfg.Mail.From == "" {
			return nil, fmt.Errorf("resend mail provider requires apiKey and from (check RESEND_API_KEY, MAIL_FROM env vars)")
		}
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", cfg.Mail.Provider)
	}
	if cfg.JWT.Secret == "" {
		log.Println("Warning: JWT_SECRET is not set; every request that needs a signed claim will fail with an internal error.")
	}

	return &cfg, nil
}

func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
