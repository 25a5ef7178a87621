package app

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config 从环境变量读取
type Config struct {
	DBHost     string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"lostfound"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	WebOrigin string `env:"WEB_ORIGIN" envDefault:"http://localhost:5173"`
	BaseURL   string `env:"BASE_URL" envDefault:"http://localhost:3001"`
	UploadDir string `env:"UPLOAD_DIR" envDefault:"public/uploads"`
	Port      string `env:"PORT" envDefault:"3001"`

	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	AdminEmails []string      `env:"ADMIN_EMAILS" envSeparator:","`
}

func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	admins := cfg.AdminEmails[:0]
	for _, e := range cfg.AdminEmails {
		if t := strings.ToLower(strings.TrimSpace(e)); t != "" {
			admins = append(admins, t)
		}
	}
	cfg.AdminEmails = admins
	return cfg, nil
}
