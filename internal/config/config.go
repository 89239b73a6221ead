package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string `mapstructure:"DB_DSN"`
	HTTPAddr      string `mapstructure:"HTTP_ADDR"`
	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"`
	FontDir       string `mapstructure:"FONT_DIR"`
	Environment   string `mapstructure:"ENV"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	// Читаем напрямую из переменных окружения (после godotenv.Load они там)
	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		HTTPAddr:      os.Getenv("HTTP_ADDR"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		FontDir:       os.Getenv("FONT_DIR"),
		Environment:   os.Getenv("ENV"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
