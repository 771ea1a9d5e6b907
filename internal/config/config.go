package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	DATABASE_URL  string
	REDIS_ADDR    string
	JWT_SECRET    string
	KAFKA_ADDRESS string
	ES_URL        string
	ES_USER       string
	ES_PASSWORD   string
	MAIL_HOST     string
	MAIL_PORT     string
	MAIL_USERNAME string
	MAIL_PASSWORD string
	MAIL_FROM     string
	DOMAIN        string
	LOG_LEVEL     string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DATABASE_URL:  os.Getenv("DATABASE_URL"),
		REDIS_ADDR:    os.Getenv("REDIS_ADDR"),
		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		ES_URL:        os.Getenv("ES_URL"),
		ES_USER:       os.Getenv("ES_USER"),
		ES_PASSWORD:   os.Getenv("ES_PASSWORD"),
		MAIL_HOST:     os.Getenv("MAIL_HOST"),
		MAIL_PORT:     os.Getenv("MAIL_PORT"),
		MAIL_USERNAME: os.Getenv("MAIL_USERNAME"),
		MAIL_PASSWORD: os.Getenv("MAIL_PASSWORD"),
		MAIL_FROM:     os.Getenv("MAIL_FROM"),
		DOMAIN:        os.Getenv("DOMAIN"),
		LOG_LEVEL:     os.Getenv("LOG_LEVEL"),
	}

	return config, nil
}
