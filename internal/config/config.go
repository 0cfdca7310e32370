package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken      string
	WeatherAPIKey string
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	RedisAddr     string
	AppEnv        string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:      mustGetenv("BOT_TOKEN"),
		WeatherAPIKey: mustGetenv("OPENWEATHER_API_KEY"),
		DBHost:        mustGetenv("DB_HOST"),
		DBUser:        mustGetenv("DB_USER"),
		DBPassword:    mustGetenv("DB_PASSWORD"),
		DBName:        mustGetenv("DB_NAME"),
		DBPort:        mustGetenv("DB_PORT"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		AppEnv:        os.Getenv("APP_ENV"),
	}

	return cfg
}

func mustGetenv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return val
}
