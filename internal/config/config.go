package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort            string `env:"HTTP_PORT" envDefault:"8000"`
	DatabaseURL         string `env:"DATABASE_URL,required"`
	JWTSecret           string `env:"JWT_SECRET,required"`
	JWTAccessTTLMinutes int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"30"`
	FrontendURL         string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	RedisAddr           string `env:"REDIS_ADDR"`
	RedisPassword       string `env:"REDIS_PASSWORD"`
	RedisDB             int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
