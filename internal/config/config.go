// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервиса.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"DATABASE_URL"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	SessionToken            `yaml:"session_token"`
	Payment                 `yaml:"payment"`
	Admin                   `yaml:"admin"`
	AMQPConnectionString    string `yaml:"amqp_connection_string" env:"AMQP_URL"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDR"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"5s"`
}

// SessionToken структура для настройки сессионных JWT.
type SessionToken struct {
	SecretKey string        `yaml:"secret_key" env:"SESSION_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Payment структура с настройками платёжного шлюза и ценой премиума.
type Payment struct {
	GatewayKeyID     string `yaml:"gateway_key_id" env:"RZP_KEY"`
	GatewayKeySecret string `yaml:"gateway_key_secret" env:"RZP_SECRET"`
	GatewayAPIURL    string `yaml:"gateway_api_url" env-default:"https://api.razorpay.com/v1"`
	// Цена премиума в минорных единицах валюты (пайсы: 10000 = 100 INR).
	Price    int64  `yaml:"price" env:"PRICE" env-default:"10000"`
	Currency string `yaml:"currency" env-default:"INR"`
}

// Admin структура с учётными данными администратора.
type Admin struct {
	Username string `yaml:"username" env:"SUPERUSERNAME"`
}

// MustLoad загружает конфиг из файла, указанного в CONFIG_PATH.
// Отсутствие обязательных настроек — фатальная ошибка старта, не рантайма.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if err := cfg.validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
	return &cfg
}

func (c *Config) validate() error {
	if c.StorageConnectionString == "" {
		return fmt.Errorf("storage_connection_string is required")
	}
	if c.GatewayKeyID == "" || c.GatewayKeySecret == "" {
		return fmt.Errorf("payment gateway credentials are required")
	}
	if c.Price <= 0 {
		return fmt.Errorf("payment price must be positive, got %d", c.Price)
	}
	if c.Admin.Username == "" {
		return fmt.Errorf("admin username is required")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("session token secret key is required")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Payment:\n"+
			"  GatewayAPIURL: %s\n"+
			"  Price: %d\n"+
			"  Currency: %s\n"+
			"Admin:\n"+
			"  Username: %s\n",
		c.Env,
		c.StorageConnectionString,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.GatewayAPIURL,
		c.Price,
		c.Currency,
		c.Admin.Username,
	)
}
