package config

import "github.com/spf13/viper"

type Config struct {
	HTTPAddr          string
	DatabaseURL       string
	RedisAddr         string
	JWTSecret         string
	LowStockThreshold int
}

// Load reads configuration from the environment. LOW_STOCK_THRESHOLD
// defaults to 10.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("low_stock_threshold", 10)

	return &Config{
		HTTPAddr:          v.GetString("http_addr"),
		DatabaseURL:       v.GetString("database_url"),
		RedisAddr:         v.GetString("redis_addr"),
		JWTSecret:         v.GetString("jwt_secret"),
		LowStockThreshold: v.GetInt("low_stock_threshold"),
	}
}
