package config

import (
	"time" // Durations for token and limiter windows

	"github.com/caarlos0/env/v10" // Env-tag struct parsing
	"github.com/joho/godotenv"    // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort    string `env:"APP_PORT" envDefault:"8000"`    // Application port
	DBUser     string `env:"DB_USER" envDefault:"root"`     // Database user
	DBPassword string `env:"DB_PASSWORD" envDefault:""`     // Database password
	DBHost     string `env:"DB_HOST" envDefault:"127.0.0.1"` // Database host
	DBPort     string `env:"DB_PORT" envDefault:"3306"`     // Database port
	DBName     string `env:"DB_NAME" envDefault:"contacts"` // Database name

	JWTSecret       string        `env:"JWT_SECRET,required"`                  // JWT signing secret
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`    // Access token lifetime
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`  // Refresh token lifetime
	EmailTokenTTL   time.Duration `env:"EMAIL_TOKEN_TTL" envDefault:"168h"`    // Email confirmation token lifetime

	RedisAddr string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"` // Redis server address
	RedisPass string `env:"REDIS_PASS" envDefault:""`               // Redis password
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`                // Redis database number

	CORSOrigin      string        `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"` // Allowed browser origin
	RateLimit       int64         `env:"RATE_LIMIT" envDefault:"2"`                      // Calls allowed per window per route
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"5s"`              // Rolling window size
	UserCacheTTL    time.Duration `env:"USER_CACHE_TTL" envDefault:"60s"`                // Authenticated-user cache lifetime

	IsProd bool `env:"IS_PROD" envDefault:"false"` // Is production environment
}

// LoadConfig loads configuration from the environment, reading .env first if present
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err // Missing required variables or bad values
	}
	return cfg, nil
}

// DSN builds the MySQL Data Source Name from the database settings
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}
