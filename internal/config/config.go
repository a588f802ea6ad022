package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort             string   `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL          string   `env:"DATABASE_URL,required"`
	MigrateOnStart       bool     `env:"MIGRATE_ON_START" envDefault:"true"`
	JWTSecret            string   `env:"JWT_SECRET,required,notEmpty"`
	JWTAccessTTLMinutes  int      `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes int      `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`
	LogLevel             string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFile              string   `env:"LOG_FILE"`
	SMTPHost             string   `env:"SMTP_HOST"`
	SMTPPort             int      `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser             string   `env:"SMTP_USER"`
	SMTPPass             string   `env:"SMTP_PASS"`
	SMTPFrom             string   `env:"SMTP_FROM"`
	SMTPFromName         string   `env:"SMTP_FROM_NAME" envDefault:"TrilhaFuturo"`
	SMTPUseTLS           bool     `env:"SMTP_USE_TLS" envDefault:"false"`
	RedisAddr            string   `env:"REDIS_ADDR"`
	RedisPassword        string   `env:"REDIS_PASSWORD"`
	RedisDB              int      `env:"REDIS_DB" envDefault:"0"`
	AuthRatePerMinute    int      `env:"AUTH_RATE_PER_MINUTE" envDefault:"5"`
	ChatRatePerMinute    int      `env:"CHAT_RATE_PER_MINUTE" envDefault:"10"`
	GlobalRatePerHour    int      `env:"GLOBAL_RATE_PER_HOUR" envDefault:"50"`
	GlobalRatePerDay     int      `env:"GLOBAL_RATE_PER_DAY" envDefault:"200"`
	CORSAllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	TrustedProxies       []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
