package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env          string
	HTTPAddress  string
	ClientOrigin string

	CookieDomain     string
	AllowedOrigins   []string
	AllowCredentials bool

	DatabaseURL   string
	RedisAddress  string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	Issuer    string
	Audience  string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	PasswordPepper string

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	// GeoIPDBPath is optional; login alerts fall back to "Unknown" without it.
	GeoIPDBPath string
}

var required = []string{
	"DATABASE_URL",
	"REDIS_ADDRESS",
	"JWT_SECRET",
	"JWT_ISSUER",
	"JWT_AUDIENCE",
	"CLIENT_ORIGIN",
	"SMTP_HOST",
	"SMTP_PORT",
	"SMTP_USER",
	"SMTP_PASS",
	"EMAIL_FROM",
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	keys := append([]string{
		"ENV", "HTTP_ADDRESS", "COOKIE_DOMAIN",
		"ALLOWED_ORIGINS", "ALLOW_CREDENTIALS",
		"REDIS_PASSWORD", "REDIS_DB",
		"ACCESS_TOKEN_EXP_MINS", "REFRESH_TOKEN_EXP_DAYS",
		"PASSWORD_PEPPER", "GEOIP_DB_PATH", "LOG_LEVEL",
	}, required...)
	for _, k := range keys {
		if err := viper.BindEnv(k); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("ENV", "development")
	viper.SetDefault("HTTP_ADDRESS", ":8081")
	viper.SetDefault("ACCESS_TOKEN_EXP_MINS", 15)
	viper.SetDefault("REFRESH_TOKEN_EXP_DAYS", 30)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	for _, k := range required {
		if viper.GetString(k) == "" {
			return nil, fmt.Errorf("missing required config key %s", k)
		}
	}

	return &Config{
		Env:              viper.GetString("ENV"),
		HTTPAddress:      viper.GetString("HTTP_ADDRESS"),
		ClientOrigin:     viper.GetString("CLIENT_ORIGIN"),
		CookieDomain:     viper.GetString("COOKIE_DOMAIN"),
		AllowedOrigins:   viper.GetStringSlice("ALLOWED_ORIGINS"),
		AllowCredentials: viper.GetBool("ALLOW_CREDENTIALS"),
		DatabaseURL:      viper.GetString("DATABASE_URL"),
		RedisAddress:     viper.GetString("REDIS_ADDRESS"),
		RedisPassword:    viper.GetString("REDIS_PASSWORD"),
		RedisDB:          viper.GetInt("REDIS_DB"),
		JWTSecret:        viper.GetString("JWT_SECRET"),
		Issuer:           viper.GetString("JWT_ISSUER"),
		Audience:         viper.GetString("JWT_AUDIENCE"),
		AccessTokenTTL:   time.Duration(viper.GetInt("ACCESS_TOKEN_EXP_MINS")) * time.Minute,
		RefreshTokenTTL:  time.Duration(viper.GetInt("REFRESH_TOKEN_EXP_DAYS")) * 24 * time.Hour,
		PasswordPepper:   viper.GetString("PASSWORD_PEPPER"),
		SMTPHost:         viper.GetString("SMTP_HOST"),
		SMTPPort:         viper.GetInt("SMTP_PORT"),
		SMTPUser:         viper.GetString("SMTP_USER"),
		SMTPPass:         viper.GetString("SMTP_PASS"),
		EmailFrom:        viper.GetString("EMAIL_FROM"),
		GeoIPDBPath:      viper.GetString("GEOIP_DB_PATH"),
	}, nil
}

// IsProduction gates stack traces in error responses.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// IsDevelopment gates the Secure flag on the refresh cookie, which would
// otherwise break plain-HTTP local setups.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
