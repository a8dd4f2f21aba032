package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Environment    string
	Port           string
	DatabaseURL    string
	MigrateOnStart bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret    string
	JWTIssuer    string
	SessionTTL   time.Duration
	CookieSecure bool

	EditSessionTTL time.Duration
	GateTimeout    time.Duration

	LoginRateLimit  int
	LoginRateWindow time.Duration
	TrustedProxies  []netip.Prefix

	CORSOrigins []string
	LogLevel    string
	LogFormat   string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Environment:     fallback(os.Getenv("APP_ENV"), "development"),
		Port:            fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		MigrateOnStart:  parseBool(os.Getenv("MIGRATE_ON_START"), false),
		RedisAddr:       fallback(os.Getenv("REDIS_ADDR"), "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         positiveInt(os.Getenv("REDIS_DB"), 0),
		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:       fallback(os.Getenv("JWT_ISSUER"), "astra-console"),
		SessionTTL:      time.Duration(positiveInt(os.Getenv("SESSION_TTL_MINUTES"), 60)) * time.Minute,
		EditSessionTTL:  time.Duration(positiveInt(os.Getenv("EDIT_SESSION_TTL_MINUTES"), 30)) * time.Minute,
		GateTimeout:     time.Duration(positiveInt(os.Getenv("GATE_TIMEOUT_SECONDS"), 5)) * time.Second,
		LoginRateLimit:  nonNegativeInt(os.Getenv("LOGIN_RATE_LIMIT"), 10),
		LoginRateWindow: time.Duration(positiveInt(os.Getenv("LOGIN_RATE_WINDOW_SECONDS"), 300)) * time.Second,
		CORSOrigins:     parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		LogLevel:        fallback(os.Getenv("LOG_LEVEL"), "info"),
		LogFormat:       strings.TrimSpace(os.Getenv("LOG_FORMAT")),
	}
	cfg.CookieSecure = parseBool(os.Getenv("COOKIE_SECURE"), cfg.IsProduction())

	proxies, err := parsePrefixes(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return Config{}, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	cfg.TrustedProxies = proxies

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// IsProduction reports whether APP_ENV selects production behavior.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func positiveInt(value string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 || (n == 0 && def > 0) {
		return def
	}
	return n
}

// nonNegativeInt is positiveInt with an explicit 0 allowed.
func nonNegativeInt(value string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return def
	}
	return n
}

func parseBool(value string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return b
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// parsePrefixes reads a comma separated list of CIDRs or bare addresses.
func parsePrefixes(input string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "/") {
			prefix, err := netip.ParsePrefix(part)
			if err != nil {
				return nil, err
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(part)
		if err != nil {
			return nil, err
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
