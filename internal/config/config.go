package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	// Ambiente fiscal padrão para emissão: "producao" ou "homologacao".
	AmbienteEmissao string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	NuvemFiscal NuvemFiscalConfig
	RateLimit   RateLimitConfig
}

// NuvemFiscalConfig carries the fiscal provider credentials and endpoints.
type NuvemFiscalConfig struct {
	ClientID     string
	ClientSecret string
	AuthBaseURL  string
	APIBaseURL   string
	Scopes       string
}

// RateLimitConfig controls the per-CNPJ issuance throttle.
type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	EmissaoRate   float64
	EmissaoBurst  int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:         getenv("APP_SERVICE", "nfce"),
		AppVersion:      getenv("APP_VERSION", "0.1.0"),
		Environment:     getenv("ENVIRONMENT", "development"),
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		AmbienteEmissao: normalizeAmbiente(getenv("NFCE_AMBIENTE", "producao")),
		OTLPEndpoint:    getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "nfce"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		NuvemFiscal: NuvemFiscalConfig{
			ClientID:     strings.TrimSpace(getenv("NUVEM_FISCAL_CLIENT_ID", "")),
			ClientSecret: strings.TrimSpace(getenv("NUVEM_FISCAL_CLIENT_SECRET", "")),
			AuthBaseURL:  getenv("NUVEM_FISCAL_AUTH_URL", "https://auth.nuvemfiscal.com.br"),
			APIBaseURL:   getenv("NUVEM_FISCAL_API_URL", "https://api.nuvemfiscal.com.br"),
			Scopes:       getenv("NUVEM_FISCAL_SCOPES", "empresa cnpj nfe"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:     strings.TrimSpace(getenv("RATE_LIMIT_REDIS_ADDR", "")),
			RedisPassword: getenv("RATE_LIMIT_REDIS_PASSWORD", ""),
			RedisDB:       getenvInt("RATE_LIMIT_REDIS_DB", 0),
			EmissaoRate:   getenvFloat("RATE_LIMIT_EMISSAO_RATE", 2),
			EmissaoBurst:  getenvInt("RATE_LIMIT_EMISSAO_BURST", 5),
		},
	}

	return cfg
}

const (
	AmbienteProducao    = "producao"
	AmbienteHomologacao = "homologacao"
)

func normalizeAmbiente(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case AmbienteHomologacao:
		return AmbienteHomologacao
	default:
		return AmbienteProducao
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
