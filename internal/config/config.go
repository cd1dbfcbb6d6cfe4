package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	App        AppConfig
	Storage    StorageConfig
	Attendance AttendanceConfig
	AI         AIConfig
	Telemetry  TelemetryConfig
	Bootstrap  BootstrapConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig is optional; an empty Addr selects the in-process roster lock.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	StoreDriver    string // postgres | memory
	AllowedOrigins []string
}

type StorageConfig struct {
	Driver    string // local | s3
	LocalPath string
	BaseURL   string
	S3Bucket  string
	S3Region  string
	// S3Endpoint overrides the AWS endpoint for S3-compatible stores.
	S3Endpoint string
}

type AttendanceConfig struct {
	MissingSitePolicy string
	SiteLatitude      *float64
	SiteLongitude     *float64
	RadiusMeters      float64
	GracePeriod       time.Duration
	Timezone          string
	AbsenceSweepEvery time.Duration
}

// Location resolves Timezone, falling back to UTC.
func (c AttendanceConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type AIConfig struct {
	GeminiAPIKey string
	Model        string
	MaxEvents    int
}

type TelemetryConfig struct {
	Enabled        bool
	ExporterURL    string
	ServiceName    string
	ServiceVersion string
	SamplingRatio  float64
}

// BootstrapConfig seeds the first administrator on an empty roster.
type BootstrapConfig struct {
	AdminName     string
	AdminPhone    string
	AdminPassword string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "fieldforce"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StoreDriver:    getEnv("STORE_DRIVER", "postgres"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// File storage
	config.Storage = StorageConfig{
		Driver:     getEnv("STORAGE_DRIVER", "local"),
		LocalPath:  getEnv("STORAGE_LOCAL_PATH", "./uploads"),
		BaseURL:    getEnv("STORAGE_BASE_URL", "http://localhost:8080/api/v1/files"),
		S3Bucket:   getEnv("S3_BUCKET", ""),
		S3Region:   getEnv("S3_REGION", "ap-southeast-1"),
		S3Endpoint: getEnv("S3_ENDPOINT", ""),
	}

	// Attendance rules
	radius, err := strconv.ParseFloat(getEnv("ATTENDANCE_RADIUS_METERS", "100"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_RADIUS_METERS: %w", err)
	}
	grace, err := time.ParseDuration(getEnv("ATTENDANCE_GRACE_PERIOD", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_GRACE_PERIOD: %w", err)
	}
	sweep, err := time.ParseDuration(getEnv("ATTENDANCE_ABSENCE_SWEEP", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_ABSENCE_SWEEP: %w", err)
	}
	siteLat, err := getEnvFloatPtr("ATTENDANCE_SITE_LAT")
	if err != nil {
		return nil, err
	}
	siteLng, err := getEnvFloatPtr("ATTENDANCE_SITE_LNG")
	if err != nil {
		return nil, err
	}

	config.Attendance = AttendanceConfig{
		MissingSitePolicy: getEnv("ATTENDANCE_MISSING_SITE_POLICY", "unrestricted"),
		SiteLatitude:      siteLat,
		SiteLongitude:     siteLng,
		RadiusMeters:      radius,
		GracePeriod:       grace,
		Timezone:          getEnv("ATTENDANCE_TIMEZONE", "Asia/Jakarta"),
		AbsenceSweepEvery: sweep,
	}

	// AI summary
	maxEvents, err := strconv.Atoi(getEnv("AI_MAX_EVENTS", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_MAX_EVENTS: %w", err)
	}

	config.AI = AIConfig{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		Model:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		MaxEvents:    maxEvents,
	}

	// Tracing
	samplingRatio, err := strconv.ParseFloat(getEnv("OTEL_SAMPLING_RATIO", "1.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_SAMPLING_RATIO: %w", err)
	}

	config.Telemetry = TelemetryConfig{
		Enabled:        getEnv("OTEL_ENABLED", "false") == "true",
		ExporterURL:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "fieldforce-backend"),
		ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		SamplingRatio:  samplingRatio,
	}

	config.Bootstrap = BootstrapConfig{
		AdminName:     getEnv("BOOTSTRAP_ADMIN_NAME", "Administrator"),
		AdminPhone:    getEnv("BOOTSTRAP_ADMIN_PHONE", ""),
		AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.StoreDriver != "postgres" && c.App.StoreDriver != "memory" {
		return fmt.Errorf("STORE_DRIVER must be postgres or memory")
	}
	if c.App.StoreDriver == "postgres" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Storage.Driver != "local" && c.Storage.Driver != "s3" {
		return fmt.Errorf("STORAGE_DRIVER must be local or s3")
	}
	if c.Storage.Driver == "s3" && c.Storage.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
	}

	switch c.Attendance.MissingSitePolicy {
	case "unrestricted", "reject":
	case "company_site":
		if c.Attendance.SiteLatitude == nil || c.Attendance.SiteLongitude == nil {
			return fmt.Errorf("ATTENDANCE_SITE_LAT and ATTENDANCE_SITE_LNG are required for the company_site policy")
		}
	default:
		return fmt.Errorf("ATTENDANCE_MISSING_SITE_POLICY must be unrestricted, company_site or reject")
	}
	if c.Attendance.RadiusMeters <= 0 {
		return fmt.Errorf("ATTENDANCE_RADIUS_METERS must be positive")
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}
	if c.AI.MaxEvents <= 0 {
		return fmt.Errorf("AI_MAX_EVENTS must be positive")
	}
	if (c.Bootstrap.AdminPhone == "") != (c.Bootstrap.AdminPassword == "") {
		return fmt.Errorf("BOOTSTRAP_ADMIN_PHONE and BOOTSTRAP_ADMIN_PASSWORD must be set together")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

func getEnvFloatPtr(key string) (*float64, error) {
	value := getEnv(key, "")
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}
