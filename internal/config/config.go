package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// BucketsConfig names the object storage buckets used by the catalog.
// Covers and BookFiles are publicly readable; Attachments and Photos are
// private and served through presigned URLs only.
type BucketsConfig struct {
	Covers      string
	BookFiles   string
	Attachments string
	Photos      string
}

// MinIOConfig holds object storage settings for MinIO / S3-compatible backends.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Buckets   BucketsConfig
}

// AuthConfig holds JWT signing and presigned-URL settings.
type AuthConfig struct {
	JWTSecret     string
	TokenTTLMin   int
	PresignTTLMin int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost string
	Port    string

	// InstitutionEmailDomain is the email domain that marks an author as
	// belonging to the institution (e.g. "ugto.mx").
	InstitutionEmailDomain string

	Database DatabaseConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:                getEnv("APP_HOST", "localhost:8080"),
		Port:                   getEnv("PORT", "8080"),
		InstitutionEmailDomain: getEnv("INSTITUTION_EMAIL_DOMAIN", "ugto.mx"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			Buckets: BucketsConfig{
				Covers:      getEnv("MINIO_BUCKET_COVERS", "portadas"),
				BookFiles:   getEnv("MINIO_BUCKET_BOOKS", "libros"),
				Attachments: getEnv("MINIO_BUCKET_ATTACHMENTS", "expedientes"),
				Photos:      getEnv("MINIO_BUCKET_PHOTOS", "fotos"),
			},
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTLMin:   getEnvInt("JWT_TTL_MIN", 480),
			PresignTTLMin: getEnvInt("PRESIGN_TTL_MIN", 15),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
