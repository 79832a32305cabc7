package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by applyEnv.
const (
	EnvDatabaseDSN = "JOURNAL_DATABASE_DSN"
	EnvSecretKey   = "JOURNAL_SECRET_KEY"
	EnvMigrate     = "JOURNAL_MIGRATE_REMOTE"
	EnvS3Endpoint  = "JOURNAL_S3_ENDPOINT"
	EnvS3Region    = "JOURNAL_S3_REGION"
	EnvS3AccessKey = "JOURNAL_S3_ACCESS_KEY"
	EnvS3SecretKey = "JOURNAL_S3_SECRET_KEY"
	EnvS3Bucket    = "JOURNAL_S3_BUCKET"
	EnvS3PublicURL = "JOURNAL_S3_PUBLIC_URL"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
)

// dotenvFiles are loaded before the environment is read. Variables already
// present in the process environment are never overwritten by them.
var dotenvFiles = []string{".env"}

func applyEnv(cfg *Config) {
	for _, f := range dotenvFiles {
		// A missing .env file is the common case.
		_ = godotenv.Load(f)
	}

	setEnv(&cfg.DatabaseDSN, EnvDatabaseDSN)
	setEnv(&cfg.SecretKey, EnvSecretKey)
	setEnv(&cfg.S3.Endpoint, EnvS3Endpoint)
	setEnv(&cfg.S3.Region, EnvS3Region)
	setEnv(&cfg.S3.AccessKey, EnvS3AccessKey)
	setEnv(&cfg.S3.SecretKey, EnvS3SecretKey)
	setEnv(&cfg.S3.Bucket, EnvS3Bucket)
	setEnv(&cfg.S3.PublicBaseURL, EnvS3PublicURL)
	setEnv(&cfg.LogLevel, EnvLogLevel)
	setEnv(&cfg.LogFormat, EnvLogFormat)

	if v, ok := lookup(EnvMigrate); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		cfg.MigrateRemote = b
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func setEnv(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}
