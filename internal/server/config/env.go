package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables (.env style):
//
//	SERVER_ADDR                  HTTP bind address
//	DATABASE_URL                 PostgreSQL DSN
//	SECRET_KEY                   token signing secret
//	ALGORITHM                    signing algorithm (HS256/HS384/HS512)
//	ACCESS_TOKEN_EXPIRE_MINUTES  token lifetime in minutes
//	S3_ROOT_USER / S3_ROOT_PASSWORD / S3_BUCKET / S3_REGION / S3_BASE_ENDPOINT
func parseEnv(config *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("ALGORITHM"); v != "" {
		config.Algorithm = v
	}
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
		}
	}
	if v := os.Getenv("S3_ROOT_USER"); v != "" {
		config.S3RootUser = v
	}
	if v := os.Getenv("S3_ROOT_PASSWORD"); v != "" {
		config.S3RootPassword = v
	}
	if v := os.Getenv("S3_BUCKET"); v != "" {
		config.S3Bucket = v
	}
	if v := os.Getenv("S3_REGION"); v != "" {
		config.S3Region = v
	}
	if v := os.Getenv("S3_BASE_ENDPOINT"); v != "" {
		config.S3BaseEndpoint = v
	}
}
