package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
// The token lifetime is expressed in minutes, matching the environment form.
type JsonConfig struct {
	EndpointAddr             string `json:"endpoint_addr"`
	DatabaseDSN              string `json:"database_dsn"`
	SecretKey                string `json:"secret_key"`
	Algorithm                string `json:"algorithm"`
	AccessTokenExpireMinutes int    `json:"access_token_expire_minutes"`
	S3RootUser               string `json:"s3_root_user"`
	S3RootPassword           string `json:"s3_root_password"`
	S3Bucket                 string `json:"s3_bucket"`
	S3Region                 string `json:"s3_region"`
	S3BaseEndpoint           string `json:"s3_base_endpoint"`
}

// configFileFromArgs extracts the config file path given via -c or -config
// (either "-c path" or "-c=path"). Other arguments are ignored; full flag
// parsing happens later in parseFlags.
func configFileFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		name, value, hasValue := strings.Cut(arg, "=")
		if name != "-c" && name != "-config" && name != "--config" {
			continue
		}

		if hasValue {
			return value
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			return args[i+1]
		}
	}
	return ""
}

// parseJson loads configuration values from an optional JSON file into the
// provided Config. Empty JSON fields leave the current values untouched.
// If the file cannot be read or contains invalid JSON, the function panics:
// a broken config file is a startup error, not something to limp past.
func parseJson(config *Config) {
	jsonConfigFile := configFileFromArgs(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.Algorithm != "" {
		config.Algorithm = c.Algorithm
	}
	if c.AccessTokenExpireMinutes > 0 {
		config.AccessTokenValidityDuration = time.Duration(c.AccessTokenExpireMinutes) * time.Minute
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
