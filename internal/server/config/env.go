package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "STOREFRONT_"

const defaultEnvFile = ".env"

// parseEnv overlays STOREFRONT_* variables. Values come from the file named
// by -env-file (which must exist) or an optional ./.env, and the process
// environment wins over both. Malformed values panic, like the other
// sources.
func parseEnv(config *Config) {
	vars, err := readEnvFile(flagx.EnvFileFlags())
	if err != nil {
		panic(err)
	}

	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, envPrefix) {
			vars[k] = v
		}
	}

	if err := applyEnv(config, vars); err != nil {
		panic(err)
	}
}

func readEnvFile(path string) (map[string]string, error) {
	required := path != ""
	if !required {
		path = defaultEnvFile
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}

	return vars, nil
}

func applyEnv(config *Config, vars map[string]string) error {
	get := func(name string) (string, bool) {
		v, ok := vars[envPrefix+name]
		return v, ok && v != ""
	}

	strs := map[string]*string{
		"GRPC_ADDR":        &config.EndpointAddrGRPC,
		"HTTP_ADDR":        &config.EndpointAddrHTTP,
		"DATABASE_DSN":     &config.DatabaseDSN,
		"SECRET_KEY":       &config.SecretKey,
		"LOG_BACKEND":      &config.LogBackend,
		"LOCKOUT_BACKEND":  &config.LockoutBackend,
		"REDIS_ADDR":       &config.RedisAddr,
		"REDIS_PASSWORD":   &config.RedisPassword,
		"KAFKA_TOPIC":      &config.KafkaTopic,
		"S3_ROOT_USER":     &config.S3RootUser,
		"S3_ROOT_PASSWORD": &config.S3RootPassword,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
	}
	for name, dst := range strs {
		if v, ok := get(name); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ACCESS_TOKEN_VALIDITY": &config.AccessTokenValidityDuration,
		"RESET_TICKET_VALIDITY": &config.ResetTicketValidityDuration,
		"REQUEST_TIMEOUT":       &config.RequestTimeout,
	}
	for name, dst := range durations {
		if v, ok := get(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = d
		}
	}

	ints := map[string]*int{
		"PASSWORD_MIN_LENGTH": &config.PasswordMinLength,
		"REDIS_DB":            &config.RedisDB,
	}
	for name, dst := range ints {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, name, err)
			}
			*dst = n
		}
	}

	if v, ok := get("UNIFORM_VERIFY_ERRORS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sUNIFORM_VERIFY_ERRORS: %w", envPrefix, err)
		}
		config.UniformVerifyErrors = b
	}

	if v, ok := get("KAFKA_BROKERS"); ok {
		config.KafkaBrokers = splitList(v)
	}
	if v, ok := get("CORS_ALLOWED_ORIGINS"); ok {
		config.CORSAllowedOrigins = splitList(v)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
