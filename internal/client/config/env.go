package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "IMGDROP_"

// parseEnv loads dotenv (if the file exists) without overriding variables
// already set in the process, then overlays cfg with IMGDROP_* variables.
func parseEnv(cfg *Config, dotenv string) error {
	if dotenv != "" && fileExists(dotenv) {
		if err := godotenv.Load(dotenv); err != nil {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	strs := map[string]*string{
		"ISSUER_ENDPOINT":  &cfg.IssuerEndpoint,
		"STORE_BASE":       &cfg.StoreBase,
		"DATA_DIR":         &cfg.DataDir,
		"HISTORY_DB":       &cfg.HistoryDB,
		"LOG_LEVEL":        &cfg.LogLevel,
		"S3_REGION":        &cfg.S3Region,
		"S3_BASE_ENDPOINT": &cfg.S3BaseEndpoint,
		"S3_BUCKET":        &cfg.S3Bucket,
		"S3_ACCESS_KEY":    &cfg.S3AccessKey,
		"S3_SECRET_KEY":    &cfg.S3SecretKey,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "HISTORY_KEEP"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sHISTORY_KEEP: %w", envPrefix, err)
		}
		cfg.HistoryKeep = n
	}

	if v, ok := os.LookupEnv(envPrefix + "VERIFY"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sVERIFY: %w", envPrefix, err)
		}
		cfg.Verify = b
	}

	if v, ok := os.LookupEnv(envPrefix + "VERIFY_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sVERIFY_TIMEOUT: %w", envPrefix, err)
		}
		cfg.VerifyTimeout = d
	}

	return nil
}
