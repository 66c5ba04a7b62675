package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/imgdrop/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file. Pointer fields tell
// "absent" from "zero" so a file only overrides what it mentions.
type FileConfig struct {
	IssuerEndpoint *string         `json:"issuer_endpoint" yaml:"issuer_endpoint"`
	StoreBase      *string         `json:"store_base" yaml:"store_base"`
	DataDir        *string         `json:"data_dir" yaml:"data_dir"`
	HistoryDB      *string         `json:"history_db" yaml:"history_db"`
	HistoryKeep    *int            `json:"history_keep" yaml:"history_keep"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	Verify         *bool           `json:"verify" yaml:"verify"`
	VerifyTimeout  *timex.Duration `json:"verify_timeout" yaml:"verify_timeout"`
	S3Region       *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3Bucket       *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3AccessKey    *string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey    *string         `json:"s3_secret_key" yaml:"s3_secret_key"`
}

// parseFile overlays cfg with the JSON or YAML file at path. The format is
// chosen by extension (.yaml/.yml, anything else is JSON).
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.IssuerEndpoint, fc.IssuerEndpoint)
	setString(&cfg.StoreBase, fc.StoreBase)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.HistoryDB, fc.HistoryDB)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)
	if fc.HistoryKeep != nil {
		cfg.HistoryKeep = *fc.HistoryKeep
	}
	if fc.Verify != nil {
		cfg.Verify = *fc.Verify
	}
	if fc.VerifyTimeout != nil {
		cfg.VerifyTimeout = fc.VerifyTimeout.Duration
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
