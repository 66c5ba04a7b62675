package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/imgdrop/internal/client/verify"
	"github.com/dmitrijs2005/imgdrop/internal/flagx"
)

// Config holds runtime settings for the imgdrop CLI.
//
// Fields:
//   - IssuerEndpoint: URL the credential request is POSTed to.
//   - StoreBase: scheme, host and bucket path used to build the object link.
//   - DataDir / HistoryDB: where the local upload history lives.
//   - HistoryKeep: how many history records to retain (0 keeps all).
//   - LogLevel: debug, info, warn or error.
//   - Verify: confirm uploads with S3 HeadObject using the S3* settings.
//   - VerifyTimeout: upper bound for the confirmation request only.
type Config struct {
	IssuerEndpoint string
	StoreBase      string
	DataDir        string
	HistoryDB      string
	HistoryKeep    int
	LogLevel       string
	Verify         bool
	VerifyTimeout  time.Duration
	S3Region       string
	S3BaseEndpoint string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.IssuerEndpoint = "http://127.0.0.1:3000/upload-url"
	c.StoreBase = "https://my-image-bucket.s3.amazonaws.com"
	c.DataDir = ".imgdrop"
	c.HistoryDB = "history.db"
	c.HistoryKeep = 1000
	c.LogLevel = "warn"
	c.Verify = false
	c.VerifyTimeout = 5 * time.Second
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.S3Bucket = "my-image-bucket"
}

// LoadConfig builds a Config from defaults, then the file named by -c/-config
// (if any), then the environment. Command-line flags are bound afterwards by
// BindFlags so they take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigFileFlag(args); path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// HistoryPath returns the history database location. A relative HistoryDB is
// resolved inside DataDir.
func (c *Config) HistoryPath() string {
	if filepath.IsAbs(c.HistoryDB) {
		return c.HistoryDB
	}
	return filepath.Join(c.DataDir, c.HistoryDB)
}

func (c *Config) VerifyConfig() verify.Config {
	return verify.Config{
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
