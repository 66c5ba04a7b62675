package config

import "github.com/spf13/pflag"

// BindFlags registers the persistent CLI flags on fs with the already loaded
// values as defaults, so a flag only changes what the user passes.
//
//	-c, --config string      config file (JSON or YAML); read before flags are parsed
//	-i, --issuer string      credential issuer endpoint
//	-s, --store-base string  object store base used for result links
//	    --data-dir string    directory for local state
//	    --history-keep int   history records to retain, 0 keeps all
//	    --log-level string   debug|info|warn|error
//	    --verify             confirm uploads with S3 HeadObject
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringP("config", "c", "", "config file (JSON or YAML)")
	fs.StringVarP(&cfg.IssuerEndpoint, "issuer", "i", cfg.IssuerEndpoint, "credential issuer endpoint")
	fs.StringVarP(&cfg.StoreBase, "store-base", "s", cfg.StoreBase, "object store base URL used for result links")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for local state")
	fs.IntVar(&cfg.HistoryKeep, "history-keep", cfg.HistoryKeep, "history records to retain (0 keeps all)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&cfg.Verify, "verify", cfg.Verify, "confirm uploads with S3 HeadObject")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "bucket used for upload confirmation")
	fs.StringVar(&cfg.S3BaseEndpoint, "s3-endpoint", cfg.S3BaseEndpoint, "S3 endpoint override used for upload confirmation")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "S3 region used for upload confirmation")
}
