// Package config loads runtime configuration for the imgdrop CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c/--config; JSON, or YAML when the
//     name ends in .yaml/.yml.
//  3. Environment: IMGDROP_* variables, with a .env file in the working
//     directory loaded first (existing variables win over .env).
//  4. Command-line flags bound with BindFlags.
//
// # File schema
//
// Durations accept strings like "5s" or integer nanoseconds:
//
//	{
//	  "issuer_endpoint": "https://abc.execute-api.eu-west-1.amazonaws.com/upload-url",
//	  "store_base": "https://my-image-bucket.s3.eu-west-1.amazonaws.com",
//	  "verify": true,
//	  "verify_timeout": "5s",
//	  "s3_region": "eu-west-1",
//	  "s3_bucket": "my-image-bucket"
//	}
package config
