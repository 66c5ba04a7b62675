// Package verify asks the object store whether an uploaded object exists.
//
// The link shown after an upload is built locally from the store base and the
// object key, so by itself it proves nothing. When verification is enabled the
// orchestrator follows a successful PUT with an S3 HeadObject through this
// package.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/imgdrop/internal/common"
)

// Config selects the bucket to check. Empty AccessKey means anonymous
// requests, which works for public-read buckets.
type Config struct {
	Region       string
	BaseEndpoint string
	Bucket       string
	AccessKey    string
	SecretKey    string
}

// ObjectInfo is what HeadObject tells us about a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
	ETag        string
}

type headObjectAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// seams for tests
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) headObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Verifier struct {
	client headObjectAPI
	bucket string
}

func NewS3Verifier(ctx context.Context, c Config) (*S3Verifier, error) {
	if c.Bucket == "" {
		return nil, errors.New("verify: bucket is required")
	}

	var provider aws.CredentialsProvider = aws.AnonymousCredentials{}
	if c.AccessKey != "" {
		provider = credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(c.Region),
		awsconfig.WithCredentialsProvider(provider),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
			o.UsePathStyle = true
		}
		o.RetryMaxAttempts = 1
	})

	return &S3Verifier{client: client, bucket: c.Bucket}, nil
}

// Verify returns the stored object's metadata, or common.ErrObjectNotFound.
func (v *S3Verifier) Verify(ctx context.Context, key string) (ObjectInfo, error) {
	key = strings.TrimPrefix(key, "/")

	out, err := v.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return ObjectInfo{}, fmt.Errorf("%s: %w", key, common.ErrObjectNotFound)
		}
		return ObjectInfo{}, fmt.Errorf("head object %s: %w", key, err)
	}

	return ObjectInfo{
		Key:         key,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		ETag:        strings.Trim(aws.ToString(out.ETag), `"`),
	}, nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
