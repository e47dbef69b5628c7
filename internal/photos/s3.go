package photos

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the subset of the S3 client used here.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 keeps photos in a bucket. PublicURL is the base URL objects are
// reachable at (bucket website, CDN or S3-compatible endpoint).
type S3 struct {
	Client    PutObjectAPI
	Bucket    string
	Prefix    string
	PublicURL string
}

// S3Options configures NewS3.
type S3Options struct {
	Bucket    string
	Region    string
	Prefix    string
	PublicURL string
	// Endpoint points the client at an S3-compatible service such as MinIO
	// or LocalStack. Path-style addressing is used when set.
	Endpoint string
}

// NewS3 builds an S3 store from the default AWS credential chain.
func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := opts.PublicURL
	if publicURL == "" {
		if opts.Endpoint != "" {
			publicURL = strings.TrimSuffix(opts.Endpoint, "/") + "/" + opts.Bucket
		} else {
			publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}

	return &S3{Client: client, Bucket: opts.Bucket, Prefix: opts.Prefix, PublicURL: publicURL}, nil
}

// Put uploads the photo and returns its public URL.
func (s *S3) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	objectKey := strings.TrimPrefix(strings.Trim(s.Prefix, "/")+"/"+key, "/")

	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.Bucket),
		Key:          aws.String(objectKey),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("uploading photo to s3: %w", err)
	}

	return strings.TrimSuffix(s.PublicURL, "/") + "/" + objectKey, nil
}
