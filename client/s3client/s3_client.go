package s3client

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joy-dx/authnet/dto"
	relayDTO "github.com/joy-dx/relay/dto"
)

// s3API This internal interface abstracts the s3 client for easier testing
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Client stores study uploads in an S3 compatible bucket. Failures are
// reported with the same dto error types the HTTP client uses.
type S3Client struct {
	NetClient dto.NetClient
	cfg       *S3ClientConfig
	client    s3API
	relay     relayDTO.RelayInterface
}

func NewS3Client(ctx context.Context, ref string, cfg *S3ClientConfig) (*S3Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Credentials != nil {
		opts = append(opts, awsconfig.WithCredentialsProvider(cfg.Credentials))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return newS3Client(ref, cfg, client), nil
}

func newS3Client(ref string, cfg *S3ClientConfig, api s3API) *S3Client {
	return &S3Client{
		cfg:    cfg,
		client: api,
		relay:  cfg.Relay(),
		NetClient: dto.NetClient{
			Name:        "S3 Client",
			Ref:         ref,
			ClientType:  NetClientS3Ref,
			Description: "Stores and retrieves uploaded study material (get, put, list, delete)",
		},
	}
}

func (c *S3Client) Ref() string {
	return c.NetClient.Ref
}

func (c *S3Client) Type() dto.NetClientType {
	return NetClientS3Ref
}
