package s3client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/relays"
	relayDTO "github.com/joy-dx/relay/dto"
)

const NetClientS3Ref dto.NetClientType = "net.client.s3"

// NET_UPLOADS_CLIENT_REF is the ref the CLI registers the upload client under.
const NET_UPLOADS_CLIENT_REF = "net.client.uploads"

type Middleware func(ctx context.Context, req *S3Request) error

// S3ClientConfig defines the static properties for an S3 client instance.
type S3ClientConfig struct {
	Region string
	// Credentials falls back to the default AWS chain when nil
	Credentials    aws.CredentialsProvider
	Middlewares    []Middleware
	ForcePathStyle bool
	// Endpoint for S3 compatible stores such as MinIO
	Endpoint string
	relay    relayDTO.RelayInterface
}

func DefaultS3ClientConfig(region string) S3ClientConfig {
	return S3ClientConfig{Region: region, Middlewares: []Middleware{}}
}

func (c *S3ClientConfig) WithMiddleware(m ...Middleware) *S3ClientConfig {
	c.Middlewares = append(c.Middlewares, m...)
	return c
}

func (c *S3ClientConfig) WithEndpoint(endpoint string) *S3ClientConfig {
	c.Endpoint = endpoint
	// custom endpoints rarely support virtual hosted buckets
	c.ForcePathStyle = endpoint != ""
	return c
}

func (c *S3ClientConfig) WithCredentials(p aws.CredentialsProvider) *S3ClientConfig {
	c.Credentials = p
	return c
}

func (c *S3ClientConfig) WithRelay(relay relayDTO.RelayInterface) *S3ClientConfig {
	c.relay = relay
	return c
}

func (c *S3ClientConfig) Relay() relayDTO.RelayInterface {
	if c.relay == nil {
		return relays.Discard
	}
	return c.relay
}
