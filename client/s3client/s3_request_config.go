package s3client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joy-dx/authnet/dto"
)

type S3Operation string

const (
	OpGet    S3Operation = "get"
	OpPut    S3Operation = "put"
	OpDelete S3Operation = "delete"
	OpList   S3Operation = "list"
)

// S3RequestConfig defines the structure of an S3 request operation.
type S3RequestConfig struct {
	Operation S3Operation
	Bucket    string
	Key       string

	// Optional depending on operation
	Body        []byte
	Prefix      string
	ContentType string
	ExtraOpts   map[string]interface{}
}

func (c *S3RequestConfig) Ref() dto.NetClientType {
	return NetClientS3Ref
}

// PutObjectConfig describes an upload of body to bucket/key.
func PutObjectConfig(bucket, key string, body []byte) *S3RequestConfig {
	return &S3RequestConfig{Operation: OpPut, Bucket: bucket, Key: key, Body: body}
}

func GetObjectConfig(bucket, key string) *S3RequestConfig {
	return &S3RequestConfig{Operation: OpGet, Bucket: bucket, Key: key}
}

func DeleteObjectConfig(bucket, key string) *S3RequestConfig {
	return &S3RequestConfig{Operation: OpDelete, Bucket: bucket, Key: key}
}

func ListObjectsConfig(bucket, prefix string) *S3RequestConfig {
	return &S3RequestConfig{Operation: OpList, Bucket: bucket, Prefix: prefix}
}

type S3Request struct {
	Operation S3Operation
	Bucket    string
	Key       string

	Body        []byte
	Prefix      string
	ContentType string

	ExtraOpts map[string]any

	// Deterministic prepared AWS inputs (built after middleware)
	PutInput    *s3.PutObjectInput
	GetInput    *s3.GetObjectInput
	DeleteInput *s3.DeleteObjectInput
	ListInput   *s3.ListObjectsV2Input
}

func (c *S3RequestConfig) NewRequest(ctx context.Context) (any, error) {
	r := &S3Request{
		Operation:   c.Operation,
		Bucket:      c.Bucket,
		Key:         c.Key,
		Body:        c.Body,
		Prefix:      c.Prefix,
		ContentType: c.ContentType,
		ExtraOpts:   make(map[string]any, len(c.ExtraOpts)),
	}
	for k, v := range c.ExtraOpts {
		r.ExtraOpts[k] = v
	}
	return r, nil
}

// location is used in error values so callers see s3:// style URLs.
func (r *S3Request) location() string {
	if r.Operation == OpList {
		return "s3://" + r.Bucket + "/" + r.Prefix
	}
	return "s3://" + r.Bucket + "/" + r.Key
}
