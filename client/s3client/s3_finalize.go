package s3client

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	ErrMissingBucket = errors.New("s3 request has no bucket")
	ErrMissingKey    = errors.New("s3 request has no key")
)

// Finalize builds the deterministic AWS SDK input struct for the operation.
// Call this exactly once after middleware has run and before executing.
func (r *S3Request) Finalize() error {
	r.PutInput = nil
	r.GetInput = nil
	r.DeleteInput = nil
	r.ListInput = nil

	switch r.Operation {
	case OpGet, OpPut, OpDelete:
		if r.Key == "" {
			return ErrMissingKey
		}
		fallthrough
	case OpList:
		if r.Bucket == "" {
			return ErrMissingBucket
		}
	}

	switch r.Operation {
	case OpGet:
		r.GetInput = &s3.GetObjectInput{
			Bucket: aws.String(r.Bucket),
			Key:    aws.String(r.Key),
		}
		return nil

	case OpPut:
		if r.ContentType == "" {
			r.ContentType = DetectContentType(r.Key, r.Body)
		}
		in := &s3.PutObjectInput{
			Bucket:        aws.String(r.Bucket),
			Key:           aws.String(r.Key),
			Body:          bytes.NewReader(r.Body),
			ContentLength: aws.Int64(int64(len(r.Body))),
			ContentType:   aws.String(r.ContentType),
		}

		// ExtraOpts["metadata"] can be map[string]string or map[string]any.
		if md, ok := extractStringMap(r.ExtraOpts, "metadata"); ok && len(md) > 0 {
			in.Metadata = md
		}
		if v, ok := r.ExtraOpts["cache_control"].(string); ok && v != "" {
			in.CacheControl = aws.String(v)
		}
		if v, ok := r.ExtraOpts["content_disposition"].(string); ok && v != "" {
			in.ContentDisposition = aws.String(v)
		}

		r.PutInput = in
		return nil

	case OpDelete:
		r.DeleteInput = &s3.DeleteObjectInput{
			Bucket: aws.String(r.Bucket),
			Key:    aws.String(r.Key),
		}
		return nil

	case OpList:
		r.ListInput = &s3.ListObjectsV2Input{
			Bucket: aws.String(r.Bucket),
		}
		if r.Prefix != "" {
			r.ListInput.Prefix = aws.String(r.Prefix)
		}
		return nil

	default:
		return fmt.Errorf("unsupported s3 operation: %s", r.Operation)
	}
}

// DetectContentType prefers the key's extension and falls back to sniffing body.
func DetectContentType(key string, body []byte) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return http.DetectContentType(body)
}

// extractStringMap reads ExtraOpts[key] as either map[string]string or map[string]any
// with string values, returning a map[string]string.
func extractStringMap(extra map[string]any, key string) (map[string]string, bool) {
	raw, ok := extra[key]
	if !ok || raw == nil {
		return nil, false
	}

	switch v := raw.(type) {
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, true

	case map[string]any:
		out := make(map[string]string, len(v))
		for k, val := range v {
			s, ok := val.(string)
			if !ok {
				continue
			}
			out[k] = s
		}
		return out, true

	default:
		return nil, false
	}
}
