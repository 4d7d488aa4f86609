package s3client

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
)

func TestS3Request_Finalize_Golden(t *testing.T) {
	cases := []struct {
		name    string
		req     *S3Request
		wantErr error
		check   func(t *testing.T, r *S3Request)
	}{
		{
			name: "get",
			req:  &S3Request{Operation: OpGet, Bucket: "b", Key: "k"},
			check: func(t *testing.T, r *S3Request) {
				if aws.ToString(r.GetInput.Key) != "k" || r.PutInput != nil {
					t.Fatalf("GetInput = %+v", r.GetInput)
				}
			},
		},
		{
			name: "put with explicit content type and options",
			req: &S3Request{
				Operation:   OpPut,
				Bucket:      "b",
				Key:         "k",
				Body:        []byte("x"),
				ContentType: "text/markdown",
				ExtraOpts: map[string]any{
					"metadata":            map[string]any{"a": "1", "b": 2},
					"cache_control":       "max-age=60",
					"content_disposition": "attachment",
				},
			},
			check: func(t *testing.T, r *S3Request) {
				in := r.PutInput
				if aws.ToString(in.ContentType) != "text/markdown" ||
					aws.ToString(in.CacheControl) != "max-age=60" ||
					aws.ToString(in.ContentDisposition) != "attachment" {
					t.Fatalf("PutInput = %+v", in)
				}
				if len(in.Metadata) != 1 || in.Metadata["a"] != "1" {
					t.Fatalf("metadata = %v", in.Metadata)
				}
			},
		},
		{
			name: "put sniffs content type without extension",
			req:  &S3Request{Operation: OpPut, Bucket: "b", Key: "notes", Body: []byte("plain words")},
			check: func(t *testing.T, r *S3Request) {
				if got := aws.ToString(r.PutInput.ContentType); got != "text/plain; charset=utf-8" {
					t.Fatalf("content type = %q", got)
				}
			},
		},
		{
			name: "list with prefix",
			req:  &S3Request{Operation: OpList, Bucket: "b", Prefix: "p/"},
			check: func(t *testing.T, r *S3Request) {
				if aws.ToString(r.ListInput.Prefix) != "p/" {
					t.Fatalf("ListInput = %+v", r.ListInput)
				}
			},
		},
		{name: "missing key", req: &S3Request{Operation: OpDelete, Bucket: "b"}, wantErr: ErrMissingKey},
		{name: "missing bucket", req: &S3Request{Operation: OpList}, wantErr: ErrMissingBucket},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Finalize()
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Finalize: %v", err)
			}
			tc.check(t, tc.req)
		})
	}

	if err := (&S3Request{Operation: "nope"}).Finalize(); err == nil || err.Error() != "unsupported s3 operation: nope" {
		t.Fatalf("err = %v", err)
	}
}

func TestKeyPrefixMiddleware(t *testing.T) {
	mw := KeyPrefixMiddleware("/user-1/")
	r := &S3Request{Operation: OpPut, Key: "/a.pdf"}
	_ = mw(context.Background(), r)
	if r.Key != "user-1/a.pdf" {
		t.Fatalf("key = %q", r.Key)
	}
}
