package s3client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/relays"
	"github.com/joy-dx/authnet/utils"
)

// objectHeaders mirrors what an S3 HTTP response would carry for the object.
func objectHeaders(contentType, etag *string, meta map[string]string) http.Header {
	h := utils.MetadataToHeader(meta, utils.AmzMetaPrefix)
	if ct := aws.ToString(contentType); ct != "" {
		h.Set("Content-Type", ct)
	}
	if tag := aws.ToString(etag); tag != "" {
		h.Set("ETag", tag)
	}
	return h
}

func (c *S3Client) doGet(ctx context.Context, r *S3Request) (dto.Response, error) {
	out, err := c.client.GetObject(ctx, r.GetInput)
	if err != nil {
		return dto.Response{}, translateError(r, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return dto.Response{}, fmt.Errorf("read %s: %w", r.location(), err)
	}
	return dto.Response{
		StatusCode: http.StatusOK,
		Headers:    objectHeaders(out.ContentType, out.ETag, out.Metadata),
		Body:       data,
	}, nil
}

func (c *S3Client) doPut(ctx context.Context, r *S3Request) (dto.Response, error) {
	out, err := c.client.PutObject(ctx, r.PutInput)
	if err != nil {
		return dto.Response{}, translateError(r, err)
	}
	c.relay.Info(relays.RlyNetLog{Msg: fmt.Sprintf("uploaded %s (%d bytes)", r.location(), len(r.Body))})
	return dto.Response{
		StatusCode: http.StatusOK,
		Headers:    objectHeaders(aws.String(r.ContentType), out.ETag, nil),
	}, nil
}

// doDelete succeeds for keys that do not exist, as S3 does.
func (c *S3Client) doDelete(ctx context.Context, r *S3Request) (dto.Response, error) {
	if _, err := c.client.DeleteObject(ctx, r.DeleteInput); err != nil {
		return dto.Response{}, translateError(r, err)
	}
	return dto.Response{StatusCode: http.StatusNoContent}, nil
}
