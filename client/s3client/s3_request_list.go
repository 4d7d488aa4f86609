package s3client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joy-dx/authnet/dto"
)

// ObjectInfo is one entry of a list response body.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified,omitempty"`
}

// doList follows continuation tokens and returns every key as a JSON array.
func (c *S3Client) doList(ctx context.Context, r *S3Request) (dto.Response, error) {
	objects := make([]ObjectInfo, 0)
	in := *r.ListInput
	for {
		out, err := c.client.ListObjectsV2(ctx, &in)
		if err != nil {
			return dto.Response{}, translateError(r, err)
		}
		for _, obj := range out.Contents {
			objects = append(objects, ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			break
		}
		in.ContinuationToken = out.NextContinuationToken
	}

	body, err := json.Marshal(objects)
	if err != nil {
		return dto.Response{}, fmt.Errorf("encode object list: %w", err)
	}
	return dto.Response{StatusCode: 200, Body: body}, nil
}
