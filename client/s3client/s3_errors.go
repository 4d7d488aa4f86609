package s3client

import (
	"errors"
	"net/http"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/joy-dx/authnet/dto"
)

// translateError maps SDK failures onto dto.HTTPError when the service
// answered and dto.NetworkFailure when it did not.
func translateError(r *S3Request, err error) error {
	method := methodFor(r.Operation)
	url := r.location()

	var noKey *s3types.NoSuchKey
	var notFound *s3types.NotFound
	var noBucket *s3types.NoSuchBucket
	if errors.As(err, &noKey) || errors.As(err, &notFound) || errors.As(err, &noBucket) {
		return &dto.HTTPError{StatusCode: http.StatusNotFound, Method: method, URL: url, Body: []byte(err.Error())}
	}

	var withStatus interface{ HTTPStatusCode() int }
	if errors.As(err, &withStatus) && withStatus.HTTPStatusCode() > 0 {
		return &dto.HTTPError{StatusCode: withStatus.HTTPStatusCode(), Method: method, URL: url, Body: []byte(err.Error())}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadRequest
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			status = http.StatusNotFound
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			status = http.StatusForbidden
		}
		if apiErr.ErrorFault() == smithy.FaultServer {
			status = http.StatusInternalServerError
		}
		return &dto.HTTPError{StatusCode: status, Method: method, URL: url, Body: []byte(apiErr.ErrorMessage())}
	}

	return &dto.NetworkFailure{Method: method, URL: url, Err: err}
}

func methodFor(op S3Operation) string {
	switch op {
	case OpPut:
		return http.MethodPut
	case OpDelete:
		return http.MethodDelete
	default:
		return http.MethodGet
	}
}
