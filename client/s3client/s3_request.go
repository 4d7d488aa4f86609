package s3client

import (
	"context"
	"errors"
	"fmt"

	"github.com/joy-dx/authnet/dto"
)

func (c *S3Client) ProcessRequest(ctx context.Context, reqCfg *dto.RequestConfig) (dto.Response, error) {
	cfg, ok := reqCfg.ReqConfig.(*S3RequestConfig)
	if !ok {
		return dto.Response{}, errors.New("problem casting to s3requestconfig")
	}

	reqAny, err := cfg.NewRequest(ctx)
	if err != nil {
		return dto.Response{}, fmt.Errorf("build request: %w", err)
	}
	r, ok := reqAny.(*S3Request)
	if !ok {
		return dto.Response{}, errors.New("problem casting built request to s3request")
	}

	for _, mw := range c.cfg.Middlewares {
		if err := mw(ctx, r); err != nil {
			return dto.Response{}, fmt.Errorf("middleware aborted: %w", err)
		}
	}

	if err := r.Finalize(); err != nil {
		return dto.Response{}, err
	}

	var resp dto.Response
	switch r.Operation {
	case OpGet:
		resp, err = c.doGet(ctx, r)
	case OpPut:
		resp, err = c.doPut(ctx, r)
	case OpDelete:
		resp, err = c.doDelete(ctx, r)
	case OpList:
		resp, err = c.doList(ctx, r)
	default:
		return dto.Response{}, fmt.Errorf("unsupported s3 operation: %s", r.Operation)
	}
	if err != nil {
		var httpErr *dto.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr.Response(), err
		}
		return dto.Response{}, err
	}
	return resp, nil
}
