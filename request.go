package authnet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/joy-dx/authnet/client/httpclient"
	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/utils"
)

func (s *NetSvc) Get(ctx context.Context, url string, withRetry bool) (dto.Response, error) {
	return s.send(ctx, http.MethodGet, url, nil, withRetry)
}

func (s *NetSvc) Post(ctx context.Context, url string, payload map[string]interface{}, withRetry bool) (dto.Response, error) {
	return s.send(ctx, http.MethodPost, url, payload, withRetry)
}

func (s *NetSvc) Put(ctx context.Context, url string, payload map[string]interface{}, withRetry bool) (dto.Response, error) {
	return s.send(ctx, http.MethodPut, url, payload, withRetry)
}

func (s *NetSvc) Delete(ctx context.Context, url string, withRetry bool) (dto.Response, error) {
	return s.send(ctx, http.MethodDelete, url, nil, withRetry)
}

func (s *NetSvc) send(ctx context.Context, method, url string, payload map[string]interface{}, withRetry bool) (dto.Response, error) {
	httpRequestConfig := httpclient.DefaultHTTPRequestConfig()
	httpRequestConfig.WithURL(url).WithMethod(method)
	if payload != nil {
		httpRequestConfig.WithBody(payload)
	}
	cfg := dto.DefaultRequestConfig()
	cfg.WithReqConfig(&httpRequestConfig).
		WithTaskName(method + " " + url)

	if withRetry {
		return s.RequestWithRetry(ctx, &cfg)
	}
	return s.RequestOnce(ctx, &cfg)
}

// RequestWithRetry repeats RequestOnce on transient network failures, 5xx
// responses and per-attempt timeouts. Client errors, 401 included, are
// returned on the first attempt since token recovery already ran inside it.
// Cancelling ctx stops the loop, including during the backoff delay.
func (s *NetSvc) RequestWithRetry(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
	if cfg == nil {
		return dto.Response{}, errors.New("nil RequestConfig provided")
	}
	if err := cfg.Normalize(); err != nil {
		return dto.Response{}, err
	}
	var (
		lastResp dto.Response
		lastErr  error
	)
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := cfg.Delay.Wait(ctx, cfg.TaskName, attempt); err != nil {
				return lastResp, err
			}
		}

		resp, err := s.RequestOnce(ctx, cfg)
		if err == nil {
			return resp, nil
		}
		lastResp, lastErr = resp, err
		if !isRetryable(ctx, err) {
			return resp, err
		}
	}

	return lastResp, fmt.Errorf("failed after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}

// isRetryable classifies an attempt error. A deadline while ctx is still live
// came from cfg.Timeout and only ends that attempt.
func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var failure *dto.NetworkFailure
	if errors.As(err, &failure) {
		return utils.IsTemporaryErr(failure.Err)
	}
	return dto.StatusCode(err) >= http.StatusInternalServerError
}

func (s *NetSvc) RequestOnce(ctx context.Context, cfg *dto.RequestConfig) (dto.Response, error) {
	if cfg == nil {
		return dto.Response{}, errors.New("nil RequestConfig provided")
	}

	if err := cfg.Normalize(); err != nil {
		return dto.Response{}, err
	}

	netClient, err := s.client(cfg.ClientRef)
	if err != nil {
		return dto.Response{}, err
	}

	// Sanity check that the req config matches the client type to avoid later casting confusion
	if netClient.Type() != cfg.ReqConfig.Ref() {
		return dto.Response{}, fmt.Errorf(
			"client type mismatch: client=%s(%s) req=%s",
			cfg.ClientRef,
			netClient.Type(),
			cfg.ReqConfig.Ref(),
		)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	response, err := netClient.ProcessRequest(ctx, cfg)
	if err != nil {
		return response, fmt.Errorf("perform request: %w", err)
	}

	if cfg.ResponseObject != nil && len(response.Body) > 0 {
		if unmarshalErr := json.Unmarshal(response.Body, cfg.ResponseObject); unmarshalErr != nil {
			return response, fmt.Errorf("unmarshal response: %w", unmarshalErr)
		}
	}

	return response, nil
}
