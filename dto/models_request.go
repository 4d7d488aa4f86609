package dto

import (
	"context"
	"errors"
	"time"

	"github.com/joy-dx/authnet/utils"
)

// ReqConfigInterface is the reusable, client specific half of a request.
// NewRequest hands out a fresh mutable request per call.
type ReqConfigInterface interface {
	Ref() NetClientType
	NewRequest(ctx context.Context) (any, error)
}

// RequestConfig selects a client and carries the call level policy.
type RequestConfig struct {
	ClientRef string             `json:"client_ref" yaml:"client_ref"`
	ReqConfig ReqConfigInterface `json:"req_config" yaml:"req_config"`
	// ResponseObject receives the JSON decoded body when set
	ResponseObject any           `json:"response_object" yaml:"response_object"`
	Timeout        time.Duration `json:"timeout" yaml:"timeout"`
	// MaxRetries applies to RequestWithRetry only, 401 recovery is not a retry
	MaxRetries int              `json:"max_retries" yaml:"max_retries"`
	Delay      utils.RetryDelay `json:"-" yaml:"-"`
	TaskName   string           `json:"task_name" yaml:"task_name"`
}

func DefaultRequestConfig() RequestConfig {
	return RequestConfig{
		ClientRef:  NET_DEFAULT_CLIENT_REF,
		Timeout:    20 * time.Second,
		MaxRetries: 3,
		Delay:      utils.ExponentialBackoff{},
	}
}

// Normalize rejects configs that cannot be dispatched and fills the optional
// fields. It is safe to call more than once.
func (c *RequestConfig) Normalize() error {
	if c.ClientRef == "" {
		return errors.New("nil ClientRef provided")
	}
	if c.ReqConfig == nil {
		return ErrNilReqConfig
	}
	if c.TaskName == "" {
		c.TaskName = "http_request"
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Delay == nil {
		c.Delay = utils.ConstantDelay{Period: 1}
	}
	return nil
}

func (c *RequestConfig) WithClientRef(ref string) *RequestConfig {
	c.ClientRef = ref
	return c
}

func (c *RequestConfig) WithReqConfig(cfg ReqConfigInterface) *RequestConfig {
	c.ReqConfig = cfg
	return c
}

func (c *RequestConfig) WithResponseObject(object any) *RequestConfig {
	c.ResponseObject = object
	return c
}

func (c *RequestConfig) WithTimeout(duration time.Duration) *RequestConfig {
	c.Timeout = duration
	return c
}

// WithRetryPolicy sets how often and how patiently RequestWithRetry retries.
func (c *RequestConfig) WithRetryPolicy(maxRetries int, delay utils.RetryDelay) *RequestConfig {
	c.MaxRetries = maxRetries
	c.Delay = delay
	return c
}

func (c *RequestConfig) WithTaskName(name string) *RequestConfig {
	c.TaskName = name
	return c
}

// BuildRequest asks the client specific config for this call's request.
func (c *RequestConfig) BuildRequest(ctx context.Context) (any, error) {
	if c.ReqConfig == nil {
		return nil, ErrNilReqConfig
	}
	return c.ReqConfig.NewRequest(ctx)
}
