package s3client

import (
	"context"
	"fmt"
	"strings"

	"github.com/joy-dx/authnet/relays"
	relayDTO "github.com/joy-dx/relay/dto"
)

// StaticS3MetaMiddleware adds default metadata to each S3 put operation.
func StaticS3MetaMiddleware(meta map[string]string) Middleware {
	return func(ctx context.Context, r *S3Request) error {
		if r.Operation != OpPut {
			return nil
		}
		if r.ExtraOpts == nil {
			r.ExtraOpts = map[string]any{}
		}

		// copy so the reusable request config is never mutated
		md := make(map[string]string, len(meta))
		if existing, ok := r.ExtraOpts["metadata"].(map[string]string); ok {
			for k, v := range existing {
				md[k] = v
			}
		}

		for k, v := range meta {
			md[k] = v
		}

		r.ExtraOpts["metadata"] = md
		return nil
	}
}

// KeyPrefixMiddleware scopes every key and list prefix under prefix, e.g. a
// per user upload folder.
func KeyPrefixMiddleware(prefix string) Middleware {
	prefix = strings.Trim(prefix, "/")
	return func(ctx context.Context, r *S3Request) error {
		if prefix == "" {
			return nil
		}
		if r.Operation == OpList {
			r.Prefix = prefix + "/" + strings.TrimLeft(r.Prefix, "/")
			return nil
		}
		if r.Key != "" {
			r.Key = prefix + "/" + strings.TrimLeft(r.Key, "/")
		}
		return nil
	}
}

func LoggingMiddleware(relay relayDTO.RelayInterface) Middleware {
	return func(ctx context.Context, r *S3Request) error {
		relay.Debug(relays.RlyNetLog{Msg: fmt.Sprintf(
			"[S3] %s %s",
			strings.ToUpper(string(r.Operation)),
			r.location(),
		)})
		return nil
	}
}
