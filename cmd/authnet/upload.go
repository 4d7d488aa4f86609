package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joy-dx/authnet/client/s3client"
	"github.com/joy-dx/authnet/dto"
	"github.com/spf13/cobra"
)

type uploadOptions struct {
	bucket      string
	key         string
	prefix      string
	region      string
	endpoint    string
	contentType string
}

func (c *cli) newUploadCommand() *cobra.Command {
	var opts uploadOptions

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a study file to S3 compatible storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.bucket == "" {
				return errors.New("--bucket is required")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			key := opts.key
			if key == "" {
				key = filepath.Base(args[0])
			}

			a := c.app
			s3Cfg := s3client.DefaultS3ClientConfig(opts.region)
			s3Cfg.WithEndpoint(opts.endpoint).
				WithRelay(a.relay).
				WithMiddleware(
					s3client.KeyPrefixMiddleware(opts.prefix),
					s3client.StaticS3MetaMiddleware(map[string]string{"client-id": a.cfg.ClientID}),
					s3client.LoggingMiddleware(a.relay),
				)
			uploads, err := s3client.NewS3Client(cmd.Context(), s3client.NET_UPLOADS_CLIENT_REF, &s3Cfg)
			if err != nil {
				return err
			}
			a.svc.RegisterClient(s3client.NET_UPLOADS_CLIENT_REF, uploads)

			putCfg := s3client.PutObjectConfig(opts.bucket, key, data)
			putCfg.ContentType = opts.contentType
			reqCfg := dto.DefaultRequestConfig()
			reqCfg.WithClientRef(s3client.NET_UPLOADS_CLIENT_REF).
				WithReqConfig(putCfg).
				WithTimeout(a.cfg.RequestTimeout)

			resp, err := a.svc.RequestOnce(cmd.Context(), &reqCfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "s3://%s/%s %s %s\n", opts.bucket, key, resp.Headers.Get("Content-Type"), resp.Headers.Get("ETag"))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.bucket, "bucket", "", "Target bucket")
	cmd.Flags().StringVar(&opts.key, "key", "", "Object key, the file name when empty")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "Prefix prepended to the key")
	cmd.Flags().StringVar(&opts.region, "region", "us-east-1", "Bucket region")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "Custom endpoint for S3 compatible stores")
	cmd.Flags().StringVar(&opts.contentType, "content-type", "", "Content type, detected when empty")
	return cmd
}
