package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/joy-dx/authnet/dto"
	"github.com/spf13/cobra"
)

func (c *cli) newRequestCommand(method string) *cobra.Command {
	withBody := method == http.MethodPost || method == http.MethodPut
	use := strings.ToLower(method) + " <path>"
	args := cobra.ExactArgs(1)
	if withBody {
		use += " <json>"
		args = cobra.ExactArgs(2)
	}

	var retry bool
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Send an authenticated %s request and print the body", method),
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload map[string]interface{}
			if withBody {
				if err := json.Unmarshal([]byte(args[1]), &payload); err != nil {
					return fmt.Errorf("parse json body: %w", err)
				}
			}
			resp, err := c.app.send(cmd.Context(), method, args[0], payload, retry)
			if err != nil {
				if len(resp.Body) > 0 {
					fmt.Fprintln(c.errOut, string(resp.Body))
				}
				return err
			}
			_, err = c.out.Write(resp.Body)
			return err
		},
	}
	cmd.Flags().BoolVar(&retry, "retry", false, "Retry network failures and 5xx responses")
	return cmd
}

func (a *app) send(ctx context.Context, method, path string, payload map[string]interface{}, retry bool) (dto.Response, error) {
	defer a.settle()
	switch method {
	case http.MethodPost:
		return a.svc.Post(ctx, path, payload, retry)
	case http.MethodPut:
		return a.svc.Put(ctx, path, payload, retry)
	case http.MethodDelete:
		return a.svc.Delete(ctx, path, retry)
	default:
		return a.svc.Get(ctx, path, retry)
	}
}
