package main

import (
	"fmt"
	"io"
	"time"

	"github.com/joy-dx/authnet/dto"
	"github.com/joy-dx/authnet/metrics"
	"github.com/spf13/cobra"
)

var Version = "dev" // Overridden by ldflags

type rootOptions struct {
	baseURL    string
	clientID   string
	tokenFile  string
	loginPath  string
	refreshURL string
	tokenURL   string
	headers    dto.ExtraHeaders
	timeout    time.Duration
	rate       float64
	debug      bool
	logJSON    bool
	metrics    bool
}

// cli carries the parsed flags and, once the pre-run hook has fired, the
// wired application.
type cli struct {
	opts   rootOptions
	out    io.Writer
	errOut io.Writer
	app    *app
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	c := &cli{
		opts:   rootOptions{headers: make(dto.ExtraHeaders)},
		out:    out,
		errOut: errOut,
	}

	rootCmd := &cobra.Command{
		Use:   "authnet",
		Short: "Authenticated requests against the StuddyBuddy API",
		Long: `authnet sends requests with the stored session, refreshing the access
token and replaying the request once when the server answers 401.

Values are resolved from flags, then AUTHNET_* environment variables
(a .env file is honoured), then built-in defaults.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd, &c.opts, c.errOut)
			if err != nil {
				return fmt.Errorf("failed to initialise: %w", err)
			}
			c.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !c.opts.metrics || c.app == nil {
				return nil
			}
			return metrics.WriteText(c.errOut, c.app.registry)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.opts.baseURL, "base-url", "", "API base URL relative paths are joined to")
	flags.StringVar(&c.opts.clientID, "client-id", "", "Client id the session is stored under")
	flags.StringVar(&c.opts.tokenFile, "token-file", "", "Session token file")
	flags.StringVar(&c.opts.loginPath, "login-path", "", "Login location shown when the session cannot be refreshed")
	flags.StringVar(&c.opts.refreshURL, "refresh-url", "", "Endpoint accepting {\"refreshToken\": ...}")
	flags.StringVar(&c.opts.tokenURL, "token-url", "", "OAuth2 token endpoint used for the refresh_token grant instead of --refresh-url")
	flags.Var(c.opts.headers, "header", "Extra header as key=value, repeatable")
	flags.DurationVar(&c.opts.timeout, "timeout", 0, "Request timeout")
	flags.Float64Var(&c.opts.rate, "rate", 0, "Maximum requests per second, 0 for no limit")
	flags.BoolVar(&c.opts.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&c.opts.logJSON, "log-json", false, "Log JSON lines through zap instead of text")
	flags.BoolVar(&c.opts.metrics, "metrics", false, "Print collected metrics to stderr when the command succeeds")

	rootCmd.AddCommand(
		c.newRequestCommand("GET"),
		c.newRequestCommand("POST"),
		c.newRequestCommand("PUT"),
		c.newRequestCommand("DELETE"),
		c.newDownloadCommand(),
		c.newUploadCommand(),
		c.newSessionCommand(),
	)
	return rootCmd
}
