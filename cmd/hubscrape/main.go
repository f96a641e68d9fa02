// Command hubscrape serves GitHub REST-shaped user and repository data scraped
// from public github.com pages.
//
// Usage:
//
//	hubscrape serve                 # listens on 0.0.0.0:$GITHUB_API_PORT (default 5000)
//	hubscrape user octocat          # prints one user record
//	hubscrape repos octocat --sort pushed
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/hubscrape/pkg/fetch"
	"github.com/codeGROOVE-dev/hubscrape/pkg/github"
	"github.com/codeGROOVE-dev/hubscrape/pkg/profile"
	"github.com/codeGROOVE-dev/hubscrape/pkg/server"
)

const (
	portEnv     = "GITHUB_API_PORT"
	defaultPort = 5000
	defaultHost = "0.0.0.0"
)

type options struct {
	debug       bool
	baseURL     string
	concurrency int
	rate        float64
	burst       int
	timeout     time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "hubscrape",
		Short:        "GitHub REST-compatible user and repository data without the API",
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.BoolVarP(&opts.debug, "debug", "v", false, "enable debug logging")
	f.StringVar(&opts.baseURL, "base-url", github.DefaultBaseURL, "site to scrape")
	f.IntVar(&opts.concurrency, "concurrency", 4, "repository pages fetched at once per listing")
	f.Float64Var(&opts.rate, "rate", 0, "outbound requests per second (0 = unlimited)")
	f.IntVar(&opts.burst, "burst", 1, "outbound request burst when --rate is set")
	f.DurationVar(&opts.timeout, "timeout", 15*time.Second, "per-request HTTP timeout")

	root.AddCommand(newServeCmd(opts), newUserCmd(opts), newReposCmd(opts))
	return root
}

func newServeCmd(opts *options) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /users/{username} and /users/{username}/repos over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := newLogger(cmd.ErrOrStderr(), opts.debug)

			if !cmd.Flags().Changed("port") {
				p, err := portFromEnv(os.Getenv(portEnv))
				if err != nil {
					return err
				}
				port = p
			}

			client, err := newClient(ctx, opts, logger)
			if err != nil {
				return err
			}
			srv := server.New(server.Config{Host: host, Port: port}, client, logger)
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&host, "host", defaultHost, "listen address")
	cmd.Flags().IntVar(&port, "port", defaultPort, "listen port (default from "+portEnv+")")
	return cmd
}

func newUserCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "user <username>",
		Short: "Print the REST user record for username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := newClient(ctx, opts, newLogger(cmd.ErrOrStderr(), opts.debug))
			if err != nil {
				return err
			}
			u, err := client.User(ctx, args[0])
			if err != nil {
				return err
			}
			return outputJSON(cmd.OutOrStdout(), u)
		},
	}
}

func newReposCmd(opts *options) *cobra.Command {
	var sort, direction string
	var perPage, page int

	cmd := &cobra.Command{
		Use:   "repos <username>",
		Short: "Print the REST repository records for username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			set := func(name, v string) {
				if cmd.Flags().Changed(name) {
					q.Set(name, v)
				}
			}
			set("sort", sort)
			set("direction", direction)
			set("per_page", strconv.Itoa(perPage))
			set("page", strconv.Itoa(page))
			lo, err := profile.ParseListOptions(q)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client, err := newClient(ctx, opts, newLogger(cmd.ErrOrStderr(), opts.debug))
			if err != nil {
				return err
			}
			repos, err := client.Repositories(ctx, args[0], lo)
			if err != nil {
				return err
			}
			return outputJSON(cmd.OutOrStdout(), repos)
		},
	}
	cmd.Flags().StringVar(&sort, "sort", string(profile.SortFullName), "full_name or pushed")
	cmd.Flags().StringVar(&direction, "direction", "", "asc or desc (default depends on --sort)")
	cmd.Flags().IntVar(&perPage, "per_page", profile.DefaultPerPage, "results per page")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newClient(ctx context.Context, opts *options, logger *slog.Logger) (*github.Client, error) {
	f := fetch.New(
		fetch.WithLogger(logger),
		fetch.WithTimeout(opts.timeout),
		fetch.WithRate(opts.rate, opts.burst),
	)
	return github.New(ctx,
		github.WithFetcher(f),
		github.WithLogger(logger),
		github.WithBaseURL(opts.baseURL),
		github.WithConcurrency(opts.concurrency),
	)
}

// portFromEnv parses the listen port from the environment value, falling back
// to the default when it is unset.
func portFromEnv(v string) (int, error) {
	if v == "" {
		return defaultPort, nil
	}
	p, err := strconv.Atoi(v)
	if err != nil || p < 1 || p > 65535 {
		return 0, fmt.Errorf("invalid %s %q", portEnv, v)
	}
	return p, nil
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
