package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/callbridge/call"
	"github.com/kbukum/callbridge/component"
	"github.com/kbukum/callbridge/httpclient"
	"github.com/kbukum/callbridge/logger"
)

// errFetchFailed is returned after per-URL failures have been reported.
var errFetchFailed = errors.New("fetch failed")

const telemetryFlushTimeout = 5 * time.Second

type fetchOptions struct {
	timeout   time.Duration
	parallel  int
	headers   []string
	method    string
	data      string
	printBody bool
	fail      bool
}

type fetchResult struct {
	url  string
	resp *httpclient.Response
	err  error
}

func newFetchCommand(a *app) *cobra.Command {
	var o fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch URL...",
		Short: "Fetch one or more URLs concurrently",
		Example: `  callbridge fetch https://example.com/a https://example.com/b
  callbridge fetch --parallel 8 -H "Authorization=Bearer $TOKEN" /v1/items /v1/users
  callbridge fetch -X POST -d '{"name":"x"}' --body https://api.example.com/items`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.parallel < 1 {
				return fmt.Errorf("--parallel must be at least 1, got %d", o.parallel)
			}
			headers, err := parseHeaders(o.headers)
			if err != nil {
				return err
			}

			err = a.setup(cmd)
			defer func() {
				ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), telemetryFlushTimeout)
				defer cancel()
				if terr := a.teardown(ctx); terr != nil && a.log != nil {
					a.log.Warn("telemetry flush failed", logger.ErrorFields("teardown", terr))
				}
			}()
			if err != nil {
				return err
			}

			return a.runFetch(cmd, o, headers, args)
		},
	}

	fs := cmd.Flags()
	fs.DurationVar(&o.timeout, "timeout", 0, "per-request timeout (default from config, 30s)")
	fs.IntVar(&o.parallel, "parallel", 4, "maximum concurrent fetches")
	fs.StringArrayVarP(&o.headers, "header", "H", nil, "request header as key=value (repeatable)")
	fs.StringVarP(&o.method, "method", "X", "GET", "HTTP method")
	fs.StringVarP(&o.data, "data", "d", "", "request body")
	fs.BoolVar(&o.printBody, "body", false, "print response bodies instead of status lines")
	fs.BoolVar(&o.fail, "fail", false, "treat non-2xx responses as failures")
	return cmd
}

func (a *app) runFetch(cmd *cobra.Command, o fetchOptions, headers map[string]string, urls []string) error {
	ctx := cmd.Context()

	httpCfg := a.cfg.HTTP
	if o.timeout > 0 {
		httpCfg.Timeout = o.timeout
	}

	client := httpclient.NewComponent(httpCfg).WithDispatcherOptions(a.dispatcherOptions()...)
	registry := component.NewRegistry()
	if err := registry.Register(client); err != nil {
		return err
	}
	if err := registry.StartAll(ctx); err != nil {
		return err
	}
	defer func() {
		if err := registry.StopAll(context.WithoutCancel(ctx)); err != nil {
			a.log.Warn("shutdown incomplete", logger.ErrorFields("stop", err))
		}
	}()

	tmpl := httpclient.Request{
		Method:  strings.ToUpper(o.method),
		Headers: headers,
	}
	if o.data != "" {
		tmpl.Body = o.data
	}

	results := fetchAll(ctx, client.Dispatcher(), tmpl, urls, o.parallel)
	return report(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, o)
}

// fetchAll runs one call per URL, at most parallel at a time, and keeps
// results in argument order. A failure never stops the other fetches.
func fetchAll(ctx context.Context, d *httpclient.Dispatcher, tmpl httpclient.Request, urls []string, parallel int) []fetchResult {
	results := make([]fetchResult, len(urls))

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, u := range urls {
		g.Go(func() error {
			req := tmpl
			req.Path = u
			resp, err := call.Execute[*httpclient.Response](ctx, d.NewCall(ctx, req), call.WithCancelOnDone())
			results[i] = fetchResult{url: u, resp: resp, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// report prints a status line or body per success on stdout and an error
// envelope per failure on stderr.
func report(stdout, stderr io.Writer, results []fetchResult, o fetchOptions) error {
	enc := json.NewEncoder(stderr)
	failed := 0
	for _, r := range results {
		err := r.err
		if err == nil && o.fail {
			err = r.resp.Err()
		}
		if err != nil {
			failed++
			appErr := httpclient.ToAppError(hostOf(r.url), err).WithDetail("url", r.url)
			if encErr := enc.Encode(appErr.ToResponse()); encErr != nil {
				return encErr
			}
			continue
		}

		if o.printBody {
			if _, err := stdout.Write(r.resp.Body); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(stdout, "%d %s %d\n", r.resp.StatusCode, r.url, len(r.resp.Body)); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errFetchFailed, failed, len(results))
	}
	return nil
}

// parseHeaders turns repeated key=value flags into a header map.
// "key: value" is accepted too.
func parseHeaders(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok {
			key, value, ok = strings.Cut(v, ":")
		}
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q, want key=value", v)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}

func hostOf(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	return serviceName
}
