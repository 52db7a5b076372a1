// internal/jobs/client.go
package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"shopbridge/pkg/config"
	"shopbridge/pkg/faults"
)

const maxRelayBody = 4 << 20

// Result carries a job function's raw response. The bridge relays status and
// body verbatim: job-level business failures are the caller's to interpret.
type Result struct {
	Status      int
	Body        []byte
	ContentType string
}

// Invoker is the dispatch boundary towards external job functions.
type Invoker interface {
	Invoke(ctx context.Context, function, token string, payload any) (Result, error)
}

type Client struct {
	baseURL string
	reg     *Registry
	http    *http.Client
	log     *zap.SugaredLogger
}

func NewClient(cfg config.Config, reg *Registry, log *zap.SugaredLogger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.JobsBaseURL, "/"),
		reg:     reg,
		http:    &http.Client{Timeout: cfg.JobTimeout},
		log:     log,
	}
}

// Invoke POSTs the payload to the named function with the scoped credential
// as a bearer token. A nil payload sends an empty JSON object.
func (c *Client) Invoke(ctx context.Context, function, token string, payload any) (Result, error) {
	fn, ok := c.reg.Lookup(function)
	if !ok {
		return Result{}, &faults.Fault{
			Type:            faults.ConfigurationError,
			Status:          http.StatusInternalServerError,
			Message:         "job function is not registered: " + function,
			Troubleshooting: "check JOBS_REGISTRY_FILE for a missing or misnamed entry",
		}
	}
	body := []byte("{}")
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Result{}, &faults.Fault{Type: faults.Unknown, Status: http.StatusInternalServerError, Message: "could not encode job payload"}
		}
		body = b
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+fn.Path, bytes.NewReader(body))
	if err != nil {
		return Result{}, &faults.Fault{Type: faults.Unknown, Status: http.StatusInternalServerError, Message: "could not build job request"}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warnw("job dispatch failed", "function", function, "err", err)
		return Result{}, &faults.Fault{
			Type:            faults.NetworkError,
			Status:          http.StatusServiceUnavailable,
			Message:         "could not reach the " + function + " job function",
			Troubleshooting: "verify JOBS_BASE_URL and that the function is deployed",
		}
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxRelayBody))
	if err != nil {
		return Result{}, &faults.Fault{Type: faults.NetworkError, Status: http.StatusServiceUnavailable, Message: "job response read failed"}
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/json"
	}
	return Result{Status: resp.StatusCode, Body: respBody, ContentType: ct}, nil
}
