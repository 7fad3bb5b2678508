package metadata

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codetrack/codetrack/pkg/model"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// DefaultEndpoint of the metadata service
const DefaultEndpoint = "http://localhost:3000"

const maxErrorBody = 4096

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Option for the metadata client
type Option func(*Client)

// HTTPClient to use for requests, defaults to a client with a 30s timeout
func HTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// Timeout for a single request
func Timeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// Logger for the client
func Logger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.l = l
		}
	}
}

// Client for the commit metadata service
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	l       *zap.Logger
}

// New metadata client, given the base URL of the service
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	base, err := url.Parse(strings.TrimSuffix(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid metadata service endpoint %q: %w", endpoint, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid metadata service endpoint %q: expect an http or https URL", endpoint)
	}

	c := &Client{
		base:    base,
		http:    &http.Client{},
		timeout: 30 * time.Second,
		l:       zap.NewNop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	return c, nil
}

func (c *Client) String() string {
	return c.base.String()
}

// commitResponse is returned by the service when a commit is recorded
type commitResponse struct {
	Commit *model.CommitRecord `json:"commit"`
}

// errorResponse is the body of a failed request
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RecordCommit appends a commit to the history of a repository
func (c *Client) RecordCommit(ctx context.Context, repoID string, req model.CommitRequest) (*model.CommitRecord, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var resp commitResponse
	if err := c.do(ctx, http.MethodPost, c.repoURL(repoID, "commit"), body, &resp); err != nil {
		return nil, err
	}
	if resp.Commit == nil {
		return nil, ErrInvalidResponse.Wrapf("missing commit in response")
	}
	return resp.Commit, nil
}

// History of commits recorded for a repository, in the order the service keeps them (oldest first)
func (c *Client) History(ctx context.Context, repoID string) (*model.History, error) {
	var history model.History
	if err := c.do(ctx, http.MethodGet, c.repoURL(repoID), nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

func (c *Client) repoURL(repoID string, elems ...string) string {
	u := *c.base
	u.Path = strings.Join(append([]string{u.Path, "repo", repoID}, elems...), "/")
	return u.String()
}

func (c *Client) do(ctx context.Context, method, target string, body []byte, result interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.l.Debug("metadata request", zap.String("method", method), zap.String("url", target))
	resp, err := c.http.Do(req)
	if err != nil {
		return ErrUnavailable.Wrap(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := readErrorMessage(resp)
		c.l.Debug("metadata request failed", zap.Int("status", resp.StatusCode), zap.String("message", msg))
		if resp.StatusCode == http.StatusNotFound {
			return ErrNotFound.Wrapf(msg)
		}
		return ErrAPI.Wrapf(fmt.Sprintf("%d %s", resp.StatusCode, msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return ErrInvalidResponse.Wrap(err)
	}
	return nil
}

func readErrorMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil {
		switch {
		case e.Error != "":
			return e.Error
		case e.Message != "":
			return e.Message
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
