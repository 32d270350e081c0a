// Package api implements service.Service against the scheduler REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"scheduler-cli/internal/model"
	"scheduler-cli/internal/service"
)

const (
	// DefaultTimeout bounds a single API call.
	DefaultTimeout = 5 * time.Second

	// completeAllParallelism caps in-flight PUTs during CompleteAllTasks.
	completeAllParallelism = 4

	AuthRaw    = "raw"
	AuthBearer = "bearer"
)

var (
	ErrUnauthorized = errors.New("token expired or revoked")
	ErrNotFound     = errors.New("not found")
	ErrTimeout      = errors.New("request timed out")
)

// Error is a non-success reply from the API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

type Options struct {
	BaseURL    string
	Token      string
	AuthScheme string // raw|bearer
	Timeout    time.Duration
	// HTTPClient overrides the transport (tests). Auth is layered on top of it.
	HTTPClient *http.Client
}

var _ service.Service = (*Client)(nil)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// New builds a client. The token is attached to every request as configured by AuthScheme.
func New(ctx context.Context, opt Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opt.BaseURL), "/")
	if base == "" {
		return nil, errors.New("api: missing base url (set api.url)")
	}
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := opt.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	if tok := strings.TrimSpace(opt.Token); tok != "" {
		switch strings.ToLower(strings.TrimSpace(opt.AuthScheme)) {
		case "", AuthRaw:
			hc = &http.Client{
				Transport: rawTokenTransport{token: tok, base: hc.Transport},
				Timeout:   hc.Timeout,
			}
		case AuthBearer:
			ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
			hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}))
		default:
			return nil, fmt.Errorf("api: unknown auth scheme: %s", opt.AuthScheme)
		}
	}

	return &Client{baseURL: base, http: hc, timeout: timeout}, nil
}

// rawTokenTransport sends the token verbatim in the Authorization header.
type rawTokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t rawTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", t.token)
	return base.RoundTrip(r)
}

type envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// FetchTasks implements service.Service.
func (c *Client) FetchTasks(ctx context.Context) ([]model.Task, error) {
	var out envelope[[]model.Task]
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, http.StatusOK, &out); err != nil {
		return nil, fmt.Errorf("fetch tasks: %w", err)
	}
	return out.Data, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, message string) (model.Task, error) {
	var out envelope[model.Task]
	body := map[string]string{"message": message}
	if err := c.do(ctx, http.MethodPost, c.baseURL, body, http.StatusOK, &out); err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	return out.Data, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, task model.Task) (model.Task, error) {
	var out envelope[[]model.Task]
	if err := c.do(ctx, http.MethodPut, c.baseURL, []model.Task{task}, http.StatusOK, &out); err != nil {
		return model.Task{}, fmt.Errorf("update task %s: %w", task.ID, err)
	}
	if len(out.Data) == 0 {
		return model.Task{}, fmt.Errorf("update task %s: empty reply", task.ID)
	}
	return out.Data[0], nil
}

// RemoveTask implements service.Service.
func (c *Client) RemoveTask(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("remove task: missing id")
	}
	if err := c.do(ctx, http.MethodDelete, c.baseURL+"/"+id, nil, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("remove task %s: %w", id, err)
	}
	return nil
}

// CompleteAllTasks implements service.Service. One PUT per task, bounded concurrency.
func (c *Client) CompleteAllTasks(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	out := make([]model.Task, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(completeAllParallelism)
	for i := range tasks {
		i := i
		g.Go(func() error {
			u, err := c.UpdateTask(gctx, tasks[i])
			if err != nil {
				return err
			}
			out[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("complete all: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, url string, in any, wantStatus int, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return wrapError(err)
	}
	if resp.StatusCode != wantStatus {
		apiErr := &Error{Status: resp.StatusCode}
		var env envelope[json.RawMessage]
		if json.Unmarshal(b, &env) == nil {
			apiErr.Message = env.Message
		}
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	return nil
}

// wrapError maps transport failures to sentinel errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}
