// Package rest implements ArrayClient against a PowerStore-style REST API.
package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/ratelimit"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/olusolaa/arrayctl/internal/core/domain"
	"github.com/olusolaa/arrayctl/internal/core/ports"
	"github.com/olusolaa/arrayctl/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var _ ports.ArrayClient = (*Client)(nil)

type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retryer    *retry.Standard
	managed    map[domain.ResourceKind][]string
	logger     ports.Logger
}

func NewClient(cfg Config, logger ports.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New(errors.CodeInternal, "rest client requires a logger")
	}
	cfg = cfg.withDefaults()

	baseURL, err := resolveBaseURL(cfg.Endpoint)
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeConfigValidation,
			fmt.Sprintf("invalid array endpoint %q", cfg.Endpoint), "Set array.endpoint to a host or https:// URL.")
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: !cfg.VerifyCert,
		MinVersion:         tls.VersionTLS12,
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	retryer := retry.NewStandard(func(o *retry.StandardOptions) {
		o.MaxAttempts = cfg.ReadRetries + 1
		o.MaxBackoff = cfg.MaxRetryBackoff
		o.RateLimiter = ratelimit.None
		o.Retryables = []retry.IsErrorRetryable{
			retry.NoRetryCanceledError{},
			retry.IsErrorRetryableFunc(func(err error) aws.Ternary {
				return aws.BoolTernary(errors.Retryable(err))
			}),
		}
	})

	managed := make(map[domain.ResourceKind][]string)
	for kind, p := range domain.DefaultPolicies() {
		managed[kind] = p.FieldNames()
	}

	return &Client{
		cfg:        cfg,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout, Transport: transport},
		limiter:    rate.NewLimiter(limit, burst),
		retryer:    retryer,
		managed:    managed,
		logger:     logger.WithFields(map[string]any{"array": baseURL}),
	}, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	if t, ok := c.httpClient.Transport.(interface{ CloseIdleConnections() }); ok {
		t.CloseIdleConnections()
	}
}

func (c *Client) GetResource(ctx context.Context, kind domain.ResourceKind, key domain.ResourceKey) (*domain.CurrentState, error) {
	res, err := c.resourceFor(kind)
	if err != nil {
		return nil, err
	}
	query := url.Values{"select": {strings.Join(res.selectList(c.managed[kind]), ",")}}

	if key.ID != "" {
		var attrs map[string]any
		status, err := c.do(ctx, http.MethodGet, res.path+"/"+url.PathEscape(key.ID), query, nil, &attrs)
		if err != nil {
			var apiErr *APIError
			if stderrors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
				return nil, nil
			}
			return nil, err
		}
		if status == http.StatusNoContent || attrs == nil {
			return nil, nil
		}
		return res.fromWire(kind, c.managed[kind], attrs), nil
	}

	if !res.named {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("%s can only be looked up by id", kind))
	}
	query.Set("name", "eq."+key.Name)
	var matches []map[string]any
	if _, err := c.do(ctx, http.MethodGet, res.path, query, nil, &matches); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return res.fromWire(kind, c.managed[kind], matches[0]), nil
	default:
		return nil, errors.New(errors.CodeValidation,
			fmt.Sprintf("%d %s resources are named '%s'", len(matches), kind, key.Name))
	}
}

func (c *Client) CreateResource(ctx context.Context, kind domain.ResourceKind, fields map[string]any) (domain.ApplyResult, error) {
	res, err := c.resourceFor(kind)
	if err != nil {
		return domain.ApplyResult{}, err
	}
	var created struct {
		ID string `json:"id"`
	}
	status, err := c.do(ctx, http.MethodPost, res.path, c.asyncQuery(), res.toWire(fields), &created)
	if err != nil {
		return domain.ApplyResult{}, err
	}
	return c.mutationResult(status, created.ID), nil
}

func (c *Client) ModifyResource(ctx context.Context, kind domain.ResourceKind, key domain.ResourceKey, changed map[string]any) (domain.ApplyResult, error) {
	res, id, err := c.resolveID(ctx, kind, key)
	if err != nil {
		return domain.ApplyResult{}, err
	}
	var accepted struct {
		ID string `json:"id"`
	}
	status, err := c.do(ctx, http.MethodPatch, res.path+"/"+url.PathEscape(id), c.asyncQuery(), res.toWire(changed), &accepted)
	if err != nil {
		return domain.ApplyResult{}, err
	}
	return c.mutationResult(status, accepted.ID), nil
}

func (c *Client) DeleteResource(ctx context.Context, kind domain.ResourceKind, key domain.ResourceKey) (domain.ApplyResult, error) {
	res, id, err := c.resolveID(ctx, kind, key)
	if err != nil {
		return domain.ApplyResult{}, err
	}
	var accepted struct {
		ID string `json:"id"`
	}
	status, err := c.do(ctx, http.MethodDelete, res.path+"/"+url.PathEscape(id), c.asyncQuery(), nil, &accepted)
	if err != nil {
		return domain.ApplyResult{}, err
	}
	return c.mutationResult(status, accepted.ID), nil
}

type jobResponse struct {
	ID                 string         `json:"id"`
	State              string         `json:"state"`
	ProgressPercentage int            `json:"progress_percentage"`
	ResourceType       string         `json:"resource_type"`
	ResourceID         string         `json:"resource_id"`
	Error              map[string]any `json:"error"`
}

func (c *Client) GetJob(ctx context.Context, jobID string) (domain.JobRecord, error) {
	query := url.Values{"select": {"id,state,progress_percentage,resource_type,resource_id,error"}}
	var job jobResponse
	if _, err := c.do(ctx, http.MethodGet, "job/"+url.PathEscape(jobID), query, nil, &job); err != nil {
		return domain.JobRecord{}, err
	}

	rec := domain.JobRecord{
		ID:         job.ID,
		Phase:      jobPhase(job.State),
		Progress:   job.ProgressPercentage,
		ResourceID: job.ResourceID,
	}
	if rec.ID == "" {
		rec.ID = jobID
	}
	for kind, res := range resources {
		if res.path == job.ResourceType {
			rec.ResourceKind = kind
		}
	}
	if rec.Phase == domain.JobFailed {
		rec.Error = &domain.JobError{Payload: job.Error}
		if job.Error != nil {
			rec.Error.Code, _ = job.Error["code"].(string)
			rec.Error.Message, _ = job.Error["message_l10n"].(string)
		}
	}
	return rec, nil
}

// jobPhase folds the array's job states onto JobPhase. Cancelled jobs did
// not do their work, so they count as failed.
func jobPhase(state string) domain.JobPhase {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "QUEUED", "SCHEDULED", "PENDING":
		return domain.JobPending
	case "RUNNING", "IN_PROGRESS", "CANCELLING":
		return domain.JobRunning
	case "COMPLETED":
		return domain.JobCompleted
	case "FAILED", "UNRECOVERABLE_FAILED", "CANCELLED":
		return domain.JobFailed
	default:
		return domain.JobPhase(state)
	}
}

func (c *Client) resourceFor(kind domain.ResourceKind) (resource, error) {
	res, ok := resources[kind]
	if !ok {
		return resource{}, errors.New(errors.CodeUnsupportedOperation, fmt.Sprintf("kind %s is not exposed by the REST API", kind))
	}
	return res, nil
}

// resolveID turns a name-only key into the id the mutation endpoints need.
func (c *Client) resolveID(ctx context.Context, kind domain.ResourceKind, key domain.ResourceKey) (resource, string, error) {
	res, err := c.resourceFor(kind)
	if err != nil {
		return resource{}, "", err
	}
	if key.ID != "" {
		return res, key.ID, nil
	}
	state, err := c.GetResource(ctx, kind, key)
	if err != nil {
		return resource{}, "", err
	}
	if state == nil {
		return resource{}, "", errors.New(errors.CodeNotFound, fmt.Sprintf("%s %s not found", kind, key))
	}
	return res, state.Key.ID, nil
}

func (c *Client) asyncQuery() url.Values {
	if !c.cfg.Async {
		return nil
	}
	return url.Values{"is_async": {"true"}}
}

// mutationResult maps a 202 onto a job handle. Other successes are bare
// acknowledgements; the caller re-reads the resource.
func (c *Client) mutationResult(status int, id string) domain.ApplyResult {
	if status == http.StatusAccepted && id != "" {
		return domain.ApplyResult{Job: &domain.JobHandle{ID: id}}
	}
	return domain.ApplyResult{}
}

// do sends one request. GETs are retried on transient failures; other
// methods are attempted exactly once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) (int, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return 0, errors.Wrap(err, errors.CodeValidation, fmt.Sprintf("encode %s %s body", method, path))
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = c.retryer.MaxAttempts()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		status, err := c.once(ctx, method, path, query, payload, out)
		if err == nil {
			return status, nil
		}
		lastErr = err
		if attempt == attempts || !c.retryer.IsErrorRetryable(err) {
			break
		}
		delay, derr := c.retryer.RetryDelay(attempt, err)
		if derr != nil {
			break
		}
		c.logger.Debugf(ctx, "Retrying %s %s in %s after: %v", method, path, delay, err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, ctx.Err()
		case <-timer.C:
		}
	}
	return 0, lastErr
}

func (c *Client) once(ctx context.Context, method, path string, query url.Values, payload []byte, out any) (status int, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	endpoint := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Username != "" || c.cfg.Password != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	c.logger.Debugf(ctx, "%s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close response body for %s %s: %w", method, path, closeErr)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if readErr != nil {
			return resp.StatusCode, fmt.Errorf("read error body for %s %s: %w", method, path, readErr)
		}
		return resp.StatusCode, newAPIError(resp.StatusCode, method, path, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes+1))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response for %s %s: %w", method, path, err)
	}
	if int64(len(data)) > maxResponseBodyBytes {
		return resp.StatusCode, fmt.Errorf("response for %s %s exceeds %d bytes", method, path, maxResponseBodyBytes)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, errors.Wrap(err, errors.CodeTransport, fmt.Sprintf("decode response for %s %s", method, path))
	}
	return resp.StatusCode, nil
}

func resolveBaseURL(endpoint string) (string, error) {
	raw := strings.TrimSpace(endpoint)
	if raw == "" {
		return "", fmt.Errorf("endpoint is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("endpoint %q has no host", endpoint)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.User != nil {
		return "", fmt.Errorf("credentials belong in array.username and array.password")
	}
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		path = "/api/rest"
	}
	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, path), nil
}
