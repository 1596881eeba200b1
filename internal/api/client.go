// Package api is the single choke point for all Next Level backend calls.
// It builds requests against the configured base URL, injects bearer-token
// and active-tenant context, normalizes success and failure shapes, and
// surfaces every failure as one error kind (*domain.RequestError).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nextlevel/nl-console-go/internal/domain"
	"github.com/nextlevel/nl-console-go/internal/infra/observability"
	"github.com/nextlevel/nl-console-go/internal/infra/resilience"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("api")

// SessionContext supplies the per-request auth and tenant state.
// *session.Store implements it.
type SessionContext interface {
	Token() string
	ActiveCompanyID() string
}

// Client wraps HTTP calls to the Next Level backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	policy     Policy
	session    SessionContext
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates a backend client. baseURL may carry a trailing
// slash; it is trimmed once here so path joining stays uniform.
func NewClient(httpClient *http.Client, baseURL string, policy Policy, session SessionContext, cb *gobreaker.CircuitBreaker, cfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		policy:     policy,
		session:    session,
		cb:         cb,
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// Get performs a GET request and returns the normalized payload.
func (c *Client) Get(ctx context.Context, path string) (Payload, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (Payload, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Patch performs a PATCH request with an optional JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (Payload, error) {
	return c.Do(ctx, http.MethodPatch, path, body)
}

// Do performs a request and normalizes the response. All failure paths
// (precondition, transport, non-2xx, business failure inside a 2xx
// payload, parse error) come back as *domain.RequestError.
func (c *Client) Do(ctx context.Context, method, path string, body any) (Payload, error) {
	ctx, span := tracer.Start(ctx, "Client."+method)
	defer span.End()
	span.SetAttributes(attribute.String("http.path", path))

	start := time.Now()
	defer func() {
		c.metrics.RecordRequestDuration(method+" "+c.policy.normalizePath(path), time.Since(start))
	}()
	c.metrics.IncrRequest(method)

	reqURL, reqBody, err := c.buildRequest(method, path, body)
	if err != nil {
		return Payload{}, err
	}

	status, raw, err := c.execute(ctx, method, path, reqURL, reqBody)
	if err != nil {
		return Payload{}, err
	}

	payload, err := decodePayload(raw)
	if err != nil {
		c.metrics.IncrFailure("parse")
		c.logger.Warn("api: malformed response body",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
		return Payload{}, domain.NewRequestError("invalid response from server", status, err)
	}

	if ferr := c.policy.Failure.check(payload, status); ferr != nil {
		c.metrics.IncrFailure("business")
		c.logger.Warn("api: business failure in 2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("message", ferr.Message),
		)
		return Payload{}, ferr
	}

	c.logger.Debug("api: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
	)
	return payload, nil
}

// Download performs the same header/tenant logic as Do but returns the
// raw binary payload, for file export use cases.
func (c *Client) Download(ctx context.Context, path string) (*domain.Download, error) {
	ctx, span := tracer.Start(ctx, "Client.Download")
	defer span.End()
	span.SetAttributes(attribute.String("http.path", path))

	reqURL, _, err := c.buildRequest(http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	c.metrics.IncrRequest(http.MethodGet)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, domain.NewRequestError("request failed", 0, err)
	}
	c.setHeaders(req, false)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.IncrFailure("transport")
		c.logger.Error("api: download failed", zap.String("path", path), zap.Error(err))
		return nil, domain.NewRequestError(fmt.Sprintf("request failed: %v", err), 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncrFailure("transport")
		return nil, domain.NewRequestError("request failed: could not read response", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncrFailure("http")
		c.logger.Warn("api: download non-2xx",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, httpError(resp.StatusCode, data, c.policy.Failure)
	}

	return &domain.Download{
		Filename:    attachmentFilename(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// buildRequest resolves the absolute URL, applies the tenant precondition,
// and injects the tenant id as a query parameter (GET/HEAD) or into the
// JSON object body (other methods).
func (c *Client) buildRequest(method, path string, body any) (string, []byte, error) {
	normalized := c.policy.normalizePath(path)

	companyID := c.session.ActiveCompanyID()
	if companyID == "" && !c.policy.exempt(normalized) {
		c.metrics.IncrFailure("precondition")
		return "", nil, domain.ErrNoActiveCompany()
	}

	reqURL := c.baseURL + normalized
	if companyID != "" && (method == http.MethodGet || method == http.MethodHead) {
		sep := "?"
		if strings.Contains(reqURL, "?") {
			sep = "&"
		}
		reqURL += sep + c.policy.TenantQueryParam + "=" + url.QueryEscape(companyID)
	}

	var reqBody []byte
	if method != http.MethodGet && method != http.MethodHead {
		merged, err := mergeTenantBody(body, c.policy.TenantQueryParam, companyID)
		if err != nil {
			return "", nil, domain.NewRequestError("request failed: could not encode payload", 0, err)
		}
		reqBody = merged
	}

	return reqURL, reqBody, nil
}

// execute runs the network call behind the circuit breaker. Idempotent
// methods additionally retry with backoff; writes are never replayed.
func (c *Client) execute(ctx context.Context, method, path, reqURL string, reqBody []byte) (int, []byte, error) {
	var status int
	var raw []byte

	attempt := func() error {
		req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(reqBody))
		if err != nil {
			return domain.NewRequestError("request failed", 0, err)
		}
		c.setHeaders(req, len(reqBody) > 0)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("api: request failed",
				zap.String("method", method),
				zap.String("path", path),
				zap.Error(err),
			)
			return domain.NewRequestError(fmt.Sprintf("request failed: %v", err), 0, err)
		}
		defer resp.Body.Close()

		raw, err = io.ReadAll(resp.Body)
		if err != nil {
			return domain.NewRequestError("request failed: could not read response", resp.StatusCode, err)
		}
		status = resp.StatusCode

		if status < 200 || status >= 300 {
			c.logger.Warn("api: non-2xx response",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("status", status),
				zap.String("body", string(raw)),
			)
			return httpError(status, raw, c.policy.Failure)
		}
		return nil
	}

	_, err := c.cb.Execute(func() (any, error) {
		if method == http.MethodGet || method == http.MethodHead {
			return nil, resilience.RetryWithBackoff(ctx, c.cfg, attempt)
		}
		return nil, attempt()
	})
	if err != nil {
		if status >= 300 {
			c.metrics.IncrFailure("http")
		} else {
			c.metrics.IncrFailure("transport")
		}
		var reqErr *domain.RequestError
		if errors.As(err, &reqErr) {
			return 0, nil, reqErr
		}
		// breaker-open and context errors arrive unwrapped
		return 0, nil, domain.NewRequestError(fmt.Sprintf("request failed: %v", err), 0, err)
	}

	return status, raw, nil
}

// setHeaders attaches content type, bearer token, tenant header, and a
// correlation id to an outgoing request.
func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if companyID := c.session.ActiveCompanyID(); companyID != "" {
		req.Header.Set(c.policy.TenantHeader, companyID)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
}

// mergeTenantBody serializes the payload and merges the tenant id into
// the JSON object. Non-object payloads (arrays, strings) pass through
// untouched; a nil payload with a tenant becomes {"companyId": id}.
func mergeTenantBody(body any, field, companyID string) ([]byte, error) {
	if body == nil {
		if companyID == "" {
			return nil, nil
		}
		return json.Marshal(map[string]string{field: companyID})
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	if companyID == "" {
		return encoded, nil
	}

	var obj map[string]any
	if err := json.Unmarshal(encoded, &obj); err != nil {
		// not a JSON object; tenant travels in the header only
		return encoded, nil
	}
	obj[field] = companyID
	return json.Marshal(obj)
}

// attachmentFilename extracts the filename from a Content-Disposition
// header, or returns empty when absent or unparsable.
func attachmentFilename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
