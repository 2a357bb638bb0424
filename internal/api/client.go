// Package api talks to the recorder backend: the worklist page, the
// addPrograms, command and editKeywords endpoints, and the JSON results they
// return.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"recworklist/internal/log"
	"recworklist/internal/page"
	"recworklist/internal/tracing"
)

// Endpoint paths, relative to the base URL.
const (
	EndpointAddPrograms  = "addPrograms.cgi"
	EndpointCommand      = "command.cgi"
	EndpointEditKeywords = "editKeywords.cgi"
	EndpointEditProgram  = "editProgram.cgi"

	DefaultPage    = "WwwRecorder.cgi"
	DefaultTimeout = 30 * time.Second

	// HeaderRequestID carries the per-call request id.
	HeaderRequestID = "X-Request-Id"
)

// Command is a bulk operation on the selected programs.
type Command string

const (
	CommandRetry  Command = "Retry"
	CommandAbort  Command = "Abort"
	CommandRemove Command = "Remove"
)

// Commands lists the bulk commands in menu order.
var Commands = []Command{CommandRetry, CommandAbort, CommandRemove}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	switch c {
	case CommandRetry, CommandAbort, CommandRemove:
		return true
	}
	return false
}

// KeywordCommand is an editKeywords operation.
type KeywordCommand string

const (
	KeywordAdd    KeywordCommand = "Add"
	KeywordRemove KeywordCommand = "Remove"
)

var (
	// ErrNoPrograms is returned when an add request has no URIs.
	ErrNoPrograms = errors.New("api: no program uris")

	// ErrNoSelection is returned when a command has no program ids.
	ErrNoSelection = errors.New("api: no programs selected")
)

// StatusError is returned for HTTP responses with status >= 400.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: %s failed (%s)", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("api: %s failed (%s): %s", e.Endpoint, e.Status, e.Body)
}

// Config describes the backend client.
type Config struct {
	BaseURL    string
	Page       string
	Timeout    time.Duration
	HTTPClient *http.Client
	Tracer     trace.Tracer
}

// Client calls the recorder backend. Every call is bounded by the configured
// timeout.
type Client struct {
	base    *url.URL
	page    string
	timeout time.Duration
	http    *http.Client
	tracer  trace.Tracer
	newID   func() string
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errors.New("api: base url is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: base url %q must be absolute", base)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/"

	pg := strings.TrimSpace(cfg.Page)
	if pg == "" {
		pg = DefaultPage
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = cleanhttp.DefaultPooledClient()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer("recworklist/api")
	}

	return &Client{
		base:    u,
		page:    pg,
		timeout: timeout,
		http:    hc,
		tracer:  tracer,
		newID:   func() string { return uuid.New().String() },
	}, nil
}

// Response describes one completed backend call.
type Response struct {
	RequestID string
	Endpoint  string
	Status    int
	Duration  time.Duration
	Result    Result
}

// FetchPage loads and parses the worklist page. sortBy is sent as the
// SortBy query parameter when non-empty.
func (c *Client) FetchPage(ctx context.Context, sortBy string) (*page.Page, error) {
	q := url.Values{}
	if sortBy != "" {
		q.Set("SortBy", sortBy)
	}
	body, _, err := c.get(ctx, c.page, q)
	if err != nil {
		return nil, err
	}
	p, err := page.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	return p, nil
}

// FetchKeywords loads the keyword editor page and returns its keyword list.
func (c *Client) FetchKeywords(ctx context.Context) ([]page.Keyword, error) {
	body, _, err := c.get(ctx, EndpointEditKeywords, nil)
	if err != nil {
		return nil, err
	}
	kws, err := page.ParseKeywords(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	return kws, nil
}

// SplitURIs splits a textarea value into URIs, dropping blank lines.
func SplitURIs(text string) []string {
	var uris []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			uris = append(uris, line)
		}
	}
	return uris
}

// AddPrograms submits new program URIs.
func (c *Client) AddPrograms(ctx context.Context, provider string, uris []string) (Response, error) {
	if len(uris) == 0 {
		return Response{Endpoint: EndpointAddPrograms}, ErrNoPrograms
	}
	return c.post(ctx, EndpointAddPrograms, []field{
		{"ProgramUris", strings.Join(uris, "\n")},
		{"Provider", provider},
	})
}

// CommandRequest is a bulk command on the selected programs.
type CommandRequest struct {
	Command    Command
	ProgramIDs []string
	Provider   string
	SortBy     string
}

// Command runs a bulk command. Program ids are sent in the given order.
func (c *Client) Command(ctx context.Context, req CommandRequest) (Response, error) {
	if !req.Command.Valid() {
		return Response{Endpoint: EndpointCommand}, fmt.Errorf("api: unknown command %q", req.Command)
	}
	if len(req.ProgramIDs) == 0 {
		return Response{Endpoint: EndpointCommand}, ErrNoSelection
	}
	fields := make([]field, 0, len(req.ProgramIDs)+3)
	for _, id := range req.ProgramIDs {
		fields = append(fields, field{"ProgramId", id})
	}
	fields = append(fields,
		field{"Command", string(req.Command)},
		field{"Provider", req.Provider},
		field{"SortBy", req.SortBy},
	)
	return c.post(ctx, EndpointCommand, fields)
}

// EditKeywords adds or removes a recording keyword. not is ignored for
// KeywordRemove.
func (c *Client) EditKeywords(ctx context.Context, cmd KeywordCommand, key, not string) (Response, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Response{Endpoint: EndpointEditKeywords}, errors.New("api: keyword is required")
	}
	switch cmd {
	case KeywordAdd:
		not = strings.TrimSpace(not)
	case KeywordRemove:
		not = ""
	default:
		return Response{Endpoint: EndpointEditKeywords}, fmt.Errorf("api: unknown keyword command %q", cmd)
	}
	return c.post(ctx, EndpointEditKeywords, []field{
		{"Command", string(cmd)},
		{"Key", key},
		{"Not", not},
	})
}

// EditProgramURL returns the program editor URL for a row.
func (c *Client) EditProgramURL(provider, id string) string {
	u := c.base.JoinPath(EndpointEditProgram)
	q := url.Values{}
	q.Set("Provider", provider)
	q.Set("ID", id)
	u.RawQuery = q.Encode()
	return u.String()
}

// PageURL returns the worklist page URL.
func (c *Client) PageURL() string {
	return c.base.JoinPath(c.page).String()
}

type field struct {
	name, value string
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values) ([]byte, int, error) {
	u := c.base.JoinPath(endpoint)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requestID := c.newID()
	ctx, span := c.tracer.Start(ctx, tracing.SpanPrefixAPI+"get "+endpoint, trace.WithAttributes(
		attribute.String(tracing.AttrAPIEndpoint, endpoint),
		attribute.String(tracing.AttrAPIRequestID, requestID),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fail(span, fmt.Errorf("api: build %s request: %w", endpoint, err))
	}
	req.Header.Set(HeaderRequestID, requestID)

	body, status, err := c.do(req, endpoint)
	span.SetAttributes(attribute.Int(tracing.AttrHTTPStatus, status))
	if err != nil {
		return nil, status, fail(span, err)
	}
	log.Debug(log.CatAPI, "Fetched", "endpoint", endpoint, "status", status, "bytes", len(body), "requestID", requestID)
	return body, status, nil
}

func (c *Client) post(ctx context.Context, endpoint string, fields []field) (Response, error) {
	resp := Response{RequestID: c.newID(), Endpoint: endpoint}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, tracing.SpanPrefixAPI+"post "+endpoint, trace.WithAttributes(
		attribute.String(tracing.AttrAPIEndpoint, endpoint),
		attribute.String(tracing.AttrAPIRequestID, resp.RequestID),
		attribute.Int(tracing.AttrAPIFieldCount, len(fields)),
	))
	defer span.End()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return resp, fail(span, fmt.Errorf("api: write %s field: %w", f.name, err))
		}
	}
	if err := writer.Close(); err != nil {
		return resp, fail(span, fmt.Errorf("api: close multipart writer: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base.JoinPath(endpoint).String(), body)
	if err != nil {
		return resp, fail(span, fmt.Errorf("api: build %s request: %w", endpoint, err))
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, resp.RequestID)

	payload, status, err := c.do(req, endpoint)
	resp.Status = status
	resp.Duration = time.Since(start)
	span.SetAttributes(attribute.Int(tracing.AttrHTTPStatus, status))
	if err != nil {
		log.Warn(log.CatAPI, "Request failed", "endpoint", endpoint, "requestID", resp.RequestID, "error", err)
		return resp, fail(span, err)
	}

	result, err := ParseResult(payload)
	if err != nil {
		return resp, fail(span, fmt.Errorf("api: %s: %w", endpoint, err))
	}
	resp.Result = result

	log.Info(log.CatAPI, "Result", "endpoint", endpoint, "requestID", resp.RequestID, "duration", resp.Duration, "result", result.Summary())
	return resp, nil
}

func (c *Client) do(req *http.Request, endpoint string) ([]byte, int, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("api: %s request failed: %w", endpoint, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, res.StatusCode, &StatusError{
			Endpoint:   endpoint,
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, fmt.Errorf("api: read %s response: %w", endpoint, err)
	}
	return body, res.StatusCode, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String(tracing.AttrErrorMessage, err.Error()))
	return err
}
