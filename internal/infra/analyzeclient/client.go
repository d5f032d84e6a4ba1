package analyzeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/intake"
	"github.com/bryanwahyu/cv-analyzer/internal/infra/extract"
	"github.com/bryanwahyu/cv-analyzer/internal/schemas"
)

// DefaultEndpoint of the analysis service
const DefaultEndpoint = "http://localhost:8000/api/analyze"

// Client talks to the analysis service. One attempt per call, no retry.
type Client struct {
	HTTP     *http.Client
	Endpoint string
}

func New(endpoint string, httpClient *http.Client) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{HTTP: httpClient, Endpoint: endpoint}
}

type textRequest struct {
	Text string `json:"text"`
}

// ReadText reads the whole file as text. Empty or whitespace-only text is a ValidationError.
func ReadText(f *intake.SelectedFile) (string, error) {
	data, err := f.Read()
	if err != nil {
		return "", &analysis.ValidationError{Message: analysis.MsgUnreadableText, Cause: err}
	}
	text, err := extract.Text(f.BaseMediaType(), data)
	if err != nil {
		return "", &analysis.ValidationError{Message: analysis.MsgUnreadableText, Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &analysis.ValidationError{Message: analysis.MsgUnreadableText}
	}
	return text, nil
}

// Analyze reads f, submits its text and returns the parsed result.
func (c *Client) Analyze(ctx context.Context, f *intake.SelectedFile) (*analysis.Result, error) {
	if f == nil {
		return nil, errors.New("no file selected")
	}
	text, err := ReadText(f)
	if err != nil {
		return nil, err
	}
	return c.AnalyzeText(ctx, text)
}

// AnalyzeText submits already extracted text.
func (c *Client) AnalyzeText(ctx context.Context, text string) (*analysis.Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &analysis.ValidationError{Message: analysis.MsgUnreadableText}
	}
	body, err := c.do(ctx, http.MethodPost, c.Endpoint, textRequest{Text: text})
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateAnalysisResult(body); err != nil {
		return nil, &analysis.MalformedResponseError{Cause: err}
	}
	var res analysis.Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &analysis.MalformedResponseError{Cause: err}
	}
	return &res, nil
}

// RewriteSummary calls POST /api/rewrite-summary next to the analyze endpoint.
func (c *Client) RewriteSummary(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &analysis.ValidationError{Message: "Summary text is empty."}
	}
	endpoint, err := c.sibling("rewrite-summary", nil)
	if err != nil {
		return "", err
	}
	body, err := c.do(ctx, http.MethodPost, endpoint, textRequest{Text: text})
	if err != nil {
		return "", err
	}
	var out struct {
		Rewritten *string `json:"rewritten"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &analysis.MalformedResponseError{Cause: err}
	}
	if out.Rewritten == nil {
		return "", &analysis.MalformedResponseError{Cause: errors.New("rewritten missing")}
	}
	return *out.Rewritten, nil
}

// History calls GET /api/history next to the analyze endpoint, newest first.
func (c *Client) History(ctx context.Context, limit int) ([]*analysis.Result, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	endpoint, err := c.sibling("history", q)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &analysis.MalformedResponseError{Cause: err}
	}
	out := make([]*analysis.Result, 0, len(raw))
	for i, item := range raw {
		if err := schemas.ValidateAnalysisResult(item); err != nil {
			return nil, &analysis.MalformedResponseError{Cause: fmt.Errorf("item %d: %w", i, err)}
		}
		var res analysis.Result
		if err := json.Unmarshal(item, &res); err != nil {
			return nil, &analysis.MalformedResponseError{Cause: fmt.Errorf("item %d: %w", i, err)}
		}
		out = append(out, &res)
	}
	return out, nil
}

// sibling resolves another /api route relative to the analyze endpoint.
func (c *Client) sibling(name string, q url.Values) (string, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	ref := &url.URL{Path: name}
	if q != nil {
		ref.RawQuery = q.Encode()
	}
	return u.ResolveReference(ref).String(), nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &analysis.TransportError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &analysis.TransportError{Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// the body is the message as sent; blank bodies fall back
		msg := string(body)
		if strings.TrimSpace(msg) == "" {
			msg = analysis.MsgAnalysisFailed
		}
		return nil, &analysis.ServerError{StatusCode: resp.StatusCode, Message: msg}
	}
	return body, nil
}
