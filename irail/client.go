package irail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/becodeorg/liveboard/parse"
)

const (
	DefaultBaseURL = "https://api.irail.be/liveboard/"
	DefaultTimeout = 30 * time.Second

	userAgent = "BeCodeAzureProject/1.0 (learning@becode.org)"

	// Only this much of an error response body is carried in the
	// error.
	maxErrorBody = 4 << 10
)

// Client fetches a station's liveboard from the iRail API.
type Client interface {
	Liveboard(ctx context.Context, station string) (*parse.Liveboard, error)
}

// HTTPClient is the production Client. One GET per call, no retries;
// surrounding infrastructure may retry the whole invocation.
type HTTPClient struct {
	BaseURL string

	client *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Liveboard(ctx context.Context, station string) (*parse.Liveboard, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	q := url.Values{}
	q.Set("station", station)
	q.Set("format", "json")
	q.Set("lang", "en")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, &Error{Kind: KindTimeout, Err: err}
		}
		return nil, &Error{Kind: KindUnavailable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &Error{
			Kind:   KindHTTPStatus,
			Status: resp.StatusCode,
			Body:   string(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindUnavailable, Err: err}
	}

	board, err := parse.ParseLiveboard(body)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Err: err}
	}

	return board, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
