package nbp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNoData is returned by a Transport when the upstream answers 404.
var ErrNoData = errors.New("no data for lookup")

// HTTPStatusError is returned for any non-200, non-404 response.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error %d from %s", e.StatusCode, e.URL)
}

// Transport performs a single GET and returns a well-formed JSON body.
// It returns ErrNoData on 404 and an error for network, status or parse failures.
type Transport interface {
	Get(ctx context.Context, url string, headers map[string]string, timeout time.Duration) ([]byte, error)
}

// HTTPTransport is the net/http implementation of Transport.
type HTTPTransport struct {
	Client *http.Client
}

// NewHTTPTransport returns a transport using a dedicated http.Client.
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{Client: &http.Client{}}
}

func (t *HTTPTransport) Get(ctx context.Context, url string, headers map[string]string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("malformed JSON from %s", url)
	}
	return body, nil
}
