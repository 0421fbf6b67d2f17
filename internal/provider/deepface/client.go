package deepface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config holds the DeepFace connection settings.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Model    string
	Detector string

	// Normalize scales every embedding to unit length before it is returned.
	Normalize bool

	// RetryCount is the number of extra attempts after a transport failure
	// or a 5xx answer. RetryWait is the pause before the first of them and
	// doubles on each further attempt, up to maxRetryWait.
	RetryCount int
	RetryWait  time.Duration
}

// DefaultConfig targets a local DeepFace container with the Dlib model, whose
// 128-d descriptors sit on the same Euclidean scale as a 0.5 tolerance.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:5005",
		Timeout:    30 * time.Second,
		Model:      "Dlib",
		Detector:   "retinaface",
		RetryCount: 3,
		RetryWait:  time.Second,
	}
}

const maxRetryWait = 30 * time.Second

// Client talks to the DeepFace REST API.
type Client struct {
	http   *http.Client
	config Config
}

func NewClient(config Config) *Client {
	if config.RetryWait <= 0 {
		config.RetryWait = time.Second
	}
	return &Client{
		http:   &http.Client{Timeout: config.Timeout},
		config: config,
	}
}

// Represent posts the image to /represent and returns every detected face
// with its embedding.
func (c *Client) Represent(ctx context.Context, imageDataURI string) (*RepresentResponse, error) {
	payload := RepresentRequest{
		Img:              imageDataURI,
		ModelName:        c.config.Model,
		DetectorBackend:  c.config.Detector,
		EnforceDetection: true,
		Align:            true,
	}

	var out RepresentResponse
	if err := c.call(ctx, http.MethodPost, "/represent", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping sends a single GET to the service root.
func (c *Client) Ping(ctx context.Context) error {
	return c.send(ctx, http.MethodGet, "/", nil, nil)
}

// retryWait is the pause before retry n, counting from 1.
func (c *Client) retryWait(n int) time.Duration {
	wait := c.config.RetryWait
	for i := 1; i < n; i++ {
		wait *= 2
		if wait >= maxRetryWait {
			return maxRetryWait
		}
	}
	return min(wait, maxRetryWait)
}

// call sends the request, retrying on transport failures and 5xx answers.
// 4xx answers and context errors end the loop immediately.
func (c *Client) call(ctx context.Context, method, path string, payload, out any) error {
	err := c.send(ctx, method, path, payload, out)
	for n := 1; err != nil && n <= c.config.RetryCount; n++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if isClientError(err) {
			return err
		}

		timer := time.NewTimer(c.retryWait(n))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		err = c.send(ctx, method, path, payload, out)
	}

	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case isClientError(err):
		return err
	}
	return fmt.Errorf("%w: %w", ErrDeepFaceUnavailable, err)
}

func (c *Client) send(ctx context.Context, method, path string, payload, out any) error {
	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return decodeResponse(resp, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func decodeResponse(resp *http.Response, out any) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
