// Package facematch calls the external face verification API that compares
// the face on an identity document with a selfie.
package facematch

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

// Matcher scores the similarity of the faces in two images, from 0 to 1
type Matcher interface {
	Compare(ctx context.Context, document, selfie []byte) (float64, error)
}

type compareRequest struct {
	Image1 string `json:"image1"`
	Image2 string `json:"image2"`
}

type compareResponse struct {
	Score   float64 `json:"score"`
	Message string  `json:"message,omitempty"`
}

// Client is a Matcher backed by an HTTP API
type Client struct {
	http    *fasthttp.Client
	url     string
	apiKey  string
	timeout time.Duration
}

func NewClient(url, apiKey string, timeout time.Duration) *Client {
	return &Client{
		http: &fasthttp.Client{
			Name:                "pension-verification",
			MaxIdleConnDuration: time.Minute,
		},
		url:     url,
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// Compare posts both images base64 encoded and returns the reported score.
// The context deadline, if earlier, replaces the configured timeout.
func (c *Client) Compare(ctx context.Context, document, selfie []byte) (float64, error) {
	body, err := json.Marshal(compareRequest{
		Image1: base64.StdEncoding.EncodeToString(document),
		Image2: base64.StdEncoding.EncodeToString(selfie),
	})
	if err != nil {
		return 0, fmt.Errorf("encoding face match request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.SetBody(body)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return 0, fmt.Errorf("calling face match api: %w", err)
	}

	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		return 0, fmt.Errorf("face match api returned status %d", status)
	}

	var out compareResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return 0, fmt.Errorf("decoding face match response: %w", err)
	}
	if out.Score < 0 || out.Score > 1 {
		return 0, fmt.Errorf("face match score %v out of range", out.Score)
	}

	return out.Score, nil
}
