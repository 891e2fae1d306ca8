// Package client talks to a task board server over HTTP.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"task-board/internal/model"
)

const dataPath = "/api/data"

// APIError is returned for any non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client is a thin wrapper over the two backend entry points. Requests are
// never retried.
type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if timeout > 0 {
		rc.SetTimeout(timeout)
	}
	return &Client{http: rc}
}

// Load fetches the whole document.
func (c *Client) Load(ctx context.Context) (model.Document, error) {
	var doc model.Document
	var apiErr errorBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&doc).
		SetError(&apiErr).
		Get(dataPath)
	if err != nil {
		return model.Document{}, fmt.Errorf("load document: %w", err)
	}
	if resp.IsError() {
		return model.Document{}, newAPIError(resp, apiErr)
	}
	doc.Normalize()
	return doc, nil
}

// Dispatch sends one action and returns the resulting document. payload is
// encoded as JSON.
func (c *Client) Dispatch(ctx context.Context, action model.Action, payload any) (model.Document, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return model.Document{}, fmt.Errorf("encode payload: %w", err)
	}

	var doc model.Document
	var apiErr errorBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(model.Request{Action: action, Payload: raw}).
		SetResult(&doc).
		SetError(&apiErr).
		Post(dataPath)
	if err != nil {
		return model.Document{}, fmt.Errorf("dispatch %s: %w", action, err)
	}
	if resp.IsError() {
		return model.Document{}, newAPIError(resp, apiErr)
	}
	doc.Normalize()
	return doc, nil
}

type errorBody struct {
	Error string `json:"error"`
}

func newAPIError(resp *resty.Response, body errorBody) *APIError {
	msg := body.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: msg}
}
