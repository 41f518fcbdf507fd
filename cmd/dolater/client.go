package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kalambet/dolater/internal/api"
	"github.com/kalambet/dolater/internal/chat"
	"github.com/kalambet/dolater/internal/classify"
	"github.com/kalambet/dolater/internal/config"
	"github.com/kalambet/dolater/internal/content"
)

type saveResponse struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Item   content.Item `json:"item"`
}

type apiClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var newAPIClient = func() (*apiClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	token, err := config.GetAPIToken()
	if err != nil {
		return nil, fmt.Errorf("getting API token: %w", err)
	}

	return &apiClient{
		baseURL:    fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port),
		token:      token,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server not reachable, is `dolater serve` running? (%w)", err)
	}
	return resp, nil
}

func (c *apiClient) get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func decodeJSON(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("server returned %d (failed to read body: %w)", resp.StatusCode, err)
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}
	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// saveItem posts one item and returns the queued save.
func (c *apiClient) saveItem(ctx context.Context, it content.Item) (saveResponse, error) {
	var out saveResponse
	err := c.call(ctx, http.MethodPost, "/items", it, &out)
	return out, err
}

func (c *apiClient) listItems(ctx context.Context) ([]content.Item, error) {
	var items []content.Item
	err := c.call(ctx, http.MethodGet, "/items", nil, &items)
	return items, err
}

// search runs query with the non-empty filters in f.
func (c *apiClient) search(ctx context.Context, query string, f map[string]string) (api.SearchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	for k, v := range f {
		if v != "" {
			params.Set(k, v)
		}
	}
	var out api.SearchResponse
	err := c.call(ctx, http.MethodGet, "/search?"+params.Encode(), nil, &out)
	return out, err
}

func (c *apiClient) ask(ctx context.Context, message string) (chat.Message, error) {
	var msg chat.Message
	err := c.call(ctx, http.MethodPost, "/chat", api.ChatRequest{Message: message}, &msg)
	return msg, err
}

func (c *apiClient) analyze(ctx context.Context, req api.AnalyzeRequest) (classify.Result, error) {
	var r classify.Result
	err := c.call(ctx, http.MethodPost, "/analyze", req, &r)
	return r, err
}

// call sends one request and decodes the reply into v.
func (c *apiClient) call(ctx context.Context, method, path string, body, v any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	return decodeJSON(resp, v)
}
