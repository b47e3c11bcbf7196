package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ruslanmv/medical-ai-hospital/internal/infra/config"
	"github.com/ruslanmv/medical-ai-hospital/internal/usecase"
)

// Client calls tools exposed by an upstream MCP server over HTTP.
type Client struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient constructs an MCP tool client from configuration.
func NewClient(cfg config.MCPSettings, log *zap.Logger) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		bearerToken: cfg.BearerToken,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		logger: log,
	}
}

type invokeRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// InvokeTool posts a tool invocation to the MCP server and decodes the JSON response.
func (c *Client) InvokeTool(ctx context.Context, tool string, args map[string]any) (map[string]any, error) {
	body, err := json.Marshal(invokeRequest{Tool: tool, Args: args})
	if err != nil {
		return nil, fmt.Errorf("marshal invoke request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invoke", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build invoke request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoke tool %q: %w", tool, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("mcp server returned error status",
			zap.String("tool", tool),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("invoke tool %q: status %d: %s", tool, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode tool response: %w", err)
	}

	return result, nil
}

var _ usecase.ToolInvoker = (*Client)(nil)
